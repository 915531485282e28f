package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jaminalder/connect-four/internal/app"
	"github.com/jaminalder/connect-four/internal/domain"
	"github.com/jaminalder/connect-four/internal/term"
)

var (
	flagHeight int
	flagWidth  int
	flagP1     string
	flagP2     string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game in the terminal",
	Long: `Play hot-seat Connect Four in the terminal. Players take turns typing a
column number; "q" leaves the game.

Examples:
  connect4 play
  connect4 play --p1 Ann --p2 Ben
  connect4 play --height 8 --width 9`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagHeight, "height", 0, "Board height (overrides config)")
	playCmd.Flags().IntVar(&flagWidth, "width", 0, "Board width (overrides config)")
	playCmd.Flags().StringVar(&flagP1, "p1", "", "First player's name")
	playCmd.Flags().StringVar(&flagP2, "p2", "", "Second player's name")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	height, width := cfg.Board.Height, cfg.Board.Width
	if flagHeight > 0 {
		height = flagHeight
	}
	if flagWidth > 0 {
		width = flagWidth
	}

	players := [2]domain.Player{
		{Name: cfg.Players[0].Name, Color: cfg.Players[0].Color, Number: domain.P1},
		{Name: cfg.Players[1].Name, Color: cfg.Players[1].Color, Number: domain.P2},
	}
	if flagP1 != "" {
		players[0].Name = flagP1
	}
	if flagP2 != "" {
		players[1].Name = flagP2
	}

	g, err := domain.New(height, width, players)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	started := time.Now()
	res, err := term.NewSession(os.Stdin, os.Stdout, g).Run(ctx)
	switch {
	case errors.Is(err, term.ErrQuit), errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stdout, "Bye.")
		return nil
	case err != nil:
		return err
	}
	if !res.Terminal() {
		return nil
	}

	store := openStore(cfg, logger)
	if store == nil {
		return nil
	}
	defer store.Close()

	result := app.NewResult(uuid.NewString(), g, started, time.Now())
	if err := store.Record(context.Background(), result); err != nil {
		logger.Warn("could not record result", "error", err)
	}
	return nil
}
