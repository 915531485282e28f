package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jaminalder/connect-four/internal/storage"
)

var flagLimit int

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show recent results and win counts",
	Long: `Show the most recent finished games and how many games each player has won.

Examples:
  connect4 results
  connect4 results --limit 25`,
	Args: cobra.NoArgs,
	RunE: runResults,
}

var headingStyle = lipgloss.NewStyle().Bold(true)

func init() {
	resultsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of recent games to show")
}

func runResults(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Storage.Path == "" {
		return errors.New("no results database configured")
	}
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	matches, err := store.Recent(ctx, flagLimit)
	if err != nil {
		return err
	}
	tally, err := store.Tally(ctx)
	if err != nil {
		return err
	}
	printResults(os.Stdout, matches, tally)
	return nil
}

func printResults(w io.Writer, matches []storage.Match, tally []storage.WinCount) {
	fmt.Fprintln(w, headingStyle.Render("Recent games"))
	if len(matches) == 0 {
		fmt.Fprintln(w, "  none yet")
	}
	for _, m := range matches {
		result := "draw"
		if name := m.WinnerName(); name != "" {
			result = name + " won"
		}
		fmt.Fprintf(w, "  %s  %s vs %s  %dx%d  %d moves  %s\n",
			m.Ended.Local().Format("2006-01-02 15:04"),
			m.Player1, m.Player2, m.Height, m.Width, m.Moves, result)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Wins"))
	if len(tally) == 0 {
		fmt.Fprintln(w, "  none yet")
	}
	for _, c := range tally {
		fmt.Fprintf(w, "  %-16s %d\n", c.Name, c.Wins)
	}
}
