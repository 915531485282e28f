package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaminalder/connect-four/internal/app"
	"github.com/jaminalder/connect-four/internal/web"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start an HTTP server for hot-seat play. Open the address in a browser,
enter both players' names and colours, and take turns clicking columns.

Examples:
  connect4 serve
  connect4 serve --addr :3000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.Server.Addr = flagAddr
	}
	logger := newLogger(cfg)

	opts := []app.Option{
		app.WithLogger(logger),
		app.WithDimensions(cfg.Board.Height, cfg.Board.Width),
	}
	if store := openStore(cfg, logger); store != nil {
		defer store.Close()
		opts = append(opts, app.WithRecorder(store))
	}
	svc := app.NewService(opts...)

	handler := web.NewServer(svc,
		web.WithLogger(logger),
		web.WithHeartbeat(cfg.Server.Heartbeat),
		web.WithSeats(
			web.Seat{Name: cfg.Players[0].Name, Color: cfg.Players[0].Color},
			web.Seat{Name: cfg.Players[1].Name, Color: cfg.Players[1].Color},
		),
	)
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: handler}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "board", cfg.Board)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
