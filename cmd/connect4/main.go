// connect4 serves and plays two-player Connect Four.
//
// Usage:
//
//	connect4 serve             - Start the web server for hot-seat play in a browser
//	connect4 play              - Play in the terminal
//	connect4 results           - Show recent results and win counts
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.connect4/config.yaml)
//	--db <path>         - Results database; "" disables recording
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jaminalder/connect-four/internal/config"
	"github.com/jaminalder/connect-four/internal/storage"
)

var (
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "connect4",
	Short: "Two-player Connect Four",
	Long: `connect4 runs two-player Connect Four, either as a small web server
where both players share one browser, or directly in the terminal.

Examples:
  connect4 serve --addr :8080
  connect4 play --p1 Ann --p2 Ben
  connect4 results --limit 20`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(resultsCmd)
}

// loadConfig reads the config file and applies global flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("db") {
		cfg.Storage.Path = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "connect4",
	})
	if lvl, err := cfg.Level(); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// openStore opens the results database, or returns nil when recording is
// disabled or the database is unavailable.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	if cfg.Storage.Path == "" {
		return nil
	}
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logger.Warn("could not open results database", "path", cfg.Storage.Path, "error", err)
		return nil
	}
	return store
}
