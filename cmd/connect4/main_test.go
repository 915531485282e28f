package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/connect-four/internal/storage"
)

func TestPrintResults(t *testing.T) {
	ended := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	matches := []storage.Match{
		{Player1: "Ann", Player2: "Ben", Winner: 2, Height: 6, Width: 7, Moves: 12, Ended: ended},
		{Player1: "Ann", Player2: "Ben", Winner: 0, Height: 4, Width: 4, Moves: 16, Ended: ended},
	}
	tally := []storage.WinCount{{Name: "Ben", Wins: 3}}

	var buf bytes.Buffer
	printResults(&buf, matches, tally)
	out := buf.String()

	stamp := ended.Local().Format("2006-01-02 15:04")
	require.Contains(t, out, "Recent games")
	require.Contains(t, out, stamp+"  Ann vs Ben  6x7  12 moves  Ben won\n")
	require.Contains(t, out, stamp+"  Ann vs Ben  4x4  16 moves  draw\n")
	require.Contains(t, out, "Wins")
	require.Contains(t, out, "  Ben              3\n")
	require.NotContains(t, out, "none yet")
}

func TestPrintResultsEmpty(t *testing.T) {
	var buf bytes.Buffer
	printResults(&buf, nil, nil)
	require.Equal(t, 2, strings.Count(buf.String(), "none yet"))
}

func TestLoadConfigAppliesFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c4.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  path: /tmp/c4.db\nlog:\n  level: warn\n"), 0o644))

	oldConfig, oldDB, oldLevel := flagConfig, flagDBPath, flagLogLevel
	t.Cleanup(func() { flagConfig, flagDBPath, flagLogLevel = oldConfig, oldDB, oldLevel })
	flagConfig, flagDBPath, flagLogLevel = path, "", ""

	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&flagDBPath, "db", "", "")

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	require.Equal(t, "/tmp/c4.db", cfg.Storage.Path)
	require.Equal(t, "warn", cfg.Log.Level)

	// An explicit empty --db disables recording.
	require.NoError(t, cmd.Flags().Set("db", ""))
	flagLogLevel = "debug"
	cfg, err = loadConfig(cmd)
	require.NoError(t, err)
	require.Empty(t, cfg.Storage.Path)
	require.Equal(t, "debug", cfg.Log.Level)

	flagLogLevel = "loud"
	_, err = loadConfig(cmd)
	require.Error(t, err)
}
