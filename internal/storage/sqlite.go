// Package storage records finished games in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jaminalder/connect-four/internal/app"
	"github.com/jaminalder/connect-four/internal/domain"
)

// Store manages the SQLite database connection for match results.
type Store struct {
	db *sql.DB
}

// Match is a stored finished game.
type Match struct {
	ID      int64
	GameID  string
	Player1 string
	Color1  string
	Player2 string
	Color2  string
	Winner  int // 0 for a draw
	Outcome string
	Height  int
	Width   int
	Moves   int
	Started time.Time
	Ended   time.Time
}

// WinnerName returns the winning player's name, or "" for a draw.
func (m Match) WinnerName() string {
	switch m.Winner {
	case 1:
		return m.Player1
	case 2:
		return m.Player2
	default:
		return ""
	}
}

// WinCount is a leaderboard row.
type WinCount struct {
	Name string
	Wins int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
// The special path ":memory:" opens a private in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		// Expand ~ to home directory
		if dbPath != "" && dbPath[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
			}
			dbPath = filepath.Join(home, dbPath[1:])
		}

		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// An in-memory database lives only as long as its connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL UNIQUE,
			player1 TEXT NOT NULL,
			color1 TEXT NOT NULL DEFAULT '',
			player2 TEXT NOT NULL,
			color2 TEXT NOT NULL DEFAULT '',
			winner INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			height INTEGER NOT NULL,
			width INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			started_at INTEGER NOT NULL,
			ended_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_matches_ended ON matches(ended_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a finished game. Recording the same game twice is a no-op.
func (s *Store) Record(ctx context.Context, r app.Result) error {
	if r.Outcome != domain.Win && r.Outcome != domain.Draw {
		return fmt.Errorf("storage: game %s is not finished (%v)", r.GameID, r.Outcome)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO matches
		 (game_id, player1, color1, player2, color2, winner, outcome, height, width, moves, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(game_id) DO NOTHING`,
		r.GameID,
		r.Players[0].Name, r.Players[0].Color,
		r.Players[1].Name, r.Players[1].Color,
		int(r.Winner),
		r.Outcome.String(),
		r.Height, r.Width, r.Moves,
		r.Started.UnixMilli(), r.Ended.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record game %s: %w", r.GameID, err)
	}
	return nil
}

// Recent returns the most recently finished games, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, game_id, player1, color1, player2, color2, winner, outcome,
		        height, width, moves, started_at, ended_at
		 FROM matches
		 ORDER BY ended_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		var started, ended int64
		if err := rows.Scan(&m.ID, &m.GameID, &m.Player1, &m.Color1, &m.Player2, &m.Color2,
			&m.Winner, &m.Outcome, &m.Height, &m.Width, &m.Moves, &started, &ended); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		m.Started = time.UnixMilli(started)
		m.Ended = time.UnixMilli(ended)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// Tally counts wins per player name, most wins first. Draws are not counted.
func (s *Store) Tally(ctx context.Context) ([]WinCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, COUNT(*) AS wins FROM (
			SELECT CASE winner WHEN 1 THEN player1 ELSE player2 END AS name
			FROM matches
			WHERE winner IN (1, 2)
		)
		GROUP BY name
		ORDER BY wins DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query tally: %w", err)
	}
	defer rows.Close()

	var out []WinCount
	for rows.Next() {
		var w WinCount
		if err := rows.Scan(&w.Name, &w.Wins); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}
