// Package config provides YAML-based configuration loading for the
// connect4 server and terminal game.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/jaminalder/connect-four/internal/domain"
)

//go:embed defaults/connect4.yaml
var defaultYAML []byte

// Config is the full application configuration.
type Config struct {
	Server  Server  `yaml:"server"`
	Board   Board   `yaml:"board"`
	Players []Seat  `yaml:"players"`
	Storage Storage `yaml:"storage"`
	Log     Log     `yaml:"log"`
}

// Server configures the HTTP front end.
type Server struct {
	Addr      string        `yaml:"addr"`
	Heartbeat time.Duration `yaml:"heartbeat"`
}

// Board sets the size of new games.
type Board struct {
	Height int `yaml:"height"`
	Width  int `yaml:"width"`
}

// Seat is the fallback name and colour for one player slot.
type Seat struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// Storage configures result persistence. An empty path disables it.
type Storage struct {
	Path string `yaml:"path"`
}

// Log configures the logger.
type Log struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:  Server{Addr: ":8080", Heartbeat: 15 * time.Second},
		Board:   Board{Height: domain.DefaultHeight, Width: domain.DefaultWidth},
		Players: []Seat{{Name: "P1", Color: "red"}, {Name: "P2", Color: "gold"}},
		Storage: Storage{Path: "~/.connect4/results.db"},
		Log:     Log{Level: "info"},
	}
}

// Load loads the configuration.
// Search order: customPath -> ~/.connect4/config.yaml -> ./configs/connect4.yaml -> embedded default
func Load(customPath string) (Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{userConfigPath("config.yaml"), "configs/connect4.yaml"} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		return cfg, nil
	}

	cfg, err := parse(defaultYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parse decodes data over the defaults so omitted keys keep their default
// values, then validates the result.
func parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	cfg.fillSeats()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// fillSeats names blank seats "P1" and "P2" and gives blank colours the
// default colour of their slot.
func (c *Config) fillSeats() {
	defaults := Default().Players
	for i := range c.Players {
		if c.Players[i].Name == "" {
			c.Players[i].Name = fmt.Sprintf("P%d", i+1)
		}
		if c.Players[i].Color == "" && i < len(defaults) {
			c.Players[i].Color = defaults[i].Color
		}
	}
}

// Validate checks values that would otherwise fail later at game creation.
func (c Config) Validate() error {
	if c.Board.Height < domain.WinLength || c.Board.Width < domain.WinLength {
		return fmt.Errorf("board %dx%d: %w", c.Board.Height, c.Board.Width, domain.ErrInvalidDimensions)
	}
	if len(c.Players) != 2 {
		return errors.New("exactly two players must be configured")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() (log.Level, error) {
	return log.ParseLevel(c.Log.Level)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".connect4", filename)
}
