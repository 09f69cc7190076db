// Package daemon manages the Mindscape daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Breaks    BreaksConfig    `toml:"breaks"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// BreaksConfig tunes break behavior.
type BreaksConfig struct {
	// Seed fixes the daily rotation shuffle. Zero means time-seeded.
	Seed int64 `toml:"seed"`
	// MaxDaily caps counted breaks per day. Zero means the built-in default.
	MaxDaily int `toml:"max_daily"`
}

// TelemetryConfig controls metrics exposure.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := mindscapeHome()
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 7433,
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "mindscape.log"),
		},
	}
}

// LoadConfig reads config from ~/.mindscape/config.toml, falling back to
// defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(mindscapeHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.mindscape/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(mindscapeHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// mindscapeHome returns the Mindscape data directory.
func mindscapeHome() string {
	if env := os.Getenv("MINDSCAPE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mindscape")
}

// MindscapeHome is exported for use by other packages.
func MindscapeHome() string {
	return mindscapeHome()
}
