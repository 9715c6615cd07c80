// Package config loads autosplitter settings from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"cosmicsplit/splitter"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime settings of the autosplitter
type Config struct {
	Executable     string        `env:"COSMICSPLIT_EXECUTABLE" envDefault:"CosmicShake-Win64-Shipping.exe"`
	ResetOnNewGame bool          `env:"COSMICSPLIT_RESET_ON_NEW_GAME" envDefault:"true"`
	PollInterval   time.Duration `env:"COSMICSPLIT_POLL_INTERVAL" envDefault:"8ms"`

	LiveSplitAddr        string        `env:"COSMICSPLIT_LIVESPLIT_ADDR" envDefault:"localhost:16834"`
	LiveSplitDialTimeout time.Duration `env:"COSMICSPLIT_LIVESPLIT_DIAL_TIMEOUT" envDefault:"1s"`
}

var _ splitter.SettingsSource = Config{}

// Load parses Config from the environment
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval <= 0 {
		return Config{}, fmt.Errorf("parse env: COSMICSPLIT_POLL_INTERVAL must be positive, got %v", cfg.PollInterval)
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Settings exposes the user facing toggles to the splitter
func (c Config) Settings() splitter.Settings {
	return splitter.Settings{ResetOnNewGame: c.ResetOnNewGame}
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
