// Package config reads the rarextract command defaults from the environment.
// Nothing is read from or saved to a file.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the command defaults that can be set with environment variables.
// Command line flags take precedence over these values.
type Config struct {
	LogLevel  string `env:"RAREXTRACT_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"RAREXTRACT_LOG_FORMAT" envDefault:"auto"`
	LockDir   string `env:"RAREXTRACT_LOCK_DIR"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("config environment %w", err)
	}
	return c, nil
}
