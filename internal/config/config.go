// Package config loads lockdiary settings from the environment, an optional
// .env file in the working directory, and command flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/illarion/lockdiary/internal/crypto"
)

// DefaultVaultName is the vault file created in the home directory
const DefaultVaultName = ".lockdiary"

var ErrInvalidIterations = errors.New("iterations out of range")

type Config struct {
	Path       string `env:"LOCKDIARY_PATH"`
	Iterations int    `env:"LOCKDIARY_ITERATIONS" envDefault:"150000"`
	LogLevel   string `env:"LOCKDIARY_LOG_LEVEL" envDefault:"warn"`
	// Password is read by non-interactive callers. Never logged.
	Password  string `env:"LOCKDIARY_PASSWORD"`
	NoKeyring bool   `env:"LOCKDIARY_NO_KEYRING"`
}

// Load reads .env (if present) and the environment, then fills defaults
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RegisterFlags adds the shared flags to fs with the loaded values as
// defaults, so flags override the environment
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Path, "vault", c.Path, "path to the vault file")
	fs.IntVar(&c.Iterations, "iterations", c.Iterations, "PBKDF2 iterations for new vaults")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&c.NoKeyring, "no-keyring", c.NoKeyring, "do not read or offer the OS keyring")
}

// Validate re-checks values after flags were parsed
func (c *Config) Validate() error {
	return c.finish()
}

func (c *Config) finish() error {
	if c.Iterations < 1 || c.Iterations > crypto.MaxIterations {
		return fmt.Errorf("%w: %d (allowed 1..%d)", ErrInvalidIterations, c.Iterations, crypto.MaxIterations)
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}

	path, err := expandPath(c.Path)
	if err != nil {
		return err
	}
	c.Path = path
	return nil
}

func expandPath(path string) (string, error) {
	if path != "" && path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	switch {
	case path == "":
		return filepath.Join(home, DefaultVaultName), nil
	case path == "~":
		return home, nil
	default:
		return filepath.Join(home, path[2:]), nil
	}
}
