// Package config loads charsheet.toml and applies CHARSHEET_* environment
// overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"

	"charsheet/pkg/calibrate"
	"charsheet/pkg/store"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "CHARSHEET_"

type Config struct {
	Store    store.Config `toml:"store" envPrefix:"STORE_"`
	Viewport Viewport     `toml:"viewport" envPrefix:"VIEWPORT_"`
	LogLevel string       `toml:"log_level" env:"LOG_LEVEL"`
	FontPath string       `toml:"font" env:"FONT"`

	// Tabs holds explicit tab models keyed by container id. A configured
	// model is never replaced by calibration.
	Tabs map[string]calibrate.Model `toml:"tabs"`
}

type Viewport struct {
	Width  int `toml:"width" env:"WIDTH"`
	Height int `toml:"height" env:"HEIGHT"`
}

func Default() Config {
	return Config{
		Store:    store.Config{Driver: "memory", Namespace: store.DefaultNamespace},
		Viewport: Viewport{Width: 800, Height: 1000},
		LogLevel: "info",
	}
}

// Load reads path (a missing file is not an error) and then the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv applies CHARSHEET_* variables to target.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Level returns the configured log level, defaulting to info.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Write encodes c as TOML to path.
func (c Config) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
