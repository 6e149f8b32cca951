// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvSaveDir  = "SKIRMISH_SAVE_DIR"
	EnvDistance = "SKIRMISH_DISTANCE"
	EnvMaxX     = "SKIRMISH_MAX_X"
	EnvMaxY     = "SKIRMISH_MAX_Y"
	EnvLogLevel = "SKIRMISH_LOG_LEVEL"
	EnvFeedAddr = "SKIRMISH_FEED_ADDR"
)

// Defaults.
const (
	DefaultDistance = 50.0
	DefaultMax      = 500
	DefaultLogLevel = "info"
)

// Config holds every setting the command line can also override.
type Config struct {
	SaveDir  string
	Distance float64
	MaxX     uint64
	MaxY     uint64
	LogLevel slog.Level
	FeedAddr string // empty disables the websocket feed
}

// Load reads files (default ".env") into the environment without
// overriding variables already set, then builds a Config. Missing files are
// not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment.
func FromEnv() (Config, error) {
	var cfg Config
	var err error

	cfg.SaveDir = GetEnvDefault(EnvSaveDir, defaultSaveDir())

	if cfg.Distance, err = parseFloat(EnvDistance, DefaultDistance); err != nil {
		return Config{}, err
	}
	if cfg.Distance < 0 {
		return Config{}, fmt.Errorf("%s must not be negative", EnvDistance)
	}
	if cfg.MaxX, err = parseUint(EnvMaxX, DefaultMax); err != nil {
		return Config{}, err
	}
	if cfg.MaxY, err = parseUint(EnvMaxY, DefaultMax); err != nil {
		return Config{}, err
	}
	if cfg.LogLevel, err = ParseLevel(GetEnvDefault(EnvLogLevel, DefaultLogLevel)); err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	cfg.FeedAddr = os.Getenv(EnvFeedAddr)
	return cfg, nil
}

// GetEnvDefault returns the variable's value, or def if unset or blank.
func GetEnvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// ParseLevel accepts debug, info, warn and error, in any case.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

func defaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".skirmish", "rosters")
	}
	return filepath.Join(home, ".skirmish", "rosters")
}

func parseFloat(key string, def float64) (float64, error) {
	v := GetEnvDefault(key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func parseUint(key string, def uint64) (uint64, error) {
	v := GetEnvDefault(key, "")
	if v == "" {
		return def, nil
	}
	u, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return u, nil
}
