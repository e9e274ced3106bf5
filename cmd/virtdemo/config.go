package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/ayn2op/virtview"
)

// Highest supported stream rate, in entries per second.
const maxStreamRate = 1000

var (
	errConfigFileRead = errors.New("cannot read config file")
	errConfigInvalid  = errors.New("invalid config")
)

// Config holds all demo options.
type Config struct {
	Items           int    `json:"items"`
	EstimatedHeight int    `json:"estimated_height"`
	Overscan        int    `json:"overscan"`
	Seed            uint64 `json:"seed"`
	Header          bool   `json:"header"`
	TrackEnd        bool   `json:"track_end"`
	// Items appended per second while running, 0 disables streaming.
	Stream   int    `json:"stream"`
	LogFile  string `json:"log_file"`
	LogLevel string `json:"log_level"`
}

// fileConfig mirrors Config with optional fields so a file only overrides
// what it sets.
type fileConfig struct {
	Items           *int    `json:"items"`
	EstimatedHeight *int    `json:"estimated_height"`
	Overscan        *int    `json:"overscan"`
	Seed            *uint64 `json:"seed"`
	Header          *bool   `json:"header"`
	TrackEnd        *bool   `json:"track_end"`
	Stream          *int    `json:"stream"`
	LogFile         *string `json:"log_file"`
	LogLevel        *string `json:"log_level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Items:           10_000,
		EstimatedHeight: virtview.DefaultEstimatedHeight,
		Overscan:        virtview.DefaultOverscan,
		Seed:            1,
		Header:          true,
		LogLevel:        "info",
	}
}

// loadConfigFile reads a JSONC config file and applies it on top of base.
func loadConfigFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", errConfigFileRead, path, err)
	}

	overlay, err := parseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	return mergeConfig(base, overlay), nil
}

func parseConfig(data []byte) (fileConfig, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg fileConfig

	decoder := json.NewDecoder(strings.NewReader(string(standardized)))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&cfg); err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func mergeConfig(base Config, overlay fileConfig) Config {
	if overlay.Items != nil {
		base.Items = *overlay.Items
	}
	if overlay.EstimatedHeight != nil {
		base.EstimatedHeight = *overlay.EstimatedHeight
	}
	if overlay.Overscan != nil {
		base.Overscan = *overlay.Overscan
	}
	if overlay.Seed != nil {
		base.Seed = *overlay.Seed
	}
	if overlay.Header != nil {
		base.Header = *overlay.Header
	}
	if overlay.TrackEnd != nil {
		base.TrackEnd = *overlay.TrackEnd
	}
	if overlay.Stream != nil {
		base.Stream = *overlay.Stream
	}
	if overlay.LogFile != nil {
		base.LogFile = *overlay.LogFile
	}
	if overlay.LogLevel != nil {
		base.LogLevel = *overlay.LogLevel
	}
	return base
}

func validateConfig(cfg Config) error {
	switch {
	case cfg.Items < 0:
		return fmt.Errorf("%w: items must not be negative", errConfigInvalid)
	case cfg.EstimatedHeight < 1:
		return fmt.Errorf("%w: estimated_height must be at least 1", errConfigInvalid)
	case cfg.Overscan < 0:
		return fmt.Errorf("%w: overscan must not be negative", errConfigInvalid)
	case cfg.Stream < 0 || cfg.Stream > maxStreamRate:
		return fmt.Errorf("%w: stream must be between 0 and %d", errConfigInvalid, maxStreamRate)
	}

	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", errConfigInvalid, err)
	}

	return nil
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
