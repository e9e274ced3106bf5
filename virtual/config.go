package virtual

import (
	"errors"
	"fmt"
	"log/slog"
)

const (
	// DefaultEstimatedItemExtent is the extent assumed for unmeasured items.
	DefaultEstimatedItemExtent = 280
	// DefaultOverscan is the number of estimated extents rendered beyond each
	// edge of the viewport.
	DefaultOverscan = 4
)

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config configures an Orchestrator.
type Config struct {
	// EstimatedItemExtent is used for items that have not been measured yet.
	// Must be positive and finite.
	EstimatedItemExtent float64

	// Overscan is the margin rendered before and after the viewport,
	// expressed as a multiple of EstimatedItemExtent. Must not be negative.
	Overscan int

	// StrictKeys panics when two distinct items resolve to the same key.
	// Otherwise duplicates are logged and the later measurement wins.
	StrictKeys bool

	// PruneStaleSizes drops cached sizes for keys that are no longer part of
	// the collection whenever the items are replaced.
	PruneStaleSizes bool

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		EstimatedItemExtent: DefaultEstimatedItemExtent,
		Overscan:            DefaultOverscan,
	}
}

// Validate reports whether the config can be used.
func (c Config) Validate() error {
	if !ValidExtent(c.EstimatedItemExtent) {
		return fmt.Errorf("%w: estimated item extent must be positive and finite, got %v", ErrInvalidConfig, c.EstimatedItemExtent)
	}
	if c.Overscan < 0 {
		return fmt.Errorf("%w: overscan must not be negative, got %d", ErrInvalidConfig, c.Overscan)
	}
	return nil
}

// OverscanExtent returns the margin added on each side of the viewport.
func (c Config) OverscanExtent() float64 {
	return float64(c.Overscan) * c.EstimatedItemExtent
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
