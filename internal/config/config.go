// Package config holds the jello grid settings and their loaders.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"jello-lod/internal/lod"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config controls the simulation. ViewMode is presentation-only.
type Config struct {
	Res               int
	CellSize          float64
	Damping           float64
	WaveSpeed         float64
	StimulusMagnitude float64
	StimulusEnabled   bool
	ThrottleInterval  time.Duration
	ViewMode          ViewMode
	Tiers             lod.Table
	TPS               int
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		Res:               40,
		CellSize:          10,
		Damping:           0.93,
		WaveSpeed:         1,
		StimulusMagnitude: 15,
		StimulusEnabled:   true,
		ThrottleInterval:  100 * time.Millisecond,
		ViewMode:          ViewDefault,
		Tiers:             lod.DefaultTable(),
		TPS:               60,
	}
}

// Validate reports the first problem found.
func (c Config) Validate() error {
	switch {
	case c.Res <= 0:
		return fmt.Errorf("%w: res must be positive, got %d", ErrInvalid, c.Res)
	case !positive(c.CellSize):
		return fmt.Errorf("%w: cell size must be positive, got %v", ErrInvalid, c.CellSize)
	case !(c.Damping > 0 && c.Damping < 1):
		return fmt.Errorf("%w: damping must be in (0,1), got %v", ErrInvalid, c.Damping)
	case !positive(c.WaveSpeed):
		return fmt.Errorf("%w: wave speed must be positive, got %v", ErrInvalid, c.WaveSpeed)
	case math.IsNaN(c.StimulusMagnitude) || math.IsInf(c.StimulusMagnitude, 0):
		return fmt.Errorf("%w: stimulus magnitude must be finite", ErrInvalid)
	case c.ThrottleInterval < 0:
		return fmt.Errorf("%w: throttle interval must not be negative, got %v", ErrInvalid, c.ThrottleInterval)
	case c.TPS <= 0:
		return fmt.Errorf("%w: tps must be positive, got %d", ErrInvalid, c.TPS)
	case !c.ViewMode.valid():
		return fmt.Errorf("%w: unknown view mode %d", ErrInvalid, int(c.ViewMode))
	}
	if err := c.Tiers.Validate(); err != nil {
		return fmt.Errorf("%w: tiers: %w", ErrInvalid, err)
	}
	return nil
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 1) }
