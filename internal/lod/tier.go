// Package lod maps distances from the focus to resolution tiers.
package lod

import (
	"errors"
	"fmt"
	"math"
)

// Unbounded marks a tier whose range has no upper limit.
var Unbounded = math.Inf(1)

var (
	ErrEmptyTable    = errors.New("lod: tier table is empty")
	ErrInvalidRange  = errors.New("lod: invalid distance range")
	ErrInvalidStep   = errors.New("lod: step must be a positive integer")
	ErrInvalidDetail = errors.New("lod: detail must be finite and non-negative")
)

// Tier is one level of detail. A step of N means one cell covers an N×N block
// of the finest grid. Ranges are inclusive on both ends and may overlap.
type Tier struct {
	MinDistance float64
	MaxDistance float64
	Step        int
	Detail      float64
	Animate     bool
}

// Bounded reports whether the tier has a finite upper distance.
func (t Tier) Bounded() bool { return !math.IsInf(t.MaxDistance, 1) }

// Contains reports whether d lies within [MinDistance, MaxDistance].
func (t Tier) Contains(d float64) bool {
	return d >= t.MinDistance && d <= t.MaxDistance
}

// Aligned reports whether (x, z) sits on this tier's block grid.
func (t Tier) Aligned(x, z int) bool {
	return x%t.Step == 0 && z%t.Step == 0
}

// AlignUp rounds a coordinate up to the next multiple of the tier step.
func (t Tier) AlignUp(v int) int {
	if v <= 0 {
		return v - v%t.Step
	}
	return ((v + t.Step - 1) / t.Step) * t.Step
}

func (t Tier) String() string {
	if t.Bounded() {
		return fmt.Sprintf("step %d [%g,%g]", t.Step, t.MinDistance, t.MaxDistance)
	}
	return fmt.Sprintf("step %d [%g,inf)", t.Step, t.MinDistance)
}

// Validate checks a single tier.
func (t Tier) Validate() error {
	if t.Step <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidStep, t.Step)
	}
	if math.IsNaN(t.MinDistance) || math.IsNaN(t.MaxDistance) || math.IsInf(t.MinDistance, 0) {
		return fmt.Errorf("%w: non-numeric bounds", ErrInvalidRange)
	}
	if t.MinDistance < 0 {
		return fmt.Errorf("%w: min %g is negative", ErrInvalidRange, t.MinDistance)
	}
	if t.MinDistance > t.MaxDistance {
		return fmt.Errorf("%w: min %g > max %g", ErrInvalidRange, t.MinDistance, t.MaxDistance)
	}
	if math.IsNaN(t.Detail) || math.IsInf(t.Detail, 0) || t.Detail < 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidDetail, t.Detail)
	}
	return nil
}
