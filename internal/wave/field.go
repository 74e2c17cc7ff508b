// Package wave advances the damped height field that drives cell elevation.
package wave

import (
	"math"

	"jello-lod/internal/core"
)

// Field stores the three buffers required by the damped integrator. Index is
// x + z·res. The buffers are always res² long.
type Field struct {
	grid core.Square
	curr []float64
	prev []float64
	next []float64

	damping   float64
	waveSpeed float64
}

// New allocates a Field with zeroed buffers.
func New(res int, damping, waveSpeed float64) *Field {
	f := &Field{damping: damping, waveSpeed: waveSpeed}
	f.Reset(res)
	return f
}

// Reset reallocates every buffer for a new resolution. Old slices are dropped,
// never resized in place.
func (f *Field) Reset(res int) {
	f.grid = core.NewSquare(res)
	n := f.grid.Len()
	f.curr = make([]float64, n)
	f.prev = make([]float64, n)
	f.next = make([]float64, n)
}

// Res returns the side length of the field.
func (f *Field) Res() int { return f.grid.Res }

// Len returns the buffer length (res²).
func (f *Field) Len() int { return len(f.curr) }

// Heights exposes the current buffer. Callers must not retain it across Step.
func (f *Field) Heights() []float64 { return f.curr }

// Previous exposes the previous buffer.
func (f *Field) Previous() []float64 { return f.prev }

// Damping returns the per-step damping factor.
func (f *Field) Damping() float64 { return f.damping }

// WaveSpeed returns the propagation coefficient.
func (f *Field) WaveSpeed() float64 { return f.waveSpeed }

// SetDamping changes the damping factor used by subsequent steps.
func (f *Field) SetDamping(d float64) { f.damping = d }

// SetWaveSpeed changes the propagation coefficient used by subsequent steps.
func (f *Field) SetWaveSpeed(s float64) { f.waveSpeed = s }

// At returns the current height at (x, z). ok is false outside the grid.
func (f *Field) At(x, z int) (float64, bool) {
	if !f.grid.InBounds(x, z) {
		return 0, false
	}
	return f.curr[f.grid.Index(x, z)], true
}

// Set overwrites the current height at (x, z). Out-of-range writes are ignored.
func (f *Field) Set(x, z int, v float64) {
	if !f.grid.InBounds(x, z) {
		return
	}
	f.curr[f.grid.Index(x, z)] = v
}

// Velocity returns current − previous at (x, z).
func (f *Field) Velocity(x, z int) (float64, bool) {
	if !f.grid.InBounds(x, z) {
		return 0, false
	}
	i := f.grid.Index(x, z)
	return f.curr[i] - f.prev[i], true
}

// Gradient returns the central-difference slope (∂h/∂x, ∂h/∂z) at (x, z).
// One-sided differences are used on the border.
func (f *Field) Gradient(x, z int) (gx, gz float64, ok bool) {
	if !f.grid.InBounds(x, z) {
		return 0, 0, false
	}
	gx = f.slope(x, z, 1, 0)
	gz = f.slope(x, z, 0, 1)
	return gx, gz, true
}

func (f *Field) slope(x, z, dx, dz int) float64 {
	c := f.curr[f.grid.Index(x, z)]
	lo, hi := c, c
	span := 0.0
	if f.grid.InBounds(x-dx, z-dz) {
		lo = f.curr[f.grid.Index(x-dx, z-dz)]
		span++
	}
	if f.grid.InBounds(x+dx, z+dz) {
		hi = f.curr[f.grid.Index(x+dx, z+dz)]
		span++
	}
	if span == 0 {
		return 0
	}
	return (hi - lo) / span
}

// Step advances the field by one tick. Every next value is computed from the
// frozen current/previous buffers before the rotation.
func (f *Field) Step() {
	res := f.grid.Res
	last := res - 1
	speed2 := f.waveSpeed * f.waveSpeed
	damp := f.damping
	curr, prev, next := f.curr, f.prev, f.next

	for z := 0; z < res; z++ {
		row := z * res
		for x := 0; x < res; x++ {
			i := row + x
			var sum float64
			count := 0
			if x > 0 {
				sum += curr[i-1]
				count++
			}
			if x < last {
				sum += curr[i+1]
				count++
			}
			if z > 0 {
				sum += curr[i-res]
				count++
			}
			if z < last {
				sum += curr[i+res]
				count++
			}
			c := curr[i]
			if count == 0 {
				next[i] = c * damp
				continue
			}
			accel := (sum/float64(count) - c) * speed2
			vel := (c - prev[i]) * damp
			next[i] = (c + vel + accel) * damp
		}
	}

	f.prev, f.curr, f.next = f.curr, f.next, f.prev
}

// Stats summarises the amplitude of the current buffer.
type Stats struct {
	MaxAbs float64 `json:"max_abs"`
	Energy float64 `json:"energy"`
}

// Stats reports the peak absolute height and the sum of squared heights.
func (f *Field) Stats() Stats {
	var s Stats
	for _, v := range f.curr {
		if a := math.Abs(v); a > s.MaxAbs {
			s.MaxAbs = a
		}
		s.Energy += v * v
	}
	return s
}
