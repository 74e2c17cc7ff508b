package lod

import "fmt"

// Table is an ordered list of tiers. Order matters: the first tier whose range
// contains a distance is the primary tier for that distance.
type Table []Tier

// DefaultTable returns the four-tier layout used by the jello grid.
func DefaultTable() Table {
	return Table{
		{MinDistance: 0, MaxDistance: 25, Step: 1, Detail: 1, Animate: true},
		{MinDistance: 20, MaxDistance: 55, Step: 2, Detail: 1, Animate: true},
		{MinDistance: 50, MaxDistance: 75, Step: 4, Detail: 1, Animate: true},
		{MinDistance: 70, MaxDistance: Unbounded, Step: 8, Detail: 1, Animate: true},
	}
}

// Validate rejects empty tables and malformed tiers. Overlapping ranges are
// allowed.
func (t Table) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTable
	}
	for i, tier := range t {
		if err := tier.Validate(); err != nil {
			return fmt.Errorf("tier %d: %w", i, err)
		}
	}
	return nil
}

// Primary returns the first tier containing d. ok is false when no tier
// applies, which callers treat as the removal signal.
func (t Table) Primary(d float64) (tier Tier, ok bool) {
	for _, candidate := range t {
		if candidate.Contains(d) {
			return candidate, true
		}
	}
	return Tier{}, false
}

// Applicable returns every tier containing d, in table order.
func (t Table) Applicable(d float64) []Tier {
	var out []Tier
	for _, candidate := range t {
		if candidate.Contains(d) {
			out = append(out, candidate)
		}
	}
	return out
}

// Applies reports whether a tier with the given step contains d.
func (t Table) Applies(step int, d float64) bool {
	for _, candidate := range t {
		if candidate.Step == step && candidate.Contains(d) {
			return true
		}
	}
	return false
}

// MaxFiniteDistance returns the largest bounded MaxDistance. ok is false when
// every tier is unbounded.
func (t Table) MaxFiniteDistance() (max float64, ok bool) {
	for _, tier := range t {
		if !tier.Bounded() {
			continue
		}
		if !ok || tier.MaxDistance > max {
			max = tier.MaxDistance
			ok = true
		}
	}
	return max, ok
}

// HasUnbounded reports whether any tier extends to infinity.
func (t Table) HasUnbounded() bool {
	for _, tier := range t {
		if !tier.Bounded() {
			return true
		}
	}
	return false
}

// Steps lists the distinct steps in table order.
func (t Table) Steps() []int {
	seen := map[int]bool{}
	var out []int
	for _, tier := range t {
		if seen[tier.Step] {
			continue
		}
		seen[tier.Step] = true
		out = append(out, tier.Step)
	}
	return out
}

// Clone returns an independent copy of the table.
func (t Table) Clone() Table {
	return append(Table(nil), t...)
}
