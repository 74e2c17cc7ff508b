// Package topology keeps the set of active grid cells in step with the focus.
package topology

import (
	"slices"

	"jello-lod/internal/geometry"
	"jello-lod/internal/lod"
)

// MaterialSlots is the number of per-cell colour slots cycled by coordinate.
const MaterialSlots = 6

// Cell is one active primary cell. The record is owned by Grid and must be
// treated as read-only by callers.
type Cell struct {
	ID       uint64
	X, Z     int
	Tier     lod.Tier
	Geometry geometry.Key
	Box      *geometry.Box
	BaseY    float64
	Material int
}

// Step returns the cell's tier step.
func (c *Cell) Step() int { return c.Tier.Step }

type cellKey struct {
	x, z, step int
}

func keyOf(c *Cell) cellKey { return cellKey{x: c.X, z: c.Z, step: c.Tier.Step} }

// Update describes an in-place tier change.
type Update struct {
	Cell Cell
	From lod.Tier
}

// Delta lists the changes applied by one Build or Reconcile call, in apply
// order: removals, then updates, then creations.
type Delta struct {
	Removed []Cell
	Updated []Update
	Created []Cell
}

// Empty reports whether the pass changed nothing.
func (d Delta) Empty() bool {
	return len(d.Removed) == 0 && len(d.Updated) == 0 && len(d.Created) == 0
}

// Merge folds a later pass into d so the result reads as a single pass over
// the state before d. A cell created and later removed drops out entirely; a
// created cell that is later updated stays a creation with the latest record;
// an updated cell that is later removed is only a removal.
func (d *Delta) Merge(other Delta) {
	created := make(map[uint64]int, len(d.Created))
	for i, c := range d.Created {
		created[c.ID] = i
	}
	updated := make(map[uint64]int, len(d.Updated))
	for i, u := range d.Updated {
		updated[u.Cell.ID] = i
	}
	drop := map[uint64]bool{}

	for _, c := range other.Removed {
		if _, ok := created[c.ID]; ok {
			drop[c.ID] = true
			continue
		}
		if _, ok := updated[c.ID]; ok {
			drop[c.ID] = true
		}
		d.Removed = append(d.Removed, c)
	}
	for _, u := range other.Updated {
		if i, ok := created[u.Cell.ID]; ok {
			d.Created[i] = u.Cell
			continue
		}
		if i, ok := updated[u.Cell.ID]; ok {
			d.Updated[i].Cell = u.Cell
			continue
		}
		updated[u.Cell.ID] = len(d.Updated)
		d.Updated = append(d.Updated, u)
	}
	if len(drop) > 0 {
		d.Created = slices.DeleteFunc(d.Created, func(c Cell) bool { return drop[c.ID] })
		d.Updated = slices.DeleteFunc(d.Updated, func(u Update) bool { return drop[u.Cell.ID] })
	}
	d.Created = append(d.Created, other.Created...)
}
