package topology

import (
	"math"

	"jello-lod/internal/core"
	"jello-lod/internal/lod"
)

type retierPlan struct {
	cell *Cell
	to   lod.Tier
}

// Reconcile brings the active set in line with a new focus.
//
// Existing cells whose own tier still covers their distance are kept. Cells no
// tier covers are removed. Otherwise a cell is re-tiered in place to the
// primary tier when its coordinate is aligned to that step and no cell of that
// step already sits there; if not, it is removed and the creation scan fills
// the area at the coarser block grid.
//
// The creation scan rounds each scanned coordinate up to every applicable
// tier's block grid and queues a cell when that tier also covers the aligned
// coordinate. Removals are applied first, then updates, then creations.
func (g *Grid) Reconcile(focus core.Coord) Delta {
	var (
		removals []*Cell
		retiers  []retierPlan
		claimed  = map[cellKey]bool{}
	)

	for _, c := range g.Cells() {
		d := distance(c.X, c.Z, focus)
		primary, ok := g.table.Primary(d)
		if !ok {
			removals = append(removals, c)
			continue
		}
		// Keep overlap cells even when a finer tier is now primary; re-tiering them would churn every pass.
		if g.table.Applies(c.Tier.Step, d) {
			continue
		}
		target := cellKey{x: c.X, z: c.Z, step: primary.Step}
		if primary.Aligned(c.X, c.Z) && !g.Has(c.X, c.Z, primary.Step) && !claimed[target] {
			claimed[target] = true
			retiers = append(retiers, retierPlan{cell: c, to: primary})
			continue
		}
		removals = append(removals, c)
	}

	type creation struct {
		x, z int
		tier lod.Tier
	}
	var creations []creation
	queued := map[cellKey]bool{}

	radius := scanFallbackRadius
	if limit, ok := g.table.MaxFiniteDistance(); ok && limit > 0 {
		radius = int(math.Ceil(limit))
	}
	radius += scanMargin

	x0, x1, z0, z1 := g.box(focus, radius)
	for z := z0; z < z1; z++ {
		for x := x0; x < x1; x++ {
			d := distance(x, z, focus)
			for _, tier := range g.table.Applicable(d) {
				ax, az := tier.AlignUp(x), tier.AlignUp(z)
				if !g.sq.InBounds(ax, az) {
					continue
				}
				k := cellKey{x: ax, z: az, step: tier.Step}
				if queued[k] || claimed[k] || g.Has(ax, az, tier.Step) {
					continue
				}
				// Rounding up can leave the tier's range; such a block would be removed by the next pass.
				if !g.table.Applies(tier.Step, distance(ax, az, focus)) {
					continue
				}
				queued[k] = true
				creations = append(creations, creation{x: ax, z: az, tier: tier})
			}
		}
	}

	var delta Delta
	for _, c := range removals {
		g.remove(c)
		delta.Removed = append(delta.Removed, *c)
	}
	for _, p := range retiers {
		from := p.cell.Tier
		g.retier(p.cell, p.to)
		delta.Updated = append(delta.Updated, Update{Cell: *p.cell, From: from})
	}
	for _, c := range creations {
		delta.Created = append(delta.Created, *g.create(c.x, c.z, c.tier))
	}
	return delta
}
