package topology

import (
	"math"
	"sort"

	"jello-lod/internal/core"
	"jello-lod/internal/geometry"
	"jello-lod/internal/lod"
)

const (
	// buildFallbackRadius bounds the initial scan when every tier is unbounded.
	buildFallbackRadius = 64
	// scanFallbackRadius bounds the creation scan when every tier is unbounded.
	scanFallbackRadius = 80
	// scanMargin widens the creation scan past the largest finite tier.
	scanMargin = 10
)

// Grid holds the active cells. Several tiers may keep a cell at the same
// coordinate; slots indexes the finest of them for queries.
type Grid struct {
	sq    core.Square
	table lod.Table
	steps []int
	cache *geometry.Cache

	cells  map[cellKey]*Cell
	slots  map[int]*Cell
	order  []*Cell
	dirty  bool
	nextID uint64
}

// New returns an empty grid. The table must already be validated.
func New(res int, table lod.Table, cache *geometry.Cache) *Grid {
	g := &Grid{table: table.Clone(), cache: cache}
	g.steps = g.table.Steps()
	g.Reset(res)
	return g
}

// Reset drops every cell and adopts a new resolution.
func (g *Grid) Reset(res int) {
	g.sq = core.NewSquare(res)
	g.Clear()
}

// Clear drops every cell without touching the resolution.
func (g *Grid) Clear() {
	g.cells = map[cellKey]*Cell{}
	g.slots = map[int]*Cell{}
	g.order = nil
	g.dirty = false
}

// Res returns the grid side length.
func (g *Grid) Res() int { return g.sq.Res }

// Table returns the tier table in use.
func (g *Grid) Table() lod.Table { return g.table }

// Len returns the number of active cells.
func (g *Grid) Len() int { return len(g.cells) }

// At returns the authoritative cell for slot (x, z): the finest-step cell
// stored there.
func (g *Grid) At(x, z int) (*Cell, bool) {
	if !g.sq.InBounds(x, z) {
		return nil, false
	}
	c, ok := g.slots[g.sq.Index(x, z)]
	return c, ok
}

// Has reports whether a cell of the given step exists at (x, z).
func (g *Grid) Has(x, z, step int) bool {
	_, ok := g.cells[cellKey{x: x, z: z, step: step}]
	return ok
}

// Cells returns every active cell ordered by slot index, then step. The slice
// is reused until the next mutation.
func (g *Grid) Cells() []*Cell {
	if g.dirty || (g.order == nil && len(g.cells) > 0) {
		g.order = g.order[:0]
		for _, c := range g.cells {
			g.order = append(g.order, c)
		}
		sort.Slice(g.order, func(i, j int) bool {
			a, b := g.order[i], g.order[j]
			ia, ib := g.sq.Index(a.X, a.Z), g.sq.Index(b.X, b.Z)
			if ia != ib {
				return ia < ib
			}
			return a.Tier.Step < b.Tier.Step
		})
		g.dirty = false
	}
	return g.order
}

// Build discards the current state and seeds every aligned cell for every
// tier applicable around focus. Overlapping tiers are materialised together.
func (g *Grid) Build(focus core.Coord) Delta {
	g.Clear()
	radius := buildFallbackRadius
	if limit, ok := g.table.MaxFiniteDistance(); ok && limit > 0 {
		radius = int(math.Ceil(limit))
	}
	var delta Delta
	x0, x1, z0, z1 := g.box(focus, radius)
	for z := z0; z < z1; z++ {
		for x := x0; x < x1; x++ {
			d := distance(x, z, focus)
			for _, tier := range g.table.Applicable(d) {
				if !tier.Aligned(x, z) || g.Has(x, z, tier.Step) {
					continue
				}
				delta.Created = append(delta.Created, *g.create(x, z, tier))
			}
		}
	}
	return delta
}

func (g *Grid) box(focus core.Coord, radius int) (x0, x1, z0, z1 int) {
	x0 = max(0, focus.X-radius)
	x1 = min(g.sq.Res, focus.X+radius)
	z0 = max(0, focus.Z-radius)
	z1 = min(g.sq.Res, focus.Z+radius)
	return x0, x1, z0, z1
}

func (g *Grid) create(x, z int, tier lod.Tier) *Cell {
	g.nextID++
	c := &Cell{
		ID:       g.nextID,
		X:        x,
		Z:        z,
		Material: (x + z) % MaterialSlots,
	}
	g.assign(c, tier)
	g.cells[keyOf(c)] = c
	g.refreshSlot(x, z)
	g.dirty = true
	return c
}

func (g *Grid) assign(c *Cell, tier lod.Tier) {
	c.Tier = tier
	c.Geometry = geometry.PrimaryKey(tier.Step)
	if g.cache != nil {
		c.Box = g.cache.Get(c.Geometry)
	}
	c.BaseY = 0
}

func (g *Grid) remove(c *Cell) {
	delete(g.cells, keyOf(c))
	g.refreshSlot(c.X, c.Z)
	g.dirty = true
}

func (g *Grid) retier(c *Cell, tier lod.Tier) {
	delete(g.cells, keyOf(c))
	g.assign(c, tier)
	g.cells[keyOf(c)] = c
	g.refreshSlot(c.X, c.Z)
	g.dirty = true
}

// refreshSlot points the slot at the finest remaining cell for (x, z).
func (g *Grid) refreshSlot(x, z int) {
	idx := g.sq.Index(x, z)
	var best *Cell
	for _, step := range g.steps {
		c, ok := g.cells[cellKey{x: x, z: z, step: step}]
		if !ok {
			continue
		}
		if best == nil || c.Tier.Step < best.Tier.Step {
			best = c
		}
	}
	if best == nil {
		delete(g.slots, idx)
		return
	}
	g.slots[idx] = best
}

func distance(x, z int, focus core.Coord) float64 {
	return math.Hypot(float64(x-focus.X), float64(z-focus.Z))
}
