// Package geometry memoizes the box primitives shared by grid and seam cells.
package geometry

// SeamInflation enlarges seam boxes so neighbouring tiers overlap slightly.
const SeamInflation = 1.2

// Key identifies a cached primitive. Primary cells use From == To == step and
// Seam == false; seam cells key on the tier pair they bridge.
type Key struct {
	Seam bool
	From int
	To   int
}

// PrimaryKey returns the key for a grid cell of the given step.
func PrimaryKey(step int) Key { return Key{From: step, To: step} }

// SeamKey returns the key for a seam cell bridging from → to.
func SeamKey(from, to int) Key { return Key{Seam: true, From: from, To: to} }

// Span returns the footprint of the key in finest-grid cells.
func (k Key) Span() float64 {
	if !k.Seam {
		return float64(k.From)
	}
	return float64(k.From+k.To) / 2 * SeamInflation
}

// Stats counts cache traffic since the last invalidation.
type Stats struct {
	Hits   int
	Misses int
}

// Cache is a read-mostly memo of box primitives. It is not safe for
// concurrent mutation; the single reconciliation goroutine owns writes.
type Cache struct {
	cellSize float64
	boxes    map[Key]*Box
	stats    Stats
}

// NewCache returns an empty cache producing boxes for the given cell size.
func NewCache(cellSize float64) *Cache {
	return &Cache{cellSize: cellSize, boxes: map[Key]*Box{}}
}

// Primary returns the shared box for a grid cell of the given step.
func (c *Cache) Primary(step int) *Box { return c.Get(PrimaryKey(step)) }

// Seam returns the shared box for a seam cell bridging from → to.
func (c *Cache) Seam(from, to int) *Box { return c.Get(SeamKey(from, to)) }

// Get returns the box for key, building it on first use.
func (c *Cache) Get(key Key) *Box {
	if b, ok := c.boxes[key]; ok {
		c.stats.Hits++
		return b
	}
	c.stats.Misses++
	span := key.Span() * c.cellSize
	b := NewBox(span, c.cellSize, span)
	c.boxes[key] = b
	return b
}

// Invalidate drops every cached primitive and adopts a new cell size.
func (c *Cache) Invalidate(cellSize float64) {
	c.cellSize = cellSize
	c.boxes = map[Key]*Box{}
	c.stats = Stats{}
}

// Len returns the number of cached primitives.
func (c *Cache) Len() int { return len(c.boxes) }

// CellSize returns the world size of one finest-grid cell.
func (c *Cache) CellSize() float64 { return c.cellSize }

// Stats returns hit/miss counters.
func (c *Cache) Stats() Stats { return c.stats }
