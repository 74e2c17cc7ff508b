// Package seam generates connector cells along boundaries between tiers.
package seam

import (
	"jello-lod/internal/geometry"
	"jello-lod/internal/topology"
)

// Neighbour directions, in scan order. The first four are the cardinal
// directions and get subdivided along the shared edge.
const (
	dirLeft = iota
	dirRight
	dirTop
	dirBottom
	dirTopLeft
	dirTopRight
	dirBottomLeft
	dirBottomRight
)

var directions = [8][2]int{
	dirLeft:        {-1, 0},
	dirRight:       {1, 0},
	dirTop:         {0, -1},
	dirBottom:      {0, 1},
	dirTopLeft:     {-1, -1},
	dirTopRight:    {1, -1},
	dirBottomLeft:  {-1, 1},
	dirBottomRight: {1, 1},
}

// noIntermediate marks diagonal connectors, which are never subdivided.
const noIntermediate = -1

// Cell is a synthetic connector bridging a From-step cell to a neighbouring
// To-step cell. It is never authoritative for its slot.
type Cell struct {
	X, Z         int
	From, To     int
	Ring         int
	Intermediate int
	Geometry     geometry.Key
	Box          *geometry.Box
	Material     int
}

// AvgStep is the midpoint of the bridged steps.
func (c Cell) AvgStep() float64 { return float64(c.From+c.To) / 2 }

// Diagonal reports whether the connector came from a diagonal neighbour.
func (c Cell) Diagonal() bool { return c.Intermediate == noIntermediate }

// Topology is the view of the grid the stitcher reads.
type Topology interface {
	Res() int
	Cells() []*topology.Cell
	At(x, z int) (*topology.Cell, bool)
}

type seamKey struct {
	x, z         int
	from, to     int
	ring         int
	intermediate int
}

// Stitcher regenerates every seam cell from scratch on each call.
type Stitcher struct {
	cache *geometry.Cache
	seen  map[seamKey]struct{}
}

// NewStitcher returns a stitcher sharing primitives through cache. A nil cache
// leaves Box unset on every emitted cell.
func NewStitcher(cache *geometry.Cache) *Stitcher {
	return &Stitcher{cache: cache, seen: map[seamKey]struct{}{}}
}

// StitchCount returns the number of connector rings emitted for a boundary
// leaving a cell of the given step.
func StitchCount(step int) int { return max(2, step*3/2) }

// BaseOffset returns the distance of the first ring from the cell.
func BaseOffset(step int) int {
	return max(1, int(float64(step)/(4+float64(step)*0.5)))
}

// RingSpacing returns the spacing between consecutive rings.
func RingSpacing(step int) int { return max(1, step/4) }

// Stitch returns the seam cells for the current topology. Identical
// topologies yield identical slices, in the same order.
func (s *Stitcher) Stitch(grid Topology) []Cell {
	clear(s.seen)
	res := grid.Res()
	var out []Cell
	emit := func(x, z, from, to, ring, intermediate int) {
		if x < 0 || x >= res || z < 0 || z >= res {
			return
		}
		k := seamKey{x: x, z: z, from: from, to: to, ring: ring, intermediate: intermediate}
		if _, dup := s.seen[k]; dup {
			return
		}
		s.seen[k] = struct{}{}
		c := Cell{
			X:            x,
			Z:            z,
			From:         from,
			To:           to,
			Ring:         ring,
			Intermediate: intermediate,
			Geometry:     geometry.SeamKey(from, to),
			Material:     (x + z) % topology.MaterialSlots,
		}
		if s.cache != nil {
			c.Box = s.cache.Get(c.Geometry)
		}
		out = append(out, c)
	}

	for _, cell := range grid.Cells() {
		step := cell.Step()
		rings := StitchCount(step)
		base := BaseOffset(step)
		spacing := RingSpacing(step)
		half := step / 2
		for dir, d := range directions {
			nx, nz := cell.X+d[0]*step, cell.Z+d[1]*step
			neighbour, ok := grid.At(nx, nz)
			if !ok || neighbour.Step() == step {
				continue
			}
			for ring := 0; ring < rings; ring++ {
				off := base + ring*spacing
				if dir < dirTopLeft {
					for i := 0; i < step; i++ {
						along := -half + i
						var x, z int
						switch dir {
						case dirLeft, dirRight:
							x, z = cell.X+d[0]*off, cell.Z+along
						default:
							x, z = cell.X+along, cell.Z+d[1]*off
						}
						emit(x, z, step, neighbour.Step(), ring, i)
					}
					continue
				}
				emit(cell.X+d[0]*off, cell.Z+d[1]*off, step, neighbour.Step(), ring, noIntermediate)
			}
		}
	}
	return out
}
