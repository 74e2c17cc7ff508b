package seam

import (
	"slices"
	"testing"

	"jello-lod/internal/core"
	"jello-lod/internal/geometry"
	"jello-lod/internal/lod"
	"jello-lod/internal/topology"
)

type fakeGrid struct {
	res   int
	cells []*topology.Cell
	slots map[core.Coord]*topology.Cell
}

func newFake(res int) *fakeGrid {
	return &fakeGrid{res: res, slots: map[core.Coord]*topology.Cell{}}
}

// add registers a cell; primary cells are also iterated by the stitcher.
func (f *fakeGrid) add(x, z, step int, primary bool) *topology.Cell {
	c := &topology.Cell{X: x, Z: z, Tier: lod.Tier{Step: step, MaxDistance: lod.Unbounded}}
	f.slots[core.Coord{X: x, Z: z}] = c
	if primary {
		f.cells = append(f.cells, c)
	}
	return c
}

func (f *fakeGrid) Res() int                { return f.res }
func (f *fakeGrid) Cells() []*topology.Cell { return f.cells }
func (f *fakeGrid) At(x, z int) (*topology.Cell, bool) {
	c, ok := f.slots[core.Coord{X: x, Z: z}]
	return c, ok
}

type pos struct{ x, z, ring, intermediate int }

func positions(cells []Cell) []pos {
	out := make([]pos, len(cells))
	for i, c := range cells {
		out[i] = pos{c.X, c.Z, c.Ring, c.Intermediate}
	}
	return out
}

func TestUniformTierHasNoSeams(t *testing.T) {
	table, _ := lod.Lookup("flat")
	g := topology.New(20, table, nil)
	g.Build(core.Coord{X: 10, Z: 10})
	if seams := NewStitcher(nil).Stitch(g); len(seams) != 0 {
		t.Fatalf("single-tier grid should need no seams, got %d", len(seams))
	}
}

func TestStitchIsDeterministic(t *testing.T) {
	cache := geometry.NewCache(10)
	g := topology.New(40, lod.DefaultTable(), cache)
	g.Build(core.Coord{X: 20, Z: 20})
	g.Reconcile(core.Coord{X: 3, Z: 7})

	s := NewStitcher(cache)
	first := s.Stitch(g)
	second := s.Stitch(g)
	if len(first) == 0 {
		t.Fatal("multi-tier grid should produce seams")
	}
	if !slices.Equal(first, second) {
		t.Fatal("identical topology must yield identical seams")
	}
	for _, c := range first {
		if c.X < 0 || c.X >= 40 || c.Z < 0 || c.Z >= 40 {
			t.Fatalf("seam (%d,%d) escaped the grid", c.X, c.Z)
		}
		if c.From == c.To {
			t.Fatalf("seam (%d,%d) bridges identical steps", c.X, c.Z)
		}
		if c.Box != cache.Seam(c.From, c.To) {
			t.Fatal("seam cells must share the cached primitive")
		}
	}
}

func TestCardinalBoundaryRings(t *testing.T) {
	f := newFake(10)
	f.add(4, 4, 1, true)
	f.add(5, 4, 2, false)

	got := positions(NewStitcher(nil).Stitch(f))
	want := []pos{{5, 4, 0, 0}, {6, 4, 1, 0}}
	if !slices.Equal(got, want) {
		t.Fatalf("step 1 right boundary: got %v want %v", got, want)
	}
}

func TestDiagonalBoundaryIsNotSubdivided(t *testing.T) {
	f := newFake(10)
	f.add(4, 4, 1, true)
	f.add(5, 5, 4, false)

	seams := NewStitcher(nil).Stitch(f)
	if len(seams) != 2 {
		t.Fatalf("expected one connector per ring, got %d", len(seams))
	}
	for i, c := range seams {
		if !c.Diagonal() || c.X != 5+i || c.Z != 5+i {
			t.Fatalf("ring %d: unexpected diagonal connector %+v", i, c)
		}
		if c.From != 1 || c.To != 4 || c.AvgStep() != 2.5 {
			t.Fatalf("connector should bridge 1 -> 4, got %d -> %d", c.From, c.To)
		}
	}
}

func TestOutOfBoundsConnectorsDropped(t *testing.T) {
	f := newFake(10)
	f.add(8, 4, 4, true)
	f.add(8, 0, 1, false)

	seams := NewStitcher(nil).Stitch(f)
	// 6 rings of 4 connectors stepping up from z=3; rings reaching z<0 drop.
	if len(seams) != 16 {
		t.Fatalf("expected 16 in-bounds connectors, got %d", len(seams))
	}
	for _, c := range seams {
		if c.Ring >= 4 || c.Z < 0 || c.X < 6 || c.X > 9 {
			t.Fatalf("unexpected connector %+v", c)
		}
	}
}

func TestDuplicatePositionsCollapse(t *testing.T) {
	f := newFake(10)
	c := f.add(4, 4, 1, true)
	f.cells = append(f.cells, c)
	f.add(5, 4, 2, false)

	if seams := NewStitcher(nil).Stitch(f); len(seams) != 2 {
		t.Fatalf("repeated cell should not duplicate seams, got %d", len(seams))
	}
}

func TestOffsets(t *testing.T) {
	for _, tc := range []struct{ step, count, base, spacing int }{
		{1, 2, 1, 1}, {2, 3, 1, 1}, {4, 6, 1, 1}, {8, 12, 1, 2},
	} {
		if got := StitchCount(tc.step); got != tc.count {
			t.Fatalf("StitchCount(%d) = %d, want %d", tc.step, got, tc.count)
		}
		if got := BaseOffset(tc.step); got != tc.base {
			t.Fatalf("BaseOffset(%d) = %d, want %d", tc.step, got, tc.base)
		}
		if got := RingSpacing(tc.step); got != tc.spacing {
			t.Fatalf("RingSpacing(%d) = %d, want %d", tc.step, got, tc.spacing)
		}
	}
}
