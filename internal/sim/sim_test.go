package sim

import (
	"bytes"
	"errors"
	"io"
	"log"
	"math"
	"strings"
	"testing"
	"time"

	"jello-lod/internal/config"
	"jello-lod/internal/core"
	"jello-lod/internal/lod"
	"jello-lod/internal/topology"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func quiet() Option { return WithLogger(log.New(io.Discard, "", 0)) }

func newSim(t *testing.T, cfg config.Config, opts ...Option) *Simulation {
	t.Helper()
	s, err := New(cfg, append([]Option{quiet()}, opts...)...)
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	return s
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Tiers = lod.Table{{MinDistance: 10, MaxDistance: 5, Step: 1}}
	if _, err := New(cfg); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestResolutionChangeResets(t *testing.T) {
	var logs bytes.Buffer
	s := newSim(t, config.Default(), WithLogger(log.New(&logs, "", 0)))
	s.SetFocus(3, 3)
	s.Tick()
	before := s.cache.Primary(1)

	if err := s.SetResolution(20); err != nil {
		t.Fatalf("set resolution: %v", err)
	}
	if got := s.Field().Len(); got != 400 {
		t.Fatalf("field length = %d, want 400", got)
	}
	if s.Focus() != (core.Coord{X: 10, Z: 10}) {
		t.Fatalf("focus should reset to the centre, got %+v", s.Focus())
	}
	if s.cache.Primary(1) == before {
		t.Fatal("geometry cache should have been invalidated")
	}
	for _, c := range s.Grid().Cells() {
		if c.X >= 20 || c.Z >= 20 {
			t.Fatalf("stale cell (%d,%d) survived the reset", c.X, c.Z)
		}
	}
	for _, c := range s.Seams() {
		if c.X >= 20 || c.Z >= 20 {
			t.Fatalf("stale seam (%d,%d) survived the reset", c.X, c.Z)
		}
	}
	if !strings.Contains(logs.String(), "resolution 20x20 = 400 cells") {
		t.Fatalf("reset should be logged, got %q", logs.String())
	}

	f := s.Tick()
	if !f.Reset || f.Res != 20 || len(f.Changes.Created) != s.Grid().Len() {
		t.Fatalf("first frame after reset should carry the rebuild, got reset=%v res=%d created=%d",
			f.Reset, f.Res, len(f.Changes.Created))
	}
	if next := s.Tick(); next.Reset || len(next.Changes.Created) != 0 {
		t.Fatal("changes should only be reported once")
	}
	if err := s.SetResolution(0); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("zero resolution should be rejected, got %v", err)
	}
}

func TestFocusMovesAreCoalesced(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := newSim(t, config.Default(), WithClock(clock.now))

	s.SetFocus(5, 5)
	if got := s.Stats().Reconciles; got != 1 {
		t.Fatalf("first move should reconcile immediately, got %d passes", got)
	}

	clock.advance(10 * time.Millisecond)
	s.SetFocus(6, 6)
	s.SetFocus(7, 7)
	s.Tick()
	if st := s.Stats(); st.Reconciles != 1 || st.Coalesced != 1 {
		t.Fatalf("moves inside the interval should be held, got %+v", st)
	}

	clock.advance(100 * time.Millisecond)
	f := s.Tick()
	if got := s.Stats().Reconciles; got != 2 {
		t.Fatalf("trailing tick should flush the held move, got %d passes", got)
	}
	if f.Focus != (core.Coord{X: 7, Z: 7}) {
		t.Fatalf("frame focus = %+v, want the latest move", f.Focus)
	}
	if d := s.Grid().Reconcile(core.Coord{X: 7, Z: 7}); !d.Empty() {
		t.Fatal("topology should already match the latest focus")
	}

	clock.advance(time.Second)
	s.Tick()
	if got := s.Stats().Reconciles; got != 2 {
		t.Fatalf("no pending move should mean no pass, got %d", got)
	}
}

func TestFocusIsClamped(t *testing.T) {
	s := newSim(t, config.Default())
	s.SetFocus(-4, 99)
	if s.Focus() != (core.Coord{X: 0, Z: 39}) {
		t.Fatalf("focus should clamp into the grid, got %+v", s.Focus())
	}
}

func TestStimulusGating(t *testing.T) {
	cfg := config.Default()
	cfg.StimulusEnabled = false
	s := newSim(t, cfg)
	for i := 0; i < 5; i++ {
		s.Tick()
	}
	if st := s.Field().Stats(); st.MaxAbs != 0 {
		t.Fatalf("disabled stimulus should leave the field flat, got %+v", st)
	}

	s.SetStimulus(true)
	f := s.Tick()
	if f.Field.MaxAbs == 0 || !f.Stimulus {
		t.Fatal("enabled stimulus should excite the field")
	}
	for _, c := range f.Cells {
		if c.X == f.Focus.X && c.Z == f.Focus.Z {
			if c.Velocity != 0 {
				t.Fatalf("velocity under an active stimulus should read zero, got %v", c.Velocity)
			}
			if !c.Highlight || c.Height == 0 {
				t.Fatalf("focus cell should be highlighted and raised, got %+v", c)
			}
			if want := c.Height * primaryLift; math.Abs(c.Elevation()-want) > 1e-9 {
				t.Fatalf("elevation = %v, want %v", c.Elevation(), want)
			}
		}
	}
}

func TestCoarseCellsAverageCorners(t *testing.T) {
	s := newSim(t, config.Default())
	fld := s.Field()
	fld.Set(0, 0, 1)
	fld.Set(3, 0, 2)
	fld.Set(0, 3, 3)
	fld.Set(3, 3, 6)
	if got := s.cellHeight(0, 0, 4); got != 3 {
		t.Fatalf("step 4 height = %v, want 3", got)
	}
	if got := s.cellHeight(0, 0, 2); got != 1 {
		t.Fatalf("step 2 should read a single sample, got %v", got)
	}
	fld.Set(38, 0, 8)
	fld.Set(38, 3, 8)
	if got := s.cellHeight(38, 0, 4); got != 8 {
		t.Fatalf("out-of-bounds corners should be skipped, got %v", got)
	}
}

func TestStaticTierStaysFlat(t *testing.T) {
	cfg := config.Default()
	cfg.Res = 80
	cfg.Tiers, _ = lod.Lookup("coarse")
	s := newSim(t, cfg)
	s.Field().Set(0, 0, 10)
	f := s.Tick()
	static := 0
	for _, c := range f.Cells {
		if c.Animate {
			continue
		}
		static++
		if c.Elevation() != 0 || c.Pitch != 0 || c.Roll != 0 {
			t.Fatalf("static cell (%d,%d) moved: %+v", c.X, c.Z, c)
		}
	}
	if static == 0 {
		t.Fatal("coarse preset at res 80 should produce static step 8 cells")
	}
}

func TestSeamStatesFollowStitcher(t *testing.T) {
	s := newSim(t, config.Default())
	s.SetFocus(2, 2)
	f := s.Tick()
	if len(f.Seams) != len(s.Seams()) || len(f.Seams) == 0 {
		t.Fatalf("frame should carry every seam, got %d of %d", len(f.Seams), len(s.Seams()))
	}
	for _, st := range f.Seams {
		if want := st.Height * seamLift; math.Abs(st.Elevation()-want) > 1e-9 {
			t.Fatalf("seam elevation = %v, want %v", st.Elevation(), want)
		}
	}
}

func TestPerimeterFramesGrid(t *testing.T) {
	s := newSim(t, config.Default())
	walls := s.Perimeter()
	if len(walls) != 4 {
		t.Fatalf("expected 4 walls, got %d", len(walls))
	}
	if w := walls[0].Box.Width; w != 40*10+2*30 {
		t.Fatalf("north wall width = %v", w)
	}
	if err := s.SetResolution(20); err != nil {
		t.Fatal(err)
	}
	if w := s.Perimeter()[0].Box.Width; w != 20*10+2*30 {
		t.Fatalf("walls should be rebuilt on reset, got width %v", w)
	}
}

func TestParameterSetters(t *testing.T) {
	s := newSim(t, config.Default())
	if s.SetFloatParameter("damping", 1.5) {
		t.Fatal("damping outside (0,1) should be rejected")
	}
	if !s.SetFloatParameter("damping", 0.8) || s.Field().Damping() != 0.8 {
		t.Fatal("damping should reach the field")
	}
	if !s.SetIntParameter("throttle_ms", 250) || s.throttle.Interval() != 250*time.Millisecond {
		t.Fatal("throttle should follow the parameter")
	}
	if !s.SetIntParameter("res", 30) || s.Field().Len() != 900 {
		t.Fatal("res parameter should rebuild the grid")
	}
	if s.SetIntParameter("unknown", 1) {
		t.Fatal("unknown keys should be rejected")
	}
	if p, ok := s.Parameters().Lookup("res"); !ok || p.Value != "30" {
		t.Fatalf("snapshot should report res 30, got %+v", p)
	}
}

func TestFrameChangesMirrorAcrossPasses(t *testing.T) {
	cfg := config.Default()
	cfg.Res = 80
	cfg.ThrottleInterval = 0
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := newSim(t, cfg, WithClock(clock.now))

	mirror := map[uint64]bool{}
	for _, c := range s.Tick().Cells {
		mirror[c.ID] = true
	}

	s.SetFocus(5, 5)
	clock.advance(time.Millisecond)
	s.SetFocus(75, 75)
	f := s.Tick()
	if got := s.Stats().Reconciles; got != 2 {
		t.Fatalf("expected two passes before the tick, got %d", got)
	}

	created := map[uint64]bool{}
	for _, id := range f.Changes.Created {
		created[id] = true
	}
	for _, id := range f.Changes.Removed {
		if created[id] {
			t.Fatalf("cell %d reported both created and removed", id)
		}
		delete(mirror, id)
	}
	for id := range created {
		mirror[id] = true
	}
	if len(mirror) != len(f.Cells) {
		t.Fatalf("mirror holds %d cells, frame has %d", len(mirror), len(f.Cells))
	}
	for _, c := range f.Cells {
		if !mirror[c.ID] {
			t.Fatalf("cell %d missing from mirror", c.ID)
		}
	}
}

func TestChangesOfKeepsOrder(t *testing.T) {
	d := topology.Delta{
		Removed: []topology.Cell{{ID: 3}},
		Created: []topology.Cell{{ID: 7}, {ID: 8}},
	}
	c := changesOf(d)
	if len(c.Removed) != 1 || c.Removed[0] != 3 || len(c.Created) != 2 || c.Created[1] != 8 {
		t.Fatalf("unexpected changes %+v", c)
	}
}
