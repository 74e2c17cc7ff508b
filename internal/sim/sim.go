// Package sim owns one jello grid: the wave field, the LOD topology, its seams
// and the focus/stimulus inputs, advanced one tick at a time by a driver.
package sim

import (
	"fmt"
	"log"

	"jello-lod/internal/config"
	"jello-lod/internal/core"
	"jello-lod/internal/geometry"
	"jello-lod/internal/seam"
	"jello-lod/internal/topology"
	"jello-lod/internal/wave"
)

// Option customises a Simulation at construction.
type Option func(*Simulation)

// WithClock replaces the wall clock used by the reconciliation throttle.
func WithClock(now core.Clock) Option {
	return func(s *Simulation) { s.now = now }
}

// WithLogger routes reconciliation and reset messages to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// Stats counts work done since construction.
type Stats struct {
	Ticks         uint64
	Reconciles    int
	Coalesced     int
	Resets        int
	Created       int
	Updated       int
	Removed       int
	Seams         int
	Cells         int
	Primitives    int
	CacheHits     int
	CacheMisses   int
	PeakAmplitude float64
}

// Simulation is the single-owner context for one grid. It is not safe for
// concurrent use; one driver goroutine calls every method.
type Simulation struct {
	cfg config.Config

	field    *wave.Field
	cache    *geometry.Cache
	grid     *topology.Grid
	stitcher *seam.Stitcher
	seams    []seam.Cell
	walls    []Wall

	throttle *core.Throttle
	now      core.Clock
	logger   *log.Logger

	focus        core.Coord
	focusPending bool
	stimulus     bool

	pending topology.Delta
	reset   bool
	stats   Stats
}

// New validates cfg and builds the initial grid around the centre.
func New(cfg config.Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Tiers = cfg.Tiers.Clone()
	s := &Simulation{cfg: cfg, stimulus: cfg.StimulusEnabled}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.throttle = core.NewThrottle(cfg.ThrottleInterval, s.now)
	s.cache = geometry.NewCache(cfg.CellSize)
	s.field = wave.New(cfg.Res, cfg.Damping, cfg.WaveSpeed)
	s.grid = topology.New(cfg.Res, cfg.Tiers, s.cache)
	s.stitcher = seam.NewStitcher(s.cache)
	s.rebuild()
	return s, nil
}

// Name identifies the simulation in HUD titles.
func (s *Simulation) Name() string { return "jello" }

// Size reports the grid extent in cells.
func (s *Simulation) Size() core.Size { return core.Size{W: s.cfg.Res, H: s.cfg.Res} }

// Reset performs a full rebuild at the current resolution.
func (s *Simulation) Reset() { s.resetTo(s.cfg.Res) }

// Config returns a copy of the active configuration.
func (s *Simulation) Config() config.Config {
	c := s.cfg
	c.Tiers = c.Tiers.Clone()
	return c
}

// Field exposes the wave field for read-only inspection.
func (s *Simulation) Field() *wave.Field { return s.field }

// Grid exposes the topology for read-only inspection.
func (s *Simulation) Grid() *topology.Grid { return s.grid }

// Seams returns the seam cells from the latest stitch.
func (s *Simulation) Seams() []seam.Cell { return s.seams }

// Focus returns the focus coordinate the topology was last asked to follow.
func (s *Simulation) Focus() core.Coord { return s.focus }

// StimulusEnabled reports whether ticks inject at the focus.
func (s *Simulation) StimulusEnabled() bool { return s.stimulus }

// SetStimulus gates injection on subsequent ticks.
func (s *Simulation) SetStimulus(enabled bool) { s.stimulus = enabled }

// SetViewMode records the presentation mode. The simulation ignores it.
func (s *Simulation) SetViewMode(mode config.ViewMode) { s.cfg.ViewMode = mode }

// SetFocus moves the focus, clamped to the grid. The topology follows at
// once when the throttle allows; otherwise the move is held and applied by a
// later Tick, so bursts of moves collapse into one pass.
func (s *Simulation) SetFocus(x, z int) {
	c := core.NewSquare(s.cfg.Res).Clamp(core.Coord{X: x, Z: z})
	if c == s.focus && !s.focusPending {
		return
	}
	s.focus = c
	if s.throttle.Allow() {
		s.reconcile()
		return
	}
	if s.focusPending {
		s.stats.Coalesced++
	}
	s.focusPending = true
}

// SetResolution destroys the grid and rebuilds it at res with the focus reset
// to the centre.
func (s *Simulation) SetResolution(res int) error {
	if res <= 0 {
		return fmt.Errorf("%w: res must be positive, got %d", config.ErrInvalid, res)
	}
	if res == s.cfg.Res {
		return nil
	}
	s.resetTo(res)
	return nil
}

// Stats returns the work counters.
func (s *Simulation) Stats() Stats {
	st := s.stats
	st.Cells = s.grid.Len()
	st.Seams = len(s.seams)
	st.Primitives = s.cache.Len()
	cs := s.cache.Stats()
	st.CacheHits, st.CacheMisses = cs.Hits, cs.Misses
	return st
}

func (s *Simulation) resetTo(res int) {
	s.cfg.Res = res
	s.grid.Reset(res)
	s.seams = nil
	s.cache.Invalidate(s.cfg.CellSize)
	s.field.Reset(res)
	s.rebuild()
	s.stats.Resets++
	s.logger.Printf("grid recreated with resolution %dx%d = %d cells", res, res, res*res)
}

// rebuild seeds the topology from scratch around the grid centre.
func (s *Simulation) rebuild() {
	s.focus = core.NewSquare(s.cfg.Res).Center()
	s.focusPending = false
	s.throttle.Reset()
	s.pending = s.grid.Build(s.focus)
	s.reset = true
	s.seams = s.stitcher.Stitch(s.grid)
	s.walls = perimeter(s.cfg.Res, s.cfg.CellSize)
	s.stats.Created += len(s.pending.Created)
}

func (s *Simulation) reconcile() {
	s.focusPending = false
	delta := s.grid.Reconcile(s.focus)
	s.seams = s.stitcher.Stitch(s.grid)
	s.pending.Merge(delta)
	s.stats.Reconciles++
	s.stats.Created += len(delta.Created)
	s.stats.Updated += len(delta.Updated)
	s.stats.Removed += len(delta.Removed)
	if !delta.Empty() {
		s.logger.Printf("lod update: updated %d removed %d created %d seams %d",
			len(delta.Updated), len(delta.Removed), len(delta.Created), len(s.seams))
	}
}

// Tick runs one pipeline pass: a held focus move if the throttle allows,
// stimulus injection, one integration step, then sampling of every cell.
func (s *Simulation) Tick() Frame {
	if s.focusPending && s.throttle.Allow() {
		s.reconcile()
	}
	if s.stimulus {
		s.field.Inject(s.focus.X, s.focus.Z, s.cfg.StimulusMagnitude)
	}
	s.field.Step()
	s.stats.Ticks++

	f := s.sample()
	if f.Field.MaxAbs > s.stats.PeakAmplitude {
		s.stats.PeakAmplitude = f.Field.MaxAbs
	}
	s.pending = topology.Delta{}
	s.reset = false
	return f
}
