// Package sweep runs batches of headless simulations over tier presets and
// throttle intervals and scores their topology churn.
package sweep

import (
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"jello-lod/internal/config"
	"jello-lod/internal/core"
	"jello-lod/internal/lod"
	"jello-lod/internal/sim"
)

// Scenario is one headless run.
type Scenario struct {
	Preset   string
	Tiers    lod.Table
	Throttle time.Duration
	Res      int
	Ticks    int
	TPS      int
	Seed     int64
}

func (s Scenario) String() string {
	return fmt.Sprintf("preset=%s throttle=%s res=%d ticks=%d seed=%d", s.Preset, s.Throttle, s.Res, s.Ticks, s.Seed)
}

// Result summarises one scenario.
type Result struct {
	Scenario      Scenario
	Reconciles    int
	Coalesced     int
	Created       int
	Updated       int
	Removed       int
	PeakCells     int
	PeakSeams     int
	MeanCells     float64
	PeakAmplitude float64
	Elapsed       time.Duration
	Err           error
}

// Churn is the mean number of cell changes per reconciliation.
func (r Result) Churn() float64 {
	if r.Reconciles == 0 {
		return 0
	}
	return float64(r.Created+r.Updated+r.Removed) / float64(r.Reconciles)
}

// Grid builds the cross product of presets and throttle intervals.
func Grid(presets []string, throttles []time.Duration, res, ticks int, seed int64) ([]Scenario, error) {
	var out []Scenario
	for _, name := range presets {
		table, ok := lod.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown tier preset %q", name)
		}
		for _, th := range throttles {
			out = append(out, Scenario{Preset: name, Tiers: table, Throttle: th, Res: res, Ticks: ticks, TPS: 60, Seed: seed})
		}
	}
	return out, nil
}

// RunScenario drives a simulation with a seeded random focus walk on a
// synthetic clock advancing one tick interval per tick.
func RunScenario(sc Scenario) Result {
	start := time.Now()
	res := Result{Scenario: sc}

	cfg := config.Default()
	cfg.Res = sc.Res
	cfg.Tiers = sc.Tiers
	cfg.ThrottleInterval = sc.Throttle
	if sc.TPS > 0 {
		cfg.TPS = sc.TPS
	}

	clock := time.Unix(0, 0)
	now := func() time.Time { return clock }
	s, err := sim.New(cfg, sim.WithClock(now), sim.WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		res.Err = err
		return res
	}

	step := core.NewFixedStep(cfg.TPS).Interval()
	rng := core.NewRNG(sc.Seed)
	focus := s.Focus()
	var cellSum int
	for tick := 0; tick < sc.Ticks; tick++ {
		clock = clock.Add(step)
		focus.X += rng.Step()
		focus.Z += rng.Step()
		s.SetFocus(focus.X, focus.Z)
		focus = s.Focus()

		f := s.Tick()
		cellSum += len(f.Cells)
		res.PeakCells = max(res.PeakCells, len(f.Cells))
		res.PeakSeams = max(res.PeakSeams, len(f.Seams))
	}

	st := s.Stats()
	res.Reconciles = st.Reconciles
	res.Coalesced = st.Coalesced
	res.Created = st.Created
	res.Updated = st.Updated
	res.Removed = st.Removed
	res.PeakAmplitude = st.PeakAmplitude
	if sc.Ticks > 0 {
		res.MeanCells = float64(cellSum) / float64(sc.Ticks)
	}
	res.Elapsed = time.Since(start)
	return res
}

// Run executes scenarios on a pool of workers and returns results in input
// order.
func Run(scenarios []Scenario, workers int) []Result {
	if workers < 1 {
		workers = 1
	}
	type job struct {
		idx int
		sc  Scenario
	}
	type done struct {
		idx int
		res Result
	}

	jobs := make(chan job)
	results := make(chan done)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- done{idx: j.idx, res: RunScenario(j.sc)}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for i, sc := range scenarios {
			jobs <- job{idx: i, sc: sc}
		}
		close(jobs)
	}()

	all := make([]Result, len(scenarios))
	for d := range results {
		all[d.idx] = d.res
	}
	return all
}

// Rank sorts results by ascending churn, breaking ties by fewer peak cells.
// Failed scenarios sort last.
func Rank(results []Result) []Result {
	out := append([]Result(nil), results...)
	sort.SliceStable(out, func(i, j int) bool {
		if fi, fj := out[i].Err != nil, out[j].Err != nil; fi != fj {
			return fj
		}
		ci, cj := out[i].Churn(), out[j].Churn()
		if ci != cj {
			return ci < cj
		}
		return out[i].PeakCells < out[j].PeakCells
	})
	return out
}
