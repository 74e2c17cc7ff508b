package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"runtime"
	"strings"
	"time"

	"jello-lod/internal/lod"
	"jello-lod/internal/sweep"
)

func main() {
	presets := flag.String("presets", strings.Join(lod.Presets(), ","), "comma-separated tier presets")
	throttles := flag.String("throttles", "0s,50ms,100ms,250ms", "comma-separated LOD throttle intervals")
	res := flag.Int("res", 60, "grid resolution")
	ticks := flag.Int("ticks", 600, "ticks to simulate per scenario")
	seed := flag.Int64("seed", 1337, "focus walk seed")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	dbPath := flag.String("db", "", "store results in this SQLite database")
	run := flag.String("run", "", "run label stored with results (default: start time)")
	flag.Parse()

	intervals, err := parseDurations(*throttles)
	if err != nil {
		log.Fatalf("throttles: %v", err)
	}
	scenarios, err := sweep.Grid(splitList(*presets), intervals, *res, *ticks, *seed)
	if err != nil {
		log.Fatalf("scenarios: %v", err)
	}

	fmt.Printf("Sweeping %d scenarios (%d workers, %d ticks)\n", len(scenarios), *workers, *ticks)
	start := time.Now()
	results := sweep.Run(scenarios, *workers)
	elapsed := time.Since(start)

	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("FAILED %s: %v\n", r.Scenario, r.Err)
		}
	}

	ranked := sweep.Rank(results)
	fmt.Printf("\nTop 5 results (elapsed %s):\n", elapsed.Round(time.Millisecond))
	for i := 0; i < len(ranked) && i < 5; i++ {
		r := ranked[i]
		if r.Err != nil {
			break
		}
		fmt.Printf("%2d) churn=%.2f reconciles=%d coalesced=%d created=%d updated=%d removed=%d cells=%d/%.1f seams=%d peak=%.3f %s\n",
			i+1, r.Churn(), r.Reconciles, r.Coalesced, r.Created, r.Updated, r.Removed, r.PeakCells, r.MeanCells, r.PeakSeams, r.PeakAmplitude, r.Scenario)
	}

	if *dbPath == "" {
		return
	}
	label := *run
	if label == "" {
		label = start.UTC().Format(time.RFC3339)
	}
	store, err := sweep.OpenStore(*dbPath)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer store.Close()
	ctx := context.Background()
	if err := store.Save(ctx, label, results); err != nil {
		log.Fatalf("save: %v", err)
	}
	best, err := store.Best(ctx, "", 1)
	if err != nil {
		log.Fatalf("best: %v", err)
	}
	fmt.Printf("\nSaved run %q to %s\n", label, *dbPath)
	if len(best) > 0 {
		b := best[0]
		fmt.Printf("Best stored overall: run=%s preset=%s throttle=%dms res=%d churn=%.2f cells=%d\n",
			b.Run, b.Preset, b.ThrottleMs, b.Res, b.Churn, b.PeakCells)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDurations(s string) ([]time.Duration, error) {
	var out []time.Duration
	for _, part := range splitList(s) {
		d, err := time.ParseDuration(part)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
