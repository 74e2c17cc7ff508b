package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jello-lod/internal/config"
	"jello-lod/internal/core"
	"jello-lod/internal/record"
	"jello-lod/internal/sim"
	"jello-lod/internal/transport/ws"
)

type options struct {
	ticks  int
	addr   string
	record string
	seed   int64
	walk   int
}

func main() {
	var opts options
	flag.IntVar(&opts.ticks, "ticks", 0, "stop after this many ticks (0 runs until interrupted)")
	flag.StringVar(&opts.addr, "ws", "", "serve presenters on this address, e.g. :8080")
	flag.StringVar(&opts.record, "record", "", "write a zstd JSONL frame trace to this path")
	flag.Int64Var(&opts.seed, "seed", 1, "focus walk seed")
	flag.IntVar(&opts.walk, "walk", 6, "move the focus one random step every N ticks (0 disables)")
	cfg, err := config.ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config, opts options) error {
	s, err := sim.New(cfg)
	if err != nil {
		return err
	}

	var hub *ws.Hub
	if opts.addr != "" {
		hub = ws.NewHub(nil)
		mux := http.NewServeMux()
		mux.Handle("/ws", hub.Handler())
		mux.Handle("/bootstrap", hub.BootstrapHandler())
		srv := &http.Server{Addr: opts.addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Printf("serving presenters on %s", opts.addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http: %v", err)
			}
		}()
		defer func() {
			shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdown)
		}()
	}

	var rec *record.FrameLogger
	if opts.record != "" {
		rec, err = record.NewFrameLogger(opts.record)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Printf("record: %v", err)
			}
			log.Printf("recorded %d frames to %s", rec.Len(), opts.record)
		}()
	}

	rng := core.NewRNG(opts.seed)
	ticker := time.NewTicker(core.NewFixedStep(cfg.TPS).Interval())
	defer ticker.Stop()

	steered := false
	for tick := 0; opts.ticks == 0 || tick < opts.ticks; tick++ {
		select {
		case <-ctx.Done():
			logSummary(s, tick)
			return nil
		case <-ticker.C:
		}

		if hub != nil {
			steered = drain(hub, s) || steered
		}
		if !steered && opts.walk > 0 && tick%opts.walk == 0 {
			f := s.Focus()
			s.SetFocus(f.X+rng.Step(), f.Z+rng.Step())
		}

		frame := s.Tick()
		if hub != nil {
			if frame.Reset {
				hub.SetBootstrap(ws.BootstrapOf(s))
			}
			if err := hub.Publish(frame); err != nil {
				return err
			}
		}
		if rec != nil {
			if err := rec.WriteFrame(frame); err != nil {
				return err
			}
		}
	}
	logSummary(s, opts.ticks)
	return nil
}

// drain applies every queued presenter input. It reports whether a presenter
// moved the focus, which stops the scripted walk.
func drain(hub *ws.Hub, s *sim.Simulation) (steered bool) {
	for {
		select {
		case in := <-hub.Inputs():
			if err := in.Apply(s); err != nil {
				log.Printf("input %s: %v", in.Type, err)
				continue
			}
			if in.Type == ws.TypeFocus {
				steered = true
			}
		default:
			return steered
		}
	}
}

func logSummary(s *sim.Simulation, ticks int) {
	st := s.Stats()
	log.Printf("ran %d ticks: reconciles=%d coalesced=%d created=%d updated=%d removed=%d cells=%d seams=%d peak=%.3f",
		ticks, st.Reconciles, st.Coalesced, st.Created, st.Updated, st.Removed, st.Cells, st.Seams, st.PeakAmplitude)
}
