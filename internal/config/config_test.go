package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"jello-lod/internal/lod"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jello.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if c.Res != 40 || c.CellSize != 10 || c.Damping != 0.93 || c.ThrottleInterval != 100*time.Millisecond {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestLoadAppliesOverDefaults(t *testing.T) {
	path := writeFile(t, `
res: 24
damping: 0.9
stimulus:
  enabled: false
throttle_ms: 250
view: altitude
tiers:
  - {min_distance: 0, max_distance: 10, step: 1}
  - {min_distance: 8, step: 2, detail: 0.5, animate: false}
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Res != 24 || c.Damping != 0.9 || c.StimulusEnabled || c.ThrottleInterval != 250*time.Millisecond {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.StimulusMagnitude != 15 || c.CellSize != 10 {
		t.Fatalf("omitted keys should keep defaults: %+v", c)
	}
	if c.ViewMode != ViewAltitude {
		t.Fatalf("view mode = %v, want altitude", c.ViewMode)
	}
	if len(c.Tiers) != 2 {
		t.Fatalf("expected 2 tiers, got %d", len(c.Tiers))
	}
	if c.Tiers[0].Detail != 1 || !c.Tiers[0].Animate {
		t.Fatalf("tier detail and animate should default on: %+v", c.Tiers[0])
	}
	if c.Tiers[1].Bounded() || c.Tiers[1].Animate || c.Tiers[1].Detail != 0.5 {
		t.Fatalf("second tier should be unbounded, static and half detail: %+v", c.Tiers[1])
	}
}

func TestLoadPreset(t *testing.T) {
	c, err := Load(writeFile(t, "preset: coarse\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want, _ := lod.Lookup("coarse")
	if len(c.Tiers) != len(want) || c.Tiers[0] != want[0] {
		t.Fatalf("preset not applied: %v", c.Tiers)
	}
}

func TestLoadRejectsSchemaViolations(t *testing.T) {
	for name, body := range map[string]string{
		"unknown key":     "colour: red\n",
		"damping range":   "damping: 1.5\n",
		"fractional res":  "res: 2.5\n",
		"bad view":        "view: wireframe\n",
		"zero step":       "tiers:\n  - {min_distance: 0, step: 0}\n",
		"preset and list": "preset: flat\ntiers:\n  - {min_distance: 0, step: 1}\n",
	} {
		if _, err := Load(writeFile(t, body)); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestLoadRejectsMalformedTier(t *testing.T) {
	_, err := Load(writeFile(t, "tiers:\n  - {min_distance: 30, max_distance: 10, step: 1}\n"))
	if !errors.Is(err, ErrInvalid) || !errors.Is(err, lod.ErrInvalidRange) {
		t.Fatalf("min > max should fail with ErrInvalidRange, got %v", err)
	}
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	c, err := Load(writeFile(t, ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Res != Default().Res || len(c.Tiers) != 4 {
		t.Fatalf("empty file should yield defaults, got %+v", c)
	}
}

func TestFromMapIgnoresBadValues(t *testing.T) {
	c := FromMap(map[string]string{
		"res":         "20",
		"damping":     "7",
		"throttle_ms": "nope",
		"view":        "velocity",
		"tiers":       "flat",
		"tps":         "-3",
	})
	if c.Res != 20 || c.ViewMode != ViewVelocity || len(c.Tiers) != 1 {
		t.Fatalf("valid overrides not applied: %+v", c)
	}
	if c.Damping != 0.93 || c.ThrottleInterval != 100*time.Millisecond || c.TPS != 60 {
		t.Fatalf("invalid overrides should be ignored: %+v", c)
	}
}

func TestBindParsesFlags(t *testing.T) {
	c := Default()
	fs := flag.NewFlagSet("jello", flag.ContinueOnError)
	c.Bind(fs)
	if err := fs.Parse([]string{"-res", "16", "-throttle", "40ms", "-view", "debug", "-tiers", "bounded"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Res != 16 || c.ThrottleInterval != 40*time.Millisecond || c.ViewMode != ViewDebug {
		t.Fatalf("flags not applied: %+v", c)
	}
	if _, ok := c.Tiers.MaxFiniteDistance(); !ok || c.Tiers.HasUnbounded() {
		t.Fatal("bounded preset should have no unbounded tier")
	}
	if err := fs.Parse([]string{"-view", "sepia"}); err == nil {
		t.Fatal("unknown view mode should fail to parse")
	}
}

func TestParseFlagsLayersOverFile(t *testing.T) {
	path := writeFile(t, "res: 30\ndamping: 0.8\nview: debug\n")
	fs := flag.NewFlagSet("jello", flag.ContinueOnError)
	c, err := ParseFlags(fs, []string{"-config", path, "-res", "12", "-view", "altitude", "-tiers", "flat"})
	if err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if c.Res != 12 || c.ViewMode != ViewAltitude || len(c.Tiers) != 1 {
		t.Fatalf("explicit flags should win over the file: %+v", c)
	}
	if c.Damping != 0.8 {
		t.Fatalf("file damping lost: got %v", c.Damping)
	}

	fs = flag.NewFlagSet("jello", flag.ContinueOnError)
	if _, err := ParseFlags(fs, []string{"-res", "0"}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for res 0, got %v", err)
	}
}

func TestViewModeCycle(t *testing.T) {
	if ViewAltitude.Next() != ViewDefault || ViewDefault.Next() != ViewVelocity {
		t.Fatal("view modes should cycle in order")
	}
	for _, m := range ViewModes() {
		parsed, err := ParseViewMode(m.String())
		if err != nil || parsed != m {
			t.Fatalf("round trip of %v failed", m)
		}
	}
}
