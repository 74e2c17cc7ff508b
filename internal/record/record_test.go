package record

import (
	"io"
	"log"
	"path/filepath"
	"testing"

	"jello-lod/internal/config"
	"jello-lod/internal/sim"
)

func TestWriterRoundTripsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace", "a.jsonl.zst")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := w.Write(map[string]int{"i": i}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close should be a no-op: %v", err)
	}
	if err := w.Write(1); err == nil {
		t.Fatal("write after close should fail")
	}

	lines, err := ReadAll(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(lines) != 3 || string(lines[2]) != `{"i":2}` {
		t.Fatalf("unexpected lines %q", lines)
	}
}

func TestFrameTrace(t *testing.T) {
	s, err := sim.New(config.Default(), sim.WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("new sim: %v", err)
	}
	path := filepath.Join(t.TempDir(), "frames.jsonl.zst")
	l, err := NewFrameLogger(path)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	want := make([]sim.Frame, 0, 4)
	for i := 0; i < 4; i++ {
		s.SetFocus(20+i, 20)
		f := s.Tick()
		want = append(want, f)
		if err := l.WriteFrame(f); err != nil {
			t.Fatalf("write frame: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := ReadFrames(path)
	if err != nil {
		t.Fatalf("read frames: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("read %d frames, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i].Tick != want[i].Tick || got[i].Focus != want[i].Focus || len(got[i].Cells) != len(want[i].Cells) {
			t.Fatalf("frame %d mismatch", i)
		}
	}
	if !got[0].Reset || len(got[0].Changes.Created) == 0 {
		t.Fatal("first frame should carry the initial build")
	}
}
