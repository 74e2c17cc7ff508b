package core

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestThrottleRejectsPassesInsideInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	th := NewThrottle(100*time.Millisecond, clock.now)

	if !th.Allow() {
		t.Fatal("first pass must be allowed")
	}
	clock.advance(50 * time.Millisecond)
	if th.Allow() {
		t.Fatal("pass 50ms after the previous one should be rejected")
	}
	clock.advance(50 * time.Millisecond)
	if th.Allow() {
		t.Fatal("pass exactly on the interval should be rejected")
	}
	clock.advance(time.Millisecond)
	if !th.Allow() {
		t.Fatal("pass after the interval should be allowed")
	}
	if th.Allow() {
		t.Fatal("immediate repeat should be rejected")
	}
	th.Reset()
	if !th.Allow() {
		t.Fatal("pass after Reset should be allowed")
	}
}

func TestFixedStepAccumulates(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	fs := NewFixedStepWithClock(10, clock.now)

	if !fs.ShouldStep() {
		t.Fatal("first call should step from the primed accumulator")
	}
	clock.advance(50 * time.Millisecond)
	if fs.ShouldStep() {
		t.Fatal("half a tick should not step")
	}
	clock.advance(50 * time.Millisecond)
	if !fs.ShouldStep() {
		t.Fatal("a full tick of elapsed time should step")
	}
	if got := fs.Interval(); got != 100*time.Millisecond {
		t.Fatalf("expected 100ms interval, got %s", got)
	}
}

func TestSquareClampAndIndex(t *testing.T) {
	sq := NewSquare(10)
	if got := sq.Index(3, 4); got != 43 {
		t.Fatalf("expected index 43, got %d", got)
	}
	if c := sq.Coord(43); c != (Coord{X: 3, Z: 4}) {
		t.Fatalf("expected (3,4), got %+v", c)
	}
	if c := sq.Clamp(Coord{X: -5, Z: 12}); c != (Coord{X: 0, Z: 9}) {
		t.Fatalf("expected clamp to (0,9), got %+v", c)
	}
	if sq.InBounds(10, 0) || !sq.InBounds(9, 9) {
		t.Fatal("bounds check off by one")
	}
	if c := sq.Center(); c != (Coord{X: 5, Z: 5}) {
		t.Fatalf("expected center (5,5), got %+v", c)
	}
}
