package core

import "time"

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// FixedStep helps run simulation updates at a steady ticks-per-second rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         Clock
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	return NewFixedStepWithClock(tps, time.Now)
}

// NewFixedStepWithClock is NewFixedStep with an explicit time source.
func NewFixedStepWithClock(tps int, now Clock) *FixedStep {
	if tps <= 0 {
		tps = 60
	}
	if now == nil {
		now = time.Now
	}
	fs := &FixedStep{now: now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// Interval returns the duration of one tick.
func (f *FixedStep) Interval() time.Duration { return f.step }

// ShouldStep reports whether the simulation should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}

// Throttle enforces a minimum interval between passes of an expensive
// operation. Calls that arrive too early are rejected and the caller is
// expected to retry later with the latest input.
type Throttle struct {
	interval time.Duration
	last     time.Time
	now      Clock
}

// NewThrottle returns a Throttle with the given minimum interval. A nil clock
// uses time.Now.
func NewThrottle(interval time.Duration, now Clock) *Throttle {
	if now == nil {
		now = time.Now
	}
	if interval < 0 {
		interval = 0
	}
	return &Throttle{interval: interval, now: now}
}

// SetInterval changes the minimum spacing between passes.
func (t *Throttle) SetInterval(interval time.Duration) {
	if interval < 0 {
		interval = 0
	}
	t.interval = interval
}

// Interval returns the configured minimum spacing.
func (t *Throttle) Interval() time.Duration { return t.interval }

// Allow reports whether a pass may run now and, if so, records it.
func (t *Throttle) Allow() bool {
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) <= t.interval {
		return false
	}
	t.last = now
	return true
}

// Reset forgets the previous pass so the next Allow succeeds.
func (t *Throttle) Reset() { t.last = time.Time{} }
