package scrollsync

import (
	"sync"
	"time"
)

// Throttle runs fn at most once per interval however often Trigger is
// called. The first trigger in a quiet period runs fn immediately; triggers
// that arrive while the gate is closed collapse into one more run when the
// interval ends, so the final state is always observed.
type Throttle struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	fn       func()
	timer    Timer
	pending  bool
	stopped  bool
}

// NewThrottle returns an open gate around fn.
func NewThrottle(clock Clock, interval time.Duration, fn func()) *Throttle {
	return &Throttle{clock: clock, interval: interval, fn: fn}
}

// Trigger requests a run of fn.
func (t *Throttle) Trigger() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	if t.timer != nil {
		t.pending = true
		t.mu.Unlock()
		return
	}
	t.timer = t.clock.AfterFunc(t.interval, t.tick)
	t.mu.Unlock()
	t.fn()
}

func (t *Throttle) tick() {
	t.mu.Lock()
	if t.stopped || !t.pending {
		t.timer = nil
		t.mu.Unlock()
		return
	}
	t.pending = false
	t.timer = t.clock.AfterFunc(t.interval, t.tick)
	t.mu.Unlock()
	t.fn()
}

// Pending reports whether a trailing run is queued.
func (t *Throttle) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Stop closes the gate for good and drops any pending run.
func (t *Throttle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.pending = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
