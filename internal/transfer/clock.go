package transfer

import (
	"sync"
	"time"
)

// Clock supplies the current time to the tick driver so tests can step
// time deterministically instead of waiting on wall-clock timers.
type Clock interface {
	Now() time.Time
}

// realClock implements Clock using system time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// ManualClock is a Clock for tests that only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock returns a ManualClock starting at the given time.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
