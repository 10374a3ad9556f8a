package testutil

import (
	"sync"
	"time"
)

// FakeClock is a settable wall clock for tests.
//
// Now returns the current fake time; Advance moves it forward. Tests that
// need byte-identical created_time values across runs use a FakeClock instead
// of the system clock.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// DefaultStart is the instant NewFakeClock starts at when given a zero time.
var DefaultStart = time.UnixMilli(1700000000000).UTC()

// NewFakeClock creates a clock fixed at start (DefaultStart if zero).
func NewFakeClock(start time.Time) *FakeClock {
	if start.IsZero() {
		start = DefaultStart
	}
	return &FakeClock{now: start}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new time.
func (c *FakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Set moves the clock to t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// TickingClock advances by step after every Now call, so consecutive reads
// are strictly increasing.
type TickingClock struct {
	*FakeClock
	step time.Duration
}

// NewTickingClock creates a clock starting at start that moves step per read.
func NewTickingClock(start time.Time, step time.Duration) *TickingClock {
	return &TickingClock{FakeClock: NewFakeClock(start), step: step}
}

// Now returns the current time, then advances by step.
func (c *TickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}
