package clock

import (
	"sync"
	"time"
)

// FakeClock is a manually driven Clock for tests. Now stays pinned until
// the test advances it. Safe for concurrent readers so it can back the
// entitlement gate and the scheduler at the same time.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock pins the clock at start, normalized to UTC to match the
// system clock's readings.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start.UTC()}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new reading.
func (c *FakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// SetNow jumps the clock to an absolute instant, for tests that cross a
// fixed boundary rather than a relative one.
func (c *FakeClock) SetNow(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC()
}
