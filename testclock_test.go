package pacer

import (
	"sync"
	"time"
)

// mockClock is a virtual Clock. Timers fire only when Advance moves time
// past their deadline, in deadline order, on the calling goroutine, so
// tests can assert exact invocation counts and timestamps.
type mockClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*mockTimer
}

type mockTimer struct {
	c       *mockClock
	when    time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Unix(0, 0)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *mockClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &mockTimer{c: c, when: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, t)

	return t
}

func (t *mockTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true

	return true
}

// Advance moves the clock forward by d, firing every due timer at its own
// deadline. Timers armed by fired callbacks are honored within the same
// advance when they fall inside it.
func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)

	for {
		t := c.nextDue(target)
		if t == nil {
			break
		}

		if t.when.After(c.now) {
			c.now = t.when
		}
		t.fired = true

		c.mu.Unlock()
		t.fn()
		c.mu.Lock()
	}

	c.now = target
	c.mu.Unlock()
}

// Jump moves the clock without firing timers, simulating timers that run
// late relative to real elapsed time. Negative values move time backward.
func (c *mockClock) Jump(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// nextDue returns the unfired, unstopped timer with the earliest deadline
// at or before target. Caller holds mu.
func (c *mockClock) nextDue(target time.Time) *mockTimer {
	var best *mockTimer
	for _, t := range c.timers {
		if t.stopped || t.fired || t.when.After(target) {
			continue
		}
		if best == nil || t.when.Before(best.when) {
			best = t
		}
	}

	return best
}
