package pacer

import (
	"time"
)

// Clock is the time source used by schedulers. It exists so that tests can
// substitute a virtual clock and advance it deterministically; production
// code uses the system clock by default.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc schedules fn to run in its own goroutine after d has
	// elapsed, and returns a Timer that can unschedule it.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is the handle for a callback scheduled via Clock.AfterFunc.
type Timer interface {
	// Stop unschedules the callback. It reports whether the call stopped
	// the timer, and is a no-op if the timer already fired or was stopped.
	Stop() bool
}

// SystemClock returns the real time.Now / time.AfterFunc backed Clock used
// when no other Clock is configured.
func SystemClock() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
