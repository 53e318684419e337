package pacer

import (
	"time"
)

// DefaultWait is the wait duration used by the front-end constructors when
// the caller passes a zero wait.
const DefaultWait = 500 * time.Millisecond

// Config holds the timing configuration for a scheduler. Front-end
// constructors populate the defaults for their mode (debounce or throttle)
// before applying options, so most callers never build one directly.
type Config struct {
	// Wait is the quiet period that must elapse after the last call before
	// a trailing-edge invocation. Negative values are clamped to zero.
	Wait time.Duration

	// Leading invokes on the first call of a new busy window.
	Leading bool

	// Trailing invokes once Wait has elapsed since the last call.
	Trailing bool

	// MaxWait caps how long an invocation may be deferred despite
	// continuous calls. Zero disables the cap; a non-zero value is never
	// effectively less than Wait.
	MaxWait time.Duration

	// Clock supplies time and timers. Nil means the system clock.
	Clock Clock

	// OnPanic, if set, receives values recovered from panics raised by the
	// operation on deferred invocation paths (timer expiry, synthesized
	// calls). When nil such panics propagate on the timer goroutine.
	OnPanic func(recovered any)
}

// Set applies the given options to the config.
func (c *Config) Set(o ...Option) {
	for _, opt := range o {
		opt(c)
	}
}

// normalize clamps invalid numeric input and resolves derived values.
func (c *Config) normalize() {
	if c.Wait < 0 {
		c.Wait = 0
	}
	if c.MaxWait < 0 {
		c.MaxWait = 0
	}
	if c.MaxWait > 0 && c.MaxWait < c.Wait {
		c.MaxWait = c.Wait
	}
	if c.Clock == nil {
		c.Clock = SystemClock()
	}
}

// maxing reports whether a maximum wait is in effect.
func (c *Config) maxing() bool { return c.MaxWait > 0 }
