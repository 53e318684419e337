package pacer

import (
	"time"
)

// Option configures a scheduler.
type Option func(*Config)

// Leading returns an option that enables the leading edge: the first call
// of a new busy window invokes the operation immediately.
//
// When combined with the trailing edge, note that a single isolated call
// invokes the operation twice, once on each edge. This matches
// lodash-style debounce semantics and is intentional; see Trailing.
func Leading() Option {
	return func(c *Config) {
		c.Leading = true
	}
}

// NoLeading returns an option that disables the leading edge. Useful with
// the throttle constructors, where leading defaults to on.
func NoLeading() Option {
	return func(c *Config) {
		c.Leading = false
	}
}

// Trailing returns an option that enables the trailing edge: the operation
// is invoked once the wait duration has elapsed since the last call, using
// the payload of that last call.
//
// With both edges enabled, the trailing edge fires whenever any call was
// recorded since the previous invocation, so one isolated call produces two
// invocations with the same payload. Code ported from lodash-style
// debouncers depends on this, so it is preserved rather than suppressed.
func Trailing() Option {
	return func(c *Config) {
		c.Trailing = true
	}
}

// NoTrailing returns an option that disables the trailing edge. Payloads
// still pending when the wait expires are discarded.
//
// Disabling both edges means the operation is never invoked at all, no
// matter the call rate or max wait.
func NoTrailing() Option {
	return func(c *Config) {
		c.Trailing = false
	}
}

// WithWait returns an option that sets the wait duration, overriding the
// constructor argument. Mostly useful with Reconfigure, which lets the wait
// change without tearing down an armed timer. Negative values are clamped
// to zero.
func WithWait(wait time.Duration) Option {
	return func(c *Config) {
		c.Wait = wait
	}
}

// WithMaxWait returns an option that bounds how long an invocation may be
// deferred. Without it, continuous calls within the wait duration postpone
// the operation indefinitely; with it, the operation is invoked with the
// most recent payload at least once per maxWait.
//
// A maxWait smaller than wait is raised to wait. Negative values disable
// the bound.
func WithMaxWait(maxWait time.Duration) Option {
	return func(c *Config) {
		c.MaxWait = maxWait
	}
}

// WithClock returns an option that replaces the system clock, letting tests
// drive the scheduler on virtual time.
func WithClock(clock Clock) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

// WithPanicHandler returns an option that registers a handler for panics
// raised by the operation on deferred invocation paths, where no caller is
// in a position to recover them. Panics on synchronous paths (a leading
// edge inside Call, or Flush) always propagate to the caller.
func WithPanicHandler(fn func(recovered any)) Option {
	return func(c *Config) {
		c.OnPanic = fn
	}
}
