// Package pacer rate-limits invocations of a function, deciding when a
// stream of calls actually executes it: on the leading edge of a burst, on
// the trailing edge once things have gone quiet, or at latest after a
// configurable maximum wait.
//
// Debouncing is useful when calls may be triggered rapidly, such as in
// response to user input or filesystem events, but the underlying operation
// is expensive and only needs to be performed once per batch of calls.
// Throttling additionally guarantees at least one execution per wait window
// while calls keep arriving.
//
// The same core drives two styles of use: the imperative Scheduler, whose
// Call method records a payload and returns the most recent result, and the
// reactive Value, which commits an observed value once it stops changing.
package pacer

import (
	"time"
)

// NewDebouncer returns a scheduler that debounces fn: the operation runs
// once wait has elapsed since the most recent Call, with that call's
// payload. Leading defaults to off and trailing to on; use Leading,
// NoTrailing and WithMaxWait to adjust the edges.
//
// A zero wait means DefaultWait; a negative wait is clamped to zero, which
// makes every call's trailing edge due immediately.
func NewDebouncer[P, R any](
	wait time.Duration,
	fn func(P) R,
	opts ...Option,
) *Scheduler[P, R] {
	if wait == 0 {
		wait = DefaultWait
	}

	conf := Config{Wait: wait, Trailing: true}
	conf.Set(opts...)

	return NewScheduler(fn, conf)
}

// New returns a debounced function that delays invoking f until after wait
// time has elapsed since the last time the debounced function was invoked,
// along with a cancel function that discards any pending invocation.
//
// The cancel function is not required to be called, so can be ignored if
// not needed. Both returned functions are safe for concurrent use in
// goroutines, and can both be called multiple times.
//
// f runs synchronously from whichever call or timer triggers it, so it
// should be quick, or offload its own work.
func New(
	wait time.Duration,
	f func(),
	opts ...Option,
) (debounced func(), cancel func()) {
	s := NewDebouncer(wait, func(struct{}) struct{} {
		f()

		return struct{}{}
	}, opts...)

	return func() { s.Call(struct{}{}) }, s.Cancel
}
