package pacer

import (
	"time"
)

// NewThrottler returns a scheduler that throttles fn: under continuous
// calls the operation runs at most once per wait on each edge, and at least
// once per wait. It is a debouncer with the max wait forced equal to wait
// and both edges defaulting to on; use NoLeading or NoTrailing to disable
// an edge. Any WithMaxWait option is overridden.
func NewThrottler[P, R any](
	wait time.Duration,
	fn func(P) R,
	opts ...Option,
) *Scheduler[P, R] {
	if wait == 0 {
		wait = DefaultWait
	}

	conf := Config{Wait: wait, Leading: true, Trailing: true}
	conf.Set(opts...)
	conf.MaxWait = conf.Wait

	return NewScheduler(fn, conf)
}

// NewThrottle returns a throttled function that invokes f at most once per
// wait on each edge while being called repeatedly, along with a cancel
// function that discards any pending invocation. See New for the calling
// conventions shared with the debounced form.
func NewThrottle(
	wait time.Duration,
	f func(),
	opts ...Option,
) (throttled func(), cancel func()) {
	s := NewThrottler(wait, func(struct{}) struct{} {
		f()

		return struct{}{}
	}, opts...)

	return func() { s.Call(struct{}{}) }, s.Cancel
}
