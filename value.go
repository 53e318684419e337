package pacer

import (
	"sync"
	"time"
)

// Value is a reactive front-end over the scheduler: it observes a value via
// Set and commits it once the configured edges allow, so rapidly changing
// input settles into a stable output. Reads see the committed value, not
// the most recently observed one.
type Value[T comparable] struct {
	sched *Scheduler[T, struct{}]

	mu        sync.RWMutex
	observed  T
	committed T

	updates chan T
}

// NewValue returns a debounced value starting at initial. The initial value
// is committed directly, without consuming a leading edge, so the first
// actual change behaves like the first call to a fresh debouncer.
//
// A zero wait means DefaultWait.
func NewValue[T comparable](
	initial T,
	wait time.Duration,
	opts ...Option,
) *Value[T] {
	v := &Value[T]{
		observed:  initial,
		committed: initial,
		updates:   make(chan T, 1),
	}
	v.sched = NewDebouncer(wait, v.commit, opts...)

	return v
}

// NewThrottledValue is NewValue over throttle presets: changes are
// committed at most once per wait on each edge, and at least once per wait
// while the value keeps changing.
func NewThrottledValue[T comparable](
	initial T,
	wait time.Duration,
	opts ...Option,
) *Value[T] {
	v := &Value[T]{
		observed:  initial,
		committed: initial,
		updates:   make(chan T, 1),
	}
	v.sched = NewThrottler(wait, v.commit, opts...)

	return v
}

// Set observes next. If it differs from the previously observed value, a
// call is synthesized on the underlying scheduler; setting the same value
// repeatedly is a no-op.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	if next == v.observed {
		v.mu.Unlock()

		return
	}
	v.observed = next
	v.mu.Unlock()

	v.sched.Call(next)
}

// Get returns the committed value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.committed
}

// Updates returns a channel carrying committed values. The channel is
// buffered and never blocks a commit: when the consumer lags, older
// updates are dropped in favor of the latest.
func (v *Value[T]) Updates() <-chan T {
	return v.updates
}

// Pending reports whether a commit is scheduled.
func (v *Value[T]) Pending() bool {
	return v.sched.Pending()
}

// Flush commits any pending observation immediately and returns the
// committed value.
func (v *Value[T]) Flush() T {
	v.sched.Flush()

	return v.Get()
}

// Cancel discards any pending observation. The observed value is rewound to
// the committed one, so re-setting the discarded value later synthesizes a
// fresh call.
func (v *Value[T]) Cancel() {
	v.sched.Cancel()

	v.mu.Lock()
	v.observed = v.committed
	v.mu.Unlock()
}

// commit is the scheduled operation: it publishes val as the committed
// value and notifies the updates channel.
func (v *Value[T]) commit(val T) struct{} {
	v.mu.Lock()
	v.committed = val
	v.mu.Unlock()

	// Latest-wins, non-blocking delivery: drop the oldest buffered update
	// if the consumer is slow.
	select {
	case v.updates <- val:
	default:
		select {
		case <-v.updates:
		default:
		}
		select {
		case v.updates <- val:
		default:
		}
	}

	return struct{}{}
}
