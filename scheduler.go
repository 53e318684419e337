package pacer

import (
	"sync"
	"time"
)

// Scheduler rate-limits invocations of an operation. Every Call records a
// payload; the configuration decides when the operation actually runs: on
// the leading edge of a busy window, on the trailing edge once Wait has
// elapsed since the last call, and at least once per MaxWait when one is
// set. The trailing edge always uses the payload of the most recent call;
// earlier payloads in the same window are discarded.
//
// All methods are safe for concurrent use. The operation itself runs while
// the scheduler's lock is held, so Call returns results synchronously and
// timer-driven invocations are serialized with calls. The operation must
// not call back into its own scheduler.
//
// Call Cancel when discarding a scheduler, so that an armed timer cannot
// invoke the operation after its owner is gone.
//
// P is the payload type passed to the operation, R its result type. Use
// struct{} for either when it is not needed.
type Scheduler[P, R any] struct {
	mux  sync.Mutex
	fn   func(P) R
	conf Config

	lastCall   time.Time // zero means no call since the last full reset
	lastInvoke time.Time // zero means never invoked
	payload    P
	dirty      bool // a call was recorded since the last invocation
	timer      Timer
	timerGen   uint64 // invalidates callbacks from stopped timers
	lastResult R
}

// NewScheduler returns a scheduler that invokes fn according to conf. Most
// callers should use NewDebouncer or NewThrottler instead, which fill in
// the defaults for their mode.
func NewScheduler[P, R any](fn func(P) R, conf Config) *Scheduler[P, R] {
	conf.normalize()

	return &Scheduler[P, R]{fn: fn, conf: conf}
}

// Call records payload as the pending payload and invokes the operation if
// an edge is due. It returns the result of the most recent invocation,
// which may be the one triggered by this call.
func (s *Scheduler[P, R]) Call(payload P) R {
	s.mux.Lock()
	defer s.mux.Unlock()

	return s.call(payload, s.conf.Clock.Now())
}

// CallWith is Call, but first replaces the operation with fn. On repeated
// calls the last passed function wins and is the one invoked on any later
// edge. A nil fn leaves the current operation unchanged.
func (s *Scheduler[P, R]) CallWith(fn func(P) R, payload P) R {
	s.mux.Lock()
	defer s.mux.Unlock()

	if fn != nil {
		s.fn = fn
	}

	return s.call(payload, s.conf.Clock.Now())
}

// SetFunc replaces the operation. An armed timer is left running and will
// invoke the new operation when it expires.
func (s *Scheduler[P, R]) SetFunc(fn func(P) R) {
	s.mux.Lock()
	defer s.mux.Unlock()

	s.fn = fn
}

// Reconfigure applies options to the live configuration without tearing
// down an armed timer. The timer callback reads the configuration at fire
// time, so changes take effect on the next edge decision.
func (s *Scheduler[P, R]) Reconfigure(opts ...Option) {
	s.mux.Lock()
	defer s.mux.Unlock()

	s.conf.Set(opts...)
	s.conf.normalize()
}

// Cancel discards any pending payload and unschedules any armed timer. No
// invocation occurs, and a subsequent Call behaves as if the scheduler were
// freshly constructed. Cancel is idempotent.
func (s *Scheduler[P, R]) Cancel() {
	s.mux.Lock()
	defer s.mux.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerGen++

	var zero P
	s.payload = zero
	s.dirty = false
	s.lastCall = time.Time{}
	s.lastInvoke = time.Time{}
}

// Flush runs the trailing edge immediately if a timer is armed, honoring
// the trailing gate, and returns the result of the most recent invocation.
// With no timer armed it returns the stored result unchanged. Panics raised
// by the operation propagate to the caller.
func (s *Scheduler[P, R]) Flush() R {
	s.mux.Lock()
	defer s.mux.Unlock()

	if s.timer == nil {
		return s.lastResult
	}

	s.timer.Stop()
	s.timer = nil
	s.timerGen++

	return s.trailingEdge(s.conf.Clock.Now())
}

// Pending reports whether a trailing timer is currently armed.
func (s *Scheduler[P, R]) Pending() bool {
	s.mux.Lock()
	defer s.mux.Unlock()

	return s.timer != nil
}

// call runs the edge decision for a call recorded at now. Lock held.
func (s *Scheduler[P, R]) call(payload P, now time.Time) R {
	invoking := s.shouldInvoke(now)

	s.lastCall = now
	s.payload = payload
	s.dirty = true

	if invoking {
		if s.timer == nil {
			return s.leadingEdge(now)
		}

		if s.conf.maxing() {
			// The armed timer is late relative to the max wait. Invoke now
			// and restart the window rather than waiting for the callback.
			s.lastInvoke = now
			s.arm(s.conf.Wait)

			if s.conf.Leading || s.conf.Trailing {
				return s.invoke(now)
			}

			return s.lastResult
		}
	}

	if s.timer == nil {
		s.arm(s.remainingWait(now))
	}

	return s.lastResult
}

// leadingEdge starts a new busy window: it records the invocation time,
// arms the trailing timer, and invokes the operation only when the leading
// edge is enabled. Lock held.
func (s *Scheduler[P, R]) leadingEdge(now time.Time) R {
	s.lastInvoke = now
	s.arm(s.conf.Wait)

	if s.conf.Leading {
		return s.invoke(now)
	}

	return s.lastResult
}

// trailingEdge consumes or discards the pending payload. The caller must
// have cleared the timer and hold the lock.
func (s *Scheduler[P, R]) trailingEdge(now time.Time) R {
	if s.conf.Trailing && s.dirty {
		result := s.invoke(now)
		s.clearPending()

		return result
	}

	s.clearPending()

	return s.lastResult
}

// timerExpired is the timer callback. A stale generation means the timer
// was stopped (and possibly replaced) after this callback was already in
// flight, so it must do nothing.
func (s *Scheduler[P, R]) timerExpired(gen uint64) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if s.timer == nil || gen != s.timerGen {
		return
	}

	now := s.conf.Clock.Now()

	if s.shouldInvoke(now) {
		s.timer = nil
		s.guard(func() { s.trailingEdge(now) })

		return
	}

	// Fired early relative to the last call, which happens when calls
	// arrived after this timer was armed. Re-arm for what remains.
	s.arm(s.remainingWait(now))
}

// shouldInvoke reports whether an invocation is due at now: first call
// ever, quiet for at least Wait, clock moved backward, or the max wait
// exceeded.
func (s *Scheduler[P, R]) shouldInvoke(now time.Time) bool {
	if s.lastCall.IsZero() {
		return true
	}

	sinceCall := now.Sub(s.lastCall)
	if sinceCall >= s.conf.Wait || sinceCall < 0 {
		return true
	}

	return s.conf.maxing() && now.Sub(s.lastInvoke) >= s.conf.MaxWait
}

// remainingWait returns the delay until the next possible edge: the time
// left until Wait has elapsed since the last call, bounded by the time left
// until MaxWait has elapsed since the last invocation.
func (s *Scheduler[P, R]) remainingWait(now time.Time) time.Duration {
	remaining := s.conf.Wait - now.Sub(s.lastCall)

	if s.conf.maxing() {
		if m := s.conf.MaxWait - now.Sub(s.lastInvoke); m < remaining {
			remaining = m
		}
	}

	if remaining < 0 {
		remaining = 0
	}

	return remaining
}

// arm replaces any armed timer with one firing after delay.
func (s *Scheduler[P, R]) arm(delay time.Duration) {
	if s.timer != nil {
		s.timer.Stop()
	}
	if delay < 0 {
		delay = 0
	}

	s.timerGen++
	gen := s.timerGen
	s.timer = s.conf.Clock.AfterFunc(delay, func() { s.timerExpired(gen) })
}

// invoke runs the operation with the pending payload and records the
// invocation time and result. It does not clear the pending payload; the
// trailing edge does that, so that a leading invocation still leaves the
// trailing gate open. Lock held.
func (s *Scheduler[P, R]) invoke(now time.Time) R {
	s.lastInvoke = now

	if fn := s.fn; fn != nil {
		s.lastResult = fn(s.payload)
	}

	return s.lastResult
}

// clearPending drops the pending payload. Lock held.
func (s *Scheduler[P, R]) clearPending() {
	var zero P
	s.payload = zero
	s.dirty = false
}

// guard runs f, routing any panic to the configured handler. It is used on
// deferred invocation paths where no caller can recover; without a handler
// the panic propagates on the timer goroutine.
func (s *Scheduler[P, R]) guard(f func()) {
	if h := s.conf.OnPanic; h != nil {
		defer func() {
			if r := recover(); r != nil {
				h(r)
			}
		}()
	}

	f()
}
