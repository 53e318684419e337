// Package fswatch coalesces bursts of filesystem notifications into a
// single callback. Editors and atomic-write tools commonly emit several
// events per save (create, write, rename, chmod); debouncing them avoids
// reacting to partial writes.
package fswatch

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	pacer "github.com/pacerkit/go-pacer"
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger used for watch lifecycle, coalesced flushes,
// and watcher errors. The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(w *Watcher) {
		w.log = log
	}
}

// WithMaxWait bounds how long a steady stream of events can postpone the
// callback; without it, a file being rewritten continuously would never
// settle.
func WithMaxWait(maxWait time.Duration) Option {
	return func(w *Watcher) {
		w.maxWait = maxWait
	}
}

// Watcher watches filesystem paths and delivers batches of events to a
// callback once the configured quiet period has elapsed.
type Watcher struct {
	fsw     *fsnotify.Watcher
	sched   *pacer.Scheduler[struct{}, struct{}]
	fn      func([]fsnotify.Event)
	log     zerolog.Logger
	maxWait time.Duration

	mu      sync.Mutex
	pending []fsnotify.Event
}

// New returns a watcher that invokes fn with the batch of events observed
// since the previous invocation, once wait has elapsed since the most
// recent event. A zero wait means pacer.DefaultWait.
//
// fn runs on a timer goroutine; panics it raises are logged, not rethrown.
func New(
	wait time.Duration,
	fn func([]fsnotify.Event),
	opts ...Option,
) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{fsw: fsw, fn: fn, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(w)
	}

	schedOpts := []pacer.Option{
		pacer.WithPanicHandler(func(r any) {
			w.log.Error().Interface("panic", r).Msg("watch callback panicked")
		}),
	}
	if w.maxWait > 0 {
		schedOpts = append(schedOpts, pacer.WithMaxWait(w.maxWait))
	}
	w.sched = pacer.NewDebouncer(wait, w.flush, schedOpts...)

	return w, nil
}

// Add starts watching the given file or directory.
func (w *Watcher) Add(path string) error {
	if err := w.fsw.Add(path); err != nil {
		w.log.Warn().Err(err).Str("path", path).Msg("watch add failed")

		return err
	}
	w.log.Debug().Str("path", path).Msg("watching")

	return nil
}

// Run consumes filesystem events until ctx is canceled or the underlying
// watcher is closed. Event bursts are recorded and the callback scheduled;
// watcher errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Debug().Msg("watch loop started")

	for {
		select {
		case <-ctx.Done():
			w.sched.Cancel()
			w.log.Debug().Msg("watch loop stopped")

			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				w.sched.Cancel()

				return nil
			}

			w.mu.Lock()
			w.pending = append(w.pending, ev)
			w.mu.Unlock()

			w.log.Debug().
				Str("path", ev.Name).
				Str("op", ev.Op.String()).
				Msg("event recorded")
			w.sched.Call(struct{}{})
		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.sched.Cancel()

				return nil
			}
			w.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// Flush delivers any recorded events to the callback immediately.
func (w *Watcher) Flush() {
	w.sched.Flush()
}

// Close stops watching and discards any pending batch. It does not wait for
// an in-flight callback to return.
func (w *Watcher) Close() error {
	w.sched.Cancel()

	return w.fsw.Close()
}

// flush is the scheduled operation: it takes the batch recorded so far and
// hands it to the callback.
func (w *Watcher) flush(struct{}) struct{} {
	w.mu.Lock()
	batch := w.pending
	w.pending = nil
	w.mu.Unlock()

	if len(batch) == 0 {
		return struct{}{}
	}

	w.log.Debug().Int("events", len(batch)).Msg("flushing coalesced events")
	w.fn(batch)

	return struct{}{}
}
