package debounce

import (
	"sync"
	"time"
)

// Option configures a Debouncer or a Throttler.
type Option func(*options)

type options struct {
	sched Scheduler
}

// WithScheduler replaces the wall clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.sched = s
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{sched: WallClock}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Debouncer runs only the last of a burst of scheduled callbacks, once the
// burst has been quiet for the configured delay.
//
// Every Schedule call bumps a generation counter and stamps its timer with it.
// A timer whose generation is stale when it fires does nothing, so a callback
// that raced with Cancel or a newer Schedule can never run.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	sched  Scheduler
	gen    uint64
	timer  Timer
	closed bool
}

// New creates a Debouncer with the given quiet period.
func New(delay time.Duration, opts ...Option) *Debouncer {
	o := buildOptions(opts)
	return &Debouncer{delay: delay, sched: o.sched}
}

// Schedule cancels any pending callback and arms f to run after the delay.
// It returns false when the debouncer is closed.
func (d *Debouncer) Schedule(f func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	d.stopLocked()
	gen := d.gen
	d.timer = d.sched.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.closed || gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		f()
	})
	return true
}

// Cancel drops the pending callback, if any, and reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

// Pending reports whether a callback is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Close cancels the pending callback and rejects later ones.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.closed = true
}

// stopLocked invalidates the current generation and stops its timer.
func (d *Debouncer) stopLocked() bool {
	d.gen++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}
