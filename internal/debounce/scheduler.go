// Package debounce provides cancellable deferred work: a generation-stamped
// debouncer, a throttler, and the schedulers that drive them.
package debounce

import (
	"sort"
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call stopped it.
	Stop() bool
}

// Scheduler runs callbacks after a delay and tells the current time.
// Tests swap the wall clock for a FakeScheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// clockScheduler is backed by the runtime timers.
type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (clockScheduler) Now() time.Time {
	return time.Now()
}

// WallClock is the Scheduler used outside of tests.
var WallClock Scheduler = clockScheduler{}

// FakeScheduler is a manually advanced Scheduler.
// Callbacks run synchronously inside Advance, in due order.
type FakeScheduler struct {
	mu    sync.Mutex
	start time.Time
	now   time.Duration
	seq   int
	tasks []*fakeTimer
}

var _ Scheduler = &FakeScheduler{} // Compile-time check

type fakeTimer struct {
	sched   *FakeScheduler
	due     time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

// NewFakeScheduler returns a FakeScheduler whose clock starts at start.
func NewFakeScheduler(start time.Time) *FakeScheduler {
	return &FakeScheduler{start: start}
}

// AfterFunc registers f to run once the clock has advanced by d.
func (s *FakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &fakeTimer{sched: s, due: s.now + d, seq: s.seq, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

// Now returns the fake current time.
func (s *FakeScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start.Add(s.now)
}

// Advance moves the clock forward by d and runs every callback that became due.
// It returns the number of callbacks that ran.
func (s *FakeScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	fired := 0
	for {
		s.mu.Lock()
		next := s.nextDueLocked(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return fired
		}
		s.now = next.due
		next.fired = true
		s.mu.Unlock()

		next.f()
		fired++
	}
}

// Pending returns the number of callbacks that are scheduled and not stopped.
func (s *FakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (s *FakeScheduler) nextDueLocked(target time.Duration) *fakeTimer {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	s.tasks = live
	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].due == s.tasks[j].due {
			return s.tasks[i].seq < s.tasks[j].seq
		}
		return s.tasks[i].due < s.tasks[j].due
	})
	if len(s.tasks) == 0 || s.tasks[0].due > target {
		return nil
	}
	return s.tasks[0]
}

func (t *fakeTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
