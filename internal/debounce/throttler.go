package debounce

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttler keeps only the latest submitted work and guarantees it runs at
// most once per interval while input keeps arriving.
//
// Work submitted when the last run is older than the interval runs after
// the additional delay. Work submitted sooner waits a full interval. The
// first submission runs right away.
type Throttler struct {
	mu       sync.Mutex
	interval time.Duration
	extra    time.Duration
	limiter  *rate.Limiter
	sched    Scheduler
	gen      uint64
	timer    Timer
	ran      bool
}

// NewThrottler creates a Throttler that runs work at least once per interval.
func NewThrottler(interval, additionalDelay time.Duration, opts ...Option) *Throttler {
	o := buildOptions(opts)
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Throttler{
		interval: interval,
		extra:    additionalDelay,
		limiter:  rate.NewLimiter(limit, 1),
		sched:    o.sched,
	}
}

// Add replaces any pending work with work and schedules it.
func (t *Throttler) Add(work func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	gen := t.gen
	t.timer = t.sched.AfterFunc(t.nextDelayLocked(), func() {
		t.mu.Lock()
		if gen != t.gen {
			t.mu.Unlock()
			return
		}
		t.timer = nil
		t.ran = true
		_ = t.limiter.AllowN(t.sched.Now(), 1)
		t.mu.Unlock()
		work()
	})
}

// Cancel drops pending work.
func (t *Throttler) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// nextDelayLocked picks the delay for newly submitted work.
func (t *Throttler) nextDelayLocked() time.Duration {
	if !t.ran {
		return 0
	}
	if t.limiter.TokensAt(t.sched.Now()) >= 1 {
		return t.extra
	}
	return t.interval
}

func (t *Throttler) stopLocked() {
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
