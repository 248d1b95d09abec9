package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2019, 3, 14, 0, 0, 0, 0, time.UTC)

func TestFakeScheduler(t *testing.T) {
	t.Run("runs callbacks in due order", func(t *testing.T) {
		s := NewFakeScheduler(epoch)
		var order []int
		s.AfterFunc(30*time.Millisecond, func() { order = append(order, 3) })
		s.AfterFunc(10*time.Millisecond, func() { order = append(order, 1) })
		s.AfterFunc(20*time.Millisecond, func() { order = append(order, 2) })

		assert.Equal(t, 3, s.Pending())
		assert.Equal(t, 2, s.Advance(25*time.Millisecond))
		assert.Equal(t, []int{1, 2}, order)
		assert.Equal(t, 1, s.Advance(5*time.Millisecond))
		assert.Equal(t, []int{1, 2, 3}, order)
		assert.Equal(t, epoch.Add(30*time.Millisecond), s.Now())
	})

	t.Run("stopped callbacks never run", func(t *testing.T) {
		s := NewFakeScheduler(epoch)
		ran := false
		timer := s.AfterFunc(time.Millisecond, func() { ran = true })

		assert.True(t, timer.Stop())
		assert.False(t, timer.Stop())
		assert.Zero(t, s.Advance(time.Second))
		assert.False(t, ran)
	})

	t.Run("callbacks may schedule more work", func(t *testing.T) {
		s := NewFakeScheduler(epoch)
		count := 0
		s.AfterFunc(10*time.Millisecond, func() {
			count++
			s.AfterFunc(10*time.Millisecond, func() { count++ })
		})

		assert.Equal(t, 2, s.Advance(20*time.Millisecond))
		assert.Equal(t, 2, count)
	})
}

func TestDebouncer(t *testing.T) {
	t.Run("coalesces a burst into the last callback", func(t *testing.T) {
		s := NewFakeScheduler(epoch)
		d := New(120*time.Millisecond, WithScheduler(s))

		var got []int
		for i := range 5 {
			require.True(t, d.Schedule(func() { got = append(got, i) }))
			s.Advance(50 * time.Millisecond)
		}
		assert.Empty(t, got)
		assert.True(t, d.Pending())

		s.Advance(120 * time.Millisecond)
		assert.Equal(t, []int{4}, got)
		assert.False(t, d.Pending())
	})

	t.Run("cancel drops pending work", func(t *testing.T) {
		s := NewFakeScheduler(epoch)
		d := New(10*time.Millisecond, WithScheduler(s))

		ran := false
		d.Schedule(func() { ran = true })
		assert.True(t, d.Cancel())
		assert.False(t, d.Cancel())
		s.Advance(time.Second)
		assert.False(t, ran)
	})

	t.Run("close rejects new work", func(t *testing.T) {
		s := NewFakeScheduler(epoch)
		d := New(10*time.Millisecond, WithScheduler(s))

		ran := false
		d.Schedule(func() { ran = true })
		d.Close()
		assert.False(t, d.Schedule(func() { ran = true }))
		s.Advance(time.Second)
		assert.False(t, ran)
	})

	t.Run("stale generation is ignored", func(t *testing.T) {
		// A scheduler whose Stop never succeeds simulates a timer that already fired.
		s := &leakyScheduler{FakeScheduler: NewFakeScheduler(epoch)}
		d := New(10*time.Millisecond, WithScheduler(s))

		var got []string
		d.Schedule(func() { got = append(got, "first") })
		d.Schedule(func() { got = append(got, "second") })
		s.Advance(time.Second)
		assert.Equal(t, []string{"second"}, got)
	})

	t.Run("wall clock", func(t *testing.T) {
		d := New(5 * time.Millisecond)
		var runs atomic.Int32
		for range 10 {
			d.Schedule(func() { runs.Add(1) })
		}
		assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)
	})
}

func TestThrottler(t *testing.T) {
	t.Run("first work runs immediately", func(t *testing.T) {
		s := NewFakeScheduler(epoch)
		th := NewThrottler(100*time.Millisecond, 10*time.Millisecond, WithScheduler(s))

		ran := 0
		th.Add(func() { ran++ })
		s.Advance(0)
		assert.Equal(t, 1, ran)
	})

	t.Run("work soon after a run waits a full interval", func(t *testing.T) {
		s := NewFakeScheduler(epoch)
		th := NewThrottler(100*time.Millisecond, 10*time.Millisecond, WithScheduler(s))

		ran := 0
		th.Add(func() { ran++ })
		s.Advance(0)

		s.Advance(20 * time.Millisecond)
		th.Add(func() { ran++ })
		s.Advance(99 * time.Millisecond)
		assert.Equal(t, 1, ran)
		s.Advance(time.Millisecond)
		assert.Equal(t, 2, ran)
	})

	t.Run("work after a quiet interval uses the additional delay", func(t *testing.T) {
		s := NewFakeScheduler(epoch)
		th := NewThrottler(100*time.Millisecond, 10*time.Millisecond, WithScheduler(s))

		ran := 0
		th.Add(func() { ran++ })
		s.Advance(0)

		s.Advance(200 * time.Millisecond)
		th.Add(func() { ran++ })
		s.Advance(9 * time.Millisecond)
		assert.Equal(t, 1, ran)
		s.Advance(time.Millisecond)
		assert.Equal(t, 2, ran)
	})

	t.Run("only the latest work survives", func(t *testing.T) {
		s := NewFakeScheduler(epoch)
		th := NewThrottler(100*time.Millisecond, 0, WithScheduler(s))

		var got []int
		th.Add(func() { got = append(got, 0) })
		s.Advance(0)
		for i := 1; i <= 3; i++ {
			th.Add(func() { got = append(got, i) })
			s.Advance(10 * time.Millisecond)
		}
		s.Advance(time.Second)
		assert.Equal(t, []int{0, 3}, got)
	})

	t.Run("cancel", func(t *testing.T) {
		s := NewFakeScheduler(epoch)
		th := NewThrottler(100*time.Millisecond, 0, WithScheduler(s))

		ran := false
		th.Add(func() { ran = true })
		th.Cancel()
		s.Advance(time.Second)
		assert.False(t, ran)
	})
}

// leakyScheduler never reports a successful Stop and keeps stopped timers armed.
type leakyScheduler struct {
	*FakeScheduler
}

func (s *leakyScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.FakeScheduler.AfterFunc(d, f)
	return leakyTimer{}
}

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return false }
