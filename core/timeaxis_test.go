package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/chartscope/schema"
)

func newAxis(t *testing.T, n int) *TimeAxis {
	t.Helper()
	ts := make([]int64, n)
	for i := range ts {
		ts[i] = int64(i)
	}
	a, err := NewTimeAxis(ts)
	require.NoError(t, err)
	return a
}

func TestNewTimeAxis(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := NewTimeAxis(nil)
		assert.ErrorIs(t, err, ErrEmptyTimestamps)
	})

	t.Run("uniform positions", func(t *testing.T) {
		a, err := NewTimeAxis([]int64{100, 250, 900})
		require.NoError(t, err)
		points := a.Points()
		require.Len(t, points, 3)
		assert.Equal(t, 0.0, points[0].Position)
		assert.Equal(t, 0.5, points[1].Position)
		assert.Equal(t, 1.0, points[2].Position)
		assert.Equal(t, int64(250), points[1].Timestamp)
	})

	t.Run("full viewport", func(t *testing.T) {
		a := newAxis(t, 10)
		assert.Equal(t, 0, a.Indices().Left)
		assert.Equal(t, 9, a.Indices().Right)
		assert.Equal(t, 1.0, a.WindowSize())
	})

	t.Run("single point", func(t *testing.T) {
		a := newAxis(t, 1)
		assert.Equal(t, 0.0, a.Points()[0].Position)

		calls := 0
		a.OnViewportChanged(func() { calls++ })
		a.SetLeftLimit(0.5)
		a.SetRightLimit(0.5)
		a.SetBothLimits(0.2, 0.8)
		assert.Zero(t, calls)
		assert.Equal(t, 0, a.Indices().Left)
		assert.Equal(t, 0, a.Indices().Right)
	})
}

func TestTimeAxisLimits(t *testing.T) {
	t.Run("both limits over the full range", func(t *testing.T) {
		a := newAxis(t, 10)
		a.SetBothLimits(0.0, 1.0)
		assert.Equal(t, 0, a.Indices().Left)
		assert.Equal(t, 9, a.Indices().Right)
	})

	t.Run("right collapsing onto left is pushed past it", func(t *testing.T) {
		a := newAxis(t, 10)
		a.SetLeftLimit(0.3)
		a.SetRightLimit(0.3)
		assert.Equal(t, 3, a.Indices().Left)
		assert.Equal(t, 4, a.Indices().Right)
	})

	t.Run("left resolves to first point at or after", func(t *testing.T) {
		a := newAxis(t, 5)
		a.SetLeftLimit(0.25)
		assert.Equal(t, 1, a.Indices().Left)
		a.SetLeftLimit(0.26)
		assert.Equal(t, 2, a.Indices().Left)
	})

	t.Run("right resolves to last point at or before", func(t *testing.T) {
		a := newAxis(t, 5)
		a.SetRightLimit(0.74)
		assert.Equal(t, 2, a.Indices().Right)
		a.SetRightLimit(0.75)
		assert.Equal(t, 3, a.Indices().Right)
	})

	t.Run("left never passes the second to last point", func(t *testing.T) {
		a := newAxis(t, 10)
		a.SetLeftLimit(1.0)
		assert.Equal(t, 8, a.Indices().Left)
		assert.Equal(t, 9, a.Indices().Right)
	})

	t.Run("left move pushes right", func(t *testing.T) {
		a := newAxis(t, 10)
		a.SetRightLimit(0.4)
		require.Equal(t, 3, a.Indices().Right)
		a.SetLeftLimit(0.5)
		assert.Equal(t, 5, a.Indices().Left)
		assert.Equal(t, 6, a.Indices().Right)
	})

	t.Run("limits are clamped", func(t *testing.T) {
		a := newAxis(t, 10)
		a.SetBothLimits(-2, 7)
		assert.Equal(t, 0.0, a.Limits().Left)
		assert.Equal(t, 1.0, a.Limits().Right)
		assert.Equal(t, 0, a.Indices().Left)
		assert.Equal(t, 9, a.Indices().Right)
	})

	t.Run("inverted limits stay ordered", func(t *testing.T) {
		a := newAxis(t, 10)
		a.SetBothLimits(0.8, 0.2)
		assert.Equal(t, schema.ViewportIndices{Left: 8, Right: 9}, a.Indices())
		assert.Equal(t, 0.8, a.Limits().Left)
		assert.Equal(t, 1.0, a.Limits().Right)
		assert.InDelta(t, 0.2, a.WindowSize(), 1e-12)
	})

	t.Run("equal limits widen to one step", func(t *testing.T) {
		a := newAxis(t, 10)
		a.SetBothLimits(0.3, 0.3)
		assert.Equal(t, schema.ViewportIndices{Left: 3, Right: 4}, a.Indices())
		assert.Equal(t, 0.3, a.Limits().Left)
		assert.InDelta(t, 4.0/9, a.Limits().Right, 1e-12)
		assert.Positive(t, a.WindowSize())
	})

	t.Run("left at the end snaps to the last step", func(t *testing.T) {
		a := newAxis(t, 10)
		a.SetLeftLimit(1)
		assert.InDelta(t, 8.0/9, a.Limits().Left, 1e-12)
		assert.Equal(t, 1.0, a.Limits().Right)
	})

	t.Run("NaN is ignored", func(t *testing.T) {
		a := newAxis(t, 10)
		calls := 0
		a.OnViewportChanged(func() { calls++ })
		a.SetLeftLimit(math.NaN())
		a.SetBothLimits(math.NaN(), math.NaN())
		assert.Zero(t, calls)
		assert.Equal(t, 0.0, a.Limits().Left)
	})

	t.Run("window size", func(t *testing.T) {
		a := newAxis(t, 10)
		a.SetBothLimits(0.25, 0.75)
		assert.InDelta(t, 0.5, a.WindowSize(), 1e-12)
	})
}

func TestTimeAxisNotifications(t *testing.T) {
	t.Run("one per setter", func(t *testing.T) {
		a := newAxis(t, 10)
		calls := 0
		a.OnViewportChanged(func() { calls++ })
		a.SetLeftLimit(0.1)
		a.SetRightLimit(0.9)
		assert.Equal(t, 2, calls)
	})

	t.Run("both limits fire once", func(t *testing.T) {
		a := newAxis(t, 10)
		calls := 0
		a.OnViewportChanged(func() { calls++ })
		a.SetBothLimits(0.2, 0.6)
		assert.Equal(t, 1, calls)
	})

	t.Run("every subscriber is called until it leaves", func(t *testing.T) {
		a := newAxis(t, 10)
		var first, second int
		unsubscribe := a.OnViewportChanged(func() { first++ })
		a.OnViewportChanged(func() { second++ })

		a.SetLeftLimit(0.1)
		unsubscribe()
		a.SetLeftLimit(0.2)
		assert.Equal(t, 1, first)
		assert.Equal(t, 2, second)
	})
}

func TestTimeAxisLookups(t *testing.T) {
	a, err := NewTimeAxis([]int64{1000, 2000, 3000, 4000, 5000})
	require.NoError(t, err)

	t.Run("next value at or after", func(t *testing.T) {
		p, idx, ok := a.NextValueAtOrAfter(0.3)
		require.True(t, ok)
		assert.Equal(t, 2, idx)
		assert.Equal(t, int64(3000), p.Timestamp)

		p, idx, ok = a.NextValueAtOrAfter(0.5)
		require.True(t, ok)
		assert.Equal(t, 2, idx)
		assert.Equal(t, 0.5, p.Position)
	})

	t.Run("next value out of range", func(t *testing.T) {
		_, idx, ok := a.NextValueAtOrAfter(1.5)
		assert.False(t, ok)
		assert.Equal(t, -1, idx)
	})

	t.Run("interpolated timestamp", func(t *testing.T) {
		ts, ok := a.InterpolatedTimestamp(0.5)
		require.True(t, ok)
		assert.Equal(t, int64(3000), ts)

		ts, ok = a.InterpolatedTimestamp(0.1)
		require.True(t, ok)
		assert.Equal(t, int64(1400), ts)

		_, ok = a.InterpolatedTimestamp(math.NaN())
		assert.False(t, ok)
	})

	t.Run("copies are independent", func(t *testing.T) {
		ts := a.Timestamps()
		ts[0] = -1
		assert.Equal(t, int64(1000), a.Timestamps()[0])
	})
}

func FuzzTimeAxisLimits(f *testing.F) {
	f.Add(uint8(10), 0.3, 0.3, 0.0, 1.0)
	f.Add(uint8(2), 1.0, 0.0, 0.5, 0.5)
	f.Add(uint8(3), -1.0, 2.0, 0.9, 0.1)
	f.Add(uint8(200), 0.999, 0.001, 0.5, 0.4999)

	f.Fuzz(func(t *testing.T, n uint8, left, right, bothLeft, bothRight float64) {
		if n < 2 {
			return
		}
		ts := make([]int64, n)
		for i := range ts {
			ts[i] = int64(i) * 60_000
		}
		a, err := NewTimeAxis(ts)
		require.NoError(t, err)

		check := func() {
			idx := a.Indices()
			assert.GreaterOrEqual(t, idx.Left, 0)
			assert.Less(t, idx.Left, idx.Right)
			assert.LessOrEqual(t, idx.Right, int(n)-1)
			limits := a.Limits()
			assert.Less(t, limits.Left, limits.Right)
			assert.Positive(t, a.WindowSize())
		}
		a.SetLeftLimit(left)
		check()
		a.SetRightLimit(right)
		check()
		a.SetBothLimits(bothLeft, bothRight)
		check()
		a.SetRightLimit(left)
		check()
		a.SetLeftLimit(right)
		check()
	})
}
