package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/chartscope/internal/debounce"
	"github.com/huangsam/chartscope/schema"
)

func TestInspect(t *testing.T) {
	c := newTestChart(t, debounce.NewFakeScheduler(epoch), WithImmediateNormalization())
	c.SetBothLimits(0.5, 1)

	got := c.Inspect(false)
	assert.Equal(t, "Followers", got.ChartName)
	assert.Equal(t, schema.ViewportIndices{Left: 5, Right: 9}, got.Indices)
	assert.Equal(t, schema.ViewportLimits{Left: 0.5, Right: 1}, got.Limits)
	assert.Equal(t, epoch.AddDate(0, 0, 5).UTC(), got.FirstTime)
	assert.Equal(t, epoch.AddDate(0, 0, 9).UTC(), got.LastTime)
	assert.Equal(t, []int{40, 80, 120, 160, 200, 240}, got.Gridlines)

	require.Len(t, got.Series, 2)
	assert.Equal(t, "Joined", got.Series[0].Name)
	assert.Equal(t, 50, got.Series[0].ViewportMin)
	assert.Equal(t, 90, got.Series[0].ViewportMax)
	assert.Equal(t, 150, got.Series[1].ViewportMin)
	assert.Equal(t, 190, got.Series[1].ViewportMax)
	assert.Equal(t, schema.AxisSpan{Min: 40, Max: 270, Step: 40}, got.Series[1].SegmentSpan)
	assert.Nil(t, got.Series[0].Points)
}

func TestInspectWithPoints(t *testing.T) {
	c := newTestChart(t, debounce.NewFakeScheduler(epoch), WithImmediateNormalization())
	c.SetBothLimits(0.5, 1)
	c.ToggleSeries(1)

	got := c.Inspect(true)
	assert.False(t, got.Series[1].Enabled)
	require.Len(t, got.Series[0].Points, 5)
	assert.Equal(t, 50, got.Series[0].Points[0].Raw)
	assert.Equal(t, 90, got.Series[0].Points[4].Raw)
	assert.InDelta(t, got.Series[0].SegmentSpan.Normalize(90), got.Series[0].Points[4].Normalized, 1e-9)
}

func TestPointAt(t *testing.T) {
	c := newTestChart(t, debounce.NewFakeScheduler(epoch), WithImmediateNormalization())
	require.True(t, c.ToggleSeries(1))

	got, ok := c.PointAt(0.5)
	require.True(t, ok)
	assert.Equal(t, 5, got.Index)
	assert.InDelta(t, 5.0/9, got.Position, 1e-12)
	assert.Equal(t, epoch.AddDate(0, 0, 5).UTC(), got.Time)
	require.Len(t, got.Values, 2)
	assert.Equal(t, "Joined", got.Values[0].Name)
	assert.Equal(t, 50, got.Values[0].Value)
	assert.True(t, got.Values[0].Enabled)
	assert.Equal(t, 150, got.Values[1].Value)
	assert.False(t, got.Values[1].Enabled)

	t.Run("edges", func(t *testing.T) {
		first, ok := c.PointAt(-1)
		require.True(t, ok)
		assert.Equal(t, 0, first.Index)

		last, ok := c.PointAt(1)
		require.True(t, ok)
		assert.Equal(t, 9, last.Index)
		assert.Equal(t, 90, last.Values[0].Value)
	})

	t.Run("past the last point", func(t *testing.T) {
		_, ok := c.PointAt(1.5)
		assert.False(t, ok)
		_, ok = c.PointAt(math.NaN())
		assert.False(t, ok)
	})
}
