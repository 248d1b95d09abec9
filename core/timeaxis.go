package core

import (
	"errors"
	"math"
	"sort"

	"github.com/huangsam/chartscope/schema"
)

// ErrEmptyTimestamps is returned when an axis is built without any timestamps.
var ErrEmptyTimestamps = errors.New("timestamps must not be empty")

// TimeAxis owns the ordered timestamps of a chart and its viewport.
//
// The viewport is kept twice: as normalized limits in [0,1] and as the
// inclusive index range they resolve to. With at least two points the
// indices always satisfy 0 <= left < right <= N-1 and the limits
// satisfy left < right.
//
// TimeAxis is not safe for concurrent use.
type TimeAxis struct {
	points []schema.TimePoint

	leftLimit  float64
	rightLimit float64
	leftIndex  int
	rightIndex int

	batching bool
	changed  observerList
}

// NewTimeAxis builds an axis over the given millisecond timestamps with the
// viewport covering the full range.
func NewTimeAxis(timestamps []int64) (*TimeAxis, error) {
	if len(timestamps) == 0 {
		return nil, ErrEmptyTimestamps
	}

	n := len(timestamps)
	points := make([]schema.TimePoint, n)
	for i, ts := range timestamps {
		points[i] = schema.TimePoint{Position: position(i, n), Timestamp: ts}
	}

	return &TimeAxis{
		points:     points,
		leftLimit:  0,
		rightLimit: 1,
		leftIndex:  0,
		rightIndex: n - 1,
	}, nil
}

// position is the uniform index-based coordinate of point i out of n.
func position(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

// OnViewportChanged registers fn to run after every viewport mutation and
// returns a func that removes it.
func (a *TimeAxis) OnViewportChanged(fn func()) (unsubscribe func()) {
	id := a.changed.subscribe(fn)
	return func() { a.changed.unsubscribe(id) }
}

// Len returns the number of points.
func (a *TimeAxis) Len() int {
	return len(a.points)
}

// Points returns a copy of all points.
func (a *TimeAxis) Points() []schema.TimePoint {
	out := make([]schema.TimePoint, len(a.points))
	copy(out, a.points)
	return out
}

// Timestamps returns a copy of the raw timestamps.
func (a *TimeAxis) Timestamps() []int64 {
	out := make([]int64, len(a.points))
	for i, p := range a.points {
		out[i] = p.Timestamp
	}
	return out
}

// Limits returns the normalized viewport limits.
func (a *TimeAxis) Limits() schema.ViewportLimits {
	return schema.ViewportLimits{Left: a.leftLimit, Right: a.rightLimit}
}

// Indices returns the resolved viewport indices.
func (a *TimeAxis) Indices() schema.ViewportIndices {
	return schema.ViewportIndices{Left: a.leftIndex, Right: a.rightIndex}
}

// WindowSize is the normalized width of the viewport.
func (a *TimeAxis) WindowSize() float64 {
	return a.rightLimit - a.leftLimit
}

// SetLeftLimit moves the left edge of the viewport to the first point at or
// after v. The left index never passes N-2 and pushes the right index ahead
// of it when needed. NaN and axes with a single point are ignored.
func (a *TimeAxis) SetLeftLimit(v float64) {
	if !a.applyLeft(v) {
		return
	}
	a.orderLimits()
	a.notify()
}

// SetRightLimit moves the right edge of the viewport to the last point at or
// before v, clamped so the viewport spans at least one index.
func (a *TimeAxis) SetRightLimit(v float64) {
	if !a.applyRight(v) {
		return
	}
	a.orderLimits()
	a.notify()
}

// SetBothLimits moves both edges and notifies once.
func (a *TimeAxis) SetBothLimits(left, right float64) {
	a.batching = true
	l := a.applyLeft(left)
	r := a.applyRight(right)
	a.batching = false
	if l || r {
		a.orderLimits()
		a.notify()
	}
}

// orderLimits repairs limits that meet or cross after clamping by moving
// each one to the position of its resolved index.
func (a *TimeAxis) orderLimits() {
	if a.leftLimit < a.rightLimit {
		return
	}
	a.leftLimit = math.Min(a.leftLimit, a.points[a.leftIndex].Position)
	a.rightLimit = math.Max(a.rightLimit, a.points[a.rightIndex].Position)
}

func (a *TimeAxis) applyLeft(v float64) bool {
	n := len(a.points)
	if n <= 1 || math.IsNaN(v) {
		return false
	}
	v = clampUnit(v)
	a.leftLimit = v

	idx := sort.Search(n, func(i int) bool { return a.points[i].Position >= v })
	a.leftIndex = min(idx, n-2)
	if a.rightIndex <= a.leftIndex {
		a.rightIndex = a.leftIndex + 1
	}
	return true
}

func (a *TimeAxis) applyRight(v float64) bool {
	n := len(a.points)
	if n <= 1 || math.IsNaN(v) {
		return false
	}
	v = clampUnit(v)
	a.rightLimit = v

	idx := sort.Search(n, func(i int) bool { return a.points[i].Position > v }) - 1
	if idx <= a.leftIndex {
		idx = a.leftIndex + 1
	}
	a.rightIndex = min(idx, n-1)
	return true
}

func (a *TimeAxis) notify() {
	if a.batching {
		return
	}
	for _, fn := range a.changed.snapshot() {
		fn()
	}
}

// NextValueAtOrAfter returns the first point whose position is at or after p
// together with its index. ok is false when no such point exists.
func (a *TimeAxis) NextValueAtOrAfter(p float64) (point schema.TimePoint, index int, ok bool) {
	idx := sort.Search(len(a.points), func(i int) bool { return a.points[i].Position >= p })
	if idx == len(a.points) {
		return schema.TimePoint{}, -1, false
	}
	return a.points[idx], idx, true
}

// InterpolatedTimestamp linearly interpolates between the first and last
// timestamps. It is meant for coarse label placement only.
func (a *TimeAxis) InterpolatedTimestamp(p float64) (int64, bool) {
	if len(a.points) == 0 || math.IsNaN(p) {
		return 0, false
	}
	first := a.points[0].Timestamp
	last := a.points[len(a.points)-1].Timestamp
	return first + int64(math.Round(float64(last-first)*p)), true
}

// clone returns an independent axis over the same timestamps with a reset viewport.
func (a *TimeAxis) clone() *TimeAxis {
	c, _ := NewTimeAxis(a.Timestamps())
	return c
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
