package core

import (
	"github.com/huangsam/chartscope/core/algo"
	"github.com/huangsam/chartscope/schema"
)

// ValueSeries holds the raw values of one y column along with two normalized
// views of them: one against the span of the current viewport and one against
// the range of every enabled series.
//
// Both views always cover the whole array so scrolling only re-reads points.
type ValueSeries struct {
	raw      []int
	colorTag string
	name     string
	enabled  bool

	segmentSpan       schema.AxisSpan
	segmentMin        int
	segmentMax        int
	segmentNormalized []float64

	globalMin        int
	globalMax        int
	globalNormalized []float64
}

// NewValueSeries normalizes values against globalSpan and uses the result as
// both the segment and the global view. The series starts enabled.
func NewValueSeries(values []int, colorTag, name string, globalSpan schema.AxisSpan) *ValueSeries {
	raw := make([]int, len(values))
	copy(raw, values)

	normalized := normalizeAll(raw, globalSpan.Min, globalSpan.Max)
	global := make([]float64, len(normalized))
	copy(global, normalized)

	return &ValueSeries{
		raw:               raw,
		colorTag:          colorTag,
		name:              name,
		enabled:           true,
		segmentSpan:       globalSpan,
		segmentMin:        globalSpan.Min,
		segmentMax:        globalSpan.Max,
		segmentNormalized: normalized,
		globalMin:         globalSpan.Min,
		globalMax:         globalSpan.Max,
		globalNormalized:  global,
	}
}

// Name returns the display name.
func (s *ValueSeries) Name() string { return s.name }

// ColorTag returns the color tag, usually a hex color.
func (s *ValueSeries) ColorTag() string { return s.colorTag }

// Enabled reports whether the series is visible.
func (s *ValueSeries) Enabled() bool { return s.enabled }

// Len returns the number of values.
func (s *ValueSeries) Len() int { return len(s.raw) }

// Values returns a copy of the raw values.
func (s *ValueSeries) Values() []int {
	out := make([]int, len(s.raw))
	copy(out, s.raw)
	return out
}

// SegmentSpan returns the span the segment view was normalized against.
func (s *ValueSeries) SegmentSpan() schema.AxisSpan { return s.segmentSpan }

// ValuesInRange returns a copy of the raw values between left and right,
// both inclusive. Out of range bounds are clamped.
func (s *ValueSeries) ValuesInRange(left, right int) []int {
	left = max(left, 0)
	right = min(right, len(s.raw)-1)
	if left > right {
		return []int{}
	}
	out := make([]int, right-left+1)
	copy(out, s.raw[left:right+1])
	return out
}

// MinMaxInRange returns the smallest and largest raw value between left and
// right inclusive. ok is false when the range is empty.
func (s *ValueSeries) MinMaxInRange(left, right int) (lo, hi int, ok bool) {
	left = max(left, 0)
	right = min(right, len(s.raw)-1)
	if left > right {
		return 0, 0, false
	}
	lo, hi = s.raw[left], s.raw[left]
	for _, v := range s.raw[left+1 : right+1] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi, true
}

// RenormalizeSegment computes a nice span for (lo, hi) and renormalizes the
// whole array against it. Repeating the call with the same input is a no-op.
func (s *ValueSeries) RenormalizeSegment(lo, hi int) {
	span := algo.CalculateSpan(lo, hi)
	if span == s.segmentSpan && s.segmentMin == lo && s.segmentMax == hi {
		return
	}
	s.segmentSpan = span
	s.segmentMin, s.segmentMax = lo, hi
	s.segmentNormalized = normalizeAll(s.raw, span.Min, span.Max)
}

// RenormalizeGlobal renormalizes the whole array against (lo, hi) as given.
// A degenerate range is widened to (lo, lo+1).
func (s *ValueSeries) RenormalizeGlobal(lo, hi int) {
	if hi <= lo {
		hi = lo + 1
	}
	s.globalMin, s.globalMax = lo, hi
	s.globalNormalized = normalizeAll(s.raw, lo, hi)
}

// ToggleEnabled flips the enabled flag. Keeping one series enabled is up to the caller.
func (s *ValueSeries) ToggleEnabled() {
	s.enabled = !s.enabled
}

// SegmentPoints returns the segment view as value points.
func (s *ValueSeries) SegmentPoints() []schema.ValuePoint {
	return pointsOf(s.raw, s.segmentNormalized)
}

// GlobalPoints returns the global view as value points.
func (s *ValueSeries) GlobalPoints() []schema.ValuePoint {
	return pointsOf(s.raw, s.globalNormalized)
}

// clone deep-copies the raw values and keeps the enabled flag.
func (s *ValueSeries) clone(globalSpan schema.AxisSpan) *ValueSeries {
	c := NewValueSeries(s.raw, s.colorTag, s.name, globalSpan)
	c.enabled = s.enabled
	return c
}

func normalizeAll(raw []int, lo, hi int) []float64 {
	out := make([]float64, len(raw))
	if hi <= lo {
		hi = lo + 1
	}
	width := float64(hi - lo)
	for i, v := range raw {
		out[i] = float64(v-lo) / width
	}
	return out
}

func pointsOf(raw []int, normalized []float64) []schema.ValuePoint {
	out := make([]schema.ValuePoint, len(raw))
	for i, v := range raw {
		out[i] = schema.ValuePoint{Normalized: normalized[i], Raw: v}
	}
	return out
}
