// Package schema has the models and constants shared by all parts of chartscope.
package schema

import "time"

// TimePoint is one entry of a time axis.
// Position is the uniform index-based coordinate index/(N-1), not a time proportion.
type TimePoint struct {
	Position  float64 `json:"position"`
	Timestamp int64   `json:"timestamp"` // milliseconds since epoch
}

// ValuePoint is one raw value together with its coordinate against a span.
type ValuePoint struct {
	Normalized float64 `json:"normalized"`
	Raw        int     `json:"raw"`
}

// AxisSpan is a rounded value range that fits exactly six gridlines plus headroom.
type AxisSpan struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Step int `json:"step"`
}

// Range returns Max - Min.
func (s AxisSpan) Range() int {
	return s.Max - s.Min
}

// Normalize maps a raw value into the span's [0,1] coordinate space.
func (s AxisSpan) Normalize(v int) float64 {
	return float64(v-s.Min) / float64(s.Max-s.Min)
}

// StepFraction is the height of one gridline step relative to the whole span.
func (s AxisSpan) StepFraction() float64 {
	return float64(s.Step) / float64(s.Max-s.Min)
}

// ViewportIndices holds the resolved inclusive index range of a viewport.
type ViewportIndices struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// ViewportLimits holds the normalized [0,1] limits of a viewport.
type ViewportLimits struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// SeriesDescriptor describes one series of a chart without its values.
type SeriesDescriptor struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	ColorTag string `json:"color"`
	Enabled  bool   `json:"enabled"`
}

// ViewState is the persisted, restorable part of a chart view.
type ViewState struct {
	Limits  ViewportLimits `json:"limits"`
	Enabled []bool         `json:"enabled"`
}

// ViewSnapshot is a recorded view of a chart at a point in time.
type ViewSnapshot struct {
	SnapshotID    string          `json:"snapshot_id"`
	ChartKey      string          `json:"chart_key"`
	ChartName     string          `json:"chart_name"`
	Limits        ViewportLimits  `json:"limits"`
	Indices       ViewportIndices `json:"indices"`
	SegmentSpan   AxisSpan        `json:"segment_span"`
	EnabledSeries []string        `json:"enabled_series"`
	RecordedAt    time.Time       `json:"recorded_at"`
}

// ChartSummary describes one chart of a dataset.
type ChartSummary struct {
	Index      int                `json:"index"`
	Name       string             `json:"name"`
	Points     int                `json:"points"`
	FirstTime  time.Time          `json:"first_time"`
	LastTime   time.Time          `json:"last_time"`
	GlobalSpan AxisSpan           `json:"global_span"`
	Series     []SeriesDescriptor `json:"series"`
}

// SeriesSegment is the per-series part of an inspection.
type SeriesSegment struct {
	SeriesDescriptor
	ViewportMin int          `json:"viewport_min"`
	ViewportMax int          `json:"viewport_max"`
	SegmentSpan AxisSpan     `json:"segment_span"`
	Points      []ValuePoint `json:"points,omitempty"`
}

// SeriesValue is the raw value of one series at a point.
type SeriesValue struct {
	SeriesDescriptor
	Value int `json:"value"`
}

// PointReading holds every series' value at one point of the time axis.
type PointReading struct {
	Index    int           `json:"index"`
	Position float64       `json:"position"`
	Time     time.Time     `json:"time"`
	Values   []SeriesValue `json:"values"`
}

// InspectResult is the state of a chart view after its viewport was applied.
type InspectResult struct {
	ChartName string          `json:"chart"`
	Limits    ViewportLimits  `json:"limits"`
	Indices   ViewportIndices `json:"indices"`
	FirstTime time.Time       `json:"first_time"`
	LastTime  time.Time       `json:"last_time"`
	Gridlines []int           `json:"gridlines"`
	Series    []SeriesSegment `json:"series"`
}

// SpanResult is the output of a standalone span calculation.
type SpanResult struct {
	InputMin  int      `json:"input_min"`
	InputMax  int      `json:"input_max"`
	Span      AxisSpan `json:"span"`
	Gridlines []int    `json:"gridlines"`
	Labels    []string `json:"labels"`
}
