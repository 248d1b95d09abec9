// Package core has the chart engine: the time axis with its viewport, the
// value series with their normalized views, and the chart model that keeps
// them in sync and notifies observers.
package core

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/huangsam/chartscope/core/algo"
	"github.com/huangsam/chartscope/internal/debounce"
	"github.com/huangsam/chartscope/schema"
)

// DefaultDebounce is the quiet period before a viewport change is normalized.
const DefaultDebounce = 120 * time.Millisecond

var (
	// ErrNoSeries is returned when a chart is built without any series.
	ErrNoSeries = errors.New("chart needs at least one series")
	// ErrLengthMismatch is returned when a series and the timestamps differ in length.
	ErrLengthMismatch = errors.New("series length does not match timestamps")
)

// SeriesInput is the raw data of one series handed to NewChartModel.
type SeriesInput struct {
	Name     string
	ColorTag string
	Values   []int
}

// Option configures a ChartModel.
type Option func(*chartOptions)

type chartOptions struct {
	debounce time.Duration
	sched    debounce.Scheduler
	logger   *log.Logger
}

// WithDebounce sets the quiet period of viewport normalization.
// Zero or less normalizes on every change.
func WithDebounce(d time.Duration) Option {
	return func(o *chartOptions) { o.debounce = d }
}

// WithImmediateNormalization normalizes on every viewport change.
func WithImmediateNormalization() Option {
	return WithDebounce(0)
}

// WithScheduler drives the debounce timer with s.
func WithScheduler(s debounce.Scheduler) Option {
	return func(o *chartOptions) {
		if s != nil {
			o.sched = s
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(o *chartOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildChartOptions(opts []Option) chartOptions {
	o := chartOptions{
		debounce: DefaultDebounce,
		sched:    debounce.WallClock,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ChartModel ties a TimeAxis to its ValueSeries.
//
// Viewport changes report the new segmentation right away and renormalize
// the series once the debounce window has passed. Series toggles do both at
// once and also refresh the global view.
//
// Methods are safe to call from several goroutines. Observers always run
// without the model lock held and may call back into the model.
type ChartModel struct {
	mu     sync.Mutex
	name   string
	axis   *TimeAxis
	series []*ValueSeries
	opts   chartOptions

	debouncer  *debounce.Debouncer
	normGen    uint64 // Bumped by every change that needs a segment renormalization
	normDone   uint64 // normGen as of the last completed renormalization
	globalSpan schema.AxisSpan
	segMin     int
	segMax     int
	closed     bool

	segmentationUpdated observerList
	normalizedUpdated   observerList
	needsXAxisUpdate    observerList
	queue               []func()
}

// NewChartModel validates the input and builds a chart with the viewport
// covering every point. The global view of all series is normalized against
// the span of all their values.
func NewChartModel(name string, timestamps []int64, series []SeriesInput, opts ...Option) (*ChartModel, error) {
	axis, err := NewTimeAxis(timestamps)
	if err != nil {
		return nil, fmt.Errorf("chart %q: %w", name, err)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("chart %q: %w", name, ErrNoSeries)
	}
	for i, s := range series {
		if len(s.Values) != len(timestamps) {
			return nil, fmt.Errorf("chart %q: series %d (%s) has %d values, want %d: %w",
				name, i, s.Name, len(s.Values), len(timestamps), ErrLengthMismatch)
		}
	}

	lo, hi := series[0].Values[0], series[0].Values[0]
	for _, s := range series {
		for _, v := range s.Values {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	span := algo.CalculateSpan(lo, hi)

	values := make([]*ValueSeries, len(series))
	for i, s := range series {
		values[i] = NewValueSeries(s.Values, s.ColorTag, s.Name, span)
	}
	return newChart(name, axis, values, span, buildChartOptions(opts)), nil
}

func newChart(name string, axis *TimeAxis, series []*ValueSeries, span schema.AxisSpan, o chartOptions) *ChartModel {
	c := &ChartModel{
		name:       name,
		axis:       axis,
		series:     series,
		opts:       o,
		debouncer:  debounce.New(o.debounce, debounce.WithScheduler(o.sched)),
		globalSpan: span,
		segMin:     span.Min,
		segMax:     span.Max,
	}
	axis.OnViewportChanged(c.viewportChangedLocked)
	return c
}

// Name returns the chart name.
func (c *ChartModel) Name() string {
	return c.name
}

// Len returns the number of points on the time axis.
func (c *ChartModel) Len() int {
	return c.axis.Len()
}

// SetLeftLimit moves the left viewport edge. See TimeAxis.SetLeftLimit.
func (c *ChartModel) SetLeftLimit(v float64) {
	c.mutate(func() { c.axis.SetLeftLimit(v) })
}

// SetRightLimit moves the right viewport edge. See TimeAxis.SetRightLimit.
func (c *ChartModel) SetRightLimit(v float64) {
	c.mutate(func() { c.axis.SetRightLimit(v) })
}

// SetBothLimits moves both viewport edges with a single segmentation update.
func (c *ChartModel) SetBothLimits(left, right float64) {
	c.mutate(func() { c.axis.SetBothLimits(left, right) })
}

// ToggleSeries flips the visibility of series i. It returns false and does
// nothing when i is out of range or the series is the last one enabled.
func (c *ChartModel) ToggleSeries(i int) bool {
	ok := false
	c.mutate(func() { ok = c.toggleLocked(i) })
	return ok
}

// SetSeriesEnabled makes series i visible or hidden. Asking for the current
// state succeeds without notifications.
func (c *ChartModel) SetSeriesEnabled(i int, enabled bool) bool {
	ok := false
	c.mutate(func() {
		if i < 0 || i >= len(c.series) {
			return
		}
		if c.series[i].Enabled() == enabled {
			ok = true
			return
		}
		ok = c.toggleLocked(i)
	})
	return ok
}

// ApplyViewState restores limits and series visibility. Enabling happens
// before disabling so the chart never runs out of enabled series.
func (c *ChartModel) ApplyViewState(state schema.ViewState) {
	for i, on := range state.Enabled {
		if on {
			c.SetSeriesEnabled(i, true)
		}
	}
	for i, on := range state.Enabled {
		if !on {
			c.SetSeriesEnabled(i, false)
		}
	}
	c.SetBothLimits(state.Limits.Left, state.Limits.Right)
}

// ViewState returns the restorable part of the view.
func (c *ChartModel) ViewState() schema.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	enabled := make([]bool, len(c.series))
	for i, s := range c.series {
		enabled[i] = s.Enabled()
	}
	return schema.ViewState{Limits: c.axis.Limits(), Enabled: enabled}
}

func (c *ChartModel) toggleLocked(i int) bool {
	if i < 0 || i >= len(c.series) {
		return false
	}
	if c.series[i].Enabled() && c.enabledCountLocked() == 1 {
		c.opts.logger.Debug("refusing to disable last series", "chart", c.name, "series", i)
		return false
	}
	c.series[i].ToggleEnabled()

	if c.debouncer.Cancel() {
		c.opts.logger.Debug("cancelled pending normalization", "chart", c.name)
	}
	c.normGen++

	lo, hi := c.viewportMinMaxLocked()
	c.segMin, c.segMax = lo, hi
	c.emitLocked(&c.segmentationUpdated)
	c.emitLocked(&c.needsXAxisUpdate)

	c.renormalizeSegmentsLocked(lo, hi)
	glo, ghi := c.globalMinMaxLocked()
	c.globalSpan = algo.CalculateSpan(glo, ghi)
	for _, s := range c.series {
		s.RenormalizeGlobal(c.globalSpan.Min, c.globalSpan.Max)
	}
	c.emitLocked(&c.normalizedUpdated)
	return true
}

// viewportChangedLocked runs from the axis while the model lock is held.
func (c *ChartModel) viewportChangedLocked() {
	lo, hi := c.viewportMinMaxLocked()
	c.segMin, c.segMax = lo, hi
	c.emitLocked(&c.segmentationUpdated)
	c.emitLocked(&c.needsXAxisUpdate)

	c.normGen++
	if c.opts.debounce <= 0 {
		c.renormalizeSegmentsLocked(lo, hi)
		c.emitLocked(&c.normalizedUpdated)
		return
	}

	gen := c.normGen
	c.debouncer.Schedule(func() { c.normalizeScheduled(gen, lo, hi) })
	c.opts.logger.Debug("scheduled normalization", "chart", c.name, "min", lo, "max", hi, "delay", c.opts.debounce)
}

func (c *ChartModel) normalizeScheduled(gen uint64, lo, hi int) {
	c.mu.Lock()
	if c.closed || gen != c.normGen {
		c.mu.Unlock()
		return
	}
	c.renormalizeSegmentsLocked(lo, hi)
	c.emitLocked(&c.normalizedUpdated)
	fns := c.drainLocked()
	c.mu.Unlock()

	c.opts.logger.Debug("normalized segment", "chart", c.name, "min", lo, "max", hi)
	for _, fn := range fns {
		fn()
	}
}

func (c *ChartModel) renormalizeSegmentsLocked(lo, hi int) {
	c.normDone = c.normGen
	if hi <= lo {
		hi = lo + 1
	}
	for _, s := range c.series {
		s.RenormalizeSegment(lo, hi)
	}
}

// viewportMinMaxLocked scans the enabled series inside the viewport.
func (c *ChartModel) viewportMinMaxLocked() (lo, hi int) {
	idx := c.axis.Indices()
	return c.minMaxLocked(idx.Left, idx.Right)
}

// globalMinMaxLocked scans the enabled series over the whole axis.
func (c *ChartModel) globalMinMaxLocked() (lo, hi int) {
	return c.minMaxLocked(0, c.axis.Len()-1)
}

func (c *ChartModel) minMaxLocked(left, right int) (lo, hi int) {
	found := false
	for _, s := range c.series {
		if !s.Enabled() {
			continue
		}
		slo, shi, ok := s.MinMaxInRange(left, right)
		if !ok {
			continue
		}
		if !found {
			lo, hi, found = slo, shi, true
			continue
		}
		lo = min(lo, slo)
		hi = max(hi, shi)
	}
	return lo, hi
}

func (c *ChartModel) enabledCountLocked() int {
	n := 0
	for _, s := range c.series {
		if s.Enabled() {
			n++
		}
	}
	return n
}

// mutate runs fn under the lock and then fires the queued notifications.
func (c *ChartModel) mutate(fn func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	fn()
	fns := c.drainLocked()
	c.mu.Unlock()

	for _, f := range fns {
		f()
	}
}

func (c *ChartModel) emitLocked(l *observerList) {
	c.queue = append(c.queue, l.snapshot()...)
}

func (c *ChartModel) drainLocked() []func() {
	fns := c.queue
	c.queue = nil
	return fns
}

// OnSegmentationUpdated registers fn for every viewport or visibility change.
func (c *ChartModel) OnSegmentationUpdated(fn func()) (unsubscribe func()) {
	return c.subscribe(&c.segmentationUpdated, fn)
}

// OnSegmentationNormalizedUpdated registers fn for every completed renormalization.
func (c *ChartModel) OnSegmentationNormalizedUpdated(fn func()) (unsubscribe func()) {
	return c.subscribe(&c.normalizedUpdated, fn)
}

// OnNeedsXAxisUpdate registers fn for changes that may alter the time labels.
func (c *ChartModel) OnNeedsXAxisUpdate(fn func()) (unsubscribe func()) {
	return c.subscribe(&c.needsXAxisUpdate, fn)
}

func (c *ChartModel) subscribe(l *observerList, fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := l.subscribe(fn)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		l.unsubscribe(id)
	}
}

// SegmentNormalizedPoints returns the segment view of series i, or nil when
// i is out of range.
func (c *ChartModel) SegmentNormalizedPoints(i int) []schema.ValuePoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.series) {
		return nil
	}
	return c.series[i].SegmentPoints()
}

// GlobalNormalizedPoints returns the global view of series i, or nil when
// i is out of range.
func (c *ChartModel) GlobalNormalizedPoints(i int) []schema.ValuePoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.series) {
		return nil
	}
	return c.series[i].GlobalPoints()
}

// CurrentSegmentSpan returns the span series i was last normalized against.
func (c *ChartModel) CurrentSegmentSpan(i int) (schema.AxisSpan, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.series) {
		return schema.AxisSpan{}, false
	}
	return c.series[i].SegmentSpan(), true
}

// SegmentationRange returns the min and max across enabled series in the
// viewport as of the last segmentation update.
func (c *ChartModel) SegmentationRange() (lo, hi int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.segMin, c.segMax
}

// GlobalSpan returns the span the global view was last normalized against.
func (c *ChartModel) GlobalSpan() schema.AxisSpan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.globalSpan
}

// ViewportIndices returns the resolved viewport indices.
func (c *ChartModel) ViewportIndices() schema.ViewportIndices {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.axis.Indices()
}

// ViewportLimits returns the normalized viewport limits.
func (c *ChartModel) ViewportLimits() schema.ViewportLimits {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.axis.Limits()
}

// WindowSize returns the normalized width of the viewport.
func (c *ChartModel) WindowSize() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.axis.WindowSize()
}

// InterpolatedTimestamp approximates the timestamp at position p.
func (c *ChartModel) InterpolatedTimestamp(p float64) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.axis.InterpolatedTimestamp(p)
}

// NextValueAtOrAfter returns the first time point at or after position p.
func (c *ChartModel) NextValueAtOrAfter(p float64) (schema.TimePoint, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.axis.NextValueAtOrAfter(p)
}

// Timestamps returns a copy of the timestamps.
func (c *ChartModel) Timestamps() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.axis.Timestamps()
}

// TimePoints returns a copy of the axis points.
func (c *ChartModel) TimePoints() []schema.TimePoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.axis.Points()
}

// Series describes every series in order.
func (c *ChartModel) Series() []schema.SeriesDescriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]schema.SeriesDescriptor, len(c.series))
	for i, s := range c.series {
		out[i] = schema.SeriesDescriptor{
			Index:    i,
			Name:     s.Name(),
			ColorTag: s.ColorTag(),
			Enabled:  s.Enabled(),
		}
	}
	return out
}

// SeriesValues returns a copy of the raw values of series i.
func (c *ChartModel) SeriesValues(i int) []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.series) {
		return nil
	}
	return c.series[i].Values()
}

// NormalizationPending reports whether the segment views lag behind the
// latest viewport change.
func (c *ChartModel) NormalizationPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.normDone != c.normGen
}

// FlushNormalization runs a pending viewport normalization right away and
// reports whether there was one. A debounced run already in flight is dropped.
func (c *ChartModel) FlushNormalization() bool {
	flushed := false
	c.mutate(func() {
		if c.normDone == c.normGen {
			return
		}
		c.debouncer.Cancel()
		c.normGen++
		c.renormalizeSegmentsLocked(c.segMin, c.segMax)
		c.emitLocked(&c.normalizedUpdated)
		flushed = true
	})
	return flushed
}

// Clone returns an independent chart over copies of the same data. The
// viewport of the clone covers every point and visibility is kept. Observers
// are not copied.
func (c *ChartModel) Clone() *ChartModel {
	c.mu.Lock()
	defer c.mu.Unlock()

	series := make([]*ValueSeries, len(c.series))
	for i, s := range c.series {
		series[i] = s.clone(c.globalSpan)
	}
	return newChart(c.name, c.axis.clone(), series, c.globalSpan, c.opts)
}

// Close drops pending normalization. Later mutations are ignored.
func (c *ChartModel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.debouncer.Close()
}
