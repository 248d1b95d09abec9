// Package tui is the interactive terminal viewer of a chart model.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/huangsam/chartscope/core"
	"github.com/huangsam/chartscope/internal/debounce"
	"github.com/huangsam/chartscope/schema"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// chromeLines is the number of lines around the plot: title, legend, help.
	chromeLines = 4
	minPlotRows = 5
)

// Options configures a Model.
type Options struct {
	Title     string             // Shown above the plot, defaults to the chart name
	Throttle  time.Duration      // Minimum interval between time label refreshes
	Scheduler debounce.Scheduler // Drives the label throttler, nil for the wall clock
}

// Model renders a chart model as a braille line chart and maps keys to
// viewport and visibility changes.
//
// Chart notifications arrive on arbitrary goroutines. They are queued on a
// buffered channel and delivered to Update as messages.
type Model struct {
	chart *core.ChartModel
	title string

	plot   linechart.Model
	width  int
	height int

	span      schema.AxisSpan // Segment span behind the y labels
	dateRange string          // Throttled footer label
	notice    string
	cursor    int // Point index under the cursor, -1 when hidden

	events    chan tea.Msg
	done      chan struct{}
	throttler *debounce.Throttler
	unsubs    []func()
	closed    bool
}

// NewModel creates a viewer for chart and subscribes to its notifications.
// Call Close once the viewer is no longer used.
func NewModel(chart *core.ChartModel, opts Options) *Model {
	title := opts.Title
	if title == "" {
		title = chart.Name()
	}
	var throttleOpts []debounce.Option
	if opts.Scheduler != nil {
		throttleOpts = append(throttleOpts, debounce.WithScheduler(opts.Scheduler))
	}

	m := &Model{
		chart:     chart,
		title:     title,
		width:     defaultWidth,
		height:    defaultHeight,
		cursor:    -1,
		events:    make(chan tea.Msg, eventBufferSize),
		done:      make(chan struct{}),
		throttler: debounce.NewThrottler(opts.Throttle, opts.Throttle/4, throttleOpts...),
	}
	m.plot = linechart.New(defaultWidth, plotRows(defaultHeight), 0, 1, 0, 1,
		linechart.WithXYSteps(6, 3),
		linechart.WithStyles(axisStyle, labelStyle, labelStyle),
		linechart.WithXLabelFormatter(m.formatXLabel),
		linechart.WithYLabelFormatter(m.formatYLabel),
	)

	m.unsubs = []func(){
		chart.OnSegmentationUpdated(func() { m.post(segmentationMsg{}) }),
		chart.OnSegmentationNormalizedUpdated(func() { m.post(normalizedMsg{}) }),
		chart.OnNeedsXAxisUpdate(func() {
			m.throttler.Add(func() { m.post(axisLabelsMsg{}) })
		}),
	}
	m.dateRange = m.formatDateRange()
	m.redraw()
	return m
}

// Close unsubscribes from the chart and drops pending label refreshes.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	for _, unsubscribe := range m.unsubs {
		unsubscribe()
	}
	m.throttler.Cancel()
	close(m.done)
}

// post queues msg without blocking. A full queue already holds a redraw.
func (m *Model) post(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.nextEvent()
}

func (m *Model) nextEvent() tea.Cmd {
	return waitForEvent(m.events, m.done)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case segmentationMsg, normalizedMsg:
		m.redraw()
		return m, m.nextEvent()
	case axisLabelsMsg:
		m.dateRange = m.formatDateRange()
		return m, m.nextEvent()
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	limits := m.chart.ViewportLimits()
	key := msg.String()

	switch key {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "h", "left":
		m.chart.SetBothLimits(panLimits(limits.Left, limits.Right, -panFraction*(limits.Right-limits.Left)))
	case "l", "right":
		m.chart.SetBothLimits(panLimits(limits.Left, limits.Right, panFraction*(limits.Right-limits.Left)))
	case "+", "=":
		m.chart.SetBothLimits(zoomLimits(limits.Left, limits.Right, 1-zoomFraction, minWindow(m.chart.Len())))
	case "-", "_":
		m.chart.SetBothLimits(zoomLimits(limits.Left, limits.Right, 1/(1-zoomFraction), minWindow(m.chart.Len())))
	case "r":
		m.chart.SetBothLimits(0, 1)
	case "[":
		m.moveCursor(-1)
	case "]":
		m.moveCursor(1)
	case "c":
		m.cursor = -1
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			m.toggle(int(key[0] - '1'))
		}
	}
	m.redraw()
	return m, nil
}

// moveCursor steps the point cursor inside the viewport. A hidden cursor
// shows up at the viewport edge opposite to the direction of travel.
func (m *Model) moveCursor(delta int) {
	idx := m.chart.ViewportIndices()
	switch {
	case m.cursor < 0 && delta > 0:
		m.cursor = idx.Left
	case m.cursor < 0:
		m.cursor = idx.Right
	default:
		m.cursor = clampIndex(m.cursor+delta, idx)
	}
}

func clampIndex(i int, idx schema.ViewportIndices) int {
	return max(idx.Left, min(i, idx.Right))
}

// cursorLabel describes the point under the cursor for every enabled series.
func (m *Model) cursorLabel() string {
	if m.cursor < 0 {
		return ""
	}
	reading, ok := m.chart.PointAt(m.chart.TimePoints()[m.cursor].Position)
	if !ok {
		return ""
	}
	parts := []string{schema.FormatDayLabel(reading.Time.UnixMilli())}
	for _, v := range reading.Values {
		if v.Enabled {
			parts = append(parts, fmt.Sprintf("%s %s", v.Name, schema.FormatShortValue(v.Value)))
		}
	}
	return strings.Join(parts, "  ")
}

func (m *Model) toggle(i int) {
	series := m.chart.Series()
	if i >= len(series) {
		return
	}
	if !m.chart.ToggleSeries(i) {
		m.notice = fmt.Sprintf("%s is the last visible series", series[i].Name)
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.plot.Resize(width, plotRows(height))
	m.redraw()
}

func plotRows(height int) int {
	return max(minPlotRows, height-chromeLines)
}

// redraw paints every enabled series inside the viewport.
func (m *Model) redraw() {
	points := m.chart.TimePoints()
	idx := m.chart.ViewportIndices()
	lo, hi := points[idx.Left].Position, points[idx.Right].Position
	if hi <= lo {
		lo, hi = 0, 1
	}
	m.span, _ = m.chart.CurrentSegmentSpan(0)

	m.plot.Clear()
	m.plot.SetXYRange(lo, hi, 0, 1)
	m.plot.SetViewXYRange(lo, hi, 0, 1)
	m.plot.DrawXYAxisAndLabel()

	if m.cursor >= 0 {
		m.cursor = clampIndex(m.cursor, idx)
		x := points[m.cursor].Position
		m.plot.DrawBrailleLineWithStyle(canvas.Float64Point{X: x, Y: 0}, canvas.Float64Point{X: x, Y: 1}, labelStyle)
	}

	for i, s := range m.chart.Series() {
		if !s.Enabled {
			continue
		}
		style := seriesStyle(i, s.ColorTag)
		values := m.chart.SegmentNormalizedPoints(i)
		for j := idx.Left; j < idx.Right; j++ {
			m.plot.DrawBrailleLineWithStyle(
				canvas.Float64Point{X: points[j].Position, Y: clampUnit(values[j].Normalized)},
				canvas.Float64Point{X: points[j+1].Position, Y: clampUnit(values[j+1].Normalized)},
				style,
			)
		}
	}
}

// formatXLabel turns a normalized position into a day label.
func (m *Model) formatXLabel(_ int, v float64) string {
	ts, ok := m.chart.InterpolatedTimestamp(v)
	if !ok {
		return ""
	}
	return schema.FormatDayLabel(ts)
}

// formatYLabel turns a normalized value into the raw value of the segment span.
func (m *Model) formatYLabel(_ int, v float64) string {
	raw := float64(m.span.Min) + v*float64(m.span.Range())
	return schema.FormatShortValue(int(math.Round(raw)))
}

func (m *Model) formatDateRange() string {
	points := m.chart.TimePoints()
	idx := m.chart.ViewportIndices()
	return fmt.Sprintf("%s - %s",
		schema.FormatDayLabel(points[idx.Left].Timestamp),
		schema.FormatDayLabel(points[idx.Right].Timestamp))
}

// View implements tea.Model.
func (m *Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("  ")
	sb.WriteString(labelStyle.Render(m.dateRange))
	if label := m.cursorLabel(); label != "" {
		sb.WriteString("  ")
		sb.WriteString(statusStyle.Render(label))
	}
	sb.WriteString("\n")
	sb.WriteString(m.plot.View())
	sb.WriteString("\n")
	sb.WriteString(m.legend())
	sb.WriteString("\n")

	help := "h/l pan  +/- zoom  [/] point  c clear  1-9 toggle  r reset  q quit"
	sb.WriteString(helpStyle.Render(help))
	switch {
	case m.notice != "":
		sb.WriteString("  " + statusStyle.Render(m.notice))
	case m.chart.NormalizationPending():
		sb.WriteString("  " + statusStyle.Render("normalizing"))
	}
	return sb.String()
}

func (m *Model) legend() string {
	series := m.chart.Series()
	parts := make([]string, len(series))
	for i, s := range series {
		label := fmt.Sprintf("[%d] %s", i+1, s.Name)
		if s.Enabled {
			parts[i] = seriesStyle(i, s.ColorTag).Render("● " + label)
		} else {
			parts[i] = mutedStyle.Render("○ " + label)
		}
	}
	return strings.Join(parts, "  ")
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
