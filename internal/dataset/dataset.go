// Package dataset imports Telegram chart_data.json files into chart inputs.
//
// A file holds an array of chart objects. Each object has "columns", a list
// of arrays whose first element is the column label, and "types", "names" and
// "colors" maps keyed by that label. Exactly one column must be of type "x"
// (millisecond timestamps); the "line" columns become series.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/huangsam/chartscope/core"
	"github.com/huangsam/chartscope/core/algo"
	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/schema"
)

// Chart level errors.
var (
	ErrNoColumns = errors.New("chart has no columns")
	ErrNoTypes   = errors.New("chart has no types")
	ErrNoNames   = errors.New("chart has no names")
	ErrNoColors  = errors.New("chart has no colors")
	ErrNoXColumn = errors.New("chart has no x column")
)

// Column level errors.
var (
	ErrNoType   = errors.New("column has no known type")
	ErrNoColor  = errors.New("column has no color")
	ErrNoName   = errors.New("column has no name")
	ErrNoValues = errors.New("column values are not integers")
)

// ErrChartNotFound is returned when a chart index is out of range.
var ErrChartNotFound = errors.New("chart not found")

// Chart is one imported chart, ready to become a core.ChartModel.
type Chart struct {
	Index      int
	Name       string
	Timestamps []int64
	Series     []core.SeriesInput
}

// Dataset is a loaded chart_data.json file.
type Dataset struct {
	Path        string
	Fingerprint string // Content hash, stable across renames
	Charts      []Chart
}

// rawChart mirrors one chart object of the file. Pointers tell a missing
// map apart from an empty one.
type rawChart struct {
	Columns [][]json.RawMessage `json:"columns"`
	Types   *map[string]string  `json:"types"`
	Names   *map[string]string  `json:"names"`
	Colors  *map[string]string  `json:"colors"`
	Title   string              `json:"title"`
}

// Load reads and parses the dataset at path.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	charts, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}
	return &Dataset{
		Path:        path,
		Fingerprint: Fingerprint(data),
		Charts:      charts,
	}, nil
}

// Fingerprint hashes the raw file content.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// ChartKey identifies a chart of a dataset in the persistence stores.
func ChartKey(fingerprint string, index int) string {
	return fmt.Sprintf("%s:%d", fingerprint, index)
}

// Chart returns the chart at index.
func (d *Dataset) Chart(index int) (Chart, error) {
	if index < 0 || index >= len(d.Charts) {
		return Chart{}, fmt.Errorf("chart %d of %d: %w", index, len(d.Charts), ErrChartNotFound)
	}
	return d.Charts[index], nil
}

// Key returns the store key of the chart at index.
func (d *Dataset) Key(index int) string {
	return ChartKey(d.Fingerprint, index)
}

// Parse decodes the content of a chart_data.json file.
func Parse(data []byte) ([]Chart, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raws []rawChart
	if err := dec.Decode(&raws); err != nil {
		return nil, fmt.Errorf("invalid chart data: %w", err)
	}

	charts := make([]Chart, 0, len(raws))
	for i, raw := range raws {
		chart, err := raw.toChart(i)
		if err != nil {
			return nil, fmt.Errorf("chart %d: %w", i, err)
		}
		charts = append(charts, chart)
	}
	return charts, nil
}

func (raw rawChart) toChart(index int) (Chart, error) {
	switch {
	case raw.Columns == nil:
		return Chart{}, ErrNoColumns
	case raw.Types == nil:
		return Chart{}, ErrNoTypes
	case raw.Names == nil:
		return Chart{}, ErrNoNames
	case raw.Colors == nil:
		return Chart{}, ErrNoColors
	}
	types, names, colors := *raw.Types, *raw.Names, *raw.Colors

	name := raw.Title
	if name == "" {
		name = fmt.Sprintf("Chart #%d", index+1)
	}
	chart := Chart{Index: index, Name: name}
	hasX := false

	for i, column := range raw.Columns {
		if len(column) == 0 {
			contract.Logger().Warn("skipping empty column", "chart", index, "column", i)
			continue
		}
		var label string
		if err := json.Unmarshal(column[0], &label); err != nil {
			contract.Logger().Warn("skipping column without label", "chart", index, "column", i)
			continue
		}

		switch schema.ColumnType(types[label]) {
		case schema.LineColumn:
			color, ok := colors[label]
			if !ok {
				return Chart{}, fmt.Errorf("column %q: %w", label, ErrNoColor)
			}
			seriesName, ok := names[label]
			if !ok {
				return Chart{}, fmt.Errorf("column %q: %w", label, ErrNoName)
			}
			values, err := parseInts(column[1:])
			if err != nil {
				return Chart{}, fmt.Errorf("column %q: %w", label, err)
			}
			ints := make([]int, len(values))
			for j, v := range values {
				ints[j] = int(v)
			}
			chart.Series = append(chart.Series, core.SeriesInput{Name: seriesName, ColorTag: color, Values: ints})

		case schema.XColumn:
			values, err := parseInts(column[1:])
			if err != nil {
				return Chart{}, fmt.Errorf("column %q: %w", label, err)
			}
			chart.Timestamps = values
			hasX = true

		default:
			return Chart{}, fmt.Errorf("column %q: %w", label, ErrNoType)
		}
	}

	if !hasX {
		return Chart{}, ErrNoXColumn
	}
	return chart, nil
}

func parseInts(raw []json.RawMessage) ([]int64, error) {
	values := make([]int64, len(raw))
	for i, r := range raw {
		var n json.Number
		if err := json.Unmarshal(r, &n); err != nil {
			return nil, fmt.Errorf("value %d: %w", i, ErrNoValues)
		}
		v, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("value %d (%s): %w", i, n, ErrNoValues)
		}
		values[i] = v
	}
	return values, nil
}

// GlobalSpan is the span of every value of every series.
func (c Chart) GlobalSpan() schema.AxisSpan {
	lo, hi, found := 0, 0, false
	for _, s := range c.Series {
		for _, v := range s.Values {
			if !found {
				lo, hi, found = v, v, true
				continue
			}
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	return algo.CalculateSpan(lo, hi)
}

// Summary describes the chart without its values.
func (c Chart) Summary() schema.ChartSummary {
	summary := schema.ChartSummary{
		Index:      c.Index,
		Name:       c.Name,
		Points:     len(c.Timestamps),
		GlobalSpan: c.GlobalSpan(),
		Series:     make([]schema.SeriesDescriptor, len(c.Series)),
	}
	if n := len(c.Timestamps); n > 0 {
		summary.FirstTime = schema.TimeFromMillis(c.Timestamps[0])
		summary.LastTime = schema.TimeFromMillis(c.Timestamps[n-1])
	}
	for i, s := range c.Series {
		summary.Series[i] = schema.SeriesDescriptor{Index: i, Name: s.Name, ColorTag: s.ColorTag, Enabled: true}
	}
	return summary
}

// NewModel builds a chart model over copies of the chart data.
func (c Chart) NewModel(opts ...core.Option) (*core.ChartModel, error) {
	return core.NewChartModel(c.Name, c.Timestamps, c.Series, opts...)
}

// Summaries describes every chart of the dataset.
func (d *Dataset) Summaries() []schema.ChartSummary {
	out := make([]schema.ChartSummary, len(d.Charts))
	for i, c := range d.Charts {
		out[i] = c.Summary()
	}
	return out
}
