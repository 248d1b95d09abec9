package core

import (
	"github.com/huangsam/chartscope/core/algo"
	"github.com/huangsam/chartscope/schema"
)

// Inspect reports the current view of the chart. With withPoints set, every
// series carries its segment points inside the viewport.
func (c *ChartModel) Inspect(withPoints bool) schema.InspectResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.axis.Indices()
	result := schema.InspectResult{
		ChartName: c.name,
		Limits:    c.axis.Limits(),
		Indices:   idx,
		FirstTime: schema.TimeFromMillis(c.axis.points[idx.Left].Timestamp),
		LastTime:  schema.TimeFromMillis(c.axis.points[idx.Right].Timestamp),
		Series:    make([]schema.SeriesSegment, len(c.series)),
	}

	for i, s := range c.series {
		lo, hi, _ := s.MinMaxInRange(idx.Left, idx.Right)
		seg := schema.SeriesSegment{
			SeriesDescriptor: schema.SeriesDescriptor{
				Index:    i,
				Name:     s.Name(),
				ColorTag: s.ColorTag(),
				Enabled:  s.Enabled(),
			},
			ViewportMin: lo,
			ViewportMax: hi,
			SegmentSpan: s.SegmentSpan(),
		}
		if withPoints {
			seg.Points = s.SegmentPoints()[idx.Left : idx.Right+1]
		}
		result.Series[i] = seg
	}
	result.Gridlines = algo.Gridlines(c.series[0].SegmentSpan())
	return result
}

// PointAt reads the chart at position p: the first point at or after p and
// the raw value of every series there. ok is false past the last point.
func (c *ChartModel) PointAt(p float64) (schema.PointReading, bool) {
	point, index, ok := c.NextValueAtOrAfter(p)
	if !ok {
		return schema.PointReading{}, false
	}
	series := c.Series()
	reading := schema.PointReading{
		Index:    index,
		Position: point.Position,
		Time:     schema.TimeFromMillis(point.Timestamp),
		Values:   make([]schema.SeriesValue, len(series)),
	}
	for i, s := range series {
		reading.Values[i] = schema.SeriesValue{SeriesDescriptor: s, Value: c.SeriesValues(i)[index]}
	}
	return reading, true
}
