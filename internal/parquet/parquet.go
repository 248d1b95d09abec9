// Package parquet exports chart points and view snapshots to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/chartscope/core"
	"github.com/huangsam/chartscope/schema"
)

// NormalizedPoint is one value of one series together with both of its
// normalized coordinates.
type NormalizedPoint struct {
	// ChartName is the display name of the chart
	ChartName string `parquet:"chart_name,snappy"`

	SeriesIndex int32  `parquet:"series_index,snappy"`
	SeriesName  string `parquet:"series_name,snappy"`

	// Color is the hex color of the series (nullable)
	Color *string `parquet:"color,optional,snappy"`

	// Enabled tells whether the series was visible at export time
	Enabled bool `parquet:"enabled,snappy"`

	PointIndex int32 `parquet:"point_index,snappy"`

	// Position is the uniform index coordinate of the point in [0,1]
	Position float64 `parquet:"position,snappy"`

	// Timestamp is the time of the point (stored as TIMESTAMP with nanosecond precision)
	Timestamp time.Time `parquet:"timestamp,snappy"`

	Raw int64 `parquet:"raw,snappy"`

	// SegmentNormalized is the coordinate against the current viewport span
	SegmentNormalized float64 `parquet:"segment_normalized,snappy"`

	// GlobalNormalized is the coordinate against the span of all enabled series
	GlobalNormalized float64 `parquet:"global_normalized,snappy"`

	// InViewport tells whether the point lies between the viewport indices
	InViewport bool `parquet:"in_viewport,snappy"`
}

// Snapshot is one recorded chart view.
type Snapshot struct {
	SnapshotID string `parquet:"snapshot_id,snappy"`
	ChartKey   string `parquet:"chart_key,snappy"`
	ChartName  string `parquet:"chart_name,snappy"`

	LeftLimit  float64 `parquet:"left_limit,snappy"`
	RightLimit float64 `parquet:"right_limit,snappy"`
	LeftIndex  int32   `parquet:"left_index,snappy"`
	RightIndex int32   `parquet:"right_index,snappy"`

	SpanMin  int64 `parquet:"span_min,snappy"`
	SpanMax  int64 `parquet:"span_max,snappy"`
	SpanStep int64 `parquet:"span_step,snappy"`

	EnabledSeries []string `parquet:"enabled_series"`

	// RecordedAt is when the view was recorded (stored as TIMESTAMP with nanosecond precision)
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// WritePointsParquet writes a slice of NormalizedPoint structs to a Parquet file.
func WritePointsParquet(data []NormalizedPoint, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSnapshotsParquet writes a slice of Snapshot structs to a Parquet file.
func WriteSnapshotsParquet(data []Snapshot, outputPath string) error {
	return writeParquet(data, outputPath)
}

func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// ConvertChartPoints flattens every series of a chart into point rows,
// series by series.
func ConvertChartPoints(model *core.ChartModel) []NormalizedPoint {
	points := model.TimePoints()
	viewport := model.ViewportIndices()
	series := model.Series()

	result := make([]NormalizedPoint, 0, len(points)*len(series))
	for _, desc := range series {
		var color *string
		if desc.ColorTag != "" {
			c := desc.ColorTag
			color = &c
		}
		segment := model.SegmentNormalizedPoints(desc.Index)
		global := model.GlobalNormalizedPoints(desc.Index)
		for i, p := range points {
			result = append(result, NormalizedPoint{
				ChartName:         model.Name(),
				SeriesIndex:       int32(desc.Index),
				SeriesName:        desc.Name,
				Color:             color,
				Enabled:           desc.Enabled,
				PointIndex:        int32(i),
				Position:          p.Position,
				Timestamp:         time.UnixMilli(p.Timestamp).UTC(),
				Raw:               int64(segment[i].Raw),
				SegmentNormalized: segment[i].Normalized,
				GlobalNormalized:  global[i].Normalized,
				InViewport:        i >= viewport.Left && i <= viewport.Right,
			})
		}
	}
	return result
}

// ConvertSnapshotRecords converts schema.ViewSnapshot to Snapshot for Parquet export.
func ConvertSnapshotRecords(records []schema.ViewSnapshot) []Snapshot {
	result := make([]Snapshot, len(records))
	for i, record := range records {
		result[i] = Snapshot{
			SnapshotID:    record.SnapshotID,
			ChartKey:      record.ChartKey,
			ChartName:     record.ChartName,
			LeftLimit:     record.Limits.Left,
			RightLimit:    record.Limits.Right,
			LeftIndex:     int32(record.Indices.Left),
			RightIndex:    int32(record.Indices.Right),
			SpanMin:       int64(record.SegmentSpan.Min),
			SpanMax:       int64(record.SegmentSpan.Max),
			SpanStep:      int64(record.SegmentSpan.Step),
			EnabledSeries: record.EnabledSeries,
			RecordedAt:    record.RecordedAt.UTC(),
		}
	}
	return result
}
