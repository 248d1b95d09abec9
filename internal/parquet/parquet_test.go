package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/chartscope/core"
	"github.com/huangsam/chartscope/schema"
)

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err, "Should be able to open output file")
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	return rows[:n]
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		schema  *parquet.Schema
		columns []string
	}{
		{
			name:   "points",
			schema: parquet.SchemaOf(new(NormalizedPoint)),
			columns: []string{
				"chart_name", "series_index", "series_name", "color", "enabled", "point_index",
				"position", "timestamp", "raw", "segment_normalized", "global_normalized", "in_viewport",
			},
		},
		{
			name:   "snapshots",
			schema: parquet.SchemaOf(new(Snapshot)),
			columns: []string{
				"snapshot_id", "chart_key", "chart_name", "left_limit", "right_limit", "left_index",
				"right_index", "span_min", "span_max", "span_step", "enabled_series", "recorded_at",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, colName := range tt.columns {
				col, ok := tt.schema.Lookup(colName)
				require.True(t, ok, "Column %s should exist in schema", colName)
				require.NotNil(t, col, "Column %s should not be nil", colName)
			}
		})
	}
}

func TestConvertChartPoints(t *testing.T) {
	model, err := core.NewChartModel("Chart #1",
		[]int64{1000, 2000, 3000, 4000},
		[]core.SeriesInput{
			{Name: "a", ColorTag: "#3DC23F", Values: []int{0, 10, 20, 30}},
			{Name: "b", Values: []int{5, 5, 5, 5}},
		},
		core.WithImmediateNormalization(),
	)
	require.NoError(t, err)
	defer model.Close()
	model.SetBothLimits(0.5, 1)

	rows := ConvertChartPoints(model)
	require.Len(t, rows, 8)

	first := rows[0]
	assert.Equal(t, "Chart #1", first.ChartName)
	assert.Equal(t, "a", first.SeriesName)
	require.NotNil(t, first.Color)
	assert.Equal(t, "#3DC23F", *first.Color)
	assert.False(t, first.InViewport)
	assert.Equal(t, time.UnixMilli(1000).UTC(), first.Timestamp)

	assert.True(t, rows[2].InViewport)
	assert.True(t, rows[3].InViewport)
	assert.Nil(t, rows[4].Color)
	assert.Equal(t, int32(1), rows[4].SeriesIndex)

	span, ok := model.CurrentSegmentSpan(0)
	require.True(t, ok)
	assert.InDelta(t, span.Normalize(30), rows[3].SegmentNormalized, 1e-9)
	assert.Equal(t, int64(30), rows[3].Raw)
}

func TestWritePointsParquet(t *testing.T) {
	color := "#F34C44"
	data := []NormalizedPoint{
		{ChartName: "c", SeriesName: "a", Color: &color, Enabled: true, PointIndex: 0, Raw: 12, SegmentNormalized: 0.1, GlobalNormalized: 0.2, Timestamp: time.UnixMilli(1542412800000).UTC()},
		{ChartName: "c", SeriesName: "a", Color: nil, Enabled: true, PointIndex: 1, Raw: 69, SegmentNormalized: 0.9, GlobalNormalized: 0.8, InViewport: true, Timestamp: time.UnixMilli(1542499200000).UTC()},
	}

	outputPath := filepath.Join(t.TempDir(), "points.parquet")
	require.NoError(t, WritePointsParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	read := readAll[NormalizedPoint](t, outputPath)
	require.Len(t, read, 2)
	for i := range data {
		assert.Equal(t, data[i].Raw, read[i].Raw)
		assert.Equal(t, data[i].InViewport, read[i].InViewport)
		assert.InDelta(t, data[i].SegmentNormalized, read[i].SegmentNormalized, 1e-12)
		assert.WithinDuration(t, data[i].Timestamp, read[i].Timestamp, time.Nanosecond)
	}
	require.NotNil(t, read[0].Color)
	assert.Equal(t, color, *read[0].Color)
	assert.Nil(t, read[1].Color, "Color should be nil")
}

func TestWriteSnapshotsParquet(t *testing.T) {
	records := []schema.ViewSnapshot{
		{
			SnapshotID:    "0b8f2a56-7c1e-4d3a-9a4b-1d2c3e4f5a6b",
			ChartKey:      "abc:0",
			ChartName:     "Chart #1",
			Limits:        schema.ViewportLimits{Left: 0.5, Right: 1},
			Indices:       schema.ViewportIndices{Left: 5, Right: 9},
			SegmentSpan:   schema.AxisSpan{Min: 15, Max: 102, Step: 15},
			EnabledSeries: []string{"#0", "#1"},
			RecordedAt:    time.UnixMilli(1700000000000),
		},
	}

	data := ConvertSnapshotRecords(records)
	require.Len(t, data, 1)
	assert.Equal(t, int64(102), data[0].SpanMax)
	assert.Equal(t, int32(9), data[0].RightIndex)

	outputPath := filepath.Join(t.TempDir(), "snapshots.parquet")
	require.NoError(t, WriteSnapshotsParquet(data, outputPath))

	read := readAll[Snapshot](t, outputPath)
	require.Len(t, read, 1)
	assert.Equal(t, data[0].SnapshotID, read[0].SnapshotID)
	assert.Equal(t, []string{"#0", "#1"}, read[0].EnabledSeries)
	assert.WithinDuration(t, data[0].RecordedAt, read[0].RecordedAt, time.Nanosecond)
}

func TestWriteParquetBadPath(t *testing.T) {
	err := WriteSnapshotsParquet(nil, filepath.Join(t.TempDir(), "missing", "out.parquet"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}
