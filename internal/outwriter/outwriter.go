// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/internal/parquet"
	"github.com/huangsam/chartscope/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteCharts prints the charts of a dataset.
func (ow *OutWriter) WriteCharts(charts []schema.ChartSummary, cfg *contract.Config) error {
	return PrintCharts(charts, cfg)
}

// WriteInspect prints the state of a chart view.
func (ow *OutWriter) WriteInspect(result schema.InspectResult, cfg *contract.Config, duration time.Duration) error {
	return PrintInspect(result, cfg, duration)
}

// WriteSpan prints a standalone span calculation.
func (ow *OutWriter) WriteSpan(result schema.SpanResult, cfg *contract.Config) error {
	return PrintSpan(result, cfg)
}

// WritePoints prints or exports the normalized points of a chart.
func (ow *OutWriter) WritePoints(rows []parquet.NormalizedPoint, cfg *contract.Config) error {
	return PrintPoints(rows, cfg)
}

// WriteStatus prints the status of the stores.
func (ow *OutWriter) WriteStatus(status schema.StoreStatus, cfg *contract.Config) error {
	return PrintStatus(status, cfg)
}

// WriteHistory prints or exports recorded snapshots.
func (ow *OutWriter) WriteHistory(snapshots []schema.ViewSnapshot, cfg *contract.Config) error {
	return PrintHistory(snapshots, cfg)
}
