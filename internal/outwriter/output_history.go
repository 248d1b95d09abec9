package outwriter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/internal/parquet"
	"github.com/huangsam/chartscope/schema"
)

// PrintHistory outputs recorded snapshots. Parquet output goes to cfg.OutputFile.
func PrintHistory(snapshots []schema.ViewSnapshot, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		if cfg.OutputFile == "" {
			return errParquetNeedsFile
		}
		if err := parquet.WriteSnapshotsParquet(parquet.ConvertSnapshotRecords(snapshots), cfg.OutputFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Exported %d snapshots to %s\n", len(snapshots), cfg.OutputFile)
		return nil
	}

	fmtFloat, _ := createFormatters(cfg.Precision)
	return dispatch(cfg, output{
		what: "snapshot history",
		data: snapshots,
		csv: func() ([]string, [][]string) {
			return historyCSV(snapshots, fmtFloat)
		},
		table: func(w io.Writer) error {
			return writeHistoryTable(w, snapshots, cfg, fmtFloat)
		},
	})
}

func historyCSV(snapshots []schema.ViewSnapshot, fmtFloat func(float64) string) ([]string, [][]string) {
	header := []string{
		"snapshot_id", "chart_key", "chart_name", "recorded_at", "left_limit", "right_limit",
		"left_index", "right_index", "span_min", "span_max", "span_step", "enabled_series",
	}
	rows := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, []string{
			s.SnapshotID,
			s.ChartKey,
			s.ChartName,
			s.RecordedAt.Format(contract.DateTimeFormat),
			fmtFloat(s.Limits.Left),
			fmtFloat(s.Limits.Right),
			strconv.Itoa(s.Indices.Left),
			strconv.Itoa(s.Indices.Right),
			strconv.Itoa(s.SegmentSpan.Min),
			strconv.Itoa(s.SegmentSpan.Max),
			strconv.Itoa(s.SegmentSpan.Step),
			strings.Join(s.EnabledSeries, "|"),
		})
	}
	return header, rows
}

func writeHistoryTable(w io.Writer, snapshots []schema.ViewSnapshot, cfg *contract.Config, fmtFloat func(float64) string) error {
	if len(snapshots) == 0 {
		fmt.Fprintln(w, "No snapshots recorded yet.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Chart", "Recorded", "Viewport", "Points", "Span", "Series"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	var data [][]string
	for _, s := range snapshots {
		data = append(data, []string{
			shortID(s.SnapshotID),
			contract.TruncateName(s.ChartName, nameWidth),
			s.RecordedAt.Format(statusTimeFormat),
			fmtFloat(s.Limits.Left) + ".." + fmtFloat(s.Limits.Right),
			fmt.Sprintf("%d..%d", s.Indices.Left, s.Indices.Right),
			formatSpan(s.SegmentSpan),
			contract.TruncateName(strings.Join(s.EnabledSeries, ", "), nameWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// shortID keeps the first block of a UUID.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
