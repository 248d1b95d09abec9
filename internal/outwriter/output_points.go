package outwriter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/internal/parquet"
	"github.com/huangsam/chartscope/schema"
)

// errParquetNeedsFile is returned when parquet output is requested without a file.
var errParquetNeedsFile = errors.New("--output-file is required for parquet output")

// PrintPoints outputs normalized chart points. Parquet output goes to cfg.OutputFile.
func PrintPoints(rows []parquet.NormalizedPoint, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		if cfg.OutputFile == "" {
			return errParquetNeedsFile
		}
		if err := parquet.WritePointsParquet(rows, cfg.OutputFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Exported %d points to %s\n", len(rows), cfg.OutputFile)
		return nil
	}

	fmtFloat, _ := createFormatters(cfg.Precision)
	return dispatch(cfg, output{
		what: "points",
		data: rows,
		csv: func() ([]string, [][]string) {
			return pointsCSV(rows, fmtFloat)
		},
		table: func(w io.Writer) error {
			return writePointsTable(w, rows, cfg, fmtFloat)
		},
	})
}

func pointsCSV(rows []parquet.NormalizedPoint, fmtFloat func(float64) string) ([]string, [][]string) {
	header := []string{
		"chart", "series_index", "series", "enabled", "point_index", "timestamp",
		"raw", "segment_normalized", "global_normalized", "in_viewport",
	}
	out := make([][]string, 0, len(rows))
	for _, p := range rows {
		out = append(out, []string{
			p.ChartName,
			strconv.Itoa(int(p.SeriesIndex)),
			p.SeriesName,
			strconv.FormatBool(p.Enabled),
			strconv.Itoa(int(p.PointIndex)),
			p.Timestamp.Format(contract.DateTimeFormat),
			strconv.FormatInt(p.Raw, 10),
			fmtFloat(p.SegmentNormalized),
			fmtFloat(p.GlobalNormalized),
			strconv.FormatBool(p.InViewport),
		})
	}
	return header, out
}

func writePointsTable(w io.Writer, rows []parquet.NormalizedPoint, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Series", "#", "Date", "Raw", "Segment", "Global", "In View"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	var data [][]string
	for _, p := range rows {
		inView := ""
		if p.InViewport {
			inView = "✓"
		}
		data = append(data, []string{
			contract.TruncateName(p.SeriesName, nameWidth),
			strconv.Itoa(int(p.PointIndex)),
			schema.FormatDayLabel(p.Timestamp.UnixMilli()),
			strconv.FormatInt(p.Raw, 10),
			fmtFloat(p.SegmentNormalized),
			fmtFloat(p.GlobalNormalized),
			inView,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
