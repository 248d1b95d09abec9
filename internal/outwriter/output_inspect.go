package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/schema"
)

// PrintInspect outputs a chart view, dispatching based on the output format configured.
func PrintInspect(result schema.InspectResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return dispatch(cfg, output{
		what: "inspect results",
		data: result,
		csv: func() ([]string, [][]string) {
			return inspectCSV(result, fmtFloat)
		},
		table: func(w io.Writer) error {
			return writeInspectTable(w, result, cfg, fmtFloat, duration)
		},
	})
}

func inspectCSV(result schema.InspectResult, fmtFloat func(float64) string) ([]string, [][]string) {
	header := []string{
		"chart", "left_limit", "right_limit", "left_index", "right_index",
		"series", "name", "enabled", "viewport_min", "viewport_max", "span_min", "span_max", "span_step",
	}
	rows := make([][]string, 0, len(result.Series))
	for _, s := range result.Series {
		rows = append(rows, []string{
			result.ChartName,
			fmtFloat(result.Limits.Left),
			fmtFloat(result.Limits.Right),
			strconv.Itoa(result.Indices.Left),
			strconv.Itoa(result.Indices.Right),
			strconv.Itoa(s.Index),
			s.Name,
			strconv.FormatBool(s.Enabled),
			strconv.Itoa(s.ViewportMin),
			strconv.Itoa(s.ViewportMax),
			strconv.Itoa(s.SegmentSpan.Min),
			strconv.Itoa(s.SegmentSpan.Max),
			strconv.Itoa(s.SegmentSpan.Step),
		})
	}
	return header, rows
}

func writeInspectTable(w io.Writer, result schema.InspectResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	labels := make([]string, len(result.Gridlines))
	for i, v := range result.Gridlines {
		labels[i] = schema.FormatShortValue(v)
	}

	fmt.Fprintf(w, "📈 %s\n", result.ChartName)
	fmt.Fprintf(w, "Viewport: %s..%s (points %d..%d)\n",
		fmtFloat(result.Limits.Left), fmtFloat(result.Limits.Right), result.Indices.Left, result.Indices.Right)
	fmt.Fprintf(w, "Dates: %s - %s\n",
		schema.FormatDayLabel(result.FirstTime.UnixMilli()), schema.FormatDayLabel(result.LastTime.UnixMilli()))
	fmt.Fprintf(w, "Gridlines: %s\n", strings.Join(labels, " | "))

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Series", "Visible", "Min", "Max", "Span", "Step"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	var data [][]string
	for _, s := range result.Series {
		data = append(data, []string{
			strconv.Itoa(s.Index),
			contract.TruncateName(s.Name, nameWidth),
			visibilityLabel(s.Enabled, cfg),
			schema.FormatShortValue(s.ViewportMin),
			schema.FormatShortValue(s.ViewportMax),
			formatSpan(s.SegmentSpan),
			schema.FormatShortValue(s.SegmentSpan.Step),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Viewport normalized in %v. State backend: %s\n", duration, cfg.StateBackend)
	return nil
}
