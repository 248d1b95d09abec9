package outwriter

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/schema"
)

// PrintCharts outputs the chart summaries, dispatching based on the output format configured.
func PrintCharts(charts []schema.ChartSummary, cfg *contract.Config) error {
	return dispatch(cfg, output{
		what: "chart list",
		data: charts,
		csv: func() ([]string, [][]string) {
			return chartsCSV(charts)
		},
		table: func(w io.Writer) error {
			return writeChartsTable(w, charts, cfg)
		},
	})
}

func chartsCSV(charts []schema.ChartSummary) ([]string, [][]string) {
	header := []string{"index", "name", "points", "first", "last", "series", "span_min", "span_max", "span_step"}
	rows := make([][]string, 0, len(charts))
	for _, c := range charts {
		rows = append(rows, []string{
			strconv.Itoa(c.Index),
			c.Name,
			strconv.Itoa(c.Points),
			c.FirstTime.Format(contract.DateTimeFormat),
			c.LastTime.Format(contract.DateTimeFormat),
			schema.FormatSeriesNames(c.Series, false),
			strconv.Itoa(c.GlobalSpan.Min),
			strconv.Itoa(c.GlobalSpan.Max),
			strconv.Itoa(c.GlobalSpan.Step),
		})
	}
	return header, rows
}

func writeChartsTable(w io.Writer, charts []schema.ChartSummary, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Chart", "Points", "From", "To", "Series", "Span"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg)
	var data [][]string
	for _, c := range charts {
		data = append(data, []string{
			strconv.Itoa(c.Index),
			contract.TruncateName(c.Name, nameWidth),
			strconv.Itoa(c.Points),
			schema.FormatDayLabel(c.FirstTime.UnixMilli()),
			schema.FormatDayLabel(c.LastTime.UnixMilli()),
			contract.TruncateName(schema.FormatSeriesNames(c.Series, false), nameWidth),
			formatSpan(c.GlobalSpan),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
