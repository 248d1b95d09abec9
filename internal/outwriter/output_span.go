package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/schema"
)

// PrintSpan outputs a span calculation, dispatching based on the output format configured.
func PrintSpan(result schema.SpanResult, cfg *contract.Config) error {
	return dispatch(cfg, output{
		what: "span",
		data: result,
		csv: func() ([]string, [][]string) {
			header := []string{"gridline", "value", "label"}
			rows := make([][]string, len(result.Gridlines))
			for i, v := range result.Gridlines {
				rows[i] = []string{strconv.Itoa(i), strconv.Itoa(v), result.Labels[i]}
			}
			return header, rows
		},
		table: func(w io.Writer) error {
			return writeSpanTable(w, result)
		},
	})
}

func writeSpanTable(w io.Writer, result schema.SpanResult) error {
	fmt.Fprintf(w, "Input: %d..%d\n", result.InputMin, result.InputMax)
	fmt.Fprintf(w, "Span: %d..%d step %d\n", result.Span.Min, result.Span.Max, result.Span.Step)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Gridline", "Value", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// Top gridline first, the way it is drawn
	var data [][]string
	for i := len(result.Gridlines) - 1; i >= 0; i-- {
		data = append(data, []string{strconv.Itoa(i), strconv.Itoa(result.Gridlines[i]), result.Labels[i]})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
