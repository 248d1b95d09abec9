package cmd

import (
	"fmt"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/internal/runner"
)

// listCmd prints the charts of a dataset.
var listCmd = &cobra.Command{
	Use:   "list [data]",
	Short: "List the charts of a chart_data.json file",
	Long: `List every chart of a dataset with its points, series and global y axis span.

The index in the first column is what --chart selects in the other commands.`,
	Example: heredoc.Doc(`
		# List the charts of a dataset
		chartscope list chart_data.json

		# Same, as JSON
		chartscope list chart_data.json --output json
	`),
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupConfig,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runner.ExecuteList(rootCtx, cfg, nil); err != nil {
			contract.LogFatal("Cannot list charts", err)
		}
	},
}

// inspectCmd prints the normalized segment of one chart.
var inspectCmd = &cobra.Command{
	Use:   "inspect [data]",
	Short: "Show the viewport, y spans and gridlines of a chart",
	Long: `Open one chart, move its viewport and print what the chart would draw.

The saved view of the chart is applied first (disable with --restore=false),
then --left and --right when given. The printed segment is fully normalized.

Shows per series:
- Visibility
- Minimum and maximum inside the viewport
- Y axis span of the segment
- Normalized points with --points`,
	Example: heredoc.Doc(`
		# Inspect the right half of the second chart
		chartscope inspect chart_data.json --chart 1 --left 0.5 --right 1

		# Record the view in the snapshot history
		chartscope inspect chart_data.json --left 0.2 --right 0.4 --record --snapshot-backend sqlite
	`),
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runner.ExecuteInspect(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot inspect chart", err)
		}
	},
}

// exportCmd writes every normalized point of one chart.
var exportCmd = &cobra.Command{
	Use:   "export [data]",
	Short: "Export the normalized points of a chart",
	Long: `Export every point of every series of a chart with its raw value, its value
normalized to the viewport span and to the global span, and whether it lies
inside the viewport.

Parquet output requires --output-file.`,
	Example: heredoc.Doc(`
		# Export to Parquet for DuckDB or pandas
		chartscope export chart_data.json --chart 2 --output parquet --output-file points.parquet

		# Print as CSV
		chartscope export chart_data.json --output csv
	`),
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runner.ExecuteExport(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot export chart", err)
		}
	},
}

// viewCmd opens the interactive viewer.
var viewCmd = &cobra.Command{
	Use:   "view [data]",
	Short: "Browse a chart in the terminal",
	Long: `Open a chart full screen. Pan with h/l or the arrow keys, zoom with + and -,
toggle series with 1-9, reset with r and quit with q.

The view is saved on exit unless --save=false.`,
	Example: heredoc.Doc(`
		# Browse the first chart
		chartscope view chart_data.json

		# Normalize right away on every key press
		chartscope view chart_data.json --debounce 0
	`),
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runner.ExecuteView(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot view chart", err)
		}
	},
}

// spanCmd runs the span calculation on its own.
var spanCmd = &cobra.Command{
	Use:   "span <min> <max>",
	Short: "Calculate the y axis span for a value range",
	Long: `Calculate the y axis span and the six gridlines that cover a value range.

This is the calculation every chart runs on its visible values.`,
	Example: heredoc.Doc(`
		# Span of the values 50 to 190
		chartscope span 50 190

		# Negative values go after --
		chartscope span -- -7 3
	`),
	Args:    cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, _ []string) error { return setupConfig(cmd, nil) },
	Run: func(_ *cobra.Command, args []string) {
		minValue, maxValue, err := parseRange(args[0], args[1])
		if err != nil {
			contract.LogFatal("Invalid range", err)
		}
		if err := runner.ExecuteSpan(cfg, minValue, maxValue); err != nil {
			contract.LogFatal("Cannot calculate span", err)
		}
	},
}

// parseRange parses the two positional values of spanCmd.
func parseRange(lo, hi string) (int, int, error) {
	minValue, err := strconv.Atoi(lo)
	if err != nil {
		return 0, 0, fmt.Errorf("min must be an integer (received %q)", lo)
	}
	maxValue, err := strconv.Atoi(hi)
	if err != nil {
		return 0, 0, fmt.Errorf("max must be an integer (received %q)", hi)
	}
	return minValue, maxValue, nil
}
