package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeYAML encodes data as YAML with the same keys and key order as its JSON form.
func writeYAML(w io.Writer, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	blockStyle(&node)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&node); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// blockStyle drops the flow and quoting styles JSON input comes with.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, rows [][]string) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// output bundles every rendering of one result.
type output struct {
	what  string // used in messages, e.g. "inspect results"
	data  any
	csv   func() (header []string, rows [][]string)
	table func(io.Writer) error
}

// dispatch writes o in the configured output format.
func dispatch(cfg *contract.Config, o output) error {
	var err error
	switch cfg.Output {
	case schema.JSONOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, o.data)
		}, "Wrote JSON "+o.what)
	case schema.YAMLOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, o.data)
		}, "Wrote YAML "+o.what)
	case schema.CSVOut:
		err = writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header, rows := o.csv()
			return writeCSVWithHeader(w, header, rows)
		}, "Wrote CSV "+o.what)
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not available for %s", o.what)
	default:
		err = writeWithFile(cfg.OutputFile, o.table, "Wrote "+o.what)
	}
	if err != nil {
		return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
	}
	return nil
}

// visibilityLabel picks a colored or plain label for table output.
func visibilityLabel(enabled bool, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(enabled)
	}
	return contract.GetPlainLabel(enabled)
}

func formatSpan(s schema.AxisSpan) string {
	return fmt.Sprintf("%s..%s", schema.FormatShortValue(s.Min), schema.FormatShortValue(s.Max))
}
