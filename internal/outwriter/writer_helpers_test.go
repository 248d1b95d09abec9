package outwriter

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/schema"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{name: "precision 1", precision: 1, value: 0.55555, expected: "0.6"},
		{name: "precision 2", precision: 2, value: 3.14159, expected: "3.14"},
		{name: "negative value", precision: 2, value: -42.567, expected: "-42.57"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, schema.AxisSpan{Min: 0, Max: 115, Step: 20})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"min\": 0,\n  \"max\": 115,\n  \"step\": 20\n}\n", buf.String())
}

func TestWriteYAML(t *testing.T) {
	data := struct {
		Name  string  `json:"name"`
		Flag  string  `json:"flag"`
		Ratio float64 `json:"ratio"`
		Span  schema.AxisSpan
	}{Name: "Followers", Flag: "true", Ratio: 0.5, Span: schema.AxisSpan{Min: 40, Max: 69, Step: 5}}

	var buf bytes.Buffer
	require.NoError(t, writeYAML(&buf, data))
	out := buf.String()

	assert.Contains(t, out, "name: Followers\n")
	assert.Contains(t, out, `flag: "true"`)
	assert.Contains(t, out, "ratio: 0.5\n")
	assert.Contains(t, out, "Span:\n  min: 40\n  max: 69\n  step: 5\n")
	assert.Less(t, strings.Index(out, "name:"), strings.Index(out, "flag:"), "JSON key order is kept")
	assert.NotContains(t, out, "{")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"a", "b"}, [][]string{{"1", "x,y"}, {"2", ""}})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\"x,y\"\n2,\n", buf.String())
}

func TestWriteWithFile(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		called := false
		err := writeWithFile("", func(w io.Writer) error {
			called = true
			return nil
		}, "Test message")
		require.NoError(t, err)
		assert.True(t, called, "Writer function should have been called")
	})

	t.Run("actual file", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "test.txt")
		err := writeWithFile(tmpFile, func(w io.Writer) error {
			_, err := w.Write([]byte("test content"))
			return err
		}, "Test message")
		require.NoError(t, err)

		content, err := os.ReadFile(tmpFile)
		require.NoError(t, err)
		assert.Equal(t, "test content", string(content))
	})

	t.Run("writer error", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "test.txt")
		err := writeWithFile(tmpFile, func(w io.Writer) error {
			return assert.AnError
		}, "Test message")
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("invalid path", func(t *testing.T) {
		err := writeWithFile("/nonexistent/path/file.txt", func(w io.Writer) error {
			return nil
		}, "Test message")
		require.Error(t, err)
	})
}

func TestDispatchRejectsParquet(t *testing.T) {
	cfg := &contract.Config{Output: schema.ParquetOut, Precision: 1}
	err := PrintSpan(schema.SpanResult{}, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parquet output is not available for span")
}

func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{width: 30, want: 10},
		{width: 80, want: 20},
		{width: 200, want: 40},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetMaxTableNameWidth(&contract.Config{Width: tt.width}), "width %d", tt.width)
	}
}
