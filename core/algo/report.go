package algo

import "github.com/huangsam/chartscope/schema"

// DescribeSpan calculates the span of (min, max) and lists its gridlines
// with their short labels.
func DescribeSpan(min, max int) schema.SpanResult {
	span := CalculateSpan(min, max)
	lines := Gridlines(span)
	labels := make([]string, len(lines))
	for i, v := range lines {
		labels[i] = schema.FormatShortValue(v)
	}
	return schema.SpanResult{
		InputMin:  min,
		InputMax:  max,
		Span:      span,
		Gridlines: lines,
		Labels:    labels,
	}
}
