package algo

import (
	"math"

	"github.com/huangsam/chartscope/schema"
)

// GridlineCount is the number of horizontal gridlines a span must fit.
const GridlineCount = 6

// ZeroSpanStep is the step used when min and max are equal.
const ZeroSpanStep = 5

// MaxAxisValue bounds the magnitude of values CalculateSpan works with.
// Inputs beyond it are clamped so the span arithmetic cannot overflow.
const MaxAxisValue = math.MaxInt >> 4

// maxStepSearch caps how many nice steps are tried before falling back to a
// step that always fits.
const maxStepSearch = 64

// CalculateSpan converts a raw (min, max) pair into a human-friendly axis span.
//
// The step is picked from the raw span divided by the gridline count and rounded
// up to a nice granularity. The minimum is snapped down to a multiple of the step
// and the step is enlarged until GridlineCount gridlines reach max. The top is
// then padded by three quarters of a step so the highest value never sits on the
// top gridline.
//
// Two rules differ from padding the raw maximum and deriving the step from the
// padded span: the pad is always added on top of the last gridline, and the step
// grows until the gridlines cover max, so every value lies inside the gridlines.
//
// Callers are expected to pass min <= max; inverted input is swapped. Values
// beyond MaxAxisValue are clamped to it.
func CalculateSpan(min, max int) schema.AxisSpan {
	if min > max {
		min, max = max, min
	}
	min, max = clampAxisValue(min), clampAxisValue(max)

	step := fittingStep(min, max)
	lo := floorDiv(min, step) * step
	return schema.AxisSpan{
		Min:  lo,
		Max:  lo + (GridlineCount-1)*step + topPad(step),
		Step: step,
	}
}

// fittingStep returns the smallest nice step, no smaller than the raw step,
// whose gridlines starting at the snapped minimum reach max.
func fittingStep(min, max int) int {
	gaps := GridlineCount - 1
	width := max - min
	fits := func(step int) bool {
		return floorDiv(min, step)*step+gaps*step >= max
	}

	step := niceStep(ceilDiv(width, GridlineCount))
	if fits(step) {
		return step
	}
	// The snapped minimum never exceeds min, so steps below width/gaps cannot fit
	step = niceStep(ceilDiv(width, gaps))
	for range maxStepSearch {
		if fits(step) {
			return step
		}
		step = niceStep(step + 1)
	}
	// The snapped minimum is less than a step below min, so this always fits
	return niceStep(ceilDiv(width, gaps-1))
}

func clampAxisValue(v int) int {
	return max(-MaxAxisValue, min(v, MaxAxisValue))
}

// Gridlines returns the values of the GridlineCount gridlines of a span, bottom first.
func Gridlines(span schema.AxisSpan) []int {
	lines := make([]int, GridlineCount)
	for i := range lines {
		lines[i] = span.Min + i*span.Step
	}
	return lines
}

// niceStep rounds a raw step up to the granularity used for its magnitude.
func niceStep(raw int) int {
	switch {
	case raw <= 0:
		return ZeroSpanStep
	case raw < 25:
		return roundUp(raw, 5)
	case raw < 100:
		return roundUp(raw, 10)
	case raw < 500:
		return roundUp(raw, 50)
	case raw < 1000:
		return roundUp(raw, 100)
	case raw < 5000:
		return roundUp(raw, 500)
	default:
		return roundUp(raw, 1000)
	}
}

// topPad is ceil(0.75 * step).
func topPad(step int) int {
	return (3*step + 3) / 4
}

func roundUp(v, multiple int) int {
	return ceilDiv(v, multiple) * multiple
}

// ceilDiv divides rounding toward positive infinity. b must be positive.
func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}

// floorDiv divides rounding toward negative infinity. b must be positive.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}
