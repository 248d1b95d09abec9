package tui

import "math"

// Fractions of the current window used by the keyboard controls.
const (
	panFraction  = 0.1
	zoomFraction = 0.2
)

// panLimits moves the window [left, right] by delta while keeping its width
// and staying inside [0, 1].
func panLimits(left, right, delta float64) (float64, float64) {
	width := right - left
	left = math.Max(0, math.Min(1-width, left+delta))
	return left, left + width
}

// zoomLimits scales the window around its center. factor below 1 zooms in.
// The width never drops under minWidth nor grows past the full range.
func zoomLimits(left, right, factor, minWidth float64) (float64, float64) {
	center := (left + right) / 2
	width := math.Max(minWidth, math.Min(1, (right-left)*factor))
	left = center - width/2
	switch {
	case left < 0:
		left = 0
	case left+width > 1:
		left = 1 - width
	}
	return left, left + width
}

// minWindow is the width covering one step between n uniformly spaced points.
func minWindow(n int) float64 {
	if n <= 1 {
		return 1
	}
	return 1 / float64(n-1)
}
