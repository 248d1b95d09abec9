package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPanLimits(t *testing.T) {
	tests := []struct {
		name              string
		left, right       float64
		delta             float64
		wantLeft, wantRgt float64
	}{
		{"inside", 0.2, 0.4, 0.1, 0.3, 0.5},
		{"stops at start", 0.05, 0.25, -0.1, 0, 0.2},
		{"stops at end", 0.7, 0.95, 0.1, 0.75, 1},
		{"full range", 0, 1, 0.1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, r := panLimits(tt.left, tt.right, tt.delta)
			assert.InDelta(t, tt.wantLeft, l, 1e-9)
			assert.InDelta(t, tt.wantRgt, r, 1e-9)
		})
	}
}

func TestZoomLimits(t *testing.T) {
	tests := []struct {
		name              string
		left, right       float64
		factor, minWidth  float64
		wantLeft, wantRgt float64
	}{
		{"zoom in around center", 0, 1, 0.5, 0.1, 0.25, 0.75},
		{"zoom out capped at full range", 0.4, 0.6, 10, 0.1, 0, 1},
		{"zoom in floored at min width", 0.4, 0.6, 0.1, 0.1, 0.45, 0.55},
		{"zoom out shifted off start", 0, 0.2, 2, 0.1, 0, 0.4},
		{"zoom out shifted off end", 0.8, 1, 2, 0.1, 0.6, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, r := zoomLimits(tt.left, tt.right, tt.factor, tt.minWidth)
			assert.InDelta(t, tt.wantLeft, l, 1e-9)
			assert.InDelta(t, tt.wantRgt, r, 1e-9)
		})
	}
}

func TestMinWindow(t *testing.T) {
	assert.Equal(t, 1.0, minWindow(1))
	assert.Equal(t, 1.0, minWindow(2))
	assert.InDelta(t, 0.25, minWindow(5), 1e-9)
}
