package core

import (
	"testing"

	"github.com/bmizerany/assert"
)

func TestMetricsAverageAndFPS(t *testing.T) {
	m := NewMetrics()
	// 1/64 s frames keep the float sums exact
	for i := 0; i < 70; i++ {
		m.Update(0.015625)
	}
	assert.Equal(t, 15.625, m.FrameTime())
	// the one second boundary is crossed on frame 65, after 64 counted frames
	assert.Equal(t, float64(64), m.FPS())
}
