package stats_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fasalmitra/agroadvisor/core/stats"
)

func TestPercentile(t *testing.T) {
	values := []float64{15, 20, 35, 40, 50}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 15},
		{25, 20},
		{50, 35},
		{75, 40},
		{90, 46},
		{100, 50},
	}

	for _, tt := range tests {
		got := stats.Percentile(values, tt.p)
		assert.InDelta(t, tt.want, got, 1e-9, "Percentile(%v)", tt.p)
	}
}

func TestPercentile_Edge(t *testing.T) {
	assert.True(t, math.IsNaN(stats.Percentile(nil, 50)))
	assert.Equal(t, 7.0, stats.Percentile([]float64{7}, 90))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, stats.Median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, stats.Median([]float64{1, 2, 3, 4}))
}

func TestMeanStd(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 5.0, stats.Mean(values), 1e-9)
	// Population std of this classic sequence is exactly 2
	assert.InDelta(t, 2.0, stats.Std(values), 1e-9)
}
