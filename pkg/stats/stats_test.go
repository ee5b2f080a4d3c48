package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/priceagg/engine/pkg/stats"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, stats.Mean(nil))
	assert.InDelta(t, 2.0, stats.Mean([]float64{1, 2, 3}), 1e-9)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, stats.StdDev([]float64{5}))
	assert.Equal(t, 0.0, stats.StdDev([]float64{5, 5, 5}))
	assert.InDelta(t, 2.0, stats.StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 0.01)
}

func TestQuantile(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.0, stats.Quantile(xs, 0), 1e-9)
	assert.InDelta(t, 4.0, stats.Quantile(xs, 1), 1e-9)
	assert.InDelta(t, 2.5, stats.Quantile(xs, 0.5), 1e-9)
}

func TestZScoreFilterShortCircuits(t *testing.T) {
	assert.Equal(t, []int{0, 1}, stats.ZScoreFilter([]float64{1, 2}, 2.5))
	assert.Equal(t, []int{0, 1, 2}, stats.ZScoreFilter([]float64{5, 5, 5}, 2.5))
}

func TestZScoreFilterRemovesOutlier(t *testing.T) {
	xs := []float64{100, 101, 99, 100, 500}
	kept := stats.ZScoreFilter(xs, 1.5)
	assert.NotContains(t, kept, 4)
}

func TestIQRFilterShortCircuits(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, stats.IQRFilter([]float64{1, 2, 3}, 1.5))
}

func TestIQRFilterRemovesOutlier(t *testing.T) {
	xs := []float64{10, 11, 12, 13, 100}
	kept := stats.IQRFilter(xs, 1.5)
	assert.NotContains(t, kept, 4)
}
