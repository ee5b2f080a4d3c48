package aggregation

import (
	"github.com/priceagg/engine/pkg/stats"
	"github.com/priceagg/engine/pkg/store"
)

// confidence computes the spec's four-term weighted confidence score over
// the surviving observations, clamped to [0, 1].
func confidence(obs []store.Observation) float64 {
	n := len(obs)
	if n == 0 {
		return 0
	}

	prices := make([]float64, n)
	var weightSum float64
	sources := make(map[store.SourceID]bool, n)
	for i, o := range obs {
		prices[i], _ = o.Price.Float64()
		weightSum += o.Weight
		sources[o.Source] = true
	}

	dataPointsFactor := min1(float64(n) / 10)
	sourceDiversity := min1(float64(len(sources)) / 3)

	mean := stats.Mean(prices)
	consistency := 1.0
	if mean != 0 {
		sd := stats.StdDev(prices)
		consistency = max0(1 - sd/mean)
	}

	meanSourceWeight := weightSum / float64(n)

	c := 0.30*dataPointsFactor + 0.30*sourceDiversity + 0.30*consistency + 0.10*meanSourceWeight

	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

func min1(x float64) float64 {
	if x > 1 {
		return 1
	}
	return x
}

func max0(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}
