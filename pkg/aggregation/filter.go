package aggregation

import (
	"github.com/priceagg/engine/pkg/metrics"
	"github.com/priceagg/engine/pkg/stats"
	"github.com/priceagg/engine/pkg/store"
)

// filterOutliers applies the z-score filter first, then the IQR filter to
// the survivors, exactly per spec's two-pass design: IQR recomputes
// quartiles on z-score survivors, not on the raw set, so an observation
// that narrowly passed z-score can still be removed by IQR. If obs has
// fewer than cfg.MinDataPoints, filtering is skipped entirely and every
// observation is kept.
//
// Returns the surviving observations, in their original relative order,
// and the count removed.
func filterOutliers(pair store.Pair, obs []store.Observation, cfg Config) (survivors []store.Observation, removed int) {
	if len(obs) < cfg.MinDataPoints {
		return obs, 0
	}

	prices := make([]float64, len(obs))
	for i, o := range obs {
		prices[i], _ = o.Price.Float64()
	}

	zIdx := stats.ZScoreFilter(prices, cfg.ZScoreThreshold)
	if n := len(obs) - len(zIdx); n > 0 {
		metrics.RecordOutlier(string(pair), "zscore", n)
	}

	zPrices := make([]float64, len(zIdx))
	for i, idx := range zIdx {
		zPrices[i] = prices[idx]
	}
	iqrIdxIntoZ := stats.IQRFilter(zPrices, cfg.IQRMultiplier)
	if n := len(zIdx) - len(iqrIdxIntoZ); n > 0 {
		metrics.RecordOutlier(string(pair), "iqr", n)
	}

	survivors = make([]store.Observation, 0, len(iqrIdxIntoZ))
	for _, j := range iqrIdxIntoZ {
		survivors = append(survivors, obs[zIdx[j]])
	}

	removed = len(obs) - len(survivors)
	return survivors, removed
}

func sourceSet(obs []store.Observation) []store.SourceID {
	seen := make(map[store.SourceID]bool, len(obs))
	out := make([]store.SourceID, 0, len(obs))
	for _, o := range obs {
		if !seen[o.Source] {
			seen[o.Source] = true
			out = append(out, o.Source)
		}
	}
	return out
}

func priceBounds(obs []store.Observation) (min, max float64) {
	if len(obs) == 0 {
		return 0, 0
	}
	minD, _ := obs[0].Price.Float64()
	maxD := minD
	for _, o := range obs[1:] {
		p, _ := o.Price.Float64()
		if p < minD {
			minD = p
		}
		if p > maxD {
			maxD = p
		}
	}
	return minD, maxD
}
