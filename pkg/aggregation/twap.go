package aggregation

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/priceagg/engine/pkg/metrics"
	"github.com/priceagg/engine/pkg/stats"
	"github.com/priceagg/engine/pkg/store"
)

// TWAP computes the time-and-source-weighted average price over the
// store's full price snapshot for pair, using cfg.TWAPWindow as the
// look-back.
func TWAP(s *store.Store, pair store.Pair, cfg Config) (*Result, error) {
	start := time.Now()
	outcome := "failure"
	defer func() { metrics.RecordAggregation(string(AlgorithmTWAP), outcome, time.Since(start)) }()

	obs := s.Snapshot(pair, cfg.TWAPWindow)
	if len(obs) < cfg.MinDataPoints {
		return nil, fmt.Errorf("twap %s: %w", pair, ErrInsufficientData)
	}

	survivors, removed := filterOutliers(pair, obs, cfg)
	if len(survivors) == 0 {
		return nil, fmt.Errorf("twap %s: %w", pair, ErrAllOutliers)
	}

	sorted := make([]store.Observation, len(survivors))
	copy(sorted, survivors)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	if sorted[len(sorted)-1].Timestamp.Equal(sorted[0].Timestamp) {
		return nil, fmt.Errorf("twap %s: %w", pair, ErrZeroWeight)
	}

	now := time.Now()
	numerator := decimal.Zero
	denominator := decimal.Zero
	combinedWeights := make([]float64, len(sorted))

	for i, o := range sorted {
		var timeWeight time.Duration
		if i == len(sorted)-1 {
			timeWeight = now.Sub(o.Timestamp)
		} else {
			timeWeight = sorted[i+1].Timestamp.Sub(o.Timestamp)
		}
		if timeWeight < 0 {
			timeWeight = 0
		}

		combined := decimal.NewFromFloat(timeWeight.Seconds()).Mul(decimal.NewFromFloat(o.Weight))
		combinedWeights[i], _ = combined.Float64()

		numerator = numerator.Add(o.Price.Mul(combined))
		denominator = denominator.Add(combined)
	}

	if !denominator.IsPositive() {
		return nil, fmt.Errorf("twap %s: %w", pair, ErrZeroWeight)
	}

	price := numerator.Div(denominator)
	priceF, _ := price.Float64()

	prices := make([]float64, len(sorted))
	for i, o := range sorted {
		prices[i], _ = o.Price.Float64()
	}
	stdDev := stats.StdDev(prices)

	span := sorted[len(sorted)-1].Timestamp.Sub(sorted[0].Timestamp)
	minP, maxP := priceBounds(sorted)

	outcome = "success"
	return &Result{
		Pair:          pair,
		Algorithm:     AlgorithmTWAP,
		Price:         priceF,
		Sources:       sourceSet(sorted),
		InputsUsed:    len(sorted),
		OutliersCount: removed,
		Confidence:    confidence(sorted),
		MinPrice:      minP,
		MaxPrice:      maxP,
		Timestamp:     now,
		TimeSpan:      &span,
		PriceStdDev:   &stdDev,
	}, nil
}
