package aggregation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/priceagg/engine/pkg/metrics"
	"github.com/priceagg/engine/pkg/store"
)

// maxWeightedInputs bounds the source-weighted mean fallback to the most
// recent observations after outlier filtering, per spec.
const maxWeightedInputs = 10

// WeightedMean computes the source-weighted mean over the most recent
// maxWeightedInputs observations after outlier filtering. It is the
// fallback used when both VWAP and TWAP fail.
func WeightedMean(s *store.Store, pair store.Pair, cfg Config) (*Result, error) {
	start := time.Now()
	outcome := "failure"
	defer func() { metrics.RecordAggregation(string(AlgorithmWeighted), outcome, time.Since(start)) }()

	obs := s.Snapshot(pair, 0)
	if len(obs) < cfg.MinDataPoints {
		return nil, fmt.Errorf("weighted %s: %w", pair, ErrInsufficientData)
	}

	survivors, removed := filterOutliers(pair, obs, cfg)
	if len(survivors) == 0 {
		return nil, fmt.Errorf("weighted %s: %w", pair, ErrAllOutliers)
	}

	recent := survivors
	if len(recent) > maxWeightedInputs {
		recent = recent[len(recent)-maxWeightedInputs:]
	}

	numerator := decimal.Zero
	denominator := decimal.Zero
	for _, o := range recent {
		w := decimal.NewFromFloat(o.Weight)
		numerator = numerator.Add(o.Price.Mul(w))
		denominator = denominator.Add(w)
	}

	if !denominator.IsPositive() {
		return nil, fmt.Errorf("weighted %s: %w", pair, ErrZeroWeight)
	}

	price := numerator.Div(denominator)
	priceF, _ := price.Float64()
	minP, maxP := priceBounds(recent)

	outcome = "success"
	return &Result{
		Pair:          pair,
		Algorithm:     AlgorithmWeighted,
		Price:         priceF,
		Sources:       sourceSet(recent),
		InputsUsed:    len(recent),
		OutliersCount: removed,
		Confidence:    confidence(recent),
		MinPrice:      minP,
		MaxPrice:      maxP,
		Timestamp:     time.Now(),
	}, nil
}
