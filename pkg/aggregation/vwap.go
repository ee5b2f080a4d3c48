package aggregation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/priceagg/engine/pkg/metrics"
	"github.com/priceagg/engine/pkg/stats"
	"github.com/priceagg/engine/pkg/store"
)

// VWAP computes the volume-weighted average price over the store's volume
// snapshot for pair, using cfg.VWAPWindow as the look-back. All running
// sums are decimal.Decimal, per spec's precision note — price*volume can
// span many orders of magnitude across sources, and float64 accumulation
// loses precision exactly where it matters most.
func VWAP(s *store.Store, pair store.Pair, cfg Config) (*Result, error) {
	start := time.Now()
	outcome := "failure"
	defer func() { metrics.RecordAggregation(string(AlgorithmVWAP), outcome, time.Since(start)) }()

	obs := s.VolumeSnapshot(pair, cfg.VWAPWindow)
	if len(obs) == 0 {
		return nil, fmt.Errorf("vwap %s: %w", pair, ErrNoVolumeData)
	}
	if len(obs) < cfg.MinDataPoints {
		return nil, fmt.Errorf("vwap %s: %w", pair, ErrInsufficientData)
	}

	survivors, removed := filterOutliers(pair, obs, cfg)
	if len(survivors) == 0 {
		return nil, fmt.Errorf("vwap %s: %w", pair, ErrAllOutliers)
	}

	numerator := decimal.Zero
	denominator := decimal.Zero
	for _, o := range survivors {
		numerator = numerator.Add(o.Price.Mul(*o.Volume))
		denominator = denominator.Add(*o.Volume)
	}

	if !denominator.IsPositive() {
		return nil, fmt.Errorf("vwap %s: %w", pair, ErrNoVolumeData)
	}

	price := numerator.Div(denominator)
	priceF, _ := price.Float64()

	volumes := make([]float64, len(survivors))
	var totalVolume float64
	for i, o := range survivors {
		v, _ := o.Volume.Float64()
		volumes[i] = v
		totalVolume += v
	}
	meanVolume := stats.Mean(volumes)

	minP, maxP := priceBounds(survivors)

	outcome = "success"
	return &Result{
		Pair:          pair,
		Algorithm:     AlgorithmVWAP,
		Price:         priceF,
		Sources:       sourceSet(survivors),
		InputsUsed:    len(survivors),
		OutliersCount: removed,
		Confidence:    confidence(survivors),
		MinPrice:      minP,
		MaxPrice:      maxP,
		Timestamp:     time.Now(),
		TotalVolume:   &totalVolume,
		MeanVolume:    &meanVolume,
	}, nil
}
