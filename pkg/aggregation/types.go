// Package aggregation computes consolidated, outlier-resistant prices from
// a store.Store snapshot: VWAP, TWAP, source-weighted mean, and a best-price
// selector that picks among the three by confidence.
package aggregation

import (
	"time"

	"github.com/priceagg/engine/pkg/store"
)

// Algorithm names the aggregation strategy that produced a Result.
type Algorithm string

const (
	AlgorithmVWAP     Algorithm = "vwap"
	AlgorithmTWAP     Algorithm = "twap"
	AlgorithmWeighted Algorithm = "weighted"
)

// Result is the output shared by all three aggregation algorithms.
type Result struct {
	Pair          store.Pair
	Algorithm     Algorithm
	Price         float64
	Sources       []store.SourceID
	InputsUsed    int
	OutliersCount int
	Confidence    float64
	MinPrice      float64
	MaxPrice      float64
	Timestamp     time.Time

	// Algorithm-specific, populated only where meaningful.
	TotalVolume  *float64       // VWAP
	MeanVolume   *float64       // VWAP
	TimeSpan     *time.Duration // TWAP
	PriceStdDev  *float64       // TWAP
}

// Config carries the tunable thresholds the aggregation engine needs. It is
// a plain struct rather than a dependency on pkg/config so this package has
// no import-time coupling to configuration loading.
type Config struct {
	ZScoreThreshold float64
	IQRMultiplier   float64
	MinDataPoints   int
	VWAPWindow      time.Duration
	TWAPWindow      time.Duration
	MinVolume       float64
	ForceAlgorithm  Algorithm // "" means no override
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{
		ZScoreThreshold: 2.5,
		IQRMultiplier:   1.5,
		MinDataPoints:   3,
		VWAPWindow:      time.Hour,
		TWAPWindow:      time.Hour,
		MinVolume:       0.01,
	}
}
