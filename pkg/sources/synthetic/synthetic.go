// Package synthetic provides SyntheticSource: a deterministic, seeded
// PriceSource used for tests and demos so neither depends on live network
// access. It is a first-class adapter per spec, not a fallback hidden
// behind a "test mode" flag.
package synthetic

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/priceagg/engine/pkg/config"
	"github.com/priceagg/engine/pkg/sources"
	"github.com/priceagg/engine/pkg/store"
)

// SyntheticSource produces observations as a random walk around a
// configurable base price, seeded for reproducibility across runs.
type SyntheticSource struct {
	name      store.SourceID
	basePrice decimal.Decimal
	volume    decimal.Decimal
	rng       *rand.Rand
	current   decimal.Decimal
}

// NewSyntheticSource builds a SyntheticSource from config keys
// "base_price" (string, default "100.0"), "volume" (string, default
// "1000.0"), and "seed" (int, default 1).
func NewSyntheticSource(name string, cfg map[string]interface{}) (sources.PriceSource, error) {
	sc := &config.SourceConfig{Config: cfg}
	base, err := decimal.NewFromString(sc.GetString("base_price", "100.0"))
	if err != nil {
		base = decimal.NewFromFloat(100.0)
	}
	volume, err := decimal.NewFromString(sc.GetString("volume", "1000.0"))
	if err != nil {
		volume = decimal.NewFromFloat(1000.0)
	}
	seed := int64(sc.GetInt("seed", 1))

	return &SyntheticSource{
		name:      store.SourceID(name),
		basePrice: base,
		volume:    volume,
		rng:       rand.New(rand.NewSource(seed)),
		current:   base,
	}, nil
}

func (s *SyntheticSource) Name() store.SourceID { return s.name }

// Fetch advances the random walk by one step and returns it as an
// Observation. Deterministic given the configured seed and call sequence.
func (s *SyntheticSource) Fetch(_ context.Context, pair store.Pair) (store.Observation, error) {
	stepPct := (s.rng.Float64() - 0.5) * 0.01 // +/- 0.5% per step
	step := s.current.Mul(decimal.NewFromFloat(stepPct))
	s.current = s.current.Add(step)
	if s.current.IsNegative() {
		s.current = s.basePrice
	}

	vol := s.volume
	return store.Observation{
		Pair:      pair,
		Price:     s.current,
		Volume:    &vol,
		Timestamp: time.Now(),
		Source:    s.name,
		Metadata:  store.Metadata{"synthetic": "true"},
	}, nil
}

func init() {
	sources.Register("synthetic", "mock", func(name string, cfg map[string]interface{}) (sources.PriceSource, error) {
		return NewSyntheticSource(name, cfg)
	})
}
