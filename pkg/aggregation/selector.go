package aggregation

import (
	"errors"
	"fmt"
	"math"

	"github.com/priceagg/engine/pkg/store"
)

// algorithmPreference is the VWAP > TWAP > weighted tie-break order.
var algorithmPreference = map[Algorithm]int{
	AlgorithmVWAP:     0,
	AlgorithmTWAP:     1,
	AlgorithmWeighted: 2,
}

// CurrentPrice runs VWAP, TWAP, and the weighted-mean fallback independently
// and selects the result maximizing confidence*log(1+n), breaking ties by
// VWAP > TWAP > weighted. If cfg.ForceAlgorithm is set, that algorithm's
// result is returned directly (or its failure, unmodified) instead of
// running the selector — an explicit determinism switch per spec's second
// Open Question.
func CurrentPrice(s *store.Store, pair store.Pair, cfg Config) (*Result, error) {
	if cfg.ForceAlgorithm != "" {
		return runOne(s, pair, cfg, cfg.ForceAlgorithm)
	}

	type attempt struct {
		algo Algorithm
		res  *Result
		err  error
	}

	attempts := []attempt{}
	for _, algo := range []Algorithm{AlgorithmVWAP, AlgorithmTWAP, AlgorithmWeighted} {
		res, err := runOne(s, pair, cfg, algo)
		attempts = append(attempts, attempt{algo: algo, res: res, err: err})
	}

	var best *Result
	var bestScore float64
	var errs []error
	for _, a := range attempts {
		if a.err != nil {
			errs = append(errs, a.err)
			continue
		}
		score := a.res.Confidence * math.Log(1+float64(a.res.InputsUsed))
		if best == nil || score > bestScore ||
			(score == bestScore && algorithmPreference[a.res.Algorithm] < algorithmPreference[best.Algorithm]) {
			best = a.res
			bestScore = score
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%s: %w: %w", pair, ErrNoAlgorithmSucceeded, errors.Join(errs...))
	}
	return best, nil
}

func runOne(s *store.Store, pair store.Pair, cfg Config, algo Algorithm) (*Result, error) {
	switch algo {
	case AlgorithmVWAP:
		return VWAP(s, pair, cfg)
	case AlgorithmTWAP:
		return TWAP(s, pair, cfg)
	case AlgorithmWeighted:
		return WeightedMean(s, pair, cfg)
	default:
		return nil, fmt.Errorf("unknown algorithm %q", algo)
	}
}
