// Package sources defines the PriceSource capability and its concrete
// adapters: one-shot fetchers that the collector scheduler polls on a
// timer. Adapters never retry internally — retry is the scheduler's job.
package sources

import (
	"context"

	"github.com/priceagg/engine/pkg/store"
)

// PriceSource is the capability every adapter implements: fetch one
// Observation for one pair. Implementations must not retry internally and
// must honor ctx cancellation on their network call.
type PriceSource interface {
	// Name returns the source's short symbolic identifier (e.g. "okx").
	Name() store.SourceID
	// Fetch retrieves the current Observation for pair, or a sentinel
	// error (ErrNetwork, ErrRateLimited, ErrParse, ErrUnsupportedPair).
	Fetch(ctx context.Context, pair store.Pair) (store.Observation, error)
}

// Factory constructs a PriceSource from a source-specific config map.
type Factory func(name string, cfg map[string]interface{}) (PriceSource, error)
