// Package store implements the per-pair, bounded, time-windowed observation
// store: the single write path the collector scheduler feeds and the single
// read path the aggregation engine snapshots from.
package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pair is a canonical trading-pair identifier, e.g. "SOL/USDC". Equality is
// Go's native string comparison.
type Pair string

// SourceID is a short symbolic source name, e.g. "okx", "binance", "mock".
type SourceID string

// Metadata is a free-form key/value bag (bid, ask, 24h change, ...)
// preserved verbatim and never read by the aggregation math.
type Metadata map[string]string

// Observation is an immutable price/volume record produced by a source
// adapter and owned by the store once inserted. Volume is a pointer: nil
// means the observation carries no volume and does not participate in VWAP,
// which is a cleaner Go idiom than a sentinel value.
type Observation struct {
	Pair      Pair
	Price     decimal.Decimal
	Volume    *decimal.Decimal
	Timestamp time.Time
	Source    SourceID
	Weight    float64
	Metadata  Metadata
}

// HasVolume reports whether this observation participates in VWAP.
func (o Observation) HasVolume() bool {
	return o.Volume != nil
}
