package sources

import "github.com/priceagg/engine/pkg/store"

// DefaultWeight is used for any source with no entry in the weight table.
const DefaultWeight = 0.5

// defaultWeights is the spec-mandated default source weight table. Per
// spec's design note, source weighting is part of the contract:
// implementations must expose it to configuration but must not silently
// change these defaults.
var defaultWeights = map[store.SourceID]float64{
	"okx":      1.0,
	"binance":  1.0,
	"coinbase": 0.9,
	"raydium":  0.8,
	"orca":     0.8,
}

// WeightTable looks up a source's trust weight: config-supplied overrides
// first, then the built-in default table, and finally DefaultWeight.
type WeightTable struct {
	overrides map[store.SourceID]float64
}

// NewWeightTable builds a WeightTable from config overrides (which may be
// nil or partial; entries not present fall through to the built-in
// defaults, then to DefaultWeight).
func NewWeightTable(overrides map[string]float64) *WeightTable {
	wt := &WeightTable{overrides: make(map[store.SourceID]float64, len(overrides))}
	for name, w := range overrides {
		wt.overrides[store.SourceID(name)] = w
	}
	return wt
}

// Weight returns source's trust weight in [0, 1].
func (wt *WeightTable) Weight(source store.SourceID) float64 {
	if wt != nil {
		if w, ok := wt.overrides[source]; ok {
			return w
		}
	}
	if w, ok := defaultWeights[source]; ok {
		return w
	}
	return DefaultWeight
}
