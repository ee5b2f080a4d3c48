package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceagg/engine/pkg/config"
	"github.com/priceagg/engine/pkg/engine"
	"github.com/priceagg/engine/pkg/store"
)

func newTestEngine(t *testing.T) *engine.Engine {
	cfg := &config.Config{
		Aggregation: config.AggregationConfig{
			ZScoreThreshold: 2.5,
			IQRMultiplier:   1.5,
			MinDataPoints:   3,
			MaxAge:          config.Duration(5 * time.Minute),
			VWAPWindow:      config.Duration(time.Hour),
			TWAPWindow:      config.Duration(time.Hour),
			MinVolume:       0.01,
			MaxHistorySize:  500,
		},
		Collector: config.CollectorConfig{
			CollectInterval: config.Duration(time.Second),
			RequestTimeout:  config.Duration(time.Second),
			RetryAttempts:   1,
			MaxInFlight:     4,
			Pairs:           []string{"SOL/USDC"},
		},
	}
	e, err := engine.New(cfg, nil)
	require.NoError(t, err)
	return e
}

func obs(price float64, vol float64, age time.Duration, source store.SourceID) store.Observation {
	v := decimal.NewFromFloat(vol)
	return store.Observation{
		Pair:      "SOL/USDC",
		Price:     decimal.NewFromFloat(price),
		Volume:    &v,
		Timestamp: time.Now().Add(-age),
		Source:    source,
		Weight:    1.0,
	}
}

func TestEngineRecordAndVWAP(t *testing.T) {
	e := newTestEngine(t)

	e.Record("SOL/USDC", obs(177.40, 1000, 4*time.Minute, "okx"))
	e.Record("SOL/USDC", obs(177.50, 1200, 3*time.Minute, "binance"))
	e.Record("SOL/USDC", obs(177.45, 1100, 2*time.Minute, "coinbase"))

	res, err := e.VWAP("SOL/USDC")
	require.NoError(t, err)
	assert.InDelta(t, 177.45, res.Price, 0.1)
	assert.Equal(t, 3, res.InputsUsed)
}

func TestEngineStatsAndClear(t *testing.T) {
	e := newTestEngine(t)
	e.Record("SOL/USDC", obs(177.40, 1000, time.Minute, "okx"))
	e.Record("SOL/USDC", obs(177.50, 1200, time.Minute, "binance"))

	st := e.Stats()
	assert.Equal(t, 1, st.Pairs)
	assert.Equal(t, 2, st.TotalObservations)

	e.Clear("SOL/USDC")
	st = e.Stats()
	assert.Equal(t, 0, st.TotalObservations)
}

func TestEngineCurrentPriceNoData(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.CurrentPrice("SOL/USDC")
	assert.Error(t, err)
}
