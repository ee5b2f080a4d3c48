package aggregation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceagg/engine/pkg/aggregation"
	"github.com/priceagg/engine/pkg/store"
)

func vol(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func newStore() *store.Store {
	return store.New(time.Hour, 1000, 0.01)
}

func TestBasicVWAP(t *testing.T) {
	s := newStore()
	pair := store.Pair("SOL/USDC")
	now := time.Now()

	entries := []struct {
		price, volume float64
		source        string
	}{
		{177.50, 1000, "okx"},
		{177.45, 1500, "binance"},
		{177.55, 800, "coinbase"},
		{177.48, 1200, "kraken"},
		{177.52, 900, "huobi"},
	}
	for _, e := range entries {
		s.Insert(pair, store.Observation{
			Price: decimal.NewFromFloat(e.price), Volume: vol(e.volume),
			Timestamp: now, Source: store.SourceID(e.source), Weight: 1.0,
		})
	}

	cfg := aggregation.DefaultConfig()
	res, err := aggregation.VWAP(s, pair, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 177.4826, res.Price, 0.0002)
	assert.Equal(t, 5, res.InputsUsed)
	assert.Equal(t, 0, res.OutliersCount)
	assert.InDelta(t, 5400.0, *res.TotalVolume, 0.001)
}

func TestVWAPWithOutliers(t *testing.T) {
	s := newStore()
	pair := store.Pair("SOL/USDC")
	now := time.Now()

	entries := []struct {
		price, volume float64
		source        string
	}{
		{177.50, 1000, "okx"},
		{177.45, 1500, "binance"},
		{177.55, 800, "coinbase"},
		{177.48, 1200, "kraken"},
		{177.52, 900, "huobi"},
		{200.00, 100, "bad1"},
		{150.00, 50, "bad2"},
	}
	for _, e := range entries {
		s.Insert(pair, store.Observation{
			Price: decimal.NewFromFloat(e.price), Volume: vol(e.volume),
			Timestamp: now, Source: store.SourceID(e.source), Weight: 1.0,
		})
	}

	cfg := aggregation.DefaultConfig()
	res, err := aggregation.VWAP(s, pair, cfg)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.OutliersCount, 2)
	assert.GreaterOrEqual(t, res.Price, 177.4)
	assert.LessOrEqual(t, res.Price, 177.6)
}

func TestBasicTWAP(t *testing.T) {
	s := newStore()
	pair := store.Pair("SOL/USDC")
	now := time.Now()

	entries := []struct {
		price  float64
		offset time.Duration
		source string
	}{
		{177.50, -300 * time.Second, "okx"},
		{177.60, -240 * time.Second, "binance"},
		{177.45, -180 * time.Second, "coinbase"},
		{177.70, -120 * time.Second, "kraken"},
		{177.55, -60 * time.Second, "huobi"},
	}
	for _, e := range entries {
		s.Insert(pair, store.Observation{
			Price: decimal.NewFromFloat(e.price), Volume: nil,
			Timestamp: now.Add(e.offset), Source: store.SourceID(e.source), Weight: 1.0,
		})
	}

	cfg := aggregation.DefaultConfig()
	cfg.TWAPWindow = 600 * time.Second
	res, err := aggregation.TWAP(s, pair, cfg)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Price, 177.45)
	assert.LessOrEqual(t, res.Price, 177.70)
	assert.Equal(t, 5, res.InputsUsed)
	require.NotNil(t, res.PriceStdDev)
	assert.Greater(t, *res.PriceStdDev, 0.0)
}

func TestTWAPZeroTimeSpreadFailsWithZeroWeight(t *testing.T) {
	s := newStore()
	pair := store.Pair("SOL/USDC")
	now := time.Now()

	for i, src := range []string{"a", "b", "c", "d", "e"} {
		s.Insert(pair, store.Observation{
			Price: decimal.NewFromFloat(177.5 + float64(i)*0.01), Volume: nil,
			Timestamp: now, Source: store.SourceID(src), Weight: 1.0,
		})
	}

	cfg := aggregation.DefaultConfig()
	_, err := aggregation.TWAP(s, pair, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, aggregation.ErrZeroWeight)
}

func TestInsufficientData(t *testing.T) {
	s := newStore()
	pair := store.Pair("SOL/USDC")

	s.Insert(pair, store.Observation{
		Price: decimal.NewFromFloat(177.5), Volume: vol(10),
		Timestamp: time.Now(), Source: store.SourceID("okx"), Weight: 1.0,
	})

	cfg := aggregation.DefaultConfig()
	_, err := aggregation.VWAP(s, pair, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, aggregation.ErrInsufficientData)

	_, err = aggregation.TWAP(s, pair, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, aggregation.ErrInsufficientData)
}

func TestCurrentPriceForceAlgorithm(t *testing.T) {
	s := newStore()
	pair := store.Pair("SOL/USDC")
	now := time.Now()
	for i, src := range []string{"a", "b", "c"} {
		s.Insert(pair, store.Observation{
			Price: decimal.NewFromFloat(100 + float64(i)), Volume: vol(10),
			Timestamp: now.Add(time.Duration(i) * time.Second), Source: store.SourceID(src), Weight: 1.0,
		})
	}

	cfg := aggregation.DefaultConfig()
	cfg.ForceAlgorithm = aggregation.AlgorithmWeighted
	res, err := aggregation.CurrentPrice(s, pair, cfg)
	require.NoError(t, err)
	assert.Equal(t, aggregation.AlgorithmWeighted, res.Algorithm)
}

func TestCurrentPriceNoAlgorithmSucceeded(t *testing.T) {
	s := newStore()
	pair := store.Pair("SOL/USDC")

	cfg := aggregation.DefaultConfig()
	_, err := aggregation.CurrentPrice(s, pair, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, aggregation.ErrNoAlgorithmSucceeded)
}
