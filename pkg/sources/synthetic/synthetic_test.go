package synthetic_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceagg/engine/pkg/sources/synthetic"
	"github.com/priceagg/engine/pkg/store"
)

func TestSyntheticSourceIsDeterministicForSeed(t *testing.T) {
	cfg := map[string]interface{}{"base_price": "177.50", "seed": 42}

	src1, err := synthetic.NewSyntheticSource("mock", cfg)
	require.NoError(t, err)
	src2, err := synthetic.NewSyntheticSource("mock", cfg)
	require.NoError(t, err)

	pair := store.Pair("SOL/USDC")
	for i := 0; i < 5; i++ {
		obs1, err := src1.Fetch(context.Background(), pair)
		require.NoError(t, err)
		obs2, err := src2.Fetch(context.Background(), pair)
		require.NoError(t, err)
		assert.True(t, obs1.Price.Equal(obs2.Price))
	}
}

func TestSyntheticSourceCarriesVolume(t *testing.T) {
	src, err := synthetic.NewSyntheticSource("mock", map[string]interface{}{"base_price": "100", "volume": "500"})
	require.NoError(t, err)

	obs, err := src.Fetch(context.Background(), store.Pair("SOL/USDC"))
	require.NoError(t, err)
	require.True(t, obs.HasVolume())
	assert.True(t, obs.Volume.Equal(obs.Volume.Copy()))
}
