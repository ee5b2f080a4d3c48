// Package onchain provides a generic Uniswap-v2-shaped AMM pool reader,
// standing in for the Raydium/Orca-equivalent on-chain pool connectors
// spec.md keeps pluggable and out of scope as concrete implementations.
package onchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"github.com/priceagg/engine/pkg/config"
	"github.com/priceagg/engine/pkg/sources"
	"github.com/priceagg/engine/pkg/store"
)

const pairABIJSON = `[{
	"constant": true,
	"inputs": [],
	"name": "getReserves",
	"outputs": [
		{"internalType": "uint112", "name": "reserve0", "type": "uint112"},
		{"internalType": "uint112", "name": "reserve1", "type": "uint112"},
		{"internalType": "uint32", "name": "blockTimestampLast", "type": "uint32"}
	],
	"payable": false,
	"stateMutability": "view",
	"type": "function"
}]`

// EVMPoolSource reads the spot price of a single Uniswap-v2-shaped pool
// contract via a read-only eth_call — no swap submission, no signing.
type EVMPoolSource struct {
	name    store.SourceID
	client  *ethclient.Client
	pairABI abi.ABI
	pools   map[string]poolConfig // canonical pair -> pool address + decimals
}

type poolConfig struct {
	address   common.Address
	decimals0 int
	decimals1 int
}

// NewEVMPoolSource builds an EVMPoolSource dialing rpc_url, with one pool
// contract configured per canonical pair under the "pools" config key:
//
//	pools:
//	  SOL/USDC: {address: "0x...", decimals0: 9, decimals1: 6}
func NewEVMPoolSource(name string, cfg map[string]interface{}) (sources.PriceSource, error) {
	sc := &config.SourceConfig{Config: cfg}
	rpcURL := sc.GetString("rpc_url", "")
	if rpcURL == "" {
		return nil, fmt.Errorf("onchain source %s: rpc_url is required", name)
	}

	client, err := ethclient.DialContext(context.Background(), rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", sources.ErrNetwork, rpcURL, err)
	}

	pairABI, err := abi.JSON(strings.NewReader(pairABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse pair ABI: %w", err)
	}

	pools := make(map[string]poolConfig)
	raw, _ := cfg["pools"].(map[string]interface{})
	for pair, v := range raw {
		m, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		addr, _ := m["address"].(string)
		if addr == "" {
			continue
		}
		pools[pair] = poolConfig{
			address:   common.HexToAddress(addr),
			decimals0: intField(m, "decimals0", 18),
			decimals1: intField(m, "decimals1", 18),
		}
	}

	return &EVMPoolSource{name: store.SourceID(name), client: client, pairABI: pairABI, pools: pools}, nil
}

func intField(m map[string]interface{}, key string, def int) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

func (s *EVMPoolSource) Name() store.SourceID { return s.name }

// Fetch reads the pool's current reserves and derives a spot price.
func (s *EVMPoolSource) Fetch(ctx context.Context, pair store.Pair) (store.Observation, error) {
	pool, ok := s.pools[string(pair)]
	if !ok {
		return store.Observation{}, fmt.Errorf("%w: %s", sources.ErrUnsupportedPair, pair)
	}

	data, err := s.pairABI.Pack("getReserves")
	if err != nil {
		return store.Observation{}, fmt.Errorf("pack getReserves: %w", err)
	}

	result, err := s.client.CallContract(ctx, ethereum.CallMsg{To: &pool.address, Data: data}, nil)
	if err != nil {
		return store.Observation{}, fmt.Errorf("%w: %v", sources.ErrNetwork, err)
	}

	var reserves struct {
		Reserve0           *big.Int
		Reserve1           *big.Int
		BlockTimestampLast uint32
	}
	if err := s.pairABI.UnpackIntoInterface(&reserves, "getReserves", result); err != nil {
		return store.Observation{}, fmt.Errorf("%w: unpack getReserves: %v", sources.ErrParse, err)
	}

	price, volume := spotPriceAndVolume(reserves.Reserve0, reserves.Reserve1, pool.decimals0, pool.decimals1)

	return store.Observation{
		Pair:      pair,
		Price:     price,
		Volume:    &volume,
		Timestamp: time.Now(),
		Source:    s.name,
		Metadata:  store.Metadata{"pool_address": pool.address.Hex()},
	}, nil
}

// spotPriceAndVolume derives price = (reserve1/10^decimals1) / (reserve0/10^decimals0)
// and reports reserve1 (in token1 units) as a proxy for depth/volume.
func spotPriceAndVolume(reserve0, reserve1 *big.Int, decimals0, decimals1 int) (decimal.Decimal, decimal.Decimal) {
	if reserve0.Sign() == 0 || reserve1.Sign() == 0 {
		return decimal.Zero, decimal.Zero
	}
	if decimals0 < 0 || decimals0 > 255 {
		decimals0 = 0
	}
	if decimals1 < 0 || decimals1 > 255 {
		decimals1 = 0
	}

	scale0 := decimal.New(1, int32(decimals0))
	scale1 := decimal.New(1, int32(decimals1))

	amount0 := decimal.NewFromBigInt(reserve0, 0).Div(scale0)
	amount1 := decimal.NewFromBigInt(reserve1, 0).Div(scale1)

	return amount1.Div(amount0), amount1
}

func init() {
	sources.Register("onchain", "evm_pool", func(name string, cfg map[string]interface{}) (sources.PriceSource, error) {
		return NewEVMPoolSource(name, cfg)
	})
}
