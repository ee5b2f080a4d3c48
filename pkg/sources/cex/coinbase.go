package cex

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/priceagg/engine/pkg/config"
	"github.com/priceagg/engine/pkg/sources"
	"github.com/priceagg/engine/pkg/store"
)

const coinbaseTickerURL = "https://api.exchange.coinbase.com/products"

// CoinbaseSource fetches the spot ticker for a product from Coinbase
// Exchange's public REST API.
type CoinbaseSource struct {
	name    store.SourceID
	baseURL string
	mapping map[string]string // canonical pair -> Coinbase product id, e.g. "SOL/USDC" -> "SOL-USDC"
}

type coinbaseTicker struct {
	Price  string `json:"price"`
	Volume string `json:"volume"`
}

// NewCoinbaseSource builds a CoinbaseSource from its source config's pair mapping.
func NewCoinbaseSource(name string, cfg map[string]interface{}) (sources.PriceSource, error) {
	sc := &config.SourceConfig{Config: cfg}
	mapping := sc.GetStringMap("pairs")
	url := sc.GetString("api_url", coinbaseTickerURL)
	return &CoinbaseSource{name: store.SourceID(name), baseURL: url, mapping: mapping}, nil
}

func (s *CoinbaseSource) Name() store.SourceID { return s.name }

// Fetch retrieves the current ticker for pair from Coinbase Exchange.
func (s *CoinbaseSource) Fetch(ctx context.Context, pair store.Pair) (store.Observation, error) {
	product, err := symbolMapping(s.mapping, string(pair))
	if err != nil {
		return store.Observation{}, err
	}

	url := fmt.Sprintf("%s/%s/ticker", s.baseURL, product)
	var t coinbaseTicker
	if err := httpGETJSON(ctx, url, &t); err != nil {
		return store.Observation{}, err
	}
	if t.Price == "" {
		return store.Observation{}, fmt.Errorf("%w: empty response for %s", sources.ErrParse, product)
	}

	price, err := decimal.NewFromString(t.Price)
	if err != nil {
		return store.Observation{}, fmt.Errorf("%w: %v", sources.ErrParse, err)
	}

	obs := store.Observation{
		Pair:      pair,
		Price:     price,
		Timestamp: time.Now(),
		Source:    s.name,
		Metadata:  store.Metadata{"venue_symbol": product},
	}
	if vol, err := decimal.NewFromString(t.Volume); err == nil {
		obs.Volume = &vol
	}
	return obs, nil
}

func init() {
	sources.Register("cex", "coinbase", func(name string, cfg map[string]interface{}) (sources.PriceSource, error) {
		return NewCoinbaseSource(name, cfg)
	})
}
