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

const binanceTickerURL = "https://api.binance.com/api/v3/ticker/24hr"

// BinanceSource fetches single-symbol 24h ticker statistics from Binance.
type BinanceSource struct {
	name    store.SourceID
	url     string
	mapping map[string]string // canonical pair -> Binance symbol, e.g. "SOL/USDC" -> "SOLUSDC"
}

type binanceTicker struct {
	Symbol    string `json:"symbol"`
	LastPrice string `json:"lastPrice"`
	Volume    string `json:"volume"`
}

// NewBinanceSource builds a BinanceSource from its source config's pair mapping.
func NewBinanceSource(name string, cfg map[string]interface{}) (sources.PriceSource, error) {
	sc := &config.SourceConfig{Config: cfg}
	mapping := sc.GetStringMap("pairs")
	url := sc.GetString("api_url", binanceTickerURL)
	return &BinanceSource{name: store.SourceID(name), url: url, mapping: mapping}, nil
}

func (s *BinanceSource) Name() store.SourceID { return s.name }

// Fetch retrieves the current 24h ticker for pair from Binance.
func (s *BinanceSource) Fetch(ctx context.Context, pair store.Pair) (store.Observation, error) {
	symbol, err := symbolMapping(s.mapping, string(pair))
	if err != nil {
		return store.Observation{}, err
	}

	url := fmt.Sprintf("%s?symbol=%s", s.url, symbol)
	var t binanceTicker
	if err := httpGETJSON(ctx, url, &t); err != nil {
		return store.Observation{}, err
	}
	if t.Symbol == "" {
		return store.Observation{}, fmt.Errorf("%w: empty response for %s", sources.ErrParse, symbol)
	}

	price, err := decimal.NewFromString(t.LastPrice)
	if err != nil {
		return store.Observation{}, fmt.Errorf("%w: %v", sources.ErrParse, err)
	}

	obs := store.Observation{
		Pair:      pair,
		Price:     price,
		Timestamp: time.Now(),
		Source:    s.name,
		Metadata:  store.Metadata{"venue_symbol": symbol},
	}
	if vol, err := decimal.NewFromString(t.Volume); err == nil {
		obs.Volume = &vol
	}
	return obs, nil
}

func init() {
	sources.Register("cex", "binance", func(name string, cfg map[string]interface{}) (sources.PriceSource, error) {
		return NewBinanceSource(name, cfg)
	})
}
