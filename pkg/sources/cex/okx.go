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

const okxTickersURL = "https://www.okx.com/api/v5/market/tickers?instType=SPOT"

// OKXSource fetches single-ticker prices from OKX's public tickers endpoint.
type OKXSource struct {
	name    store.SourceID
	url     string
	mapping map[string]string // canonical pair -> OKX instId, e.g. "SOL/USDC" -> "SOL-USDC"
}

type okxTicker struct {
	InstId string `json:"instId"`
	Last   string `json:"last"`
	Vol24h string `json:"vol24h"`
	Ts     string `json:"ts"`
}

type okxResponse struct {
	Code string      `json:"code"`
	Msg  string      `json:"msg"`
	Data []okxTicker `json:"data"`
}

// NewOKXSource builds an OKXSource from its source config's pair mapping.
func NewOKXSource(name string, cfg map[string]interface{}) (sources.PriceSource, error) {
	sc := &config.SourceConfig{Config: cfg}
	mapping := sc.GetStringMap("pairs")
	url := sc.GetString("api_url", okxTickersURL)
	return &OKXSource{name: store.SourceID(name), url: url, mapping: mapping}, nil
}

func (s *OKXSource) Name() store.SourceID { return s.name }

// Fetch retrieves the current ticker for pair from OKX.
func (s *OKXSource) Fetch(ctx context.Context, pair store.Pair) (store.Observation, error) {
	instID, err := symbolMapping(s.mapping, string(pair))
	if err != nil {
		return store.Observation{}, err
	}

	var resp okxResponse
	if err := httpGETJSON(ctx, s.url, &resp); err != nil {
		return store.Observation{}, err
	}
	if resp.Code != "0" {
		return store.Observation{}, fmt.Errorf("%w: okx error %s: %s", sources.ErrParse, resp.Code, resp.Msg)
	}

	for _, t := range resp.Data {
		if t.InstId != instID {
			continue
		}
		price, err := decimal.NewFromString(t.Last)
		if err != nil {
			return store.Observation{}, fmt.Errorf("%w: %v", sources.ErrParse, err)
		}

		obs := store.Observation{
			Pair:      pair,
			Price:     price,
			Timestamp: time.Now(),
			Source:    s.name,
			Metadata:  store.Metadata{"venue_symbol": instID},
		}
		if vol, err := decimal.NewFromString(t.Vol24h); err == nil {
			obs.Volume = &vol
		}
		return obs, nil
	}

	return store.Observation{}, fmt.Errorf("%w: %s", sources.ErrUnsupportedPair, pair)
}

func init() {
	sources.Register("cex", "okx", func(name string, cfg map[string]interface{}) (sources.PriceSource, error) {
		return NewOKXSource(name, cfg)
	})
}
