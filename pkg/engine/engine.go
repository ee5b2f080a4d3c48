// Package engine composes the observation store, the aggregation
// calculators, and an optional collector scheduler into the single facade
// described by spec.md's public interface table.
package engine

import (
	"context"

	"github.com/priceagg/engine/pkg/aggregation"
	"github.com/priceagg/engine/pkg/collector"
	"github.com/priceagg/engine/pkg/config"
	"github.com/priceagg/engine/pkg/logging"
	"github.com/priceagg/engine/pkg/sources"
	"github.com/priceagg/engine/pkg/store"
)

// Engine is the price aggregation engine's public facade: record raw
// observations, and query VWAP, TWAP, weighted mean, or the best-price
// selection for any tracked pair.
type Engine struct {
	store     *store.Store
	aggCfg    aggregation.Config
	scheduler *collector.Scheduler
	logger    *logging.Logger
}

// New builds an Engine from a loaded Config. If cfg.Collector has any
// enabled sources, a collector.Scheduler is wired up but not started —
// call Start to begin polling.
func New(cfg *config.Config, logger *logging.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}

	st := store.New(
		cfg.Aggregation.MaxAge.ToDuration(),
		cfg.Aggregation.MaxHistorySize,
		cfg.Aggregation.MinVolume,
	)

	aggCfg := aggregation.Config{
		ZScoreThreshold: cfg.Aggregation.ZScoreThreshold,
		IQRMultiplier:   cfg.Aggregation.IQRMultiplier,
		MinDataPoints:   cfg.Aggregation.MinDataPoints,
		VWAPWindow:      cfg.Aggregation.VWAPWindow.ToDuration(),
		TWAPWindow:      cfg.Aggregation.TWAPWindow.ToDuration(),
		MinVolume:       cfg.Aggregation.MinVolume,
		ForceAlgorithm:  aggregation.Algorithm(cfg.Aggregation.ForceAlgorithm),
	}

	srcs, pairs, err := buildSources(cfg)
	if err != nil {
		return nil, err
	}

	var sched *collector.Scheduler
	if len(srcs) > 0 {
		weights := sources.NewWeightTable(cfg.Aggregation.SourceWeights)
		sched = collector.New(st, srcs, weights, collector.Config{
			CollectInterval: cfg.Collector.CollectInterval.ToDuration(),
			RequestTimeout:  cfg.Collector.RequestTimeout.ToDuration(),
			RetryAttempts:   cfg.Collector.RetryAttempts,
			MaxInFlight:     int64(cfg.Collector.MaxInFlight),
			Pairs:           pairs,
		}, logger)
	}

	return &Engine{store: st, aggCfg: aggCfg, scheduler: sched, logger: logger}, nil
}

func buildSources(cfg *config.Config) ([]sources.PriceSource, []store.Pair, error) {
	var built []sources.PriceSource
	for _, sc := range cfg.Collector.Sources {
		if !sc.Enabled {
			continue
		}
		src, err := sources.Create(sc.Type, sc.Name, sc.Config)
		if err != nil {
			return nil, nil, err
		}
		built = append(built, src)
	}

	pairs := make([]store.Pair, 0, len(cfg.Collector.Pairs))
	for _, p := range cfg.Collector.Pairs {
		pairs = append(pairs, store.Pair(p))
	}
	return built, pairs, nil
}

// Record inserts a single observation directly into the store, bypassing
// the collector scheduler. Used by sources that push rather than get
// polled, and by tests.
func (e *Engine) Record(pair store.Pair, obs store.Observation) {
	e.store.Insert(pair, obs)
}

// Start begins the collector scheduler's tick loop, if one is configured.
func (e *Engine) Start(ctx context.Context) {
	if e.scheduler != nil {
		e.scheduler.Start(ctx)
	}
}

// Stop halts the collector scheduler, if running, waiting for in-flight
// requests to drain.
func (e *Engine) Stop() {
	if e.scheduler != nil {
		e.scheduler.Stop()
	}
}

// VWAP computes the volume-weighted average price for pair.
func (e *Engine) VWAP(pair store.Pair) (*aggregation.Result, error) {
	return aggregation.VWAP(e.store, pair, e.aggCfg)
}

// TWAP computes the time-weighted average price for pair.
func (e *Engine) TWAP(pair store.Pair) (*aggregation.Result, error) {
	return aggregation.TWAP(e.store, pair, e.aggCfg)
}

// WeightedMean computes the source-weighted mean price for pair.
func (e *Engine) WeightedMean(pair store.Pair) (*aggregation.Result, error) {
	return aggregation.WeightedMean(e.store, pair, e.aggCfg)
}

// CurrentPrice selects the best available price for pair across all three
// algorithms (or runs only aggCfg.ForceAlgorithm if set).
func (e *Engine) CurrentPrice(pair store.Pair) (*aggregation.Result, error) {
	return aggregation.CurrentPrice(e.store, pair, e.aggCfg)
}

// Stats reports the store's current size.
func (e *Engine) Stats() store.Stats {
	return e.store.GetStats()
}

// Clear resets a single pair's history.
func (e *Engine) Clear(pair store.Pair) {
	e.store.Clear(pair)
}

// ClearAll resets every pair's history.
func (e *Engine) ClearAll() {
	e.store.ClearAll()
}
