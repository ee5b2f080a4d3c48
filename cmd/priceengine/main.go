package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/priceagg/engine/pkg/config"
	"github.com/priceagg/engine/pkg/engine"
	"github.com/priceagg/engine/pkg/logging"
	"github.com/priceagg/engine/pkg/metrics"
	"github.com/priceagg/engine/pkg/store"

	// Import source adapters to register them via init().
	_ "github.com/priceagg/engine/pkg/sources/cex"
	_ "github.com/priceagg/engine/pkg/sources/onchain"
	_ "github.com/priceagg/engine/pkg/sources/synthetic"
)

const version = "0.1.0-dev"

var (
	configFile = flag.String("config", "config/config.yaml", "Path to configuration file")
	showVer    = flag.Bool("version", false, "Show version and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("priceengine version %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)

	logger.Info("starting priceengine", "version", version, "pairs", cfg.Collector.Pairs)

	if cfg.Metrics.Enabled {
		metrics.Init()
		go func() {
			logger.Info("starting metrics server", "addr", cfg.Metrics.Addr)
			if err := metrics.ServeHTTP(cfg.Metrics.Addr, cfg.Metrics.Path); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	eng, err := engine.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build engine", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng.Start(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Collector.CollectInterval.ToDuration())
	defer ticker.Stop()

	for {
		select {
		case sig := <-sigChan:
			logger.Info("received shutdown signal", "signal", sig.String())
			eng.Stop()
			cancel()
			logger.Info("shutdown complete")
			return
		case <-ticker.C:
			logPrices(logger, eng, cfg.Collector.Pairs)
		}
	}
}

// logPrices emits the current best price for every configured pair, used as
// a manual smoke-test surface; no wire protocol or API server is part of
// this engine's scope.
func logPrices(logger *logging.Logger, eng *engine.Engine, pairs []string) {
	for _, p := range pairs {
		pair := store.Pair(p)
		res, err := eng.CurrentPrice(pair)
		if err != nil {
			logger.Warn("no current price available", "pair", pair, "error", err)
			continue
		}
		logger.Info("current price",
			"pair", pair,
			"algorithm", res.Algorithm,
			"price", res.Price,
			"confidence", res.Confidence,
			"inputs", res.InputsUsed,
		)
	}
}
