// Package config provides configuration loading and validation for the
// price aggregation engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file, expanding environment
// variables before parsing.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	data, err := os.ReadFile(absPath) // #nosec G304 -- path sanitized with filepath.Clean and filepath.Abs
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults sets default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Aggregation.ZScoreThreshold == 0 {
		cfg.Aggregation.ZScoreThreshold = 2.5
	}
	if cfg.Aggregation.IQRMultiplier == 0 {
		cfg.Aggregation.IQRMultiplier = 1.5
	}
	if cfg.Aggregation.MinDataPoints == 0 {
		cfg.Aggregation.MinDataPoints = 3
	}
	if cfg.Aggregation.MaxAge.ToDuration() == 0 {
		cfg.Aggregation.MaxAge = Duration(5 * 60 * 1e9) // 5 minutes
	}
	if cfg.Aggregation.VWAPWindow.ToDuration() == 0 {
		cfg.Aggregation.VWAPWindow = Duration(60 * 60 * 1e9) // 1 hour
	}
	if cfg.Aggregation.TWAPWindow.ToDuration() == 0 {
		cfg.Aggregation.TWAPWindow = Duration(60 * 60 * 1e9) // 1 hour
	}
	if cfg.Aggregation.MaxHistorySize == 0 {
		cfg.Aggregation.MaxHistorySize = 1000
	}

	if cfg.Collector.CollectInterval.ToDuration() == 0 {
		cfg.Collector.CollectInterval = Duration(30 * 1e9) // 30 seconds
	}
	if cfg.Collector.RequestTimeout.ToDuration() == 0 {
		cfg.Collector.RequestTimeout = Duration(10 * 1e9) // 10 seconds
	}
	if cfg.Collector.RetryAttempts == 0 {
		cfg.Collector.RetryAttempts = 3
	}
	if cfg.Collector.MaxInFlight == 0 {
		cfg.Collector.MaxInFlight = 64
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9091"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
