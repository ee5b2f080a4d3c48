package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration for errors.
func Validate(cfg *Config) error {
	if err := validateAggregationConfig(&cfg.Aggregation); err != nil {
		return fmt.Errorf("aggregation config: %w", err)
	}
	if err := validateCollectorConfig(&cfg.Collector); err != nil {
		return fmt.Errorf("collector config: %w", err)
	}
	if err := validateLoggingConfig(&cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

func validateAggregationConfig(cfg *AggregationConfig) error {
	if cfg.ZScoreThreshold <= 0 {
		return fmt.Errorf("z_score_threshold must be > 0")
	}
	if cfg.IQRMultiplier <= 0 {
		return fmt.Errorf("iqr_multiplier must be > 0")
	}
	if cfg.MinDataPoints <= 0 {
		return fmt.Errorf("min_data_points must be > 0")
	}
	if cfg.MaxHistorySize <= 0 {
		return fmt.Errorf("max_history_size must be > 0")
	}
	if cfg.MinVolume < 0 {
		return fmt.Errorf("min_volume must be >= 0")
	}

	switch strings.ToLower(cfg.ForceAlgorithm) {
	case "", "vwap", "twap", "weighted":
		// valid
	default:
		return fmt.Errorf("invalid force_algorithm: %s (must be '', 'vwap', 'twap', or 'weighted')", cfg.ForceAlgorithm)
	}

	for name, weight := range cfg.SourceWeights {
		if weight < 0 {
			return fmt.Errorf("source_weights[%s] must be >= 0", name)
		}
	}

	return nil
}

func validateCollectorConfig(cfg *CollectorConfig) error {
	if cfg.CollectInterval.ToDuration() <= 0 {
		return fmt.Errorf("collect_interval must be > 0")
	}
	if cfg.RequestTimeout.ToDuration() <= 0 {
		return fmt.Errorf("request_timeout must be > 0")
	}
	if cfg.RetryAttempts < 0 {
		return fmt.Errorf("retry_attempts must be >= 0")
	}
	if cfg.MaxInFlight <= 0 {
		return fmt.Errorf("max_in_flight must be > 0")
	}
	if len(cfg.Pairs) == 0 {
		return fmt.Errorf("at least one pair must be configured")
	}

	enabled := 0
	for i, source := range cfg.Sources {
		if err := validateSourceConfig(&source); err != nil {
			return fmt.Errorf("source %d (%s.%s): %w", i, source.Type, source.Name, err)
		}
		if source.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}

	return nil
}

func validateSourceConfig(cfg *SourceConfig) error {
	validTypes := []string{"cex", "onchain", "index", "synthetic"}
	typeValid := false
	for _, t := range validTypes {
		if strings.ToLower(cfg.Type) == t {
			typeValid = true
			break
		}
	}
	if !typeValid {
		return fmt.Errorf("invalid type: %s (must be one of: %s)", cfg.Type, strings.Join(validTypes, ", "))
	}

	if cfg.Name == "" {
		return fmt.Errorf("name must be specified")
	}

	if cfg.Weight < 0 {
		return fmt.Errorf("weight must be >= 0")
	}

	return nil
}

func validateLoggingConfig(cfg *LoggingConfig) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	levelValid := false
	for _, l := range validLevels {
		if strings.ToLower(cfg.Level) == l {
			levelValid = true
			break
		}
	}
	if !levelValid {
		return fmt.Errorf("invalid level: %s (must be one of: %s)", cfg.Level, strings.Join(validLevels, ", "))
	}

	formatValid := strings.ToLower(cfg.Format) == "json" || strings.ToLower(cfg.Format) == "text"
	if !formatValid {
		return fmt.Errorf("invalid format: %s (must be 'json' or 'text')", cfg.Format)
	}

	return nil
}
