package config

import "time"

// Config is the root configuration structure for the price aggregation engine.
type Config struct {
	Aggregation AggregationConfig `yaml:"aggregation"`
	Collector   CollectorConfig   `yaml:"collector"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// AggregationConfig configures the statistics kernel and aggregation engine.
type AggregationConfig struct {
	ZScoreThreshold float64            `yaml:"z_score_threshold"`
	IQRMultiplier   float64            `yaml:"iqr_multiplier"`
	MinDataPoints   int                `yaml:"min_data_points"`
	MaxAge          Duration           `yaml:"max_age"`
	VWAPWindow      Duration           `yaml:"vwap_window"`
	TWAPWindow      Duration           `yaml:"twap_window"`
	MinVolume       float64            `yaml:"min_volume"`
	MaxHistorySize  int                `yaml:"max_history_size"`
	ForceAlgorithm  string             `yaml:"force_algorithm"` // "" | "vwap" | "twap" | "weighted"
	SourceWeights   map[string]float64 `yaml:"source_weights"`
}

// CollectorConfig configures the multi-source collector scheduler.
type CollectorConfig struct {
	CollectInterval Duration       `yaml:"collect_interval"`
	RequestTimeout  Duration       `yaml:"request_timeout"`
	RetryAttempts   int            `yaml:"retry_attempts"`
	MaxInFlight     int            `yaml:"max_in_flight"`
	Pairs           []string       `yaml:"pairs"`
	Sources         []SourceConfig `yaml:"sources"`
}

// SourceConfig configures a single enabled price source.
type SourceConfig struct {
	Type    string                 `yaml:"type"` // cex | onchain | index | synthetic
	Name    string                 `yaml:"name"`
	Enabled bool                   `yaml:"enabled"`
	Weight  float64                `yaml:"weight"`
	Config  map[string]interface{} `yaml:"config"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Duration is a wrapper around time.Duration for YAML parsing
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	td, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(td)
	return nil
}

// ToDuration converts Duration to time.Duration
func (d Duration) ToDuration() time.Duration {
	return time.Duration(d)
}

// GetString retrieves a string value from the source-specific config map.
func (sc *SourceConfig) GetString(key, defaultValue string) string {
	if val, ok := sc.Config[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return defaultValue
}

// GetStringMap retrieves a map[string]string from the source-specific config
// map, used for canonical-pair -> venue-symbol token mappings.
func (sc *SourceConfig) GetStringMap(key string) map[string]string {
	raw, ok := sc.Config[key]
	if !ok {
		return nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	result := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			result[k] = s
		}
	}
	return result
}

// GetInt retrieves an integer from the source-specific config map.
func (sc *SourceConfig) GetInt(key string, defaultValue int) int {
	switch v := sc.Config[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return defaultValue
	}
}

// GetFloat retrieves a float from the source-specific config map.
func (sc *SourceConfig) GetFloat(key string, defaultValue float64) float64 {
	switch v := sc.Config[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return defaultValue
	}
}
