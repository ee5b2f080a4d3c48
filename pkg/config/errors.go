// Package config provides configuration loading and validation for the
// price aggregation engine.
package config

import "errors"

var (
	// ErrInvalidAggregationThreshold indicates a non-positive threshold where
	// one is required (z_score_threshold, iqr_multiplier, min_data_points, ...).
	ErrInvalidAggregationThreshold = errors.New("aggregation threshold must be > 0")
	// ErrInvalidForceAlgorithm indicates force_algorithm names an unknown algorithm.
	ErrInvalidForceAlgorithm = errors.New("invalid force_algorithm")
	// ErrNegativeSourceWeight indicates a configured source weight is negative.
	ErrNegativeSourceWeight = errors.New("source weight must be >= 0")
	// ErrNoPairsConfigured indicates the collector has no pairs to poll.
	ErrNoPairsConfigured = errors.New("at least one pair must be configured")
	// ErrInvalidCollectInterval indicates collect_interval is zero or negative.
	ErrInvalidCollectInterval = errors.New("collect_interval must be > 0")
	// ErrInvalidRequestTimeout indicates request_timeout is zero or negative.
	ErrInvalidRequestTimeout = errors.New("request_timeout must be > 0")
	// ErrNoSourcesEnabled indicates no configured source has enabled: true.
	ErrNoSourcesEnabled = errors.New("at least one source must be enabled")
	// ErrInvalidSourceType indicates a source's type field is not recognized.
	ErrInvalidSourceType = errors.New("invalid source type")
	// ErrSourceNameRequired indicates a source is missing its name field.
	ErrSourceNameRequired = errors.New("source name is required")
	// ErrInvalidLogLevel indicates that the log level is invalid.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat indicates that the log format is invalid.
	ErrInvalidLogFormat = errors.New("invalid log format")
)
