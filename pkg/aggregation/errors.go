package aggregation

import "errors"

var (
	// ErrInsufficientData indicates fewer than MinDataPoints observations
	// were available for the requested window.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrNoVolumeData indicates VWAP was requested but no observation had
	// volume at or above the configured floor.
	ErrNoVolumeData = errors.New("no volume data")
	// ErrAllOutliers indicates outlier filtering removed every observation.
	ErrAllOutliers = errors.New("all observations rejected as outliers")
	// ErrZeroWeight indicates TWAP's combined weights summed to zero
	// (degenerate, identical timestamps).
	ErrZeroWeight = errors.New("combined weights sum to zero")
	// ErrNoAlgorithmSucceeded indicates all three algorithms failed; wraps
	// each algorithm's individual failure via errors.Join.
	ErrNoAlgorithmSucceeded = errors.New("no aggregation algorithm succeeded")
)
