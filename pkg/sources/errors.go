package sources

import "errors"

var (
	// ErrNetwork indicates the adapter's network call failed.
	ErrNetwork = errors.New("network error")
	// ErrRateLimited indicates the venue rejected the request as rate-limited.
	ErrRateLimited = errors.New("rate limited")
	// ErrParse indicates the adapter could not parse the venue's response.
	ErrParse = errors.New("parse error")
	// ErrUnsupportedPair indicates the adapter has no symbol mapping for
	// the requested pair.
	ErrUnsupportedPair = errors.New("unsupported pair")
)
