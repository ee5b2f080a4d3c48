// Package cex provides REST-ticker PriceSource adapters for centralized
// exchanges, ported from the teacher's per-venue poll-loop adapters and
// narrowed to the spec's one-shot Fetch shape: the collector scheduler, not
// the adapter, owns polling cadence and retry.
package cex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/priceagg/engine/pkg/sources"
)

// httpGETJSON performs a GET request and unmarshals the JSON body into out.
// Shared by every REST-ticker adapter in this package.
func httpGETJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", sources.ErrNetwork, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", sources.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return sources.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", sources.ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", sources.ErrNetwork, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", sources.ErrParse, err)
	}
	return nil
}

// symbolMapping resolves pair ("SOL/USDC") to a venue-specific symbol using
// the adapter's configured token-mapping table.
func symbolMapping(mapping map[string]string, pair string) (string, error) {
	sym, ok := mapping[pair]
	if !ok {
		return "", fmt.Errorf("%w: %s", sources.ErrUnsupportedPair, pair)
	}
	return sym, nil
}
