package collector_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceagg/engine/pkg/collector"
	"github.com/priceagg/engine/pkg/sources"
	"github.com/priceagg/engine/pkg/store"
)

// fakeSource is a PriceSource test double: constant-price when healthy, or
// always returning ErrNetwork when not.
type fakeSource struct {
	name    store.SourceID
	healthy bool
	calls   int
}

func (f *fakeSource) Name() store.SourceID { return f.name }

func (f *fakeSource) Fetch(_ context.Context, pair store.Pair) (store.Observation, error) {
	f.calls++
	if !f.healthy {
		return store.Observation{}, fmt.Errorf("%w: simulated outage", sources.ErrNetwork)
	}
	return store.Observation{
		Pair:      pair,
		Price:     decimal.NewFromFloat(100.0),
		Timestamp: time.Now(),
		Source:    f.name,
	}, nil
}

// TestTickIsolatesFailingSource verifies that one source always returning
// ErrNetwork does not prevent a healthy source's observations from reaching
// the store: each (pair, source) fetch is isolated.
func TestTickIsolatesFailingSource(t *testing.T) {
	st := store.New(0, 0, 0)
	good := &fakeSource{name: "good-venue", healthy: true}
	bad := &fakeSource{name: "bad-venue", healthy: false}

	cfg := collector.Config{
		CollectInterval: 20 * time.Millisecond,
		RequestTimeout:  50 * time.Millisecond,
		RetryAttempts:   1,
		MaxInFlight:     4,
		Pairs:           []store.Pair{"SOL/USDC"},
	}
	sched := collector.New(st, []sources.PriceSource{good, bad}, nil, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	sched.Start(ctx)

	require.Eventually(t, func() bool {
		return len(st.Snapshot("SOL/USDC", 0)) > 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	sched.Stop()

	obs := st.Snapshot("SOL/USDC", 0)
	for _, o := range obs {
		assert.Equal(t, store.SourceID("good-venue"), o.Source)
	}
	assert.GreaterOrEqual(t, bad.calls, 1)
	assert.GreaterOrEqual(t, good.calls, 1)
}

func TestStartStopLifecycle(t *testing.T) {
	st := store.New(0, 0, 0)
	src := &fakeSource{name: "venue", healthy: true}
	cfg := collector.Config{
		CollectInterval: 10 * time.Millisecond,
		RequestTimeout:  50 * time.Millisecond,
		RetryAttempts:   0,
		MaxInFlight:     2,
		Pairs:           []store.Pair{"SOL/USDC"},
	}
	sched := collector.New(st, []sources.PriceSource{src}, nil, cfg, nil)

	assert.Equal(t, collector.Stopped, sched.State())
	sched.Start(context.Background())
	assert.Equal(t, collector.Running, sched.State())

	// Starting again while running is a no-op.
	sched.Start(context.Background())
	assert.Equal(t, collector.Running, sched.State())

	sched.Stop()
	assert.Equal(t, collector.Stopped, sched.State())
}
