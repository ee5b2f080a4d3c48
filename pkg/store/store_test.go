package store_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceagg/engine/pkg/store"
)

func obs(price float64, vol *float64, source string, ts time.Time) store.Observation {
	var volDec *decimal.Decimal
	if vol != nil {
		d := decimal.NewFromFloat(*vol)
		volDec = &d
	}
	return store.Observation{
		Price:     decimal.NewFromFloat(price),
		Volume:    volDec,
		Timestamp: ts,
		Source:    store.SourceID(source),
		Weight:    1.0,
	}
}

func ptr(f float64) *float64 { return &f }

func TestInsertThenSnapshotReturnsMostRecentLast(t *testing.T) {
	s := store.New(time.Minute, 10, 0.01)
	pair := store.Pair("SOL/USDC")

	now := time.Now()
	s.Insert(pair, obs(1.0, ptr(10), "a", now.Add(-2*time.Second)))
	s.Insert(pair, obs(2.0, ptr(10), "b", now.Add(-1*time.Second)))

	snap := s.Snapshot(pair, 0)
	require.Len(t, snap, 2)
	assert.True(t, snap[len(snap)-1].Price.Equal(decimal.NewFromFloat(2.0)))
}

func TestInsertPurgesOldObservations(t *testing.T) {
	s := store.New(50*time.Millisecond, 100, 0.01)
	pair := store.Pair("SOL/USDC")

	s.Insert(pair, obs(1.0, nil, "a", time.Now()))
	time.Sleep(100 * time.Millisecond)
	s.Insert(pair, obs(2.0, nil, "b", time.Now()))

	snap := s.Snapshot(pair, 0)
	require.Len(t, snap, 1)
	assert.Equal(t, store.SourceID("b"), snap[0].Source)
}

func TestInsertTruncatesToCapacity(t *testing.T) {
	s := store.New(time.Hour, 3, 0.01)
	pair := store.Pair("SOL/USDC")

	for i := 0; i < 5; i++ {
		s.Insert(pair, obs(float64(i), nil, fmt.Sprintf("s%d", i), time.Now()))
	}

	snap := s.Snapshot(pair, 0)
	require.Len(t, snap, 3)
	assert.Equal(t, store.SourceID("s2"), snap[0].Source)
	assert.Equal(t, store.SourceID("s4"), snap[2].Source)
}

func TestVolumeSnapshotOnlyIncludesAboveFloor(t *testing.T) {
	s := store.New(time.Hour, 100, 1.0)
	pair := store.Pair("SOL/USDC")

	s.Insert(pair, obs(1.0, ptr(0.5), "below-floor", time.Now()))
	s.Insert(pair, obs(1.0, ptr(5.0), "above-floor", time.Now()))
	s.Insert(pair, obs(1.0, nil, "no-volume", time.Now()))

	snap := s.VolumeSnapshot(pair, 0)
	require.Len(t, snap, 1)
	assert.Equal(t, store.SourceID("above-floor"), snap[0].Source)
}

func TestSnapshotReturnsCopyNotLiveSlice(t *testing.T) {
	s := store.New(time.Hour, 100, 0.01)
	pair := store.Pair("SOL/USDC")
	s.Insert(pair, obs(1.0, nil, "a", time.Now()))

	snap := s.Snapshot(pair, 0)
	snap[0].Price = decimal.NewFromFloat(999)

	snap2 := s.Snapshot(pair, 0)
	assert.True(t, snap2[0].Price.Equal(decimal.NewFromFloat(1.0)))
}

func TestClearAndClearAll(t *testing.T) {
	s := store.New(time.Hour, 100, 0.01)
	a, b := store.Pair("A"), store.Pair("B")
	s.Insert(a, obs(1, nil, "x", time.Now()))
	s.Insert(b, obs(1, nil, "x", time.Now()))

	s.Clear(a)
	assert.Empty(t, s.Snapshot(a, 0))
	assert.NotEmpty(t, s.Snapshot(b, 0))

	s.ClearAll()
	assert.Empty(t, s.Snapshot(b, 0))
}

func TestGetStats(t *testing.T) {
	s := store.New(time.Hour, 100, 0.01)
	pair := store.Pair("SOL/USDC")
	s.Insert(pair, obs(1, ptr(10), "a", time.Now()))
	s.Insert(pair, obs(1, nil, "b", time.Now()))

	st := s.GetStats()
	assert.Equal(t, 1, st.Pairs)
	assert.Equal(t, 2, st.TotalObservations)
	assert.Equal(t, 1, st.TotalVolumeObserved)
}

func TestConcurrentInsertAndSnapshotDoNotRace(t *testing.T) {
	s := store.New(time.Hour, 200, 0.01)
	pair := store.Pair("SOL/USDC")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Insert(pair, obs(float64(i), ptr(1), fmt.Sprintf("s%d", i), time.Now()))
		}(i)
	}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Snapshot(pair, 0)
		}()
	}
	wg.Wait()

	st := s.GetStats()
	assert.LessOrEqual(t, st.TotalObservations, 200)
}
