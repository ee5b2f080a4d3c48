package store

import (
	"sync"
	"time"
)

// DefaultMaxAge is the default per-pair retention window.
const DefaultMaxAge = 300 * time.Second

// DefaultMaxHistorySize is the default per-pair retention cap.
const DefaultMaxHistorySize = 1000

// DefaultMinVolume is the default VWAP volume floor.
const DefaultMinVolume = 0.01

// Stats summarizes the store's current size.
type Stats struct {
	Pairs               int
	TotalObservations   int
	TotalVolumeObserved int
}

// Store is the observation store: a per-pair bounded, time-windowed ring of
// price observations plus a parallel ring of volume-bearing observations.
// Each pair's bucket is guarded independently so writers to different pairs
// never contend, per spec's fine-grained-lock-per-pair discipline.
type Store struct {
	maxAge         time.Duration
	maxHistorySize int
	minVolume      float64

	mu      sync.RWMutex // guards the buckets map itself, not bucket contents
	buckets map[Pair]*pairBucket
}

type pairBucket struct {
	mu     sync.RWMutex
	prices []Observation // insertion order
	volume []Observation // insertion order, subset of prices with volume >= minVolume
}

// New creates a Store with the given retention parameters. A zero value for
// any parameter falls back to its spec-mandated default.
func New(maxAge time.Duration, maxHistorySize int, minVolume float64) *Store {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if maxHistorySize <= 0 {
		maxHistorySize = DefaultMaxHistorySize
	}
	if minVolume <= 0 {
		minVolume = DefaultMinVolume
	}
	return &Store{
		maxAge:         maxAge,
		maxHistorySize: maxHistorySize,
		minVolume:      minVolume,
		buckets:        make(map[Pair]*pairBucket),
	}
}

func (s *Store) bucket(pair Pair) *pairBucket {
	s.mu.RLock()
	b, ok := s.buckets[pair]
	s.mu.RUnlock()
	if ok {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok = s.buckets[pair]; ok {
		return b
	}
	b = &pairBucket{}
	s.buckets[pair] = b
	return b
}

// Insert appends obs to pair's history, purges observations older than
// maxAge, and truncates to maxHistorySize with oldest-first eviction. If
// obs carries volume at or above the configured floor it is also appended
// to the volume sequence.
func (s *Store) Insert(pair Pair, obs Observation) {
	b := s.bucket(pair)
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()

	b.prices = append(b.prices, obs)
	b.prices = purgeOld(b.prices, now, s.maxAge)
	b.prices = truncate(b.prices, s.maxHistorySize)

	if obs.HasVolume() {
		vol, _ := obs.Volume.Float64()
		if vol >= s.minVolume {
			b.volume = append(b.volume, obs)
			b.volume = purgeOld(b.volume, now, s.maxAge)
			b.volume = truncate(b.volume, s.maxHistorySize)
		}
	}
}

// Snapshot returns a copy of pair's price observations with timestamp >=
// now - window; a window <= 0 returns every retained observation. The copy
// means the aggregation engine never races a concurrent Insert.
func (s *Store) Snapshot(pair Pair, window time.Duration) []Observation {
	b := s.bucket(pair)
	b.mu.RLock()
	defer b.mu.RUnlock()
	return sinceCopy(b.prices, window)
}

// VolumeSnapshot is Snapshot's analogue for the volume-bearing sequence.
func (s *Store) VolumeSnapshot(pair Pair, window time.Duration) []Observation {
	b := s.bucket(pair)
	b.mu.RLock()
	defer b.mu.RUnlock()
	return sinceCopy(b.volume, window)
}

// Clear resets a single pair's history. Test-only reset hook.
func (s *Store) Clear(pair Pair) {
	s.mu.Lock()
	delete(s.buckets, pair)
	s.mu.Unlock()
}

// ClearAll resets every pair's history. Test-only reset hook.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.buckets = make(map[Pair]*pairBucket)
	s.mu.Unlock()
}

// GetStats returns the count of pairs, total price observations, and total
// volume observations currently retained.
func (s *Store) GetStats() Stats {
	s.mu.RLock()
	pairs := make([]*pairBucket, 0, len(s.buckets))
	for _, b := range s.buckets {
		pairs = append(pairs, b)
	}
	s.mu.RUnlock()

	st := Stats{Pairs: len(pairs)}
	for _, b := range pairs {
		b.mu.RLock()
		st.TotalObservations += len(b.prices)
		st.TotalVolumeObserved += len(b.volume)
		b.mu.RUnlock()
	}
	return st
}

func purgeOld(obs []Observation, now time.Time, maxAge time.Duration) []Observation {
	cutoff := now.Add(-maxAge)
	n := 0
	for _, o := range obs {
		if o.Timestamp.After(cutoff) {
			obs[n] = o
			n++
		}
	}
	return obs[:n]
}

func truncate(obs []Observation, maxSize int) []Observation {
	if len(obs) <= maxSize {
		return obs
	}
	drop := len(obs) - maxSize
	copy(obs, obs[drop:])
	return obs[:maxSize]
}

func sinceCopy(obs []Observation, window time.Duration) []Observation {
	var cutoff time.Time
	if window > 0 {
		cutoff = time.Now().Add(-window)
	}
	out := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if window <= 0 || o.Timestamp.After(cutoff) || o.Timestamp.Equal(cutoff) {
			out = append(out, o)
		}
	}
	return out
}
