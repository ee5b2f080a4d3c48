// Package collector implements the multi-source collector scheduler: a
// periodic fan-out across every configured (pair, source) pair, with
// per-request timeout, bounded retry with exponential backoff, and a
// worker pool bounding total in-flight requests.
package collector

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/priceagg/engine/pkg/logging"
	"github.com/priceagg/engine/pkg/metrics"
	"github.com/priceagg/engine/pkg/sources"
	"github.com/priceagg/engine/pkg/store"
)

// State is the scheduler's lifecycle state.
type State int

const (
	Stopped State = iota
	Running
	Stopping
)

// Config carries the scheduler's tunables.
type Config struct {
	CollectInterval time.Duration
	RequestTimeout  time.Duration
	RetryAttempts   int
	MaxInFlight     int64
	Pairs           []store.Pair
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{
		CollectInterval: 30 * time.Second,
		RequestTimeout:  10 * time.Second,
		RetryAttempts:   3,
		MaxInFlight:     64,
	}
}

// Scheduler drives a time.Ticker at Config.CollectInterval; each tick
// computes the full (pair, source) cross product and fans it out over a
// semaphore-bounded worker pool. It never holds the store's per-pair lock
// across a network wait: the lock is only taken for store.Insert, after
// Fetch has already returned.
type Scheduler struct {
	cfg     Config
	st      *store.Store
	sources []sources.PriceSource
	weights *sources.WeightTable
	logger  *logging.Logger

	mu    sync.Mutex
	state State

	cancel  context.CancelFunc
	stopped chan struct{}
}

// New builds a Scheduler over the given sources, writing into st. Each
// fetched observation's Weight is stamped from weights before insertion; a
// nil weights table is replaced by sources.NewWeightTable(nil), i.e. the
// built-in default weights, with sources.DefaultWeight for unlisted sources.
func New(st *store.Store, srcs []sources.PriceSource, weights *sources.WeightTable, cfg Config, logger *logging.Logger) *Scheduler {
	if cfg.CollectInterval <= 0 {
		cfg.CollectInterval = DefaultConfig().CollectInterval
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = DefaultConfig().MaxInFlight
	}
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	if weights == nil {
		weights = sources.NewWeightTable(nil)
	}
	return &Scheduler{cfg: cfg, st: st, sources: srcs, weights: weights, logger: logger, state: Stopped}
}

// Start transitions Stopped -> Running and begins the tick loop. It is a
// no-op if the scheduler is already running.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Stopped {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopped = make(chan struct{})
	s.state = Running

	go s.run(runCtx)
}

// Stop transitions Running -> Stopping -> Stopped, cancelling the tick
// context and waiting for in-flight requests to finish or hit their
// per-request timeout.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.state != Running {
		s.mu.Unlock()
		return
	}
	s.state = Stopping
	cancel := s.cancel
	stopped := s.stopped
	s.mu.Unlock()

	cancel()
	<-stopped

	s.mu.Lock()
	s.state = Stopped
	s.mu.Unlock()
}

// State returns the scheduler's current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.stopped)

	ticker := time.NewTicker(s.cfg.CollectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick fans out to every (pair, source) pair concurrently, bounded by a
// semaphore. A tick never overlaps the next: run calls tick synchronously,
// so a ticker fire that arrives meanwhile is only received after this call
// returns.
func (s *Scheduler) tick(ctx context.Context) {
	start := time.Now()
	defer func() { metrics.RecordTick(time.Since(start)) }()

	sem := semaphore.NewWeighted(s.cfg.MaxInFlight)
	var wg sync.WaitGroup

	for _, pair := range s.cfg.Pairs {
		for _, src := range s.sources {
			pair, src := pair, src
			if err := sem.Acquire(ctx, 1); err != nil {
				// Context cancelled mid-tick; stop fanning out further work.
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer sem.Release(1)
				s.fetchAndStore(ctx, pair, src)
			}()
		}
	}

	wg.Wait()
}

// fetchAndStore performs one (pair, source) request with bounded retry and
// exponential backoff, then inserts the result into the store. The store
// lock is only acquired inside store.Insert, never across the network call.
func (s *Scheduler) fetchAndStore(ctx context.Context, pair store.Pair, src sources.PriceSource) {
	obs, outcome := s.fetchWithRetry(ctx, pair, src)
	metrics.RecordCollectorRequest(string(src.Name()), outcome)

	if outcome != "success" {
		metrics.RecordSourceHealth(string(src.Name()), false)
		return
	}

	metrics.RecordSourceHealth(string(src.Name()), true)
	metrics.RecordObservation(string(src.Name()), string(pair))
	obs.Weight = s.weights.Weight(src.Name())
	s.st.Insert(pair, obs)
}

func (s *Scheduler) fetchWithRetry(ctx context.Context, pair store.Pair, src sources.PriceSource) (store.Observation, string) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.RetryAttempts; attempt++ {
		reqCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
		obs, err := src.Fetch(reqCtx, pair)
		cancel()

		if err == nil {
			return obs, "success"
		}
		lastErr = err

		if attempt == s.cfg.RetryAttempts {
			break
		}

		metrics.RecordCollectorRequest(string(src.Name()), "retry")

		backoff := time.Duration(1<<uint(attempt)) * time.Second
		select {
		case <-ctx.Done():
			s.logger.Warn("collector fetch cancelled during backoff", "source", src.Name(), "pair", pair)
			return store.Observation{}, "failure"
		case <-time.After(backoff):
		}
	}

	s.logger.Warn("collector fetch failed after retries", "source", src.Name(), "pair", pair, "error", lastErr)
	return store.Observation{}, "failure"
}
