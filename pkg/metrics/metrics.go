// Package metrics provides Prometheus metrics for the price aggregation
// engine and collector scheduler.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ObservationsProcessedTotal counts observations accepted into the store.
	ObservationsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "observations_processed_total",
			Help: "Total number of observations inserted into the store",
		},
		[]string{"source", "pair"},
	)

	// OutliersDetectedTotal counts observations rejected by a filter.
	OutliersDetectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outliers_detected_total",
			Help: "Total number of observations rejected as outliers",
		},
		[]string{"pair", "filter"},
	)

	// AggregationDuration times each aggregation algorithm invocation.
	AggregationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aggregation_duration_seconds",
			Help:    "Duration of price aggregation operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"algorithm"},
	)

	// AggregationsTotal counts aggregation attempts and their outcome.
	AggregationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregations_total",
			Help: "Total number of aggregation calculations performed",
		},
		[]string{"algorithm", "outcome"},
	)

	// SourceHealth is a gauge of the health status of price sources.
	SourceHealth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "source_health",
			Help: "Health status of price sources (1=healthy, 0=unhealthy)",
		},
		[]string{"source"},
	)

	// SourceLastUpdate is a gauge of the last update timestamp from sources.
	SourceLastUpdate = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "source_last_update_timestamp",
			Help: "Unix timestamp of last successful update from a source",
		},
		[]string{"source"},
	)

	// CollectorTickDuration times a full scheduler tick (all pairs x sources).
	CollectorTickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "collector_tick_duration_seconds",
			Help:    "Duration of a full collector tick",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CollectorRequestsTotal counts per-(pair,source) fetch outcomes.
	CollectorRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_requests_total",
			Help: "Total number of collector fetch attempts by outcome",
		},
		[]string{"source", "outcome"}, // outcome: success|retry|failure
	)
)

// Init registers all metrics with the default Prometheus registry.
func Init() {
	prometheus.MustRegister(
		ObservationsProcessedTotal,
		OutliersDetectedTotal,
		AggregationDuration,
		AggregationsTotal,
		SourceHealth,
		SourceLastUpdate,
		CollectorTickDuration,
		CollectorRequestsTotal,
	)
}

// ServeHTTP serves Prometheus metrics on the specified address.
func ServeHTTP(addr, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server.ListenAndServe()
}

// RecordObservation records an observation accepted into the store.
func RecordObservation(source, pair string) {
	ObservationsProcessedTotal.WithLabelValues(source, pair).Inc()
}

// RecordOutlier records count observations rejected by a named filter.
func RecordOutlier(pair, filter string, count int) {
	OutliersDetectedTotal.WithLabelValues(pair, filter).Add(float64(count))
}

// RecordAggregation records an aggregation attempt and its duration.
func RecordAggregation(algorithm, outcome string, duration time.Duration) {
	AggregationDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	AggregationsTotal.WithLabelValues(algorithm, outcome).Inc()
}

// RecordSourceHealth records the health status of a source.
func RecordSourceHealth(source string, healthy bool) {
	val := 0.0
	if healthy {
		val = 1.0
	}
	SourceHealth.WithLabelValues(source).Set(val)
	SourceLastUpdate.WithLabelValues(source).SetToCurrentTime()
}

// RecordCollectorRequest records the outcome of a single (pair, source) fetch.
func RecordCollectorRequest(source, outcome string) {
	CollectorRequestsTotal.WithLabelValues(source, outcome).Inc()
}

// RecordTick records the wall-clock duration of a full collector tick.
func RecordTick(duration time.Duration) {
	CollectorTickDuration.Observe(duration.Seconds())
}
