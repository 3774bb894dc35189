// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	AggregateCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregate_cache_hits_total",
			Help: "Aggregate cache hits by slot and tier",
		},
		[]string{"slot", "tier"},
	)

	AggregateCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregate_cache_misses_total",
			Help: "Aggregate cache misses by slot",
		},
		[]string{"slot"},
	)

	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aggregation_duration_seconds",
			Help:    "Time spent rebuilding an aggregate list",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"slot"},
	)

	DatasetRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataset_records",
			Help: "Records loaded per dataset source",
		},
		[]string{"source"},
	)

	DatasetLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_load_errors_total",
			Help: "Failed dataset loads per source",
		},
		[]string{"source"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordCacheHit(slot, tier string) {
	AggregateCacheHits.WithLabelValues(slot, tier).Inc()
}

func RecordCacheMiss(slot string) {
	AggregateCacheMisses.WithLabelValues(slot).Inc()
}

func RecordAggregation(slot string, duration time.Duration) {
	AggregationDuration.WithLabelValues(slot).Observe(duration.Seconds())
}

func RecordDatasetLoad(source string, records int, err error) {
	if err != nil {
		DatasetLoadErrors.WithLabelValues(source).Inc()
		return
	}
	DatasetRecords.WithLabelValues(source).Set(float64(records))
}
