// Package metrics exposes Prometheus instrumentation for ranking and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ranking Metrics
	RankDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fuzzyrank_rank_duration_seconds",
			Help:    "Duration of one ranking call in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"text"}, // "true" when the text axis was blended in
	)

	RankRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuzzyrank_rank_requests_total",
			Help: "Total number of ranking calls",
		},
		[]string{"text"},
	)

	ItemsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuzzyrank_items_dropped_total",
			Help: "Items removed before the final sort",
		},
		[]string{"reason"}, // "incomplete", "adult", "cutoff", "narrowed"
	)

	RankResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fuzzyrank_rank_results",
			Help:    "Number of rows returned per ranking call",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 500},
		},
	)

	SourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuzzyrank_source_errors_total",
			Help: "Failures while fetching items from the catalog source",
		},
		[]string{"source"},
	)

	// API Metrics
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuzzyrank_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveRank records one completed ranking call.
func ObserveRank(text bool, start time.Time, results int) {
	label := strconv.FormatBool(text)
	RankRequests.WithLabelValues(label).Inc()
	RankDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	RankResults.Observe(float64(results))
}

// Dropped adds n items to the dropped counter for reason. Zero is ignored.
func Dropped(reason string, n int) {
	if n > 0 {
		ItemsDropped.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordAPIRequest counts one handled request.
func RecordAPIRequest(method, route string, status int) {
	APIRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
