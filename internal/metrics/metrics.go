package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealcraft_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mealcraft_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mealcraft_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	RateLimitRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mealcraft_rate_limit_rejects_total",
			Help: "Total number of requests rejected due to rate limiting",
		},
	)

	// Outbound provider metrics
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealcraft_provider_requests_total",
			Help: "Total number of outbound provider requests",
		},
		[]string{"provider", "operation", "outcome"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mealcraft_provider_request_duration_seconds",
			Help:    "Outbound provider request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)

	// Matching pipeline metrics
	CandidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealcraft_recipe_candidates_total",
			Help: "Candidate recipes seen by the matching pipeline, by outcome",
		},
		[]string{"outcome"}, // kept, filtered, truncated
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealcraft_cache_lookups_total",
			Help: "Cache lookups by result",
		},
		[]string{"result"}, // hit, miss, error
	)
)

// Outcome labels shared by the provider counters
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)
