// Package metrics holds the Prometheus collectors shared by the seeding
// pipeline and the HTTP layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	seedBatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seed_batches_total",
			Help: "Total number of seed batches inserted, by entity and outcome",
		},
		[]string{"entity", "status"},
	)

	seedRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seed_rows_inserted_total",
			Help: "Total number of synthetic rows inserted",
		},
		[]string{"entity"},
	)

	seedBatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seed_batch_duration_seconds",
			Help:    "Duration of a single batch insert",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"entity"},
	)

	seedPhaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seed_phase_duration_seconds",
			Help:    "Duration of a seeding phase per region",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"region", "phase"},
	)

	analyticsQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_query_duration_seconds",
			Help:    "Duration of analytics sub-queries per region",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"region", "query"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(seedBatchesTotal)
	prometheus.MustRegister(seedRowsTotal)
	prometheus.MustRegister(seedBatchDuration)
	prometheus.MustRegister(seedPhaseDuration)
	prometheus.MustRegister(analyticsQueryDuration)
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordBatch tracks one batch insert. Failed batches count no rows.
func RecordBatch(entity string, rows int, duration time.Duration, err error) {
	if err != nil {
		seedBatchesTotal.WithLabelValues(entity, "error").Inc()
		return
	}
	seedBatchesTotal.WithLabelValues(entity, "ok").Inc()
	seedRowsTotal.WithLabelValues(entity).Add(float64(rows))
	seedBatchDuration.WithLabelValues(entity).Observe(duration.Seconds())
}

func RecordPhase(region, phase string, duration time.Duration) {
	seedPhaseDuration.WithLabelValues(region, phase).Observe(duration.Seconds())
}

func RecordAnalyticsQuery(region, query string, duration time.Duration) {
	analyticsQueryDuration.WithLabelValues(region, query).Observe(duration.Seconds())
}
