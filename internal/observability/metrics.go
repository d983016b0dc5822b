package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vybeecho_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vybeecho_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ConnectionTransitions counts connection protocol transitions by type and outcome.
	ConnectionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vybeecho_connection_transitions_total",
		Help: "Total connection protocol transitions by transition and outcome",
	}, []string{"transition", "outcome"})

	// EchoesPublished counts published echoes by category.
	EchoesPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vybeecho_echoes_published_total",
		Help: "Total echoes published by category",
	}, []string{"category"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordTransition increments the connection transition counter.
func RecordTransition(transition string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ConnectionTransitions.WithLabelValues(transition, outcome).Inc()
}
