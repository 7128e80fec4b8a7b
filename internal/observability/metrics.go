// Package observability provides metrics and tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// AuthOutcomes counts identity extraction results by outcome
	// (authenticated, anonymous, invalid).
	AuthOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_auth_outcomes_total",
		Help: "Total identity extraction results by outcome",
	}, []string{"outcome"})

	// ImageCleanupFailures counts best-effort image deletions that failed.
	// Cleanup failures never fail the enclosing operation, so this counter is
	// the only place they surface besides the log.
	ImageCleanupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_image_cleanup_failures_total",
		Help: "Total number of failed best-effort image deletions",
	})
)
