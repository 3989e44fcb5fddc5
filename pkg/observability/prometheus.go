package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tinystore/pkg/store"
)

// PrometheusRecorder exposes store operation metrics as a Prometheus
// histogram (seconds, by operation) and a counter (by operation and status).
type PrometheusRecorder struct {
	durations *prometheus.HistogramVec
	results   *prometheus.CounterVec
}

var _ store.MetricsRecorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder constructs a recorder and registers its collectors
// with reg. A nil registerer falls back to the process default registry.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	rec := &PrometheusRecorder{
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tinystore_operation_duration_seconds",
			Help:    "Duration of store operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tinystore_operations_total",
			Help: "Count of store operations by outcome.",
		}, []string{"operation", "status"}),
	}
	if err := reg.Register(rec.durations); err != nil {
		return nil, err
	}
	if err := reg.Register(rec.results); err != nil {
		return nil, err
	}
	return rec, nil
}

// Observe records a store operation outcome.
func (r *PrometheusRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
	r.results.WithLabelValues(operation, status).Inc()
}
