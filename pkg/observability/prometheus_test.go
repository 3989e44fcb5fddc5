package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusRecorderCountsByStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg)
	if err != nil {
		t.Fatalf("NewPrometheusRecorder: %v", err)
	}
	ctx := context.Background()

	rec.Observe(ctx, "add", true, 10*time.Millisecond)
	rec.Observe(ctx, "add", true, 5*time.Millisecond)
	rec.Observe(ctx, "add", false, time.Millisecond)

	if got := testutil.ToFloat64(rec.results.WithLabelValues("add", "success")); got != 2 {
		t.Fatalf("add success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.results.WithLabelValues("add", "error")); got != 1 {
		t.Fatalf("add error count = %v, want 1", got)
	}
}

func TestPrometheusRecorderIgnoresEmptyOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg)
	if err != nil {
		t.Fatalf("NewPrometheusRecorder: %v", err)
	}
	rec.Observe(context.Background(), "", true, time.Millisecond)
	if got := testutil.CollectAndCount(rec.results); got != 0 {
		t.Fatalf("counter series = %d, want 0", got)
	}
}

func TestPrometheusRecorderDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPrometheusRecorder(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPrometheusRecorder(reg); err == nil {
		t.Fatalf("second registration on the same registry succeeded")
	}
}
