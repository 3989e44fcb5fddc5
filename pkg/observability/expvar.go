// Package observability provides ready-made MetricsRecorder implementations:
// a process-local expvar recorder and a Prometheus recorder.
package observability

import (
	"context"
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tinystore/pkg/store"
)

var expvarSeq uint64

// opStats accumulates outcomes for a single operation.
type opStats struct {
	totalMS float64
	success int64
	failure int64
}

// ExpvarRecorder publishes aggregate timing and result counters via expvar.
// It fulfills store.MetricsRecorder for deployments that prefer process-local
// metrics without an external scrape target. Totals are kept in milliseconds
// per operation alongside success/error counters.
type ExpvarRecorder struct {
	name string
	mu   sync.Mutex
	ops  map[string]*opStats
}

var _ store.MetricsRecorder = (*ExpvarRecorder)(nil)

// ExpvarSnapshot captures a read-only view of the recorded metrics.
type ExpvarSnapshot struct {
	DurationsMS map[string]float64          `json:"durations_ms_total"`
	Results     map[string]map[string]int64 `json:"results_total"`
	RecordedAt  time.Time                   `json:"recorded_at"`
}

// NewExpvarRecorder constructs an expvar-backed recorder and publishes it
// under the supplied name. When name is empty, a unique identifier is
// generated.
func NewExpvarRecorder(name string) *ExpvarRecorder {
	if name == "" {
		name = fmt.Sprintf("tinystore_metrics_%d", atomic.AddUint64(&expvarSeq, 1))
	}
	rec := &ExpvarRecorder{name: name, ops: make(map[string]*opStats)}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name associated with the recorder.
func (r *ExpvarRecorder) Name() string {
	return r.name
}

// Snapshot returns an immutable copy of the aggregated metrics.
func (r *ExpvarRecorder) Snapshot() ExpvarSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := ExpvarSnapshot{
		DurationsMS: make(map[string]float64, len(r.ops)),
		Results:     make(map[string]map[string]int64, len(r.ops)),
		RecordedAt:  time.Now().UTC(),
	}
	for op, st := range r.ops {
		snap.DurationsMS[op] = st.totalMS
		counts := make(map[string]int64, 2)
		if st.success > 0 {
			counts["success"] = st.success
		}
		if st.failure > 0 {
			counts["error"] = st.failure
		}
		snap.Results[op] = counts
	}
	return snap
}

// Observe records a store operation outcome.
func (r *ExpvarRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.ops[operation]
	if st == nil {
		st = &opStats{}
		r.ops[operation] = st
	}
	st.totalMS += float64(duration) / float64(time.Millisecond)
	if success {
		st.success++
	} else {
		st.failure++
	}
}
