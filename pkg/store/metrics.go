package store

import (
	"context"
	"time"
)

// MetricsRecorder observes store operation outcomes. Implementations must be
// safe for use from the store's owning goroutine and must not block.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// NoopMetrics discards all observations. It is the default recorder.
type NoopMetrics struct{}

// Observe implements MetricsRecorder.
func (NoopMetrics) Observe(context.Context, string, bool, time.Duration) {}

// Clock abstracts time for operation timing.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }
