package store

// Logger receives structured key-value events from the store. The façade
// reports through this seam only; in particular, autosave failures during
// teardown are logged here and never propagated.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoopLogger discards all events. It is the default when no logger is
// configured.
type NoopLogger struct{}

// Debug implements Logger.
func (NoopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NoopLogger) Info(string, ...any) {}

// Warn implements Logger.
func (NoopLogger) Warn(string, ...any) {}

// Error implements Logger.
func (NoopLogger) Error(string, ...any) {}
