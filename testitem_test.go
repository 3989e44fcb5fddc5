package tinystore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"tinystore/pkg/store"
)

// user is the canonical test item: two fields, both covered by equality,
// hash, and the binary encoding.
type user struct {
	ID   int
	Name string
}

func (u user) Equal(other user) bool { return u == other }

func (u user) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(u.ID))
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte(u.Name))
	return h.Sum64()
}

func (u user) Clone() user { return u }

func (u user) MarshalBinary() ([]byte, error) {
	out := make([]byte, 8, 8+len(u.Name))
	binary.BigEndian.PutUint64(out, uint64(u.ID))
	return append(out, u.Name...), nil
}

func (u *user) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("user payload too short: %d bytes", len(data))
	}
	u.ID = int(binary.BigEndian.Uint64(data[:8]))
	u.Name = string(data[8:])
	return nil
}

// collider hashes every value to the same bucket, forcing the equality path
// to resolve collisions.
type collider struct {
	V int
}

func (c collider) Equal(other collider) bool { return c == other }
func (collider) Hash() uint64 { return 42 }
func (c collider) Clone() collider { return c }

func (c collider) MarshalBinary() ([]byte, error) {
	var out [8]byte
	binary.BigEndian.PutUint64(out[:], uint64(c.V))
	return out[:], nil
}
func (c *collider) UnmarshalBinary(data []byte) error {
	if len(data) != 8 {
		return fmt.Errorf("collider payload: %d bytes", len(data))
	}
	c.V = int(binary.BigEndian.Uint64(data))
	return nil
}

// captureLogger retains log events for assertions.
type captureLogger struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	level string
	msg   string
	args  []any
}

func (l *captureLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, capturedEvent{level: level, msg: msg, args: args})
}

func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args) }

func (l *captureLogger) find(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ev := range l.events {
		if ev.level == level && ev.msg == msg {
			return true
		}
	}
	return false
}

// failingBackend rejects every save, for exercising autosave error handling.
type failingBackend struct {
	saves int
}

func (b *failingBackend) Save(context.Context, store.Snapshot) error {
	b.saves++
	return errors.New("backend unavailable")
}

func (b *failingBackend) Load(context.Context) (store.Snapshot, bool, error) {
	return store.Snapshot{}, false, nil
}

func (b *failingBackend) Close() error { return nil }

// recordedObservation is one MetricsRecorder callback.
type recordedObservation struct {
	operation string
	success   bool
	duration  time.Duration
}

type captureMetrics struct {
	mu           sync.Mutex
	observations []recordedObservation
}

func (m *captureMetrics) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observations = append(m.observations, recordedObservation{operation, success, duration})
}

func (m *captureMetrics) byOperation(op string) []recordedObservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []recordedObservation
	for _, obs := range m.observations {
		if obs.operation == op {
			out = append(out, obs)
		}
	}
	return out
}
