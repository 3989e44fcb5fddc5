package tinystore

import (
	"context"

	"tinystore/pkg/store"
)

// QueryBy scans the whole store and returns a clone of the first item whose
// projection equals want. The scan order is unspecified; with a projection
// that is not injective, which match wins is therefore unspecified too.
// Absence is an empty result, not an error.
func QueryBy[T store.Item[T], F comparable](s *Store[T], project func(T) F, want F) (T, bool) {
	return s.find("query", func(item T) bool { return project(item) == want })
}

// Find returns a clone of the first item satisfying pred.
func (s *Store[T]) Find(pred func(T) bool) (T, bool) {
	return s.find("find", pred)
}

func (s *Store[T]) find(op string, pred func(T) bool) (T, bool) {
	start := s.clock.Now()
	var (
		match T
		found bool
	)
	s.set.each(func(item T) bool {
		if pred(item) {
			match = item.Clone()
			found = true
			return false
		}
		return true
	})
	s.observe(context.Background(), op, start, nil)
	if !found {
		var zero T
		return zero, false
	}
	return match, true
}
