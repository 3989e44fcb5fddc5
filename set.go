package tinystore

import (
	"fmt"

	"tinystore/pkg/store"
)

// uniqueSet enforces at-most-one-copy-per-distinct-value semantics. Values
// hash into buckets by their full-value hash; equality within a bucket
// resolves collisions, so distinct values that happen to collide are never
// conflated and equal values are always treated as one.
type uniqueSet[T store.Item[T]] struct {
	buckets map[uint64][]T
	size    int
}

func newUniqueSet[T store.Item[T]]() *uniqueSet[T] {
	return &uniqueSet[T]{buckets: make(map[uint64][]T)}
}

// add inserts a clone of item, reporting false if an equal item exists.
func (s *uniqueSet[T]) add(item T) bool {
	h := item.Hash()
	for _, existing := range s.buckets[h] {
		if existing.Equal(item) {
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], item.Clone())
	s.size++
	return true
}

// remove deletes the item equal to the argument, reporting false if absent.
func (s *uniqueSet[T]) remove(item T) bool {
	h := item.Hash()
	bucket := s.buckets[h]
	for i, existing := range bucket {
		if !existing.Equal(item) {
			continue
		}
		last := len(bucket) - 1
		bucket[i] = bucket[last]
		var zero T
		bucket[last] = zero
		if last == 0 {
			delete(s.buckets, h)
		} else {
			s.buckets[h] = bucket[:last]
		}
		s.size--
		return true
	}
	return false
}

// contains reports whether an equal item is present, using the same
// hash-then-equality path as add.
func (s *uniqueSet[T]) contains(item T) bool {
	for _, existing := range s.buckets[item.Hash()] {
		if existing.Equal(item) {
			return true
		}
	}
	return false
}

func (s *uniqueSet[T]) len() int { return s.size }

// each visits every item in unspecified order until fn returns false.
// Callers must not retain the argument past the callback; hand out clones.
func (s *uniqueSet[T]) each(fn func(T) bool) {
	for h, bucket := range s.buckets {
		for _, item := range bucket {
			if item.Hash() != h {
				panic(fmt.Sprintf("tinystore: item hash changed after insert (bucket %d, got %d)", h, item.Hash()))
			}
			if !fn(item) {
				return
			}
		}
	}
}

// items returns clones of every item in unspecified order.
func (s *uniqueSet[T]) items() []T {
	out := make([]T, 0, s.size)
	s.each(func(item T) bool {
		out = append(out, item.Clone())
		return true
	})
	return out
}
