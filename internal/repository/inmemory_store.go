package repository

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

type keyed interface {
	Key() uuid.UUID
}

// memoryStore keeps entities by id in insertion order.
// Values are copied in and out so callers never share state with the store.
type memoryStore[T keyed] struct {
	mu    sync.RWMutex
	items map[uuid.UUID]T
	order []uuid.UUID
}

func newMemoryStore[T keyed]() *memoryStore[T] {
	return &memoryStore[T]{items: make(map[uuid.UUID]T)}
}

// The unlocked helpers below expect the caller to hold mu.

func (s *memoryStore[T]) get(id uuid.UUID) (T, bool) {
	v, ok := s.items[id]
	return v, ok
}

func (s *memoryStore[T]) put(v T) {
	id := v.Key()
	if _, ok := s.items[id]; !ok {
		s.order = append(s.order, id)
	}
	s.items[id] = v
}

func (s *memoryStore[T]) remove(id uuid.UUID) bool {
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	s.order = slices.DeleteFunc(s.order, func(k uuid.UUID) bool { return k == id })
	return true
}

func (s *memoryStore[T]) find(match func(T) bool) (T, bool) {
	for _, id := range s.order {
		if v := s.items[id]; match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// filter returns the matching page and the total number of matches.
func (s *memoryStore[T]) filter(match func(T) bool, page Page) ([]T, int) {
	var out []T
	for _, id := range s.order {
		if v := s.items[id]; match == nil || match(v) {
			out = append(out, v)
		}
	}
	return applyPage(out, page), len(out)
}

func applyPage[T any](items []T, page Page) []T {
	if page.Offset < 0 || page.Offset >= len(items) {
		return []T{}
	}
	items = items[page.Offset:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}
