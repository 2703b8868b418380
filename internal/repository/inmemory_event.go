package repository

import (
	"context"
	"slices"
	"strings"

	"github.com/deppfellow/campus-manager/internal/model/event"
	"github.com/google/uuid"
)

type MemoryEventRepository struct {
	store *memoryStore[event.Event]
}

func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{store: newMemoryStore[event.Event]()}
}

func cloneEvent(e event.Event) event.Event {
	e.Participants = slices.Clone(e.Participants)
	return e
}

func (r *MemoryEventRepository) Create(ctx context.Context, e *event.Event) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.get(e.ID); ok {
		return ErrConflict
	}
	r.store.put(cloneEvent(*e))
	return nil
}

func (r *MemoryEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	e = cloneEvent(e)
	return &e, nil
}

func (r *MemoryEventRepository) List(ctx context.Context, f EventFilter) ([]event.Event, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	search := strings.ToLower(f.Search)
	items, total := r.store.filter(func(e event.Event) bool {
		if f.Status != "" && e.Status != f.Status {
			return false
		}
		if f.Category != "" && e.Category != f.Category {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Title), search) &&
			!strings.Contains(strings.ToLower(e.Organizer), search) {
			return false
		}
		return true
	}, f.Page)

	out := make([]event.Event, len(items))
	for i, e := range items {
		out[i] = cloneEvent(e)
	}
	return out, total, nil
}

func (r *MemoryEventRepository) Update(ctx context.Context, e *event.Event) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.get(e.ID); !ok {
		return ErrNotFound
	}
	r.store.put(cloneEvent(*e))
	return nil
}

func (r *MemoryEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.remove(id) {
		return ErrNotFound
	}
	return nil
}
