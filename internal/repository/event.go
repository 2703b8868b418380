package repository

import (
	"context"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/event"
	"github.com/google/uuid"
)

type EventFilter struct {
	Status   model.Lifecycle
	Category event.Category
	// Search matches title or organizer, case-insensitively.
	Search string
	Page
}

type EventRepository interface {
	Create(ctx context.Context, e *event.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error)
	List(ctx context.Context, f EventFilter) ([]event.Event, int, error)
	Update(ctx context.Context, e *event.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
}
