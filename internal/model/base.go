// Package model holds the domain entities, their status machines and the
// request payloads the handlers bind into.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the identity and timestamps shared by every entity.
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewBase returns a Base with a fresh id and both timestamps set to now.
func NewBase(now time.Time) Base {
	now = now.UTC()
	return Base{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch bumps UpdatedAt.
func (b *Base) Touch(now time.Time) {
	b.UpdatedAt = now.UTC()
}

// Clock returns the current time. Services hold one so tests can pin it.
type Clock func() time.Time

// SystemClock is the default Clock.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// Key returns the entity id. Repositories use it to index entities
// generically.
func (b Base) Key() uuid.UUID {
	return b.ID
}
