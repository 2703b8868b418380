package repository

import (
	"context"
	"time"

	"github.com/deppfellow/campus-manager/internal/model/hostel"
	"github.com/google/uuid"
)

type RoomFilter struct {
	Status hostel.RoomStatus
	Block  string
	// AvailableOnly keeps rooms with at least one free bed that are not
	// under maintenance.
	AvailableOnly bool
	Page
}

type AllocationFilter struct {
	RoomID    *uuid.UUID
	StudentID string
	Status    hostel.AllocationStatus
	Page
}

type HostelRepository interface {
	CreateRoom(ctx context.Context, r *hostel.Room) error
	GetRoom(ctx context.Context, id uuid.UUID) (*hostel.Room, error)
	ListRooms(ctx context.Context, f RoomFilter) ([]hostel.Room, int, error)
	UpdateRoom(ctx context.Context, r *hostel.Room) error
	// DeleteRoom removes the room and its allocation history.
	DeleteRoom(ctx context.Context, id uuid.UUID) error

	// Allocate stores a and takes one bed of its room atomically, returning
	// the updated room. It fails with ErrConflict when the room is not
	// AVAILABLE or the student already holds an ACTIVE allocation.
	Allocate(ctx context.Context, a *hostel.Allocation) (*hostel.Room, error)
	// Vacate ends an ACTIVE allocation on the date endsOn and frees its
	// bed; at stamps updated_at. Vacating twice fails with ErrConflict.
	Vacate(ctx context.Context, id uuid.UUID, endsOn, at time.Time) (*hostel.Allocation, error)
	GetAllocation(ctx context.Context, id uuid.UUID) (*hostel.Allocation, error)
	ListAllocations(ctx context.Context, f AllocationFilter) ([]hostel.Allocation, int, error)
}
