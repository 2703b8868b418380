package repository

import (
	"context"
	"strings"
	"time"

	"github.com/deppfellow/campus-manager/internal/model/hostel"
	"github.com/google/uuid"
)

// MemoryHostelRepository locks rooms before allocations whenever it
// needs both.
type MemoryHostelRepository struct {
	rooms       *memoryStore[hostel.Room]
	allocations *memoryStore[hostel.Allocation]
}

func NewMemoryHostelRepository() *MemoryHostelRepository {
	return &MemoryHostelRepository{
		rooms:       newMemoryStore[hostel.Room](),
		allocations: newMemoryStore[hostel.Allocation](),
	}
}

func (r *MemoryHostelRepository) CreateRoom(ctx context.Context, room *hostel.Room) error {
	r.rooms.mu.Lock()
	defer r.rooms.mu.Unlock()

	if _, dup := r.rooms.find(func(o hostel.Room) bool {
		return strings.EqualFold(o.Block, room.Block) && strings.EqualFold(o.Number, room.Number)
	}); dup {
		return ErrConflict
	}
	r.rooms.put(*room)
	return nil
}

func (r *MemoryHostelRepository) GetRoom(ctx context.Context, id uuid.UUID) (*hostel.Room, error) {
	r.rooms.mu.RLock()
	defer r.rooms.mu.RUnlock()

	room, ok := r.rooms.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &room, nil
}

func (r *MemoryHostelRepository) ListRooms(ctx context.Context, f RoomFilter) ([]hostel.Room, int, error) {
	r.rooms.mu.RLock()
	defer r.rooms.mu.RUnlock()

	items, total := r.rooms.filter(func(room hostel.Room) bool {
		if f.Status != "" && room.Status != f.Status {
			return false
		}
		if f.Block != "" && !strings.EqualFold(room.Block, f.Block) {
			return false
		}
		if f.AvailableOnly && (room.Status != hostel.RoomStatusAvailable || room.Vacancies() == 0) {
			return false
		}
		return true
	}, f.Page)
	return items, total, nil
}

func (r *MemoryHostelRepository) UpdateRoom(ctx context.Context, room *hostel.Room) error {
	r.rooms.mu.Lock()
	defer r.rooms.mu.Unlock()

	current, ok := r.rooms.get(room.ID)
	if !ok {
		return ErrNotFound
	}
	if room.Occupied != current.Occupied {
		// Occupancy only moves through Allocate and Vacate.
		return ErrConflict
	}
	r.rooms.put(*room)
	return nil
}

func (r *MemoryHostelRepository) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	r.rooms.mu.Lock()
	defer r.rooms.mu.Unlock()
	r.allocations.mu.Lock()
	defer r.allocations.mu.Unlock()

	if !r.rooms.remove(id) {
		return ErrNotFound
	}
	history, _ := r.allocations.filter(func(a hostel.Allocation) bool { return a.RoomID == id }, Page{})
	for _, a := range history {
		r.allocations.remove(a.ID)
	}
	return nil
}

func (r *MemoryHostelRepository) Allocate(ctx context.Context, a *hostel.Allocation) (*hostel.Room, error) {
	r.rooms.mu.Lock()
	defer r.rooms.mu.Unlock()
	r.allocations.mu.Lock()
	defer r.allocations.mu.Unlock()

	room, ok := r.rooms.get(a.RoomID)
	if !ok {
		return nil, ErrNotFound
	}
	if room.Status != hostel.RoomStatusAvailable || room.Occupied >= room.Capacity {
		return nil, ErrConflict
	}
	if _, held := r.allocations.find(func(o hostel.Allocation) bool {
		return o.StudentID == a.StudentID && o.Status == hostel.AllocationActive
	}); held {
		return nil, ErrConflict
	}

	room.Occupied++
	room.UpdatedAt = a.CreatedAt
	room.RefreshStatus()
	r.rooms.put(room)
	r.allocations.put(*a)
	return &room, nil
}

func (r *MemoryHostelRepository) Vacate(ctx context.Context, id uuid.UUID, endsOn, at time.Time) (*hostel.Allocation, error) {
	r.rooms.mu.Lock()
	defer r.rooms.mu.Unlock()
	r.allocations.mu.Lock()
	defer r.allocations.mu.Unlock()

	a, ok := r.allocations.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if a.Status != hostel.AllocationActive {
		return nil, ErrConflict
	}

	a.Status = hostel.AllocationVacated
	a.EndsOn = &endsOn
	a.UpdatedAt = at
	r.allocations.put(a)

	if room, ok := r.rooms.get(a.RoomID); ok {
		room.Occupied = max(room.Occupied-1, 0)
		room.UpdatedAt = at
		room.RefreshStatus()
		r.rooms.put(room)
	}
	return &a, nil
}

func (r *MemoryHostelRepository) GetAllocation(ctx context.Context, id uuid.UUID) (*hostel.Allocation, error) {
	r.allocations.mu.RLock()
	defer r.allocations.mu.RUnlock()

	a, ok := r.allocations.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *MemoryHostelRepository) ListAllocations(ctx context.Context, f AllocationFilter) ([]hostel.Allocation, int, error) {
	r.allocations.mu.RLock()
	defer r.allocations.mu.RUnlock()

	items, total := r.allocations.filter(func(a hostel.Allocation) bool {
		if f.RoomID != nil && a.RoomID != *f.RoomID {
			return false
		}
		if f.StudentID != "" && a.StudentID != f.StudentID {
			return false
		}
		return f.Status == "" || a.Status == f.Status
	}, f.Page)
	return items, total, nil
}
