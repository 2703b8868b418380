package service

import (
	"context"
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/hostel"
	"github.com/deppfellow/campus-manager/internal/repository"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	entityRoom       = "Room"
	entityAllocation = "Allocation"
)

// HostelService manages rooms and allocations. Occupancy changes are
// atomic inside the repository; the service only checks preconditions and
// explains refusals.
type HostelService struct {
	repo   repository.HostelRepository
	logger zerolog.Logger
	now    model.Clock
}

func NewHostelService(s *server.Server, repo repository.HostelRepository) *HostelService {
	return &HostelService{
		repo:   repo,
		logger: componentLogger(s, "hostel_service"),
		now:    model.SystemClock,
	}
}

func (s *HostelService) CreateRoom(ctx context.Context, p *hostel.CreateRoomPayload) (*hostel.Room, error) {
	r := &hostel.Room{
		Base:       model.NewBase(s.now()),
		Block:      p.Block,
		Number:     p.Number,
		RoomType:   p.RoomType,
		Capacity:   p.Capacity,
		MonthlyFee: p.MonthlyFee,
		Status:     hostel.RoomStatusAvailable,
	}

	if err := s.repo.CreateRoom(ctx, r); err != nil {
		return nil, repoErr(err, entityRoom, conflict("ROOM_ALREADY_EXISTS", "Room "+r.Label()+" already exists"))
	}

	s.logger.Info().Str("room_id", r.ID.String()).Str("room", r.Label()).Msg("room created")
	return r, nil
}

func (s *HostelService) GetRoom(ctx context.Context, id uuid.UUID) (*hostel.Room, error) {
	r, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return nil, repoErr(err, entityRoom, nil)
	}
	return r, nil
}

func (s *HostelService) ListRooms(ctx context.Context, q *hostel.GetRoomsQuery) (model.PaginatedResponse[hostel.Room], error) {
	items, total, err := s.repo.ListRooms(ctx, repository.RoomFilter{
		Status:        q.Status,
		Block:         q.Block,
		AvailableOnly: q.AvailableOnly,
		Page:          pageOf(q.PageQuery),
	})
	if err != nil {
		return model.PaginatedResponse[hostel.Room]{}, err
	}
	return model.NewPage(items, q.PageQuery, total), nil
}

// UpdateRoom never lets capacity drop below the current occupancy.
func (s *HostelService) UpdateRoom(ctx context.Context, p *hostel.UpdateRoomPayload) (*hostel.Room, error) {
	r, err := s.GetRoom(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	if p.RoomType != nil {
		r.RoomType = *p.RoomType
	}
	if p.MonthlyFee != nil {
		r.MonthlyFee = *p.MonthlyFee
	}
	if p.Capacity != nil {
		if *p.Capacity < r.Occupied {
			return nil, conflict("CAPACITY_BELOW_OCCUPANCY", "Capacity cannot drop below the current occupancy")
		}
		r.Capacity = *p.Capacity
	}

	r.RefreshStatus()
	r.Touch(s.now())
	if err := s.repo.UpdateRoom(ctx, r); err != nil {
		return nil, repoErr(err, entityRoom, conflict("ROOM_CHANGED", "Room occupancy changed, retry the update"))
	}
	return r, nil
}

// SetMaintenance takes an empty room out of service, or puts a room back.
func (s *HostelService) SetMaintenance(ctx context.Context, p *hostel.SetMaintenancePayload) (*hostel.Room, error) {
	r, err := s.GetRoom(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	if p.On {
		if r.Occupied > 0 {
			return nil, conflict("ROOM_OCCUPIED", "An occupied room cannot go into maintenance")
		}
		r.Status = hostel.RoomStatusMaintenance
	} else {
		if r.Status != hostel.RoomStatusMaintenance {
			return r, nil
		}
		r.Status = hostel.RoomStatusAvailable
		r.RefreshStatus()
	}

	r.Touch(s.now())
	if err := s.repo.UpdateRoom(ctx, r); err != nil {
		return nil, repoErr(err, entityRoom, conflict("ROOM_OCCUPIED", "Room was allocated meanwhile"))
	}

	s.logger.Info().Str("room_id", r.ID.String()).Bool("maintenance", p.On).Msg("room maintenance changed")
	return r, nil
}

func (s *HostelService) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	r, err := s.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	if r.Occupied > 0 {
		return conflict("ROOM_OCCUPIED", "Only empty rooms can be deleted")
	}
	return repoErr(s.repo.DeleteRoom(ctx, id), entityRoom, nil)
}

// AllocateRoom places a student in a room. The student may hold only one
// active allocation.
func (s *HostelService) AllocateRoom(ctx context.Context, p *hostel.AllocateRoomPayload) (*hostel.Allocation, error) {
	r, err := s.GetRoom(ctx, p.RoomID)
	if err != nil {
		return nil, err
	}
	switch {
	case r.Status == hostel.RoomStatusMaintenance:
		return nil, conflict("ROOM_IN_MAINTENANCE", "Room is under maintenance")
	case r.Status == hostel.RoomStatusFull || r.Vacancies() == 0:
		return nil, conflict("ROOM_FULL", "Room is full")
	}

	active, _, err := s.repo.ListAllocations(ctx, repository.AllocationFilter{
		StudentID: p.StudentID,
		Status:    hostel.AllocationActive,
		Page:      repository.Page{Limit: 1},
	})
	if err != nil {
		return nil, err
	}
	if len(active) > 0 {
		return nil, conflict("STUDENT_ALREADY_ALLOCATED", "Student already holds an active allocation")
	}

	now := s.now()
	startsOn := dateOnly(now)
	if p.StartsOn != nil {
		startsOn = dateOnly(*p.StartsOn)
	}

	a := &hostel.Allocation{
		Base:      model.NewBase(now),
		RoomID:    r.ID,
		StudentID: p.StudentID,
		StartsOn:  startsOn,
		Status:    hostel.AllocationActive,
	}

	room, err := s.repo.Allocate(ctx, a)
	if err != nil {
		// Lost a race for the last bed or a second allocation slipped in.
		return nil, repoErr(err, entityRoom, conflict("ALLOCATION_REJECTED", "Room is no longer available or the student is already allocated"))
	}

	s.logger.Info().
		Str("allocation_id", a.ID.String()).
		Str("room", room.Label()).
		Str("student_id", a.StudentID).
		Int("occupied", room.Occupied).
		Msg("room allocated")
	return a, nil
}

func (s *HostelService) VacateAllocation(ctx context.Context, id uuid.UUID) (*hostel.Allocation, error) {
	now := s.now()
	a, err := s.repo.Vacate(ctx, id, dateOnly(now), now)
	if err != nil {
		return nil, repoErr(err, entityAllocation, conflict("ALLOCATION_NOT_ACTIVE", "Allocation was already vacated"))
	}

	s.logger.Info().Str("allocation_id", a.ID.String()).Str("student_id", a.StudentID).Msg("allocation vacated")
	return a, nil
}

func (s *HostelService) GetAllocation(ctx context.Context, id uuid.UUID) (*hostel.Allocation, error) {
	a, err := s.repo.GetAllocation(ctx, id)
	if err != nil {
		return nil, repoErr(err, entityAllocation, nil)
	}
	return a, nil
}

func (s *HostelService) ListAllocations(ctx context.Context, q *hostel.GetAllocationsQuery) (model.PaginatedResponse[hostel.Allocation], error) {
	f := repository.AllocationFilter{
		StudentID: q.StudentID,
		Status:    q.Status,
		Page:      pageOf(q.PageQuery),
	}
	if q.RoomID != "" {
		roomID, err := uuid.Parse(q.RoomID)
		if err != nil {
			return model.PaginatedResponse[hostel.Allocation]{}, badRequest("INVALID_ROOM_ID", "room_id must be a valid UUID")
		}
		f.RoomID = &roomID
	}

	items, total, err := s.repo.ListAllocations(ctx, f)
	if err != nil {
		return model.PaginatedResponse[hostel.Allocation]{}, err
	}
	return model.NewPage(items, q.PageQuery, total), nil
}

func (s *HostelService) OccupancySummary(ctx context.Context) (*hostel.OccupancySummary, error) {
	rooms, _, err := s.repo.ListRooms(ctx, repository.RoomFilter{})
	if err != nil {
		return nil, err
	}
	summary := hostel.Summarize(rooms)
	return &summary, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
