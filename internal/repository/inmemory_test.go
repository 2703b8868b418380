package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/event"
	"github.com/deppfellow/campus-manager/internal/model/exam"
	"github.com/deppfellow/campus-manager/internal/model/hostel"
	"github.com/deppfellow/campus-manager/internal/model/payment"
	"github.com/deppfellow/campus-manager/internal/model/report"
	"github.com/deppfellow/campus-manager/internal/model/transport"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestMemoryEventRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEventRepository()

	for i, title := range []string{"Robotics Expo", "Chess Open", "Robotics Workshop"} {
		e := &event.Event{
			Base:      model.NewBase(now.Add(time.Duration(i) * time.Minute)),
			Title:     title,
			Category:  event.CategoryAcademic,
			Organizer: "Science Club",
			Capacity:  10,
			Status:    model.LifecyclePlanned,
		}
		if i == 1 {
			e.Category = event.CategorySports
		}
		require.NoError(t, repo.Create(ctx, e))
	}

	items, total, err := repo.List(ctx, EventFilter{Search: "robotics"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Robotics Expo", items[0].Title)

	items, total, err = repo.List(ctx, EventFilter{Category: event.CategorySports})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Chess Open", items[0].Title)

	items, total, err = repo.List(ctx, EventFilter{Page: Page{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Chess Open", items[0].Title)

	// Returned values are copies.
	got, err := repo.GetByID(ctx, items[0].ID)
	require.NoError(t, err)
	got.Participants = append(got.Participants, "S-1")
	again, err := repo.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Participants)

	require.NoError(t, repo.Update(ctx, got))
	again, err = repo.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"S-1"}, again.Participants)

	require.NoError(t, repo.Delete(ctx, got.ID))
	_, err = repo.GetByID(ctx, got.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, got.ID), ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, got), ErrNotFound)
}

func TestMemoryExamRepository_Results(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryExamRepository()

	e := &exam.Exam{Base: model.NewBase(now), CourseCode: "CS101", MaxMarks: 100, PassMarks: 40}
	require.NoError(t, repo.Create(ctx, e))

	first := &exam.ExamResult{Base: model.NewBase(now), ExamID: e.ID, StudentID: "S-2", Marks: 30}
	require.NoError(t, repo.UpsertResult(ctx, first))
	require.NoError(t, repo.UpsertResult(ctx, &exam.ExamResult{Base: model.NewBase(now), ExamID: e.ID, StudentID: "S-1", Marks: 75}))

	redo := &exam.ExamResult{Base: model.NewBase(now.Add(time.Hour)), ExamID: e.ID, StudentID: "S-2", Marks: 55}
	require.NoError(t, repo.UpsertResult(ctx, redo))
	assert.Equal(t, first.ID, redo.ID)
	assert.Equal(t, first.CreatedAt, redo.CreatedAt)

	results, err := repo.ListResults(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "S-1", results[0].StudentID)
	assert.Equal(t, 55.0, results[1].Marks)

	err = repo.UpsertResult(ctx, &exam.ExamResult{Base: model.NewBase(now), ExamID: uuid.New(), StudentID: "S-1"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Delete(ctx, e.ID))
	results, err = repo.ListResults(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, results)

	items, total, err := repo.List(ctx, ExamFilter{CourseCode: "cs101"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func newRoom(block, number string, capacity int) *hostel.Room {
	return &hostel.Room{
		Base:     model.NewBase(now),
		Block:    block,
		Number:   number,
		RoomType: hostel.RoomTypeDouble,
		Capacity: capacity,
		Status:   hostel.RoomStatusAvailable,
	}
}

func newAllocation(roomID uuid.UUID, student string) *hostel.Allocation {
	return &hostel.Allocation{
		Base:      model.NewBase(now),
		RoomID:    roomID,
		StudentID: student,
		StartsOn:  now,
		Status:    hostel.AllocationActive,
	}
}

func TestMemoryHostelRepository_AllocateAndVacate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryHostelRepository()

	room := newRoom("A", "101", 2)
	require.NoError(t, repo.CreateRoom(ctx, room))
	assert.ErrorIs(t, repo.CreateRoom(ctx, newRoom("a", "101", 1)), ErrConflict)

	first := newAllocation(room.ID, "S-1")
	updated, err := repo.Allocate(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Occupied)
	assert.Equal(t, hostel.RoomStatusAvailable, updated.Status)

	_, err = repo.Allocate(ctx, newAllocation(room.ID, "S-1"))
	assert.ErrorIs(t, err, ErrConflict, "one active allocation per student")

	updated, err = repo.Allocate(ctx, newAllocation(room.ID, "S-2"))
	require.NoError(t, err)
	assert.Equal(t, hostel.RoomStatusFull, updated.Status)

	_, err = repo.Allocate(ctx, newAllocation(room.ID, "S-3"))
	assert.ErrorIs(t, err, ErrConflict, "room is full")

	leftOn := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	at := leftOn.Add(10 * time.Hour)
	vacated, err := repo.Vacate(ctx, first.ID, leftOn, at)
	require.NoError(t, err)
	assert.Equal(t, hostel.AllocationVacated, vacated.Status)
	require.NotNil(t, vacated.EndsOn)
	assert.Equal(t, leftOn, *vacated.EndsOn)
	assert.Equal(t, at, vacated.UpdatedAt)

	_, err = repo.Vacate(ctx, first.ID, leftOn, now)
	assert.ErrorIs(t, err, ErrConflict)

	got, err := repo.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Occupied)
	assert.Equal(t, hostel.RoomStatusAvailable, got.Status)

	active, total, err := repo.ListAllocations(ctx, AllocationFilter{Status: hostel.AllocationActive})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "S-2", active[0].StudentID)

	// Stale occupancy is rejected.
	got.Occupied = 0
	assert.ErrorIs(t, repo.UpdateRoom(ctx, got), ErrConflict)

	require.NoError(t, repo.DeleteRoom(ctx, room.ID))
	_, total, err = repo.ListAllocations(ctx, AllocationFilter{RoomID: &room.ID})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestMemoryHostelRepository_MaintenanceBlocksAllocation(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryHostelRepository()

	room := newRoom("B", "201", 3)
	room.Status = hostel.RoomStatusMaintenance
	require.NoError(t, repo.CreateRoom(ctx, room))

	_, err := repo.Allocate(ctx, newAllocation(room.ID, "S-1"))
	assert.ErrorIs(t, err, ErrConflict)

	_, err = repo.Allocate(ctx, newAllocation(uuid.New(), "S-1"))
	assert.ErrorIs(t, err, ErrNotFound)

	rooms, _, err := repo.ListRooms(ctx, RoomFilter{AvailableOnly: true})
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestMemoryPaymentRepository_GuardedUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPaymentRepository()

	p := &payment.Payment{Base: model.NewBase(now), StudentID: "S-1", Status: payment.StatusPending}
	require.NoError(t, repo.Create(ctx, p))

	p.Status = payment.StatusCompleted
	require.NoError(t, repo.Update(ctx, p, payment.StatusPending))

	p.Status = payment.StatusFailed
	assert.ErrorIs(t, repo.Update(ctx, p, payment.StatusPending), ErrConflict)

	items, total, err := repo.List(ctx, PaymentFilter{StudentID: "S-1", Status: payment.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, p.ID, items[0].ID)
}

func TestMemoryTransportRepository_Drivers(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTransportRepository()

	bus := &transport.Vehicle{Base: model.NewBase(now), RegistrationNumber: "KA-01-1234", Capacity: 40, Status: transport.VehicleActive}
	require.NoError(t, repo.CreateVehicle(ctx, bus))
	dup := *bus
	dup.ID = uuid.New()
	dup.RegistrationNumber = "ka-01-1234"
	assert.ErrorIs(t, repo.CreateVehicle(ctx, &dup), ErrConflict)

	alice := &transport.Driver{Base: model.NewBase(now), Name: "Alice", LicenseNumber: "DL-1", Status: transport.DriverAvailable}
	bob := &transport.Driver{Base: model.NewBase(now), Name: "Bob", LicenseNumber: "DL-2", Status: transport.DriverAvailable}
	require.NoError(t, repo.CreateDriver(ctx, alice))
	require.NoError(t, repo.CreateDriver(ctx, bob))

	v, err := repo.AssignDriver(ctx, bus.ID, alice.ID, now)
	require.NoError(t, err)
	require.NotNil(t, v.DriverID)
	assert.Equal(t, alice.ID, *v.DriverID)

	v, err = repo.AssignDriver(ctx, bus.ID, bob.ID, now)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, *v.DriverID)

	a, err := repo.GetDriver(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, transport.DriverAvailable, a.Status)

	other := &transport.Vehicle{Base: model.NewBase(now), RegistrationNumber: "KA-01-9999", Capacity: 20, Status: transport.VehicleActive}
	require.NoError(t, repo.CreateVehicle(ctx, other))
	_, err = repo.AssignDriver(ctx, other.ID, bob.ID, now)
	assert.ErrorIs(t, err, ErrConflict, "bob is already assigned")

	v, err = repo.UnassignDriver(ctx, bus.ID, now)
	require.NoError(t, err)
	assert.Nil(t, v.DriverID)
	b, err := repo.GetDriver(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, transport.DriverAvailable, b.Status)
}

func TestMemoryTransportRepository_TripOverlap(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTransportRepository()

	bus := &transport.Vehicle{Base: model.NewBase(now), RegistrationNumber: "BUS-1", Capacity: 40, Status: transport.VehicleActive}
	route := &transport.Route{Base: model.NewBase(now), Name: "Loop", Stops: []string{"Gate", "Library"}, DistanceKM: 3}
	require.NoError(t, repo.CreateVehicle(ctx, bus))
	require.NoError(t, repo.CreateRoute(ctx, route))

	trip := func(start time.Time) *transport.Trip {
		return &transport.Trip{
			Base:      model.NewBase(now),
			RouteID:   route.ID,
			VehicleID: bus.ID,
			DepartsAt: start,
			ArrivesAt: start.Add(45 * time.Minute),
			Status:    model.LifecycleScheduled,
		}
	}

	first := trip(now)
	require.NoError(t, repo.CreateTrip(ctx, first))
	assert.ErrorIs(t, repo.CreateTrip(ctx, trip(now.Add(30*time.Minute))), ErrConflict)
	require.NoError(t, repo.CreateTrip(ctx, trip(now.Add(45*time.Minute))))

	cancelled := *first
	cancelled.Status = model.LifecycleCancelled
	require.NoError(t, repo.UpdateTripStatus(ctx, &cancelled, model.LifecycleScheduled))
	assert.ErrorIs(t, repo.UpdateTripStatus(ctx, &cancelled, model.LifecycleScheduled), ErrConflict)
	require.NoError(t, repo.CreateTrip(ctx, trip(now.Add(-15*time.Minute))))

	pending, total, err := repo.ListTrips(ctx, TripFilter{VehicleID: &bus.ID, PendingOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.True(t, pending[0].DepartsAt.Before(pending[1].DepartsAt))

	require.NoError(t, repo.DeleteRoute(ctx, route.ID))
	_, total, err = repo.ListTrips(ctx, TripFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestMemoryReportRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReportRepository()

	for i := range 3 {
		require.NoError(t, repo.Create(ctx, &report.Report{
			Base:       model.NewBase(now.Add(time.Duration(i) * time.Minute)),
			ReportType: report.TypeHostelOccupancy,
			Title:      fmt.Sprintf("r%d", i),
			Status:     report.StatusPending,
		}))
	}

	items, total, err := repo.List(ctx, ReportFilter{Page: Page{Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, "r2", items[0].Title)
	assert.Equal(t, "r1", items[1].Title)
}

func TestWrapErr(t *testing.T) {
	assert.Nil(t, wrapErr(tableEvents, nil))

	err := wrapErr(tableEvents, pgx.ErrNoRows)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "table:events:")

	unique := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "uq_vehicles__registration_number"}
	err = wrapErr(tableVehicles, unique)
	assert.ErrorIs(t, err, ErrConflict)
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))

	check := &pgconn.PgError{Code: "23514"}
	err = wrapErr(tableRooms, check)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.True(t, errors.As(err, &pgErr))
}

func TestApplyPage(t *testing.T) {
	items := []int{1, 2, 3}
	assert.Equal(t, []int{1, 2, 3}, applyPage(items, Page{}))
	assert.Equal(t, []int{2}, applyPage(items, Page{Limit: 1, Offset: 1}))
	assert.Equal(t, []int{}, applyPage(items, Page{Offset: 5}))
	assert.Equal(t, []int{}, applyPage(items, Page{Offset: -20, Limit: 20}))
}
