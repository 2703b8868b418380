package service

import (
	"context"
	"testing"
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/transport"
	"github.com/deppfellow/campus-manager/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transportFixture struct {
	svc   *TransportService
	route *transport.Route
}

func newTestTransportService(t *testing.T) *transportFixture {
	t.Helper()
	svc := NewTransportService(nil, repository.NewMemoryTransportRepository())
	svc.now = fixedClock
	svc.Scheduler.now = fixedClock

	route, err := svc.CreateRoute(context.Background(), &transport.CreateRoutePayload{
		Name:       "North Loop",
		Stops:      []string{"Main Gate", "Library", "Hostels"},
		DistanceKM: 6.5,
	})
	require.NoError(t, err)
	return &transportFixture{svc: svc, route: route}
}

func (f *transportFixture) driver(t *testing.T, name string, expiry time.Time) *transport.Driver {
	t.Helper()
	d, err := f.svc.CreateDriver(context.Background(), &transport.CreateDriverPayload{
		Name:          name,
		LicenseNumber: "LIC-" + name,
		LicenseExpiry: expiry,
	})
	require.NoError(t, err)
	return d
}

// readyVehicle returns an active vehicle with a driver assigned.
func (f *transportFixture) readyVehicle(t *testing.T, reg string) *transport.Vehicle {
	t.Helper()
	ctx := context.Background()
	v, err := f.svc.CreateVehicle(ctx, &transport.CreateVehiclePayload{RegistrationNumber: reg, Model: "Coaster", Capacity: 30})
	require.NoError(t, err)

	d := f.driver(t, "driver-"+reg, testNow.AddDate(1, 0, 0))
	v, err = f.svc.AssignDriver(ctx, &transport.AssignDriverPayload{ID: v.ID, DriverID: d.ID})
	require.NoError(t, err)
	return v
}

func (f *transportFixture) schedule(t *testing.T, vehicleID uuid.UUID, departs time.Time, d time.Duration) (*transport.Trip, error) {
	t.Helper()
	return f.svc.ScheduleTrip(context.Background(), &transport.ScheduleTripPayload{
		RouteID:   f.route.ID,
		VehicleID: vehicleID,
		DepartsAt: departs,
		ArrivesAt: departs.Add(d),
	})
}

func TestTransportService_AssignDriver(t *testing.T) {
	f := newTestTransportService(t)
	ctx := context.Background()

	v, err := f.svc.CreateVehicle(ctx, &transport.CreateVehiclePayload{RegistrationNumber: "BUS-1", Model: "Coaster", Capacity: 30})
	require.NoError(t, err)
	_, err = f.svc.CreateVehicle(ctx, &transport.CreateVehiclePayload{RegistrationNumber: "BUS-1", Model: "Coaster", Capacity: 30})
	requireCode(t, err, "VEHICLE_ALREADY_EXISTS")

	expired := f.driver(t, "old", testNow.AddDate(0, 0, -1))
	_, err = f.svc.AssignDriver(ctx, &transport.AssignDriverPayload{ID: v.ID, DriverID: expired.ID})
	requireCode(t, err, "LICENSE_EXPIRED")

	d := f.driver(t, "kim", testNow.AddDate(2, 0, 0))
	v, err = f.svc.AssignDriver(ctx, &transport.AssignDriverPayload{ID: v.ID, DriverID: d.ID})
	require.NoError(t, err)
	require.NotNil(t, v.DriverID)
	assert.Equal(t, d.ID, *v.DriverID)

	assigned, err := f.svc.GetDriver(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, transport.DriverAssigned, assigned.Status)
	requireCode(t, f.svc.DeleteDriver(ctx, d.ID), "DRIVER_ASSIGNED")

	other, err := f.svc.CreateVehicle(ctx, &transport.CreateVehiclePayload{RegistrationNumber: "BUS-2", Model: "Coaster", Capacity: 30})
	require.NoError(t, err)
	_, err = f.svc.AssignDriver(ctx, &transport.AssignDriverPayload{ID: other.ID, DriverID: d.ID})
	requireCode(t, err, "DRIVER_NOT_AVAILABLE")

	v, err = f.svc.UnassignDriver(ctx, v.ID)
	require.NoError(t, err)
	assert.Nil(t, v.DriverID)

	freed, err := f.svc.GetDriver(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, transport.DriverAvailable, freed.Status)
	require.NoError(t, f.svc.DeleteDriver(ctx, d.ID))
}

func TestTransportService_ScheduleTripRejectsOverlap(t *testing.T) {
	f := newTestTransportService(t)
	ctx := context.Background()
	v := f.readyVehicle(t, "BUS-1")
	departs := testNow.Add(24 * time.Hour)

	trip, err := f.schedule(t, v.ID, departs, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, model.LifecycleScheduled, trip.Status)

	_, err = f.schedule(t, v.ID, departs.Add(30*time.Minute), time.Hour)
	requireCode(t, err, "TRIP_OVERLAP")

	// Back to back is fine: windows are half-open.
	_, err = f.schedule(t, v.ID, departs.Add(time.Hour), time.Hour)
	require.NoError(t, err)

	// A cancelled trip frees its window.
	_, err = f.svc.CancelTrip(ctx, trip.ID)
	require.NoError(t, err)
	_, err = f.schedule(t, v.ID, departs.Add(15*time.Minute), 30*time.Minute)
	require.NoError(t, err)
}

func TestTransportService_ScheduleTripNeedsRunnableVehicle(t *testing.T) {
	f := newTestTransportService(t)
	ctx := context.Background()

	v, err := f.svc.CreateVehicle(ctx, &transport.CreateVehiclePayload{RegistrationNumber: "BUS-9", Model: "Coaster", Capacity: 30})
	require.NoError(t, err)

	_, err = f.schedule(t, v.ID, testNow.Add(time.Hour), time.Hour)
	requireCode(t, err, "VEHICLE_NOT_READY")

	_, err = f.schedule(t, uuid.New(), testNow.Add(time.Hour), time.Hour)
	requireCode(t, err, "VEHICLE_NOT_FOUND")
}

func TestTransportService_TripTransitions(t *testing.T) {
	f := newTestTransportService(t)
	ctx := context.Background()
	v := f.readyVehicle(t, "BUS-1")

	trip, err := f.schedule(t, v.ID, testNow.Add(time.Hour), time.Hour)
	require.NoError(t, err)

	trip, err = f.svc.TransitionTrip(ctx, &transport.TransitionTripPayload{ID: trip.ID})
	require.NoError(t, err)
	assert.Equal(t, model.LifecycleInProgress, trip.Status)

	_, err = f.svc.CancelTrip(ctx, trip.ID)
	requireCode(t, err, "INVALID_STATUS_TRANSITION")

	trip, err = f.svc.TransitionTrip(ctx, &transport.TransitionTripPayload{ID: trip.ID})
	require.NoError(t, err)
	assert.Equal(t, model.LifecycleCompleted, trip.Status)

	_, err = f.svc.TransitionTrip(ctx, &transport.TransitionTripPayload{ID: trip.ID})
	requireCode(t, err, "INVALID_STATUS_TRANSITION")
}

func TestTransportService_PendingTripsBlockDeletes(t *testing.T) {
	f := newTestTransportService(t)
	ctx := context.Background()
	v := f.readyVehicle(t, "BUS-1")

	trip, err := f.schedule(t, v.ID, testNow.Add(time.Hour), time.Hour)
	require.NoError(t, err)

	requireCode(t, f.svc.DeleteVehicle(ctx, v.ID), "VEHICLE_HAS_TRIPS")
	requireCode(t, f.svc.DeleteRoute(ctx, f.route.ID), "ROUTE_HAS_TRIPS")
	_, err = f.svc.SetVehicleStatus(ctx, &transport.SetVehicleStatusPayload{ID: v.ID, Status: transport.VehicleRetired})
	requireCode(t, err, "VEHICLE_HAS_TRIPS")

	_, err = f.svc.CancelTrip(ctx, trip.ID)
	require.NoError(t, err)

	retired, err := f.svc.SetVehicleStatus(ctx, &transport.SetVehicleStatusPayload{ID: v.ID, Status: transport.VehicleRetired})
	require.NoError(t, err)
	assert.Equal(t, transport.VehicleRetired, retired.Status)
	assert.Nil(t, retired.DriverID)

	require.NoError(t, f.svc.DeleteVehicle(ctx, v.ID))
	require.NoError(t, f.svc.DeleteRoute(ctx, f.route.ID))
}

func TestTransportService_SetVehicleStatus(t *testing.T) {
	f := newTestTransportService(t)
	ctx := context.Background()
	v := f.readyVehicle(t, "BUS-1")
	require.NotNil(t, v.DriverID)
	driverID := *v.DriverID

	t.Run("maintenance round trip keeps the driver", func(t *testing.T) {
		got, err := f.svc.SetVehicleStatus(ctx, &transport.SetVehicleStatusPayload{ID: v.ID, Status: transport.VehicleMaintenance})
		require.NoError(t, err)
		assert.Equal(t, transport.VehicleMaintenance, got.Status)
		require.NotNil(t, got.DriverID)

		_, err = f.schedule(t, v.ID, testNow.Add(time.Hour), time.Hour)
		requireCode(t, err, "VEHICLE_NOT_READY")

		got, err = f.svc.SetVehicleStatus(ctx, &transport.SetVehicleStatusPayload{ID: v.ID, Status: transport.VehicleActive})
		require.NoError(t, err)
		assert.Equal(t, transport.VehicleActive, got.Status)
		assert.Equal(t, driverID, *got.DriverID)
	})

	t.Run("pending trips block retirement", func(t *testing.T) {
		trip, err := f.schedule(t, v.ID, testNow.Add(2*time.Hour), time.Hour)
		require.NoError(t, err)

		_, err = f.svc.SetVehicleStatus(ctx, &transport.SetVehicleStatusPayload{ID: v.ID, Status: transport.VehicleRetired})
		requireCode(t, err, "VEHICLE_HAS_TRIPS")

		stored, err := f.svc.GetVehicle(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, transport.VehicleActive, stored.Status)
		d, err := f.svc.GetDriver(ctx, driverID)
		require.NoError(t, err)
		assert.Equal(t, transport.DriverAssigned, d.Status)

		_, err = f.svc.CancelTrip(ctx, trip.ID)
		require.NoError(t, err)
	})

	t.Run("retiring releases the driver", func(t *testing.T) {
		got, err := f.svc.SetVehicleStatus(ctx, &transport.SetVehicleStatusPayload{ID: v.ID, Status: transport.VehicleRetired})
		require.NoError(t, err)
		assert.Equal(t, transport.VehicleRetired, got.Status)
		assert.Nil(t, got.DriverID)

		d, err := f.svc.GetDriver(ctx, driverID)
		require.NoError(t, err)
		assert.Equal(t, transport.DriverAvailable, d.Status)
	})
}

func TestTransportService_ListTripsByDate(t *testing.T) {
	f := newTestTransportService(t)
	ctx := context.Background()
	v := f.readyVehicle(t, "BUS-1")

	day := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	_, err := f.schedule(t, v.ID, day, time.Hour)
	require.NoError(t, err)
	_, err = f.schedule(t, v.ID, day.AddDate(0, 0, 1), time.Hour)
	require.NoError(t, err)

	page, err := f.svc.ListTrips(ctx, &transport.GetTripsQuery{Date: "2026-03-10"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	page, err = f.svc.ListTrips(ctx, &transport.GetTripsQuery{VehicleID: v.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	_, err = f.svc.ListTrips(ctx, &transport.GetTripsQuery{RouteID: "nope"})
	requireCode(t, err, "INVALID_ROUTE_ID")
}

func TestBusRouteScheduler_RoundRobin(t *testing.T) {
	f := newTestTransportService(t)
	ctx := context.Background()
	v1 := f.readyVehicle(t, "BUS-1")
	v2 := f.readyVehicle(t, "BUS-2")

	s, err := f.svc.GenerateSchedule(ctx, &transport.GenerateSchedulePayload{
		RouteID:         f.route.ID,
		VehicleIDs:      []uuid.UUID{v1.ID, v2.ID},
		ServiceTimes:    []string{"07:00", "08:00", "09:00"},
		TripDurationMin: 45,
		Date:            "2026-03-10",
	})
	require.NoError(t, err)
	require.Len(t, s.Trips, 3)
	assert.Empty(t, s.Skipped)

	assert.Equal(t, v1.ID, s.Trips[0].VehicleID)
	assert.Equal(t, v2.ID, s.Trips[1].VehicleID)
	assert.Equal(t, v1.ID, s.Trips[2].VehicleID)
	assert.Equal(t, time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), s.Trips[1].DepartsAt)
	assert.Equal(t, time.Date(2026, 3, 10, 8, 45, 0, 0, time.UTC), s.Trips[1].ArrivesAt)
}

func TestBusRouteScheduler_FallsBackAndSkips(t *testing.T) {
	f := newTestTransportService(t)
	ctx := context.Background()
	v1 := f.readyVehicle(t, "BUS-1")
	v2 := f.readyVehicle(t, "BUS-2")

	// v1 is busy all morning.
	_, err := f.schedule(t, v1.ID, time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC), 4*time.Hour)
	require.NoError(t, err)

	s, err := f.svc.GenerateSchedule(ctx, &transport.GenerateSchedulePayload{
		RouteID:         f.route.ID,
		VehicleIDs:      []uuid.UUID{v1.ID, v2.ID},
		ServiceTimes:    []string{"07:00", "07:30"},
		TripDurationMin: 60,
		Date:            "2026-03-10",
	})
	require.NoError(t, err)

	// 07:00 falls back to v2; 07:30 overlaps both.
	require.Len(t, s.Trips, 1)
	assert.Equal(t, v2.ID, s.Trips[0].VehicleID)
	require.Len(t, s.Skipped, 1)
	assert.Equal(t, time.Date(2026, 3, 10, 7, 30, 0, 0, time.UTC), s.Skipped[0].DepartsAt)

	clashes, err := f.svc.Scheduler.Conflicts(ctx, v2.ID, transport.Window{
		Start: time.Date(2026, 3, 10, 7, 59, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Len(t, clashes, 1)
}

func TestBusRouteScheduler_RejectsUnreadyVehicle(t *testing.T) {
	f := newTestTransportService(t)
	ctx := context.Background()

	idle, err := f.svc.CreateVehicle(ctx, &transport.CreateVehiclePayload{RegistrationNumber: "BUS-7", Model: "Coaster", Capacity: 30})
	require.NoError(t, err)

	_, err = f.svc.GenerateSchedule(ctx, &transport.GenerateSchedulePayload{
		RouteID:         f.route.ID,
		VehicleIDs:      []uuid.UUID{idle.ID},
		ServiceTimes:    []string{"07:00"},
		TripDurationMin: 30,
		Date:            "2026-03-10",
	})
	requireCode(t, err, "VEHICLE_NOT_READY")
}
