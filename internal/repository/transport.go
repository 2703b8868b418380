package repository

import (
	"context"
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/transport"
	"github.com/google/uuid"
)

type VehicleFilter struct {
	Status transport.VehicleStatus
	Page
}

type DriverFilter struct {
	Status transport.DriverStatus
	Page
}

type RouteFilter struct {
	Page
}

type TripFilter struct {
	RouteID   *uuid.UUID
	VehicleID *uuid.UUID
	Status    model.Lifecycle
	// PendingOnly keeps SCHEDULED and IN_PROGRESS trips.
	PendingOnly bool
	// DepartsFrom and DepartsBefore bound departs_at as [from, before).
	DepartsFrom   *time.Time
	DepartsBefore *time.Time
	Page
}

type TransportRepository interface {
	CreateVehicle(ctx context.Context, v *transport.Vehicle) error
	GetVehicle(ctx context.Context, id uuid.UUID) (*transport.Vehicle, error)
	ListVehicles(ctx context.Context, f VehicleFilter) ([]transport.Vehicle, int, error)
	// UpdateVehicle writes model, capacity and status. The driver only
	// changes through AssignDriver and UnassignDriver.
	UpdateVehicle(ctx context.Context, v *transport.Vehicle) error
	// DeleteVehicle removes the vehicle with its trips and releases its driver.
	DeleteVehicle(ctx context.Context, id uuid.UUID) error

	CreateDriver(ctx context.Context, d *transport.Driver) error
	GetDriver(ctx context.Context, id uuid.UUID) (*transport.Driver, error)
	ListDrivers(ctx context.Context, f DriverFilter) ([]transport.Driver, int, error)
	UpdateDriver(ctx context.Context, d *transport.Driver) error
	DeleteDriver(ctx context.Context, id uuid.UUID) error

	// AssignDriver puts driverID on the vehicle and marks the driver
	// ASSIGNED. A driver previously on the vehicle becomes AVAILABLE.
	// It fails with ErrConflict unless the new driver is AVAILABLE.
	AssignDriver(ctx context.Context, vehicleID, driverID uuid.UUID, at time.Time) (*transport.Vehicle, error)
	UnassignDriver(ctx context.Context, vehicleID uuid.UUID, at time.Time) (*transport.Vehicle, error)

	CreateRoute(ctx context.Context, r *transport.Route) error
	GetRoute(ctx context.Context, id uuid.UUID) (*transport.Route, error)
	ListRoutes(ctx context.Context, f RouteFilter) ([]transport.Route, int, error)
	UpdateRoute(ctx context.Context, r *transport.Route) error
	// DeleteRoute removes the route with its trips.
	DeleteRoute(ctx context.Context, id uuid.UUID) error

	// CreateTrip stores t unless it overlaps a pending trip of the same
	// vehicle, in which case it returns ErrConflict.
	CreateTrip(ctx context.Context, t *transport.Trip) error
	GetTrip(ctx context.Context, id uuid.UUID) (*transport.Trip, error)
	ListTrips(ctx context.Context, f TripFilter) ([]transport.Trip, int, error)
	// UpdateTripStatus moves a trip from expected to t.Status.
	UpdateTripStatus(ctx context.Context, t *transport.Trip, expected model.Lifecycle) error
}
