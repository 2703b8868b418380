package service

import (
	"context"
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/transport"
	"github.com/deppfellow/campus-manager/internal/repository"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	entityVehicle = "Vehicle"
	entityDriver  = "Driver"
	entityRoute   = "Route"
	entityTrip    = "Trip"
)

type TransportService struct {
	repo      repository.TransportRepository
	Scheduler *BusRouteScheduler
	logger    zerolog.Logger
	now       model.Clock
}

func NewTransportService(s *server.Server, repo repository.TransportRepository) *TransportService {
	return &TransportService{
		repo:      repo,
		Scheduler: NewBusRouteScheduler(s, repo),
		logger:    componentLogger(s, "transport_service"),
		now:       model.SystemClock,
	}
}

// ------------------------------------------------------------ vehicles

func (s *TransportService) CreateVehicle(ctx context.Context, p *transport.CreateVehiclePayload) (*transport.Vehicle, error) {
	v := &transport.Vehicle{
		Base:               model.NewBase(s.now()),
		RegistrationNumber: p.RegistrationNumber,
		Model:              p.Model,
		Capacity:           p.Capacity,
		Status:             transport.VehicleActive,
	}

	if err := s.repo.CreateVehicle(ctx, v); err != nil {
		return nil, repoErr(err, entityVehicle, conflict("VEHICLE_ALREADY_EXISTS", "A vehicle with this registration number already exists"))
	}

	s.logger.Info().Str("vehicle_id", v.ID.String()).Str("registration", v.RegistrationNumber).Msg("vehicle created")
	return v, nil
}

func (s *TransportService) GetVehicle(ctx context.Context, id uuid.UUID) (*transport.Vehicle, error) {
	v, err := s.repo.GetVehicle(ctx, id)
	if err != nil {
		return nil, repoErr(err, entityVehicle, nil)
	}
	return v, nil
}

func (s *TransportService) ListVehicles(ctx context.Context, q *transport.GetVehiclesQuery) (model.PaginatedResponse[transport.Vehicle], error) {
	items, total, err := s.repo.ListVehicles(ctx, repository.VehicleFilter{Status: q.Status, Page: pageOf(q.PageQuery)})
	if err != nil {
		return model.PaginatedResponse[transport.Vehicle]{}, err
	}
	return model.NewPage(items, q.PageQuery, total), nil
}

func (s *TransportService) UpdateVehicle(ctx context.Context, p *transport.UpdateVehiclePayload) (*transport.Vehicle, error) {
	v, err := s.GetVehicle(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if p.Model != nil {
		v.Model = *p.Model
	}
	if p.Capacity != nil {
		v.Capacity = *p.Capacity
	}

	v.Touch(s.now())
	if err := s.repo.UpdateVehicle(ctx, v); err != nil {
		return nil, repoErr(err, entityVehicle, nil)
	}
	return v, nil
}

// SetVehicleStatus changes the service status. Retiring a vehicle needs
// it to have no pending trips and releases its driver.
func (s *TransportService) SetVehicleStatus(ctx context.Context, p *transport.SetVehicleStatusPayload) (*transport.Vehicle, error) {
	v, err := s.GetVehicle(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if v.Status == p.Status {
		return v, nil
	}

	if p.Status == transport.VehicleRetired {
		if err := s.ensureNoPendingTrips(ctx, repository.TripFilter{VehicleID: &v.ID}, "VEHICLE_HAS_TRIPS", "Vehicle still has pending trips"); err != nil {
			return nil, err
		}
		if v.DriverID != nil {
			if v, err = s.repo.UnassignDriver(ctx, v.ID, s.now()); err != nil {
				return nil, repoErr(err, entityVehicle, nil)
			}
		}
	}

	v.Status = p.Status
	v.Touch(s.now())
	if err := s.repo.UpdateVehicle(ctx, v); err != nil {
		return nil, repoErr(err, entityVehicle, nil)
	}

	s.logger.Info().Str("vehicle_id", v.ID.String()).Str("status", string(v.Status)).Msg("vehicle status changed")
	return v, nil
}

// AssignDriver puts an available driver with a valid licence on an
// active vehicle. A previous driver becomes available again.
func (s *TransportService) AssignDriver(ctx context.Context, p *transport.AssignDriverPayload) (*transport.Vehicle, error) {
	v, err := s.GetVehicle(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	d, err := s.GetDriver(ctx, p.DriverID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	switch {
	case v.Status != transport.VehicleActive:
		return nil, conflict("VEHICLE_NOT_ACTIVE", "Drivers can only be assigned to active vehicles")
	case v.DriverID != nil && *v.DriverID == d.ID:
		return v, nil
	case d.Status != transport.DriverAvailable:
		return nil, conflict("DRIVER_NOT_AVAILABLE", "Driver is not available")
	case !d.LicenseValidAt(now):
		return nil, conflict("LICENSE_EXPIRED", "Driver's licence has expired")
	}

	v, err = s.repo.AssignDriver(ctx, v.ID, d.ID, now)
	if err != nil {
		return nil, repoErr(err, entityVehicle, conflict("DRIVER_NOT_AVAILABLE", "Driver was assigned elsewhere meanwhile"))
	}

	s.logger.Info().Str("vehicle_id", v.ID.String()).Str("driver_id", d.ID.String()).Msg("driver assigned")
	return v, nil
}

func (s *TransportService) UnassignDriver(ctx context.Context, vehicleID uuid.UUID) (*transport.Vehicle, error) {
	v, err := s.repo.UnassignDriver(ctx, vehicleID, s.now())
	if err != nil {
		return nil, repoErr(err, entityVehicle, nil)
	}
	return v, nil
}

func (s *TransportService) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetVehicle(ctx, id); err != nil {
		return err
	}
	if err := s.ensureNoPendingTrips(ctx, repository.TripFilter{VehicleID: &id}, "VEHICLE_HAS_TRIPS", "Vehicle still has pending trips"); err != nil {
		return err
	}
	return repoErr(s.repo.DeleteVehicle(ctx, id), entityVehicle, nil)
}

// ------------------------------------------------------------ drivers

func (s *TransportService) CreateDriver(ctx context.Context, p *transport.CreateDriverPayload) (*transport.Driver, error) {
	d := &transport.Driver{
		Base:          model.NewBase(s.now()),
		Name:          p.Name,
		LicenseNumber: p.LicenseNumber,
		LicenseExpiry: p.LicenseExpiry.UTC(),
		Phone:         p.Phone,
		Status:        transport.DriverAvailable,
	}

	if err := s.repo.CreateDriver(ctx, d); err != nil {
		return nil, repoErr(err, entityDriver, conflict("DRIVER_ALREADY_EXISTS", "A driver with this licence number already exists"))
	}
	return d, nil
}

func (s *TransportService) GetDriver(ctx context.Context, id uuid.UUID) (*transport.Driver, error) {
	d, err := s.repo.GetDriver(ctx, id)
	if err != nil {
		return nil, repoErr(err, entityDriver, nil)
	}
	return d, nil
}

func (s *TransportService) ListDrivers(ctx context.Context, q *transport.GetDriversQuery) (model.PaginatedResponse[transport.Driver], error) {
	items, total, err := s.repo.ListDrivers(ctx, repository.DriverFilter{Status: q.Status, Page: pageOf(q.PageQuery)})
	if err != nil {
		return model.PaginatedResponse[transport.Driver]{}, err
	}
	return model.NewPage(items, q.PageQuery, total), nil
}

// UpdateDriver edits a driver. Status moves only between AVAILABLE and
// OFF_DUTY; ASSIGNED is owned by AssignDriver.
func (s *TransportService) UpdateDriver(ctx context.Context, p *transport.UpdateDriverPayload) (*transport.Driver, error) {
	d, err := s.GetDriver(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.LicenseExpiry != nil {
		d.LicenseExpiry = p.LicenseExpiry.UTC()
	}
	if p.Phone != nil {
		d.Phone = *p.Phone
	}
	if p.Status != nil && *p.Status != d.Status {
		if d.Status == transport.DriverAssigned {
			return nil, conflict("DRIVER_ASSIGNED", "Unassign the driver from the vehicle first")
		}
		d.Status = *p.Status
	}

	d.Touch(s.now())
	if err := s.repo.UpdateDriver(ctx, d); err != nil {
		return nil, repoErr(err, entityDriver, nil)
	}
	return d, nil
}

func (s *TransportService) DeleteDriver(ctx context.Context, id uuid.UUID) error {
	d, err := s.GetDriver(ctx, id)
	if err != nil {
		return err
	}
	if d.Status == transport.DriverAssigned {
		return conflict("DRIVER_ASSIGNED", "An assigned driver cannot be deleted")
	}
	return repoErr(s.repo.DeleteDriver(ctx, id), entityDriver, nil)
}

// ------------------------------------------------------------ routes

func (s *TransportService) CreateRoute(ctx context.Context, p *transport.CreateRoutePayload) (*transport.Route, error) {
	r := &transport.Route{
		Base:       model.NewBase(s.now()),
		Name:       p.Name,
		Stops:      p.Stops,
		DistanceKM: p.DistanceKM,
	}

	if err := s.repo.CreateRoute(ctx, r); err != nil {
		return nil, repoErr(err, entityRoute, nil)
	}
	return r, nil
}

func (s *TransportService) GetRoute(ctx context.Context, id uuid.UUID) (*transport.Route, error) {
	r, err := s.repo.GetRoute(ctx, id)
	if err != nil {
		return nil, repoErr(err, entityRoute, nil)
	}
	return r, nil
}

func (s *TransportService) ListRoutes(ctx context.Context, q model.PageQuery) (model.PaginatedResponse[transport.Route], error) {
	items, total, err := s.repo.ListRoutes(ctx, repository.RouteFilter{Page: pageOf(q)})
	if err != nil {
		return model.PaginatedResponse[transport.Route]{}, err
	}
	return model.NewPage(items, q, total), nil
}

func (s *TransportService) UpdateRoute(ctx context.Context, p *transport.UpdateRoutePayload) (*transport.Route, error) {
	r, err := s.GetRoute(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Stops != nil {
		r.Stops = p.Stops
	}
	if p.DistanceKM != nil {
		r.DistanceKM = *p.DistanceKM
	}

	r.Touch(s.now())
	if err := s.repo.UpdateRoute(ctx, r); err != nil {
		return nil, repoErr(err, entityRoute, nil)
	}
	return r, nil
}

func (s *TransportService) DeleteRoute(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetRoute(ctx, id); err != nil {
		return err
	}
	if err := s.ensureNoPendingTrips(ctx, repository.TripFilter{RouteID: &id}, "ROUTE_HAS_TRIPS", "Route still has pending trips"); err != nil {
		return err
	}
	return repoErr(s.repo.DeleteRoute(ctx, id), entityRoute, nil)
}

// ------------------------------------------------------------ trips

// ScheduleTrip books one trip. The vehicle must be able to run and be
// free for the whole window.
func (s *TransportService) ScheduleTrip(ctx context.Context, p *transport.ScheduleTripPayload) (*transport.Trip, error) {
	if _, err := s.GetRoute(ctx, p.RouteID); err != nil {
		return nil, err
	}
	v, err := s.GetVehicle(ctx, p.VehicleID)
	if err != nil {
		return nil, err
	}
	if !v.CanRun() {
		return nil, conflict("VEHICLE_NOT_READY", "Vehicle must be active and have a driver")
	}

	window := transport.Window{Start: p.DepartsAt.UTC(), End: p.ArrivesAt.UTC()}
	clashes, err := s.Scheduler.Conflicts(ctx, v.ID, window)
	if err != nil {
		return nil, err
	}
	if len(clashes) > 0 {
		return nil, conflict("TRIP_OVERLAP", "Vehicle already has a trip in this window")
	}

	t, err := s.Scheduler.createTrip(ctx, p.RouteID, v.ID, window)
	if err != nil {
		return nil, repoErr(err, entityTrip, conflict("TRIP_OVERLAP", "Vehicle already has a trip in this window"))
	}

	s.logger.Info().
		Str("trip_id", t.ID.String()).
		Str("vehicle_id", v.ID.String()).
		Time("departs_at", t.DepartsAt).
		Msg("trip scheduled")
	return t, nil
}

func (s *TransportService) GetTrip(ctx context.Context, id uuid.UUID) (*transport.Trip, error) {
	t, err := s.repo.GetTrip(ctx, id)
	if err != nil {
		return nil, repoErr(err, entityTrip, nil)
	}
	return t, nil
}

func (s *TransportService) ListTrips(ctx context.Context, q *transport.GetTripsQuery) (model.PaginatedResponse[transport.Trip], error) {
	f := repository.TripFilter{Status: q.Status, Page: pageOf(q.PageQuery)}

	if q.RouteID != "" {
		id, err := uuid.Parse(q.RouteID)
		if err != nil {
			return model.PaginatedResponse[transport.Trip]{}, badRequest("INVALID_ROUTE_ID", "route_id must be a valid UUID")
		}
		f.RouteID = &id
	}
	if q.VehicleID != "" {
		id, err := uuid.Parse(q.VehicleID)
		if err != nil {
			return model.PaginatedResponse[transport.Trip]{}, badRequest("INVALID_VEHICLE_ID", "vehicle_id must be a valid UUID")
		}
		f.VehicleID = &id
	}
	if q.Date != "" {
		day, err := time.ParseInLocation(dateLayout, q.Date, time.UTC)
		if err != nil {
			return model.PaginatedResponse[transport.Trip]{}, badRequest("INVALID_DATE", "date must be YYYY-MM-DD")
		}
		end := day.AddDate(0, 0, 1)
		f.DepartsFrom, f.DepartsBefore = &day, &end
	}

	items, total, err := s.repo.ListTrips(ctx, f)
	if err != nil {
		return model.PaginatedResponse[transport.Trip]{}, err
	}
	return model.NewPage(items, q.PageQuery, total), nil
}

// TransitionTrip moves a trip along SCHEDULED -> IN_PROGRESS -> COMPLETED,
// or cancels it. An empty status advances one step.
func (s *TransportService) TransitionTrip(ctx context.Context, p *transport.TransitionTripPayload) (*transport.Trip, error) {
	t, err := s.GetTrip(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	target, err := nextLifecycle(entityTrip, t.Status, p.Status)
	if err != nil {
		return nil, err
	}
	next, err := transport.TripTransitions.Move(t.Status, target)
	if err != nil {
		return nil, transitionErr(entityTrip, err)
	}

	from := t.Status
	t.Status = next
	t.Touch(s.now())
	if err := s.repo.UpdateTripStatus(ctx, t, from); err != nil {
		return nil, repoErr(err, entityTrip, conflict("TRIP_CHANGED", "Trip status was changed by another request"))
	}

	s.logger.Info().
		Str("trip_id", t.ID.String()).
		Str("from", string(from)).
		Str("to", string(next)).
		Msg("trip status changed")
	return t, nil
}

func (s *TransportService) CancelTrip(ctx context.Context, id uuid.UUID) (*transport.Trip, error) {
	return s.TransitionTrip(ctx, &transport.TransitionTripPayload{ID: id, Status: model.LifecycleCancelled})
}

func (s *TransportService) GenerateSchedule(ctx context.Context, p *transport.GenerateSchedulePayload) (*transport.Schedule, error) {
	return s.Scheduler.GenerateSchedule(ctx, p)
}

func (s *TransportService) ensureNoPendingTrips(ctx context.Context, f repository.TripFilter, code, message string) error {
	f.PendingOnly = true
	f.Page = repository.Page{Limit: 1}

	_, total, err := s.repo.ListTrips(ctx, f)
	if err != nil {
		return err
	}
	if total > 0 {
		return conflict(code, message)
	}
	return nil
}
