package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/transport"
	"github.com/deppfellow/campus-manager/internal/repository"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	dateLayout        = "2006-01-02"
	serviceTimeLayout = "15:04"
)

// BusRouteScheduler places trips on vehicles without double-booking them.
// It is owned by TransportService.
type BusRouteScheduler struct {
	repo   repository.TransportRepository
	logger zerolog.Logger
	now    model.Clock
}

func NewBusRouteScheduler(s *server.Server, repo repository.TransportRepository) *BusRouteScheduler {
	return &BusRouteScheduler{
		repo:   repo,
		logger: componentLogger(s, "bus_scheduler"),
		now:    model.SystemClock,
	}
}

// Conflicts returns the pending trips of vehicleID that overlap w.
func (b *BusRouteScheduler) Conflicts(ctx context.Context, vehicleID uuid.UUID, w transport.Window) ([]transport.Trip, error) {
	trips, _, err := b.repo.ListTrips(ctx, repository.TripFilter{
		VehicleID:     &vehicleID,
		PendingOnly:   true,
		DepartsBefore: &w.End,
	})
	if err != nil {
		return nil, err
	}

	var clashes []transport.Trip
	for _, t := range trips {
		if t.Window().Overlaps(w) {
			clashes = append(clashes, t)
		}
	}
	return clashes, nil
}

// GenerateSchedule creates one trip per service time on the given date.
// Service time i goes to vehicle i mod n; when that vehicle is busy the
// next vehicles in rotation are tried, and a slot nobody can take is
// reported as skipped.
func (b *BusRouteScheduler) GenerateSchedule(ctx context.Context, p *transport.GenerateSchedulePayload) (*transport.Schedule, error) {
	day, err := time.ParseInLocation(dateLayout, p.Date, time.UTC)
	if err != nil {
		return nil, badRequest("INVALID_DATE", "date must be YYYY-MM-DD")
	}

	if _, err := b.repo.GetRoute(ctx, p.RouteID); err != nil {
		return nil, repoErr(err, entityRoute, nil)
	}

	vehicles := make([]*transport.Vehicle, 0, len(p.VehicleIDs))
	for _, id := range p.VehicleIDs {
		v, err := b.repo.GetVehicle(ctx, id)
		if err != nil {
			return nil, repoErr(err, entityVehicle, nil)
		}
		if !v.CanRun() {
			return nil, conflict("VEHICLE_NOT_READY", fmt.Sprintf("Vehicle %s must be active and have a driver", v.RegistrationNumber))
		}
		vehicles = append(vehicles, v)
	}

	duration := time.Duration(p.TripDurationMin) * time.Minute
	schedule := &transport.Schedule{
		RouteID: p.RouteID,
		Date:    p.Date,
		Trips:   []transport.Trip{},
		Skipped: []transport.SkippedSlot{},
	}

	for i, raw := range p.ServiceTimes {
		clock, err := time.Parse(serviceTimeLayout, raw)
		if err != nil {
			return nil, badRequest("INVALID_SERVICE_TIME", fmt.Sprintf("service time %q must be HH:MM", raw))
		}
		departs := day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
		window := transport.Window{Start: departs, End: departs.Add(duration)}

		trip, err := b.place(ctx, p.RouteID, vehicles, i, window)
		if err != nil {
			return nil, err
		}
		if trip == nil {
			schedule.Skipped = append(schedule.Skipped, transport.SkippedSlot{
				DepartsAt: departs,
				Reason:    "every vehicle has an overlapping trip",
			})
			continue
		}
		schedule.Trips = append(schedule.Trips, *trip)
	}

	b.logger.Info().
		Str("route_id", p.RouteID.String()).
		Str("date", p.Date).
		Int("created", len(schedule.Trips)).
		Int("skipped", len(schedule.Skipped)).
		Msg("schedule generated")
	return schedule, nil
}

// place tries vehicles starting at slot mod n. It returns nil when every
// vehicle is busy.
func (b *BusRouteScheduler) place(ctx context.Context, routeID uuid.UUID, vehicles []*transport.Vehicle, slot int, w transport.Window) (*transport.Trip, error) {
	n := len(vehicles)
	for k := range n {
		v := vehicles[(slot+k)%n]

		clashes, err := b.Conflicts(ctx, v.ID, w)
		if err != nil {
			return nil, err
		}
		if len(clashes) > 0 {
			continue
		}

		trip, err := b.createTrip(ctx, routeID, v.ID, w)
		if errors.Is(err, repository.ErrConflict) {
			// Taken by a concurrent request since the check.
			continue
		}
		if err != nil {
			return nil, err
		}
		return trip, nil
	}
	return nil, nil
}

func (b *BusRouteScheduler) createTrip(ctx context.Context, routeID, vehicleID uuid.UUID, w transport.Window) (*transport.Trip, error) {
	t := &transport.Trip{
		Base:      model.NewBase(b.now()),
		RouteID:   routeID,
		VehicleID: vehicleID,
		DepartsAt: w.Start.UTC(),
		ArrivesAt: w.End.UTC(),
		Status:    model.LifecycleScheduled,
	}
	if err := b.repo.CreateTrip(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
