package repository

import (
	"context"
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/transport"
	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	tableVehicles = "vehicles"
	tableDrivers  = "drivers"
	tableRoutes   = "routes"
	tableTrips    = "trips"
)

type PostgresTransportRepository struct {
	pgStore
}

func NewPostgresTransportRepository(pool *pgxpool.Pool) *PostgresTransportRepository {
	return &PostgresTransportRepository{pgStore{pool: pool}}
}

// ------------------------------------------------------------ vehicles

func (r *PostgresTransportRepository) CreateVehicle(ctx context.Context, v *transport.Vehicle) error {
	_, err := exec(ctx, r.pool, insertInto(tableVehicles).Rows(goqu.Record{
		"id":                  v.ID,
		"registration_number": v.RegistrationNumber,
		"model":               v.Model,
		"capacity":            v.Capacity,
		"status":              v.Status,
		"driver_id":           nullable(v.DriverID),
		"created_at":          v.CreatedAt,
		"updated_at":          v.UpdatedAt,
	}))
	return wrapErr(tableVehicles, err)
}

func (r *PostgresTransportRepository) GetVehicle(ctx context.Context, id uuid.UUID) (*transport.Vehicle, error) {
	v, err := selectOne[transport.Vehicle](ctx, r.pool, from(tableVehicles).Where(byID(id)))
	return v, wrapErr(tableVehicles, err)
}

func (r *PostgresTransportRepository) ListVehicles(ctx context.Context, f VehicleFilter) ([]transport.Vehicle, int, error) {
	ds := from(tableVehicles).Order(goqu.C("registration_number").Asc())
	if f.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(f.Status))
	}
	items, total, err := selectPage[transport.Vehicle](ctx, r.pool, ds, f.Page)
	return items, total, wrapErr(tableVehicles, err)
}

func (r *PostgresTransportRepository) UpdateVehicle(ctx context.Context, v *transport.Vehicle) error {
	n, err := exec(ctx, r.pool, update(tableVehicles).
		Set(goqu.Record{
			"model":      v.Model,
			"capacity":   v.Capacity,
			"status":     v.Status,
			"updated_at": v.UpdatedAt,
		}).
		Where(byID(v.ID)))
	if err != nil {
		return wrapErr(tableVehicles, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresTransportRepository) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		deleted := deleteFrom(tableVehicles).Where(byID(id)).Returning(goqu.Star())
		v, err := selectOne[transport.Vehicle](ctx, tx, deleted)
		if err != nil {
			return wrapErr(tableVehicles, err)
		}
		if v.DriverID == nil {
			return nil
		}
		_, err = exec(ctx, tx, update(tableDrivers).
			Set(goqu.Record{"status": transport.DriverAvailable, "updated_at": time.Now().UTC()}).
			Where(byID(*v.DriverID)))
		return wrapErr(tableDrivers, err)
	})
}

// ------------------------------------------------------------ drivers

func (r *PostgresTransportRepository) CreateDriver(ctx context.Context, d *transport.Driver) error {
	_, err := exec(ctx, r.pool, insertInto(tableDrivers).Rows(goqu.Record{
		"id":             d.ID,
		"name":           d.Name,
		"license_number": d.LicenseNumber,
		"license_expiry": d.LicenseExpiry,
		"phone":          d.Phone,
		"status":         d.Status,
		"created_at":     d.CreatedAt,
		"updated_at":     d.UpdatedAt,
	}))
	return wrapErr(tableDrivers, err)
}

func (r *PostgresTransportRepository) GetDriver(ctx context.Context, id uuid.UUID) (*transport.Driver, error) {
	d, err := selectOne[transport.Driver](ctx, r.pool, from(tableDrivers).Where(byID(id)))
	return d, wrapErr(tableDrivers, err)
}

func (r *PostgresTransportRepository) ListDrivers(ctx context.Context, f DriverFilter) ([]transport.Driver, int, error) {
	ds := from(tableDrivers).Order(goqu.C("name").Asc())
	if f.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(f.Status))
	}
	items, total, err := selectPage[transport.Driver](ctx, r.pool, ds, f.Page)
	return items, total, wrapErr(tableDrivers, err)
}

func (r *PostgresTransportRepository) UpdateDriver(ctx context.Context, d *transport.Driver) error {
	n, err := exec(ctx, r.pool, update(tableDrivers).
		Set(goqu.Record{
			"name":           d.Name,
			"license_expiry": d.LicenseExpiry,
			"phone":          d.Phone,
			"status":         d.Status,
			"updated_at":     d.UpdatedAt,
		}).
		Where(byID(d.ID)))
	if err != nil {
		return wrapErr(tableDrivers, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresTransportRepository) DeleteDriver(ctx context.Context, id uuid.UUID) error {
	n, err := exec(ctx, r.pool, deleteFrom(tableDrivers).Where(byID(id)))
	if err != nil {
		return wrapErr(tableDrivers, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresTransportRepository) AssignDriver(ctx context.Context, vehicleID, driverID uuid.UUID, at time.Time) (*transport.Vehicle, error) {
	var vehicle *transport.Vehicle
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		current, err := selectOne[transport.Vehicle](ctx, tx, from(tableVehicles).Where(byID(vehicleID)).ForUpdate(goqu.Wait))
		if err != nil {
			return wrapErr(tableVehicles, err)
		}
		if current.DriverID != nil && *current.DriverID == driverID {
			vehicle = current
			return nil
		}

		n, err := exec(ctx, tx, update(tableDrivers).
			Set(goqu.Record{"status": transport.DriverAssigned, "updated_at": at}).
			Where(byID(driverID), goqu.C("status").Eq(transport.DriverAvailable)))
		if err != nil {
			return wrapErr(tableDrivers, err)
		}
		if n == 0 {
			return r.missingOrConflict(ctx, tx, tableDrivers, driverID)
		}

		if current.DriverID != nil {
			_, err = exec(ctx, tx, update(tableDrivers).
				Set(goqu.Record{"status": transport.DriverAvailable, "updated_at": at}).
				Where(byID(*current.DriverID)))
			if err != nil {
				return wrapErr(tableDrivers, err)
			}
		}

		vehicle, err = selectOne[transport.Vehicle](ctx, tx, update(tableVehicles).
			Set(goqu.Record{"driver_id": driverID, "updated_at": at}).
			Where(byID(vehicleID)).
			Returning(goqu.Star()))
		return wrapErr(tableVehicles, err)
	})
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (r *PostgresTransportRepository) UnassignDriver(ctx context.Context, vehicleID uuid.UUID, at time.Time) (*transport.Vehicle, error) {
	var vehicle *transport.Vehicle
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		current, err := selectOne[transport.Vehicle](ctx, tx, from(tableVehicles).Where(byID(vehicleID)).ForUpdate(goqu.Wait))
		if err != nil {
			return wrapErr(tableVehicles, err)
		}
		if current.DriverID == nil {
			vehicle = current
			return nil
		}

		_, err = exec(ctx, tx, update(tableDrivers).
			Set(goqu.Record{"status": transport.DriverAvailable, "updated_at": at}).
			Where(byID(*current.DriverID)))
		if err != nil {
			return wrapErr(tableDrivers, err)
		}

		vehicle, err = selectOne[transport.Vehicle](ctx, tx, update(tableVehicles).
			Set(goqu.Record{"driver_id": nil, "updated_at": at}).
			Where(byID(vehicleID)).
			Returning(goqu.Star()))
		return wrapErr(tableVehicles, err)
	})
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

// ------------------------------------------------------------ routes

func routeRecord(rt *transport.Route) (goqu.Record, error) {
	stops, err := jsonbList(rt.Stops)
	if err != nil {
		return nil, err
	}
	return goqu.Record{
		"name":        rt.Name,
		"stops":       stops,
		"distance_km": rt.DistanceKM,
		"updated_at":  rt.UpdatedAt,
	}, nil
}

func (r *PostgresTransportRepository) CreateRoute(ctx context.Context, rt *transport.Route) error {
	rec, err := routeRecord(rt)
	if err != nil {
		return err
	}
	rec["id"] = rt.ID
	rec["created_at"] = rt.CreatedAt

	_, err = exec(ctx, r.pool, insertInto(tableRoutes).Rows(rec))
	return wrapErr(tableRoutes, err)
}

func (r *PostgresTransportRepository) GetRoute(ctx context.Context, id uuid.UUID) (*transport.Route, error) {
	rt, err := selectOne[transport.Route](ctx, r.pool, from(tableRoutes).Where(byID(id)))
	return rt, wrapErr(tableRoutes, err)
}

func (r *PostgresTransportRepository) ListRoutes(ctx context.Context, f RouteFilter) ([]transport.Route, int, error) {
	ds := from(tableRoutes).Order(goqu.C("name").Asc())
	items, total, err := selectPage[transport.Route](ctx, r.pool, ds, f.Page)
	return items, total, wrapErr(tableRoutes, err)
}

func (r *PostgresTransportRepository) UpdateRoute(ctx context.Context, rt *transport.Route) error {
	rec, err := routeRecord(rt)
	if err != nil {
		return err
	}
	n, err := exec(ctx, r.pool, update(tableRoutes).Set(rec).Where(byID(rt.ID)))
	if err != nil {
		return wrapErr(tableRoutes, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresTransportRepository) DeleteRoute(ctx context.Context, id uuid.UUID) error {
	n, err := exec(ctx, r.pool, deleteFrom(tableRoutes).Where(byID(id)))
	if err != nil {
		return wrapErr(tableRoutes, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ------------------------------------------------------------ trips

// CreateTrip relies on the ex_trips__vehicle_window exclusion constraint
// for overlaps.
func (r *PostgresTransportRepository) CreateTrip(ctx context.Context, t *transport.Trip) error {
	_, err := exec(ctx, r.pool, insertInto(tableTrips).Rows(goqu.Record{
		"id":         t.ID,
		"route_id":   t.RouteID,
		"vehicle_id": t.VehicleID,
		"departs_at": t.DepartsAt,
		"arrives_at": t.ArrivesAt,
		"status":     t.Status,
		"created_at": t.CreatedAt,
		"updated_at": t.UpdatedAt,
	}))
	return wrapErr(tableTrips, err)
}

func (r *PostgresTransportRepository) GetTrip(ctx context.Context, id uuid.UUID) (*transport.Trip, error) {
	t, err := selectOne[transport.Trip](ctx, r.pool, from(tableTrips).Where(byID(id)))
	return t, wrapErr(tableTrips, err)
}

func (r *PostgresTransportRepository) ListTrips(ctx context.Context, f TripFilter) ([]transport.Trip, int, error) {
	ds := from(tableTrips).Order(goqu.C("departs_at").Asc(), goqu.C("created_at").Asc())
	if f.RouteID != nil {
		ds = ds.Where(goqu.C("route_id").Eq(*f.RouteID))
	}
	if f.VehicleID != nil {
		ds = ds.Where(goqu.C("vehicle_id").Eq(*f.VehicleID))
	}
	if f.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(f.Status))
	}
	if f.PendingOnly {
		ds = ds.Where(goqu.C("status").In(model.LifecycleScheduled, model.LifecycleInProgress))
	}
	if f.DepartsFrom != nil {
		ds = ds.Where(goqu.C("departs_at").Gte(*f.DepartsFrom))
	}
	if f.DepartsBefore != nil {
		ds = ds.Where(goqu.C("departs_at").Lt(*f.DepartsBefore))
	}

	items, total, err := selectPage[transport.Trip](ctx, r.pool, ds, f.Page)
	return items, total, wrapErr(tableTrips, err)
}

func (r *PostgresTransportRepository) UpdateTripStatus(ctx context.Context, t *transport.Trip, expected model.Lifecycle) error {
	n, err := exec(ctx, r.pool, update(tableTrips).
		Set(goqu.Record{"status": t.Status, "updated_at": t.UpdatedAt}).
		Where(byID(t.ID), goqu.C("status").Eq(expected)))
	if err != nil {
		return wrapErr(tableTrips, err)
	}
	if n == 0 {
		return r.missingOrConflict(ctx, r.pool, tableTrips, t.ID)
	}
	return nil
}
