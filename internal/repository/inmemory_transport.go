package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/transport"
	"github.com/google/uuid"
)

// MemoryTransportRepository guards its four stores with one lock because
// driver assignment and trip creation touch several of them at once.
type MemoryTransportRepository struct {
	mu       sync.RWMutex
	vehicles *memoryStore[transport.Vehicle]
	drivers  *memoryStore[transport.Driver]
	routes   *memoryStore[transport.Route]
	trips    *memoryStore[transport.Trip]
}

func NewMemoryTransportRepository() *MemoryTransportRepository {
	return &MemoryTransportRepository{
		vehicles: newMemoryStore[transport.Vehicle](),
		drivers:  newMemoryStore[transport.Driver](),
		routes:   newMemoryStore[transport.Route](),
		trips:    newMemoryStore[transport.Trip](),
	}
}

// ------------------------------------------------------------ vehicles

func (r *MemoryTransportRepository) CreateVehicle(ctx context.Context, v *transport.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.vehicles.find(func(o transport.Vehicle) bool {
		return strings.EqualFold(o.RegistrationNumber, v.RegistrationNumber)
	}); dup {
		return ErrConflict
	}
	r.vehicles.put(*v)
	return nil
}

func (r *MemoryTransportRepository) GetVehicle(ctx context.Context, id uuid.UUID) (*transport.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vehicles.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (r *MemoryTransportRepository) ListVehicles(ctx context.Context, f VehicleFilter) ([]transport.Vehicle, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items, total := r.vehicles.filter(func(v transport.Vehicle) bool {
		return f.Status == "" || v.Status == f.Status
	}, f.Page)
	return items, total, nil
}

func (r *MemoryTransportRepository) UpdateVehicle(ctx context.Context, v *transport.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.vehicles.get(v.ID)
	if !ok {
		return ErrNotFound
	}
	current.Model = v.Model
	current.Capacity = v.Capacity
	current.Status = v.Status
	current.UpdatedAt = v.UpdatedAt
	r.vehicles.put(current)
	return nil
}

func (r *MemoryTransportRepository) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vehicles.get(id)
	if !ok {
		return ErrNotFound
	}
	if v.DriverID != nil {
		r.setDriverStatus(*v.DriverID, transport.DriverAvailable, v.UpdatedAt)
	}
	r.vehicles.remove(id)
	r.removeTrips(func(t transport.Trip) bool { return t.VehicleID == id })
	return nil
}

// ------------------------------------------------------------ drivers

func (r *MemoryTransportRepository) CreateDriver(ctx context.Context, d *transport.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.drivers.find(func(o transport.Driver) bool {
		return strings.EqualFold(o.LicenseNumber, d.LicenseNumber)
	}); dup {
		return ErrConflict
	}
	r.drivers.put(*d)
	return nil
}

func (r *MemoryTransportRepository) GetDriver(ctx context.Context, id uuid.UUID) (*transport.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drivers.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (r *MemoryTransportRepository) ListDrivers(ctx context.Context, f DriverFilter) ([]transport.Driver, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items, total := r.drivers.filter(func(d transport.Driver) bool {
		return f.Status == "" || d.Status == f.Status
	}, f.Page)
	return items, total, nil
}

func (r *MemoryTransportRepository) UpdateDriver(ctx context.Context, d *transport.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.drivers.get(d.ID); !ok {
		return ErrNotFound
	}
	r.drivers.put(*d)
	return nil
}

func (r *MemoryTransportRepository) DeleteDriver(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.drivers.remove(id) {
		return ErrNotFound
	}
	// Mirror ON DELETE SET NULL.
	for _, vid := range r.vehicles.order {
		if v := r.vehicles.items[vid]; v.DriverID != nil && *v.DriverID == id {
			v.DriverID = nil
			r.vehicles.put(v)
		}
	}
	return nil
}

func (r *MemoryTransportRepository) AssignDriver(ctx context.Context, vehicleID, driverID uuid.UUID, at time.Time) (*transport.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vehicles.get(vehicleID)
	if !ok {
		return nil, ErrNotFound
	}
	d, ok := r.drivers.get(driverID)
	if !ok {
		return nil, ErrNotFound
	}
	if v.DriverID != nil && *v.DriverID == driverID {
		return &v, nil
	}
	if d.Status != transport.DriverAvailable {
		return nil, ErrConflict
	}

	if v.DriverID != nil {
		r.setDriverStatus(*v.DriverID, transport.DriverAvailable, at)
	}
	r.setDriverStatus(driverID, transport.DriverAssigned, at)

	v.DriverID = &driverID
	v.UpdatedAt = at
	r.vehicles.put(v)
	return &v, nil
}

func (r *MemoryTransportRepository) UnassignDriver(ctx context.Context, vehicleID uuid.UUID, at time.Time) (*transport.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vehicles.get(vehicleID)
	if !ok {
		return nil, ErrNotFound
	}
	if v.DriverID == nil {
		return &v, nil
	}

	r.setDriverStatus(*v.DriverID, transport.DriverAvailable, at)
	v.DriverID = nil
	v.UpdatedAt = at
	r.vehicles.put(v)
	return &v, nil
}

func (r *MemoryTransportRepository) setDriverStatus(id uuid.UUID, status transport.DriverStatus, at time.Time) {
	if d, ok := r.drivers.get(id); ok {
		d.Status = status
		d.UpdatedAt = at
		r.drivers.put(d)
	}
}

// ------------------------------------------------------------ routes

func cloneRoute(rt transport.Route) transport.Route {
	rt.Stops = slices.Clone(rt.Stops)
	return rt
}

func (r *MemoryTransportRepository) CreateRoute(ctx context.Context, rt *transport.Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.routes.get(rt.ID); ok {
		return ErrConflict
	}
	r.routes.put(cloneRoute(*rt))
	return nil
}

func (r *MemoryTransportRepository) GetRoute(ctx context.Context, id uuid.UUID) (*transport.Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.routes.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	rt = cloneRoute(rt)
	return &rt, nil
}

func (r *MemoryTransportRepository) ListRoutes(ctx context.Context, f RouteFilter) ([]transport.Route, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items, total := r.routes.filter(nil, f.Page)
	out := make([]transport.Route, len(items))
	for i, rt := range items {
		out[i] = cloneRoute(rt)
	}
	return out, total, nil
}

func (r *MemoryTransportRepository) UpdateRoute(ctx context.Context, rt *transport.Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.routes.get(rt.ID); !ok {
		return ErrNotFound
	}
	r.routes.put(cloneRoute(*rt))
	return nil
}

func (r *MemoryTransportRepository) DeleteRoute(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.routes.remove(id) {
		return ErrNotFound
	}
	r.removeTrips(func(t transport.Trip) bool { return t.RouteID == id })
	return nil
}

// ------------------------------------------------------------ trips

func (r *MemoryTransportRepository) CreateTrip(ctx context.Context, t *transport.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.routes.get(t.RouteID); !ok {
		return ErrNotFound
	}
	if _, ok := r.vehicles.get(t.VehicleID); !ok {
		return ErrNotFound
	}

	window := t.Window()
	if _, clash := r.trips.find(func(o transport.Trip) bool {
		return o.VehicleID == t.VehicleID && o.IsPending() && o.Window().Overlaps(window)
	}); clash {
		return ErrConflict
	}
	r.trips.put(*t)
	return nil
}

func (r *MemoryTransportRepository) GetTrip(ctx context.Context, id uuid.UUID) (*transport.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (r *MemoryTransportRepository) ListTrips(ctx context.Context, f TripFilter) ([]transport.Trip, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []transport.Trip
	for _, id := range r.trips.order {
		if t := r.trips.items[id]; tripMatches(t, f) {
			matched = append(matched, t)
		}
	}
	slices.SortStableFunc(matched, func(a, b transport.Trip) int {
		return a.DepartsAt.Compare(b.DepartsAt)
	})
	return applyPage(matched, f.Page), len(matched), nil
}

func tripMatches(t transport.Trip, f TripFilter) bool {
	switch {
	case f.RouteID != nil && t.RouteID != *f.RouteID:
		return false
	case f.VehicleID != nil && t.VehicleID != *f.VehicleID:
		return false
	case f.Status != "" && t.Status != f.Status:
		return false
	case f.PendingOnly && !t.IsPending():
		return false
	case f.DepartsFrom != nil && t.DepartsAt.Before(*f.DepartsFrom):
		return false
	case f.DepartsBefore != nil && !t.DepartsAt.Before(*f.DepartsBefore):
		return false
	}
	return true
}

func (r *MemoryTransportRepository) UpdateTripStatus(ctx context.Context, t *transport.Trip, expected model.Lifecycle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.trips.get(t.ID)
	if !ok {
		return ErrNotFound
	}
	if current.Status != expected {
		return ErrConflict
	}
	current.Status = t.Status
	current.UpdatedAt = t.UpdatedAt
	r.trips.put(current)
	return nil
}

func (r *MemoryTransportRepository) removeTrips(match func(transport.Trip) bool) {
	for _, id := range slices.Clone(r.trips.order) {
		if match(r.trips.items[id]) {
			r.trips.remove(id)
		}
	}
}
