// Package transport holds the campus bus fleet: vehicles, drivers, routes
// and the trips scheduled on them.
package transport

import (
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/google/uuid"
)

type VehicleStatus string

const (
	VehicleActive      VehicleStatus = "ACTIVE"
	VehicleMaintenance VehicleStatus = "MAINTENANCE"
	VehicleRetired     VehicleStatus = "RETIRED"
)

type Vehicle struct {
	model.Base
	RegistrationNumber string        `json:"registration_number" db:"registration_number"`
	Model              string        `json:"model" db:"model"`
	Capacity           int           `json:"capacity" db:"capacity"`
	Status             VehicleStatus `json:"status" db:"status"`
	DriverID           *uuid.UUID    `json:"driver_id" db:"driver_id"`
}

// CanRun reports whether trips may be scheduled on the vehicle.
func (v *Vehicle) CanRun() bool {
	return v.Status == VehicleActive && v.DriverID != nil
}

type DriverStatus string

const (
	DriverAvailable DriverStatus = "AVAILABLE"
	DriverAssigned  DriverStatus = "ASSIGNED"
	DriverOffDuty   DriverStatus = "OFF_DUTY"
)

type Driver struct {
	model.Base
	Name          string       `json:"name" db:"name"`
	LicenseNumber string       `json:"license_number" db:"license_number"`
	LicenseExpiry time.Time    `json:"license_expiry" db:"license_expiry"`
	Phone         string       `json:"phone" db:"phone"`
	Status        DriverStatus `json:"status" db:"status"`
}

func (d *Driver) LicenseValidAt(t time.Time) bool {
	return d.LicenseExpiry.After(t)
}

type Route struct {
	model.Base
	Name       string   `json:"name" db:"name"`
	Stops      []string `json:"stops" db:"stops"`
	DistanceKM float64  `json:"distance_km" db:"distance_km"`
}

// Origin and Destination assume at least two stops.
func (r *Route) Origin() string      { return r.Stops[0] }
func (r *Route) Destination() string { return r.Stops[len(r.Stops)-1] }

// TripTransitions is the Lifecycle without the planning step: trips are
// created SCHEDULED.
var TripTransitions = model.Transitions[model.Lifecycle]{
	model.LifecycleScheduled:  {model.LifecycleInProgress, model.LifecycleCancelled},
	model.LifecycleInProgress: {model.LifecycleCompleted},
	model.LifecycleCompleted:  {},
	model.LifecycleCancelled:  {},
}

type Trip struct {
	model.Base
	RouteID   uuid.UUID       `json:"route_id" db:"route_id"`
	VehicleID uuid.UUID       `json:"vehicle_id" db:"vehicle_id"`
	DepartsAt time.Time       `json:"departs_at" db:"departs_at"`
	ArrivesAt time.Time       `json:"arrives_at" db:"arrives_at"`
	Status    model.Lifecycle `json:"status" db:"status"`
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

func (t *Trip) Window() Window {
	return Window{Start: t.DepartsAt, End: t.ArrivesAt}
}

// IsPending is true for trips that still occupy their vehicle.
func (t *Trip) IsPending() bool {
	return !t.Status.IsTerminal()
}

// SkippedSlot is a service time the scheduler could not place.
type SkippedSlot struct {
	DepartsAt time.Time `json:"departs_at"`
	Reason    string    `json:"reason"`
}

type Schedule struct {
	RouteID uuid.UUID     `json:"route_id"`
	Date    string        `json:"date"`
	Trips   []Trip        `json:"trips"`
	Skipped []SkippedSlot `json:"skipped"`
}
