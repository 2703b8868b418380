package transport

import (
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/validation"
	"github.com/google/uuid"
)

// ------------------------------------------------------------

type CreateVehiclePayload struct {
	RegistrationNumber string `json:"registration_number" validate:"required,max=20"`
	Model              string `json:"model" validate:"required,max=120"`
	Capacity           int    `json:"capacity" validate:"gte=1,max=200"`
}

func (p *CreateVehiclePayload) Validate() error {
	return validation.Struct(p)
}

type UpdateVehiclePayload struct {
	ID       uuid.UUID `param:"id" json:"-" validate:"required"`
	Model    *string   `json:"model" validate:"omitempty,max=120"`
	Capacity *int      `json:"capacity" validate:"omitempty,gte=1,max=200"`
}

func (p *UpdateVehiclePayload) Validate() error {
	return validation.Struct(p)
}

type SetVehicleStatusPayload struct {
	ID     uuid.UUID     `param:"id" json:"-" validate:"required"`
	Status VehicleStatus `json:"status" validate:"required,oneof=ACTIVE MAINTENANCE RETIRED"`
}

func (p *SetVehicleStatusPayload) Validate() error {
	return validation.Struct(p)
}

type AssignDriverPayload struct {
	ID       uuid.UUID `param:"id" json:"-" validate:"required"`
	DriverID uuid.UUID `json:"driver_id" validate:"required"`
}

func (p *AssignDriverPayload) Validate() error {
	return validation.Struct(p)
}

type GetVehiclesQuery struct {
	model.PageQuery
	Status VehicleStatus `query:"status" validate:"omitempty,oneof=ACTIVE MAINTENANCE RETIRED"`
}

func (q *GetVehiclesQuery) Validate() error {
	return validation.Struct(q)
}

// ------------------------------------------------------------

type CreateDriverPayload struct {
	Name          string    `json:"name" validate:"required,max=120"`
	LicenseNumber string    `json:"license_number" validate:"required,max=40"`
	LicenseExpiry time.Time `json:"license_expiry" validate:"required"`
	Phone         string    `json:"phone" validate:"omitempty,e164"`
}

func (p *CreateDriverPayload) Validate() error {
	return validation.Struct(p)
}

type UpdateDriverPayload struct {
	ID            uuid.UUID     `param:"id" json:"-" validate:"required"`
	Name          *string       `json:"name" validate:"omitempty,max=120"`
	LicenseExpiry *time.Time    `json:"license_expiry"`
	Phone         *string       `json:"phone" validate:"omitempty,e164"`
	Status        *DriverStatus `json:"status" validate:"omitempty,oneof=AVAILABLE OFF_DUTY"`
}

func (p *UpdateDriverPayload) Validate() error {
	return validation.Struct(p)
}

type GetDriversQuery struct {
	model.PageQuery
	Status DriverStatus `query:"status" validate:"omitempty,oneof=AVAILABLE ASSIGNED OFF_DUTY"`
}

func (q *GetDriversQuery) Validate() error {
	return validation.Struct(q)
}

// ------------------------------------------------------------

type CreateRoutePayload struct {
	Name       string   `json:"name" validate:"required,max=120"`
	Stops      []string `json:"stops" validate:"required,min=2,unique,dive,required,max=120"`
	DistanceKM float64  `json:"distance_km" validate:"gt=0"`
}

func (p *CreateRoutePayload) Validate() error {
	return validation.Struct(p)
}

type UpdateRoutePayload struct {
	ID         uuid.UUID `param:"id" json:"-" validate:"required"`
	Name       *string   `json:"name" validate:"omitempty,max=120"`
	Stops      []string  `json:"stops" validate:"omitempty,min=2,unique,dive,required,max=120"`
	DistanceKM *float64  `json:"distance_km" validate:"omitempty,gt=0"`
}

func (p *UpdateRoutePayload) Validate() error {
	return validation.Struct(p)
}

type GetRoutesQuery struct {
	model.PageQuery
}

func (q *GetRoutesQuery) Validate() error {
	return validation.Struct(q)
}

// ------------------------------------------------------------

// GetByIDPayload addresses a vehicle, driver, route or trip by id.
type GetByIDPayload struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

func (p *GetByIDPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type ScheduleTripPayload struct {
	RouteID   uuid.UUID `json:"route_id" validate:"required"`
	VehicleID uuid.UUID `json:"vehicle_id" validate:"required"`
	DepartsAt time.Time `json:"departs_at" validate:"required"`
	ArrivesAt time.Time `json:"arrives_at" validate:"required,gtfield=DepartsAt"`
}

func (p *ScheduleTripPayload) Validate() error {
	return validation.Struct(p)
}

type TransitionTripPayload struct {
	ID     uuid.UUID       `param:"id" json:"-" validate:"required"`
	Status model.Lifecycle `json:"status" validate:"omitempty,oneof=IN_PROGRESS COMPLETED CANCELLED"`
}

func (p *TransitionTripPayload) Validate() error {
	return validation.Struct(p)
}

type GetTripsQuery struct {
	model.PageQuery
	RouteID   string          `query:"route_id" validate:"omitempty,uuid"`
	VehicleID string          `query:"vehicle_id" validate:"omitempty,uuid"`
	Status    model.Lifecycle `query:"status" validate:"omitempty,oneof=SCHEDULED IN_PROGRESS COMPLETED CANCELLED"`
	// Date is YYYY-MM-DD in UTC.
	Date string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (q *GetTripsQuery) Validate() error {
	return validation.Struct(q)
}

// ------------------------------------------------------------

// GenerateSchedulePayload asks for one trip per service time on Date,
// spread over VehicleIDs.
type GenerateSchedulePayload struct {
	RouteID    uuid.UUID   `json:"route_id" validate:"required"`
	VehicleIDs []uuid.UUID `json:"vehicle_ids" validate:"required,min=1,unique,dive,required"`
	// ServiceTimes are HH:MM departures in UTC.
	ServiceTimes    []string `json:"service_times" validate:"required,min=1,unique,dive,datetime=15:04"`
	TripDurationMin int      `json:"trip_duration_minutes" validate:"gte=1,max=720"`
	Date            string   `json:"date" validate:"required,datetime=2006-01-02"`
}

func (p *GenerateSchedulePayload) Validate() error {
	return validation.Struct(p)
}
