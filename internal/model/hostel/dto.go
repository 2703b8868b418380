package hostel

import (
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ------------------------------------------------------------

type CreateRoomPayload struct {
	Block      string          `json:"block" validate:"required,max=20"`
	Number     string          `json:"number" validate:"required,max=20"`
	RoomType   RoomType        `json:"room_type" validate:"required,oneof=SINGLE DOUBLE TRIPLE DORMITORY"`
	Capacity   int             `json:"capacity" validate:"gte=1,max=64"`
	MonthlyFee decimal.Decimal `json:"monthly_fee"`
}

func (p *CreateRoomPayload) Validate() error {
	if err := validation.Struct(p); err != nil {
		return err
	}
	if p.MonthlyFee.IsNegative() {
		return validation.CustomValidationErrors{{Field: "monthly_fee", Message: "must not be negative"}}
	}
	return nil
}

// ------------------------------------------------------------

type UpdateRoomPayload struct {
	ID         uuid.UUID        `param:"id" json:"-" validate:"required"`
	RoomType   *RoomType        `json:"room_type" validate:"omitempty,oneof=SINGLE DOUBLE TRIPLE DORMITORY"`
	Capacity   *int             `json:"capacity" validate:"omitempty,gte=1,max=64"`
	MonthlyFee *decimal.Decimal `json:"monthly_fee"`
}

func (p *UpdateRoomPayload) Validate() error {
	if err := validation.Struct(p); err != nil {
		return err
	}
	if p.MonthlyFee != nil && p.MonthlyFee.IsNegative() {
		return validation.CustomValidationErrors{{Field: "monthly_fee", Message: "must not be negative"}}
	}
	return nil
}

// ------------------------------------------------------------

type GetRoomByIDPayload struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

func (p *GetRoomByIDPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type GetRoomsQuery struct {
	model.PageQuery
	Status        RoomStatus `query:"status" validate:"omitempty,oneof=AVAILABLE FULL MAINTENANCE"`
	Block         string     `query:"block" validate:"max=20"`
	AvailableOnly bool       `query:"available_only"`
}

func (q *GetRoomsQuery) Validate() error {
	return validation.Struct(q)
}

// ------------------------------------------------------------

type SetMaintenancePayload struct {
	ID uuid.UUID `param:"id" json:"-" validate:"required"`
	On bool      `json:"on"`
}

func (p *SetMaintenancePayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type DeleteRoomPayload struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

func (p *DeleteRoomPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type AllocateRoomPayload struct {
	RoomID    uuid.UUID `json:"room_id" validate:"required"`
	StudentID string    `json:"student_id" validate:"required,max=64"`
	// StartsOn defaults to today.
	StartsOn *time.Time `json:"starts_on"`
}

func (p *AllocateRoomPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type VacateAllocationPayload struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

func (p *VacateAllocationPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type GetAllocationsQuery struct {
	model.PageQuery
	RoomID    string           `query:"room_id" validate:"omitempty,uuid"`
	StudentID string           `query:"student_id" validate:"max=64"`
	Status    AllocationStatus `query:"status" validate:"omitempty,oneof=ACTIVE VACATED"`
}

func (q *GetAllocationsQuery) Validate() error {
	return validation.Struct(q)
}
