package event

import (
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/validation"
	"github.com/google/uuid"
)

// ------------------------------------------------------------

type CreateEventPayload struct {
	Title       string    `json:"title" validate:"required,min=3,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	Category    Category  `json:"category" validate:"required,oneof=ACADEMIC CULTURAL SPORTS WORKSHOP OTHER"`
	Organizer   string    `json:"organizer" validate:"required,max=120"`
	Venue       string    `json:"venue" validate:"required,max=120"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Capacity    int       `json:"capacity" validate:"gte=1,max=100000"`
}

func (p *CreateEventPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type UpdateEventPayload struct {
	ID          uuid.UUID  `param:"id" json:"-" validate:"required"`
	Title       *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Category    *Category  `json:"category" validate:"omitempty,oneof=ACADEMIC CULTURAL SPORTS WORKSHOP OTHER"`
	Organizer   *string    `json:"organizer" validate:"omitempty,max=120"`
	Venue       *string    `json:"venue" validate:"omitempty,max=120"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Capacity    *int       `json:"capacity" validate:"omitempty,gte=1,max=100000"`
}

func (p *UpdateEventPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type GetEventByIDPayload struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

func (p *GetEventByIDPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type GetEventsQuery struct {
	model.PageQuery
	Status   model.Lifecycle `query:"status" validate:"omitempty,oneof=PLANNED SCHEDULED IN_PROGRESS COMPLETED CANCELLED"`
	Category Category        `query:"category" validate:"omitempty,oneof=ACADEMIC CULTURAL SPORTS WORKSHOP OTHER"`
	Search   string          `query:"search" validate:"max=100"`
}

func (q *GetEventsQuery) Validate() error {
	return validation.Struct(q)
}

// ------------------------------------------------------------

// TransitionEventPayload moves an event to Status, or to the next step of
// the lifecycle when Status is empty.
type TransitionEventPayload struct {
	ID     uuid.UUID       `param:"id" json:"-" validate:"required"`
	Status model.Lifecycle `json:"status" validate:"omitempty,oneof=PLANNED SCHEDULED IN_PROGRESS COMPLETED CANCELLED"`
}

func (p *TransitionEventPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type RegisterParticipantPayload struct {
	ID        uuid.UUID `param:"id" json:"-" validate:"required"`
	StudentID string    `json:"student_id" validate:"required,max=64"`
	Name      string    `json:"name" validate:"max=120"`
	// Email receives the registration confirmation when set.
	Email string `json:"email" validate:"omitempty,email"`
}

func (p *RegisterParticipantPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type UnregisterParticipantPayload struct {
	ID        uuid.UUID `param:"id" validate:"required"`
	StudentID string    `param:"student_id" validate:"required,max=64"`
}

func (p *UnregisterParticipantPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type DeleteEventPayload struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

func (p *DeleteEventPayload) Validate() error {
	return validation.Struct(p)
}
