package exam

import (
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/validation"
	"github.com/google/uuid"
)

// ------------------------------------------------------------

type CreateExamPayload struct {
	CourseCode      string    `json:"course_code" validate:"required,max=20"`
	Title           string    `json:"title" validate:"required,min=3,max=200"`
	Venue           string    `json:"venue" validate:"required,max=120"`
	StartsAt        time.Time `json:"starts_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=1,max=720"`
	MaxMarks        float64   `json:"max_marks" validate:"gt=0"`
	PassMarks       float64   `json:"pass_marks" validate:"gte=0,ltefield=MaxMarks"`
	Invigilators    []string  `json:"invigilators" validate:"omitempty,unique,dive,required,max=64"`
}

func (p *CreateExamPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type UpdateExamPayload struct {
	ID              uuid.UUID  `param:"id" json:"-" validate:"required"`
	CourseCode      *string    `json:"course_code" validate:"omitempty,max=20"`
	Title           *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Venue           *string    `json:"venue" validate:"omitempty,max=120"`
	StartsAt        *time.Time `json:"starts_at"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,gte=1,max=720"`
	MaxMarks        *float64   `json:"max_marks" validate:"omitempty,gt=0"`
	PassMarks       *float64   `json:"pass_marks" validate:"omitempty,gte=0"`
}

func (p *UpdateExamPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type GetExamByIDPayload struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

func (p *GetExamByIDPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type GetExamsQuery struct {
	model.PageQuery
	Status     model.Lifecycle `query:"status" validate:"omitempty,oneof=PLANNED SCHEDULED IN_PROGRESS COMPLETED CANCELLED"`
	CourseCode string          `query:"course_code" validate:"max=20"`
}

func (q *GetExamsQuery) Validate() error {
	return validation.Struct(q)
}

// ------------------------------------------------------------

type TransitionExamPayload struct {
	ID     uuid.UUID       `param:"id" json:"-" validate:"required"`
	Status model.Lifecycle `json:"status" validate:"omitempty,oneof=PLANNED SCHEDULED IN_PROGRESS COMPLETED CANCELLED"`
}

func (p *TransitionExamPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type AssignInvigilatorPayload struct {
	ID      uuid.UUID `param:"id" json:"-" validate:"required"`
	StaffID string    `json:"staff_id" validate:"required,max=64"`
}

func (p *AssignInvigilatorPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type RemoveInvigilatorPayload struct {
	ID      uuid.UUID `param:"id" validate:"required"`
	StaffID string    `param:"staff_id" validate:"required,max=64"`
}

func (p *RemoveInvigilatorPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type RecordResultPayload struct {
	ExamID    uuid.UUID `param:"id" json:"-" validate:"required"`
	StudentID string    `param:"student_id" json:"-" validate:"required,max=64"`
	Marks     *float64  `json:"marks" validate:"required,gte=0"`
	Remarks   string    `json:"remarks" validate:"max=500"`
	Email     string    `json:"email" validate:"omitempty,email"`
}

func (p *RecordResultPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type PublishResultsPayload struct {
	ID uuid.UUID `param:"id" json:"-" validate:"required"`
	// Notify sends one email per result that carries an address.
	Notify bool `json:"notify"`
}

func (p *PublishResultsPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type DeleteExamPayload struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

func (p *DeleteExamPayload) Validate() error {
	return validation.Struct(p)
}
