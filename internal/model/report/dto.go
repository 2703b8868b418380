package report

import (
	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/validation"
	"github.com/google/uuid"
)

// ------------------------------------------------------------

type RequestReportPayload struct {
	ReportType Type       `json:"report_type" validate:"required,oneof=EVENT_SUMMARY EXAM_RESULTS HOSTEL_OCCUPANCY PAYMENT_SUMMARY TRANSPORT_SCHEDULE"`
	Title      string     `json:"title" validate:"max=200"`
	Parameters Parameters `json:"parameters"`
	// RequestedBy is filled from the authenticated user.
	RequestedBy string `json:"-"`
}

func (p *RequestReportPayload) Validate() error {
	if err := validation.Struct(p); err != nil {
		return err
	}

	var problems validation.CustomValidationErrors
	if p.ReportType == TypeExamResults && p.Parameters.ExamID == "" {
		problems = append(problems, validation.CustomValidationError{
			Field: "parameters.exam_id", Message: "is required for EXAM_RESULTS",
		})
	}
	if p.Parameters.ExamID != "" && !validation.IsValidUUID(p.Parameters.ExamID) {
		problems = append(problems, validation.CustomValidationError{
			Field: "parameters.exam_id", Message: "must be a valid UUID",
		})
	}
	if len(problems) > 0 {
		return problems
	}
	return nil
}

// ------------------------------------------------------------

type GetReportByIDPayload struct {
	ID uuid.UUID `param:"id" validate:"required"`
}

func (p *GetReportByIDPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

type GetReportsQuery struct {
	model.PageQuery
	ReportType Type   `query:"report_type" validate:"omitempty,oneof=EVENT_SUMMARY EXAM_RESULTS HOSTEL_OCCUPANCY PAYMENT_SUMMARY TRANSPORT_SCHEDULE"`
	Status     Status `query:"status" validate:"omitempty,oneof=PENDING GENERATING READY FAILED"`
}

func (q *GetReportsQuery) Validate() error {
	return validation.Struct(q)
}

// ------------------------------------------------------------

type ExportReportPayload struct {
	ID     uuid.UUID `param:"id" validate:"required"`
	Format string    `query:"format" validate:"omitempty,oneof=txt xlsx"`
}

func (p *ExportReportPayload) Validate() error {
	return validation.Struct(p)
}
