// Package report holds generated campus reports.
package report

import (
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
)

type Type string

const (
	TypeEventSummary      Type = "EVENT_SUMMARY"
	TypeExamResults       Type = "EXAM_RESULTS"
	TypeHostelOccupancy   Type = "HOSTEL_OCCUPANCY"
	TypePaymentSummary    Type = "PAYMENT_SUMMARY"
	TypeTransportSchedule Type = "TRANSPORT_SCHEDULE"
)

// Title is the default heading for reports of type t.
func (t Type) Title() string {
	switch t {
	case TypeEventSummary:
		return "Event Summary"
	case TypeExamResults:
		return "Exam Results"
	case TypeHostelOccupancy:
		return "Hostel Occupancy"
	case TypePaymentSummary:
		return "Payment Summary"
	case TypeTransportSchedule:
		return "Transport Schedule"
	default:
		return string(t)
	}
}

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusGenerating Status = "GENERATING"
	StatusReady      Status = "READY"
	StatusFailed     Status = "FAILED"
)

// Transitions allows a failed or ready report to be generated again.
var Transitions = model.Transitions[Status]{
	StatusPending:    {StatusGenerating},
	StatusGenerating: {StatusReady, StatusFailed},
	StatusReady:      {StatusGenerating},
	StatusFailed:     {StatusGenerating},
}

func (s Status) TransitionTo(target Status) (Status, error) {
	return Transitions.Move(s, target)
}

// Parameters narrow a report. ExamID is required for EXAM_RESULTS,
// Date (YYYY-MM-DD) optionally narrows TRANSPORT_SCHEDULE and StudentID
// narrows PAYMENT_SUMMARY. NotifyEmail is told when the report is ready.
type Parameters struct {
	ExamID      string `json:"exam_id,omitempty"`
	StudentID   string `json:"student_id,omitempty" validate:"max=64"`
	Date        string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	NotifyEmail string `json:"notify_email,omitempty" validate:"omitempty,email"`
}

type Report struct {
	model.Base
	ReportType  Type       `json:"report_type" db:"report_type"`
	Title       string     `json:"title" db:"title"`
	Parameters  Parameters `json:"parameters" db:"parameters"`
	RequestedBy string     `json:"requested_by" db:"requested_by"`
	Status      Status     `json:"status" db:"status"`
	Content     string     `json:"content,omitempty" db:"content"`
	// Document is the structured form of Content, used for XLSX export.
	Document    *Document  `json:"document,omitempty" db:"document"`
	Error       string     `json:"error,omitempty" db:"error"`
	GeneratedAt *time.Time `json:"generated_at" db:"generated_at"`
}

// Section is a titled table. Text and XLSX exports render the same
// sections.
type Section struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	// Summary lines printed under the table.
	Summary []string `json:"summary,omitempty"`
}

// Document is the structured body of a generated report.
type Document struct {
	Title       string    `json:"title"`
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []Section `json:"sections"`
}
