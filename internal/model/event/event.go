// Package event holds campus events and their participant lists.
package event

import (
	"slices"
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
)

type Category string

const (
	CategoryAcademic Category = "ACADEMIC"
	CategoryCultural Category = "CULTURAL"
	CategorySports   Category = "SPORTS"
	CategoryWorkshop Category = "WORKSHOP"
	CategoryOther    Category = "OTHER"
)

type Event struct {
	model.Base
	Title        string          `json:"title" db:"title"`
	Description  string          `json:"description" db:"description"`
	Category     Category        `json:"category" db:"category"`
	Organizer    string          `json:"organizer" db:"organizer"`
	Venue        string          `json:"venue" db:"venue"`
	StartsAt     time.Time       `json:"starts_at" db:"starts_at"`
	EndsAt       time.Time       `json:"ends_at" db:"ends_at"`
	Capacity     int             `json:"capacity" db:"capacity"`
	Participants []string        `json:"participants" db:"participants"`
	Status       model.Lifecycle `json:"status" db:"status"`
}

// SeatsLeft is never negative.
func (e *Event) SeatsLeft() int {
	return max(e.Capacity-len(e.Participants), 0)
}

func (e *Event) IsFull() bool {
	return len(e.Participants) >= e.Capacity
}

func (e *Event) HasParticipant(studentID string) bool {
	return slices.Contains(e.Participants, studentID)
}

// AcceptsRegistrations is true before the event starts running.
func (e *Event) AcceptsRegistrations() bool {
	return e.Status == model.LifecyclePlanned || e.Status == model.LifecycleScheduled
}

// RemoveParticipant reports whether studentID was registered.
func (e *Event) RemoveParticipant(studentID string) bool {
	i := slices.Index(e.Participants, studentID)
	if i < 0 {
		return false
	}
	e.Participants = slices.Delete(e.Participants, i, i+1)
	return true
}
