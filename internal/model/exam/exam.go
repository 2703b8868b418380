// Package exam holds exams, invigilator assignments and student results.
package exam

import (
	"slices"
	"time"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/google/uuid"
)

type Exam struct {
	model.Base
	CourseCode       string          `json:"course_code" db:"course_code"`
	Title            string          `json:"title" db:"title"`
	Venue            string          `json:"venue" db:"venue"`
	StartsAt         time.Time       `json:"starts_at" db:"starts_at"`
	DurationMinutes  int             `json:"duration_minutes" db:"duration_minutes"`
	MaxMarks         float64         `json:"max_marks" db:"max_marks"`
	PassMarks        float64         `json:"pass_marks" db:"pass_marks"`
	Invigilators     []string        `json:"invigilators" db:"invigilators"`
	Status           model.Lifecycle `json:"status" db:"status"`
	ResultsPublished bool            `json:"results_published" db:"results_published"`
}

func (e *Exam) EndsAt() time.Time {
	return e.StartsAt.Add(time.Duration(e.DurationMinutes) * time.Minute)
}

func (e *Exam) HasInvigilator(staffID string) bool {
	return slices.Contains(e.Invigilators, staffID)
}

// RemoveInvigilator reports whether staffID was assigned.
func (e *Exam) RemoveInvigilator(staffID string) bool {
	i := slices.Index(e.Invigilators, staffID)
	if i < 0 {
		return false
	}
	e.Invigilators = slices.Delete(e.Invigilators, i, i+1)
	return true
}

// AcceptsResults is true while marks may still be recorded.
func (e *Exam) AcceptsResults() bool {
	if e.ResultsPublished {
		return false
	}
	return e.Status == model.LifecycleInProgress || e.Status == model.LifecycleCompleted
}

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
	GradeF Grade = "F"
)

// Grades in descending order.
var Grades = []Grade{GradeA, GradeB, GradeC, GradeD, GradeE, GradeF}

var gradeFloors = []struct {
	percent float64
	grade   Grade
}{
	{90, GradeA},
	{80, GradeB},
	{70, GradeC},
	{60, GradeD},
	{50, GradeE},
}

// GradeFor maps marks out of maxMarks to a letter grade.
func GradeFor(marks, maxMarks float64) Grade {
	if maxMarks <= 0 {
		return GradeF
	}
	percent := marks / maxMarks * 100
	for _, f := range gradeFloors {
		if percent >= f.percent {
			return f.grade
		}
	}
	return GradeF
}

type ExamResult struct {
	model.Base
	ExamID    uuid.UUID `json:"exam_id" db:"exam_id"`
	StudentID string    `json:"student_id" db:"student_id"`
	Marks     float64   `json:"marks" db:"marks"`
	Grade     Grade     `json:"grade" db:"grade"`
	Passed    bool      `json:"passed" db:"passed"`
	Remarks   string    `json:"remarks" db:"remarks"`
	// Email is where the published result is sent, if anywhere.
	Email string `json:"email,omitempty" db:"email"`
}

// Score sets Marks and derives Grade and Passed from the exam.
func (r *ExamResult) Score(e *Exam, marks float64) {
	r.Marks = marks
	r.Grade = GradeFor(marks, e.MaxMarks)
	r.Passed = marks >= e.PassMarks
}

type Statistics struct {
	ExamID       uuid.UUID     `json:"exam_id"`
	Count        int           `json:"count"`
	Average      float64       `json:"average"`
	Highest      float64       `json:"highest"`
	Lowest       float64       `json:"lowest"`
	Passed       int           `json:"passed"`
	PassRate     float64       `json:"pass_rate"`
	Distribution map[Grade]int `json:"grade_distribution"`
}

// Summarize computes Statistics over results. An empty slice yields zeros
// and an empty distribution for every grade.
func Summarize(examID uuid.UUID, results []ExamResult) Statistics {
	stats := Statistics{ExamID: examID, Distribution: make(map[Grade]int, len(Grades))}
	for _, g := range Grades {
		stats.Distribution[g] = 0
	}
	if len(results) == 0 {
		return stats
	}

	stats.Count = len(results)
	stats.Highest = results[0].Marks
	stats.Lowest = results[0].Marks

	var sum float64
	for _, r := range results {
		sum += r.Marks
		stats.Highest = max(stats.Highest, r.Marks)
		stats.Lowest = min(stats.Lowest, r.Marks)
		stats.Distribution[r.Grade]++
		if r.Passed {
			stats.Passed++
		}
	}

	stats.Average = sum / float64(stats.Count)
	stats.PassRate = float64(stats.Passed) / float64(stats.Count) * 100
	return stats
}
