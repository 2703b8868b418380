package repository

import (
	"context"

	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/exam"
	"github.com/google/uuid"
)

type ExamFilter struct {
	Status     model.Lifecycle
	CourseCode string
	Page
}

type ExamRepository interface {
	Create(ctx context.Context, e *exam.Exam) error
	GetByID(ctx context.Context, id uuid.UUID) (*exam.Exam, error)
	List(ctx context.Context, f ExamFilter) ([]exam.Exam, int, error)
	Update(ctx context.Context, e *exam.Exam) error
	// Delete removes the exam and its results.
	Delete(ctx context.Context, id uuid.UUID) error

	// UpsertResult stores r as the result of (r.ExamID, r.StudentID),
	// overwriting any earlier one. r keeps the id and created_at of the
	// stored row.
	UpsertResult(ctx context.Context, r *exam.ExamResult) error
	ListResults(ctx context.Context, examID uuid.UUID) ([]exam.ExamResult, error)
}
