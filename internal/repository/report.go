package repository

import (
	"context"

	"github.com/deppfellow/campus-manager/internal/model/report"
	"github.com/google/uuid"
)

type ReportFilter struct {
	ReportType report.Type
	Status     report.Status
	Page
}

type ReportRepository interface {
	Create(ctx context.Context, r *report.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*report.Report, error)
	List(ctx context.Context, f ReportFilter) ([]report.Report, int, error)
	// Update writes rep only while the stored status still equals expected.
	Update(ctx context.Context, rep *report.Report, expected report.Status) error
	Delete(ctx context.Context, id uuid.UUID) error
}
