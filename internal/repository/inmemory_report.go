package repository

import (
	"context"
	"slices"

	"github.com/deppfellow/campus-manager/internal/model/report"
	"github.com/google/uuid"
)

type MemoryReportRepository struct {
	store *memoryStore[report.Report]
}

func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{store: newMemoryStore[report.Report]()}
}

func (r *MemoryReportRepository) Create(ctx context.Context, rep *report.Report) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.get(rep.ID); ok {
		return ErrConflict
	}
	r.store.put(*rep)
	return nil
}

func (r *MemoryReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rep, ok := r.store.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &rep, nil
}

// List returns the newest reports first.
func (r *MemoryReportRepository) List(ctx context.Context, f ReportFilter) ([]report.Report, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	all, total := r.store.filter(func(rep report.Report) bool {
		if f.ReportType != "" && rep.ReportType != f.ReportType {
			return false
		}
		return f.Status == "" || rep.Status == f.Status
	}, Page{})
	slices.Reverse(all)
	return applyPage(all, f.Page), total, nil
}

func (r *MemoryReportRepository) Update(ctx context.Context, rep *report.Report, expected report.Status) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.get(rep.ID)
	if !ok {
		return ErrNotFound
	}
	if current.Status != expected {
		return ErrConflict
	}
	r.store.put(*rep)
	return nil
}

func (r *MemoryReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.remove(id) {
		return ErrNotFound
	}
	return nil
}
