package repository

import (
	"context"

	"github.com/deppfellow/campus-manager/internal/model/report"
	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tableReports = "reports"

type PostgresReportRepository struct {
	pgStore
}

func NewPostgresReportRepository(pool *pgxpool.Pool) *PostgresReportRepository {
	return &PostgresReportRepository{pgStore{pool: pool}}
}

func (r *PostgresReportRepository) Create(ctx context.Context, rep *report.Report) error {
	params, err := jsonb(rep.Parameters)
	if err != nil {
		return err
	}
	doc, err := documentValue(rep.Document)
	if err != nil {
		return err
	}

	_, err = exec(ctx, r.pool, insertInto(tableReports).Rows(goqu.Record{
		"id":           rep.ID,
		"report_type":  rep.ReportType,
		"title":        rep.Title,
		"parameters":   params,
		"requested_by": rep.RequestedBy,
		"status":       rep.Status,
		"content":      rep.Content,
		"document":     doc,
		"error":        rep.Error,
		"generated_at": nullable(rep.GeneratedAt),
		"created_at":   rep.CreatedAt,
		"updated_at":   rep.UpdatedAt,
	}))
	return wrapErr(tableReports, err)
}

func (r *PostgresReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	rep, err := selectOne[report.Report](ctx, r.pool, from(tableReports).Where(byID(id)))
	return rep, wrapErr(tableReports, err)
}

func (r *PostgresReportRepository) List(ctx context.Context, f ReportFilter) ([]report.Report, int, error) {
	ds := from(tableReports).Order(goqu.C("created_at").Desc())
	if f.ReportType != "" {
		ds = ds.Where(goqu.C("report_type").Eq(f.ReportType))
	}
	if f.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(f.Status))
	}

	items, total, err := selectPage[report.Report](ctx, r.pool, ds, f.Page)
	return items, total, wrapErr(tableReports, err)
}

func (r *PostgresReportRepository) Update(ctx context.Context, rep *report.Report, expected report.Status) error {
	doc, err := documentValue(rep.Document)
	if err != nil {
		return err
	}

	n, err := exec(ctx, r.pool, update(tableReports).
		Set(goqu.Record{
			"title":        rep.Title,
			"status":       rep.Status,
			"content":      rep.Content,
			"document":     doc,
			"error":        rep.Error,
			"generated_at": nullable(rep.GeneratedAt),
			"updated_at":   rep.UpdatedAt,
		}).
		Where(byID(rep.ID), goqu.C("status").Eq(expected)))
	if err != nil {
		return wrapErr(tableReports, err)
	}
	if n == 0 {
		return r.missingOrConflict(ctx, r.pool, tableReports, rep.ID)
	}
	return nil
}

func (r *PostgresReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := exec(ctx, r.pool, deleteFrom(tableReports).Where(byID(id)))
	if err != nil {
		return wrapErr(tableReports, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// documentValue keeps an absent document as SQL NULL.
func documentValue(doc *report.Document) (any, error) {
	if doc == nil {
		return nil, nil
	}
	return jsonb(doc)
}
