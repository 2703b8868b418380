package repository

import (
	"context"

	"github.com/deppfellow/campus-manager/internal/model/payment"
	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tablePayments = "payments"

type PostgresPaymentRepository struct {
	pgStore
}

func NewPostgresPaymentRepository(pool *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{pgStore{pool: pool}}
}

func (r *PostgresPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := exec(ctx, r.pool, insertInto(tablePayments).Rows(goqu.Record{
		"id":             p.ID,
		"student_id":     p.StudentID,
		"amount":         p.Amount,
		"currency":       p.Currency,
		"purpose":        p.Purpose,
		"method":         p.Method,
		"reference":      p.Reference,
		"description":    p.Description,
		"status":         p.Status,
		"failure_reason": p.FailureReason,
		"paid_at":        nullable(p.PaidAt),
		"created_at":     p.CreatedAt,
		"updated_at":     p.UpdatedAt,
	}))
	return wrapErr(tablePayments, err)
}

func (r *PostgresPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	p, err := selectOne[payment.Payment](ctx, r.pool, from(tablePayments).Where(byID(id)))
	return p, wrapErr(tablePayments, err)
}

func (r *PostgresPaymentRepository) List(ctx context.Context, f PaymentFilter) ([]payment.Payment, int, error) {
	ds := from(tablePayments).Order(goqu.C("created_at").Asc())
	if f.StudentID != "" {
		ds = ds.Where(goqu.C("student_id").Eq(f.StudentID))
	}
	if f.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(f.Status))
	}
	if f.Purpose != "" {
		ds = ds.Where(goqu.C("purpose").Eq(f.Purpose))
	}

	items, total, err := selectPage[payment.Payment](ctx, r.pool, ds, f.Page)
	return items, total, wrapErr(tablePayments, err)
}

func (r *PostgresPaymentRepository) Update(ctx context.Context, p *payment.Payment, expected payment.Status) error {
	n, err := exec(ctx, r.pool, update(tablePayments).
		Set(goqu.Record{
			"reference":      p.Reference,
			"status":         p.Status,
			"failure_reason": p.FailureReason,
			"paid_at":        nullable(p.PaidAt),
			"updated_at":     p.UpdatedAt,
		}).
		Where(byID(p.ID), goqu.C("status").Eq(expected)))
	if err != nil {
		return wrapErr(tablePayments, err)
	}
	if n == 0 {
		return r.missingOrConflict(ctx, r.pool, tablePayments, p.ID)
	}
	return nil
}
