package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var dialect = goqu.Dialect("postgres")

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

// pgStore is embedded by every postgres repository.
type pgStore struct {
	pool *pgxpool.Pool
}

// wrapErr names the table in the error and maps driver errors onto
// ErrNotFound and ErrConflict. The original error stays in the chain so
// sqlerr can still classify it.
func wrapErr(table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("table:%s: %w", table, ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgExclusionViolation:
			return fmt.Errorf("table:%s: %w: %w", table, ErrConflict, err)
		}
	}
	return fmt.Errorf("table:%s: %w", table, err)
}

func exec(ctx context.Context, q querier, b sqlBuilder) (int64, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return 0, fmt.Errorf("building query: %w", err)
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func selectMany[T any](ctx context.Context, q querier, b sqlBuilder) ([]T, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func selectOne[T any](ctx context.Context, q querier, b sqlBuilder) (*T, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, err
	}
	return item, nil
}

// selectPage runs ds with page applied and a COUNT(*) over the same filter.
func selectPage[T any](ctx context.Context, q querier, ds *goqu.SelectDataset, page Page) ([]T, int, error) {
	var total int
	countQuery, args, err := ds.ClearOrder().Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("building count query: %w", err)
	}
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if page.Limit > 0 {
		ds = ds.Limit(uint(page.Limit))
	}
	if page.Offset > 0 {
		ds = ds.Offset(uint(page.Offset))
	}

	items, err := selectMany[T](ctx, q, ds)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// inTx runs fn in a transaction, committing when it returns nil.
func (s pgStore) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, fn)
}

// jsonb encodes v for a JSONB column.
func jsonb(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding jsonb: %w", err)
	}
	return string(b), nil
}

func byID(id any) exp.Ex {
	return goqu.Ex{"id": id}
}

func from(table string) *goqu.SelectDataset {
	return dialect.From(table).Prepared(true)
}

func insertInto(table string) *goqu.InsertDataset {
	return dialect.Insert(table).Prepared(true)
}

func update(table string) *goqu.UpdateDataset {
	return dialect.Update(table).Prepared(true)
}

func deleteFrom(table string) *goqu.DeleteDataset {
	return dialect.Delete(table).Prepared(true)
}

// nullable unwraps optional values so goqu binds either the value or NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// jsonbList encodes s as a JSON array, never as null.
func jsonbList[T any](s []T) (string, error) {
	if s == nil {
		s = []T{}
	}
	return jsonb(s)
}

// missingOrConflict explains a guarded write that touched no rows.
func (s pgStore) missingOrConflict(ctx context.Context, q querier, table string, id uuid.UUID) error {
	query, args, err := from(table).Select(goqu.L("1")).Where(byID(id)).ToSQL()
	if err != nil {
		return err
	}
	var one int
	if err := q.QueryRow(ctx, query, args...).Scan(&one); err != nil {
		return wrapErr(table, err)
	}
	return ErrConflict
}
