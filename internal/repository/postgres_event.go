package repository

import (
	"context"

	"github.com/deppfellow/campus-manager/internal/model/event"
	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tableEvents = "events"

type PostgresEventRepository struct {
	pgStore
}

func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pgStore{pool: pool}}
}

func eventRecord(e *event.Event) (goqu.Record, error) {
	participants, err := jsonbList(e.Participants)
	if err != nil {
		return nil, err
	}
	return goqu.Record{
		"title":        e.Title,
		"description":  e.Description,
		"category":     e.Category,
		"organizer":    e.Organizer,
		"venue":        e.Venue,
		"starts_at":    e.StartsAt,
		"ends_at":      e.EndsAt,
		"capacity":     e.Capacity,
		"participants": participants,
		"status":       e.Status,
		"updated_at":   e.UpdatedAt,
	}, nil
}

func (r *PostgresEventRepository) Create(ctx context.Context, e *event.Event) error {
	rec, err := eventRecord(e)
	if err != nil {
		return err
	}
	rec["id"] = e.ID
	rec["created_at"] = e.CreatedAt

	_, err = exec(ctx, r.pool, insertInto(tableEvents).Rows(rec))
	return wrapErr(tableEvents, err)
}

func (r *PostgresEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	e, err := selectOne[event.Event](ctx, r.pool, from(tableEvents).Where(byID(id)))
	return e, wrapErr(tableEvents, err)
}

func (r *PostgresEventRepository) List(ctx context.Context, f EventFilter) ([]event.Event, int, error) {
	ds := from(tableEvents).Order(goqu.C("starts_at").Asc(), goqu.C("created_at").Asc())
	if f.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(f.Status))
	}
	if f.Category != "" {
		ds = ds.Where(goqu.C("category").Eq(f.Category))
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		ds = ds.Where(goqu.Or(
			goqu.C("title").ILike(pattern),
			goqu.C("organizer").ILike(pattern),
		))
	}

	items, total, err := selectPage[event.Event](ctx, r.pool, ds, f.Page)
	return items, total, wrapErr(tableEvents, err)
}

func (r *PostgresEventRepository) Update(ctx context.Context, e *event.Event) error {
	rec, err := eventRecord(e)
	if err != nil {
		return err
	}

	n, err := exec(ctx, r.pool, update(tableEvents).Set(rec).Where(byID(e.ID)))
	if err != nil {
		return wrapErr(tableEvents, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := exec(ctx, r.pool, deleteFrom(tableEvents).Where(byID(id)))
	if err != nil {
		return wrapErr(tableEvents, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
