package repository

import (
	"context"
	"errors"
	"time"

	"github.com/deppfellow/campus-manager/internal/model/hostel"
	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	tableRooms       = "rooms"
	tableAllocations = "allocations"
)

type PostgresHostelRepository struct {
	pgStore
}

func NewPostgresHostelRepository(pool *pgxpool.Pool) *PostgresHostelRepository {
	return &PostgresHostelRepository{pgStore{pool: pool}}
}

func (r *PostgresHostelRepository) CreateRoom(ctx context.Context, room *hostel.Room) error {
	_, err := exec(ctx, r.pool, insertInto(tableRooms).Rows(goqu.Record{
		"id":          room.ID,
		"block":       room.Block,
		"number":      room.Number,
		"room_type":   room.RoomType,
		"capacity":    room.Capacity,
		"occupied":    room.Occupied,
		"monthly_fee": room.MonthlyFee,
		"status":      room.Status,
		"created_at":  room.CreatedAt,
		"updated_at":  room.UpdatedAt,
	}))
	return wrapErr(tableRooms, err)
}

func (r *PostgresHostelRepository) GetRoom(ctx context.Context, id uuid.UUID) (*hostel.Room, error) {
	room, err := selectOne[hostel.Room](ctx, r.pool, from(tableRooms).Where(byID(id)))
	return room, wrapErr(tableRooms, err)
}

func (r *PostgresHostelRepository) ListRooms(ctx context.Context, f RoomFilter) ([]hostel.Room, int, error) {
	ds := from(tableRooms).Order(goqu.C("block").Asc(), goqu.C("number").Asc())
	if f.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(f.Status))
	}
	if f.Block != "" {
		ds = ds.Where(goqu.Func("upper", goqu.C("block")).Eq(goqu.Func("upper", f.Block)))
	}
	if f.AvailableOnly {
		ds = ds.Where(
			goqu.C("status").Eq(hostel.RoomStatusAvailable),
			goqu.C("occupied").Lt(goqu.C("capacity")),
		)
	}

	items, total, err := selectPage[hostel.Room](ctx, r.pool, ds, f.Page)
	return items, total, wrapErr(tableRooms, err)
}

// UpdateRoom refuses to write when occupancy changed since room was read.
func (r *PostgresHostelRepository) UpdateRoom(ctx context.Context, room *hostel.Room) error {
	n, err := exec(ctx, r.pool, update(tableRooms).
		Set(goqu.Record{
			"room_type":   room.RoomType,
			"capacity":    room.Capacity,
			"monthly_fee": room.MonthlyFee,
			"status":      room.Status,
			"updated_at":  room.UpdatedAt,
		}).
		Where(byID(room.ID), goqu.C("occupied").Eq(room.Occupied)))
	if err != nil {
		return wrapErr(tableRooms, err)
	}
	if n == 0 {
		return r.missingOrConflict(ctx, r.pool, tableRooms, room.ID)
	}
	return nil
}

func (r *PostgresHostelRepository) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	n, err := exec(ctx, r.pool, deleteFrom(tableRooms).Where(byID(id)))
	if err != nil {
		return wrapErr(tableRooms, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresHostelRepository) Allocate(ctx context.Context, a *hostel.Allocation) (*hostel.Room, error) {
	var room *hostel.Room
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		taken := update(tableRooms).
			Set(goqu.Record{
				"occupied": goqu.L("occupied + 1"),
				"status": goqu.Case().
					When(goqu.L("occupied + 1 >= capacity"), string(hostel.RoomStatusFull)).
					Else(string(hostel.RoomStatusAvailable)),
				"updated_at": a.CreatedAt,
			}).
			Where(
				byID(a.RoomID),
				goqu.C("status").Eq(hostel.RoomStatusAvailable),
				goqu.C("occupied").Lt(goqu.C("capacity")),
			).
			Returning(goqu.Star())

		var err error
		room, err = selectOne[hostel.Room](ctx, tx, taken)
		if errors.Is(err, pgx.ErrNoRows) {
			return r.missingOrConflict(ctx, tx, tableRooms, a.RoomID)
		}
		if err != nil {
			return wrapErr(tableRooms, err)
		}

		_, err = exec(ctx, tx, insertInto(tableAllocations).Rows(goqu.Record{
			"id":         a.ID,
			"room_id":    a.RoomID,
			"student_id": a.StudentID,
			"starts_on":  a.StartsOn,
			"ends_on":    nullable(a.EndsOn),
			"status":     a.Status,
			"created_at": a.CreatedAt,
			"updated_at": a.UpdatedAt,
		}))
		return wrapErr(tableAllocations, err)
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (r *PostgresHostelRepository) Vacate(ctx context.Context, id uuid.UUID, endsOn, at time.Time) (*hostel.Allocation, error) {
	var alloc *hostel.Allocation
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		ended := update(tableAllocations).
			Set(goqu.Record{
				"status":     hostel.AllocationVacated,
				"ends_on":    endsOn,
				"updated_at": at,
			}).
			Where(byID(id), goqu.C("status").Eq(hostel.AllocationActive)).
			Returning(goqu.Star())

		var err error
		alloc, err = selectOne[hostel.Allocation](ctx, tx, ended)
		if errors.Is(err, pgx.ErrNoRows) {
			return r.missingOrConflict(ctx, tx, tableAllocations, id)
		}
		if err != nil {
			return wrapErr(tableAllocations, err)
		}

		_, err = exec(ctx, tx, update(tableRooms).
			Set(goqu.Record{
				"occupied": goqu.L("GREATEST(occupied - 1, 0)"),
				"status": goqu.Case().
					When(goqu.C("status").Eq(hostel.RoomStatusMaintenance), string(hostel.RoomStatusMaintenance)).
					Else(string(hostel.RoomStatusAvailable)),
				"updated_at": at,
			}).
			Where(byID(alloc.RoomID)))
		return wrapErr(tableRooms, err)
	})
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

func (r *PostgresHostelRepository) GetAllocation(ctx context.Context, id uuid.UUID) (*hostel.Allocation, error) {
	a, err := selectOne[hostel.Allocation](ctx, r.pool, from(tableAllocations).Where(byID(id)))
	return a, wrapErr(tableAllocations, err)
}

func (r *PostgresHostelRepository) ListAllocations(ctx context.Context, f AllocationFilter) ([]hostel.Allocation, int, error) {
	ds := from(tableAllocations).Order(goqu.C("created_at").Asc())
	if f.RoomID != nil {
		ds = ds.Where(goqu.C("room_id").Eq(*f.RoomID))
	}
	if f.StudentID != "" {
		ds = ds.Where(goqu.C("student_id").Eq(f.StudentID))
	}
	if f.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(f.Status))
	}

	items, total, err := selectPage[hostel.Allocation](ctx, r.pool, ds, f.Page)
	return items, total, wrapErr(tableAllocations, err)
}
