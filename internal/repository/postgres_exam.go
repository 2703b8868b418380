package repository

import (
	"context"

	"github.com/deppfellow/campus-manager/internal/model/exam"
	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	tableExams       = "exams"
	tableExamResults = "exam_results"
)

type PostgresExamRepository struct {
	pgStore
}

func NewPostgresExamRepository(pool *pgxpool.Pool) *PostgresExamRepository {
	return &PostgresExamRepository{pgStore{pool: pool}}
}

func examRecord(e *exam.Exam) (goqu.Record, error) {
	invigilators, err := jsonbList(e.Invigilators)
	if err != nil {
		return nil, err
	}
	return goqu.Record{
		"course_code":       e.CourseCode,
		"title":             e.Title,
		"venue":             e.Venue,
		"starts_at":         e.StartsAt,
		"duration_minutes":  e.DurationMinutes,
		"max_marks":         e.MaxMarks,
		"pass_marks":        e.PassMarks,
		"invigilators":      invigilators,
		"status":            e.Status,
		"results_published": e.ResultsPublished,
		"updated_at":        e.UpdatedAt,
	}, nil
}

func (r *PostgresExamRepository) Create(ctx context.Context, e *exam.Exam) error {
	rec, err := examRecord(e)
	if err != nil {
		return err
	}
	rec["id"] = e.ID
	rec["created_at"] = e.CreatedAt

	_, err = exec(ctx, r.pool, insertInto(tableExams).Rows(rec))
	return wrapErr(tableExams, err)
}

func (r *PostgresExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*exam.Exam, error) {
	e, err := selectOne[exam.Exam](ctx, r.pool, from(tableExams).Where(byID(id)))
	return e, wrapErr(tableExams, err)
}

func (r *PostgresExamRepository) List(ctx context.Context, f ExamFilter) ([]exam.Exam, int, error) {
	ds := from(tableExams).Order(goqu.C("starts_at").Asc(), goqu.C("created_at").Asc())
	if f.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(f.Status))
	}
	if f.CourseCode != "" {
		ds = ds.Where(goqu.Func("upper", goqu.C("course_code")).Eq(goqu.Func("upper", f.CourseCode)))
	}

	items, total, err := selectPage[exam.Exam](ctx, r.pool, ds, f.Page)
	return items, total, wrapErr(tableExams, err)
}

func (r *PostgresExamRepository) Update(ctx context.Context, e *exam.Exam) error {
	rec, err := examRecord(e)
	if err != nil {
		return err
	}

	n, err := exec(ctx, r.pool, update(tableExams).Set(rec).Where(byID(e.ID)))
	if err != nil {
		return wrapErr(tableExams, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for the results.
func (r *PostgresExamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := exec(ctx, r.pool, deleteFrom(tableExams).Where(byID(id)))
	if err != nil {
		return wrapErr(tableExams, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresExamRepository) UpsertResult(ctx context.Context, res *exam.ExamResult) error {
	ds := insertInto(tableExamResults).
		Rows(goqu.Record{
			"id":         res.ID,
			"exam_id":    res.ExamID,
			"student_id": res.StudentID,
			"marks":      res.Marks,
			"grade":      res.Grade,
			"passed":     res.Passed,
			"remarks":    res.Remarks,
			"email":      res.Email,
			"created_at": res.CreatedAt,
			"updated_at": res.UpdatedAt,
		}).
		OnConflict(goqu.DoUpdate("exam_id, student_id", goqu.Record{
			"marks":      goqu.L("EXCLUDED.marks"),
			"grade":      goqu.L("EXCLUDED.grade"),
			"passed":     goqu.L("EXCLUDED.passed"),
			"remarks":    goqu.L("EXCLUDED.remarks"),
			"email":      goqu.L("EXCLUDED.email"),
			"updated_at": goqu.L("EXCLUDED.updated_at"),
		})).
		Returning("id", "created_at")

	query, args, err := ds.ToSQL()
	if err != nil {
		return err
	}
	err = r.pool.QueryRow(ctx, query, args...).Scan(&res.ID, &res.CreatedAt)
	return wrapErr(tableExamResults, err)
}

func (r *PostgresExamRepository) ListResults(ctx context.Context, examID uuid.UUID) ([]exam.ExamResult, error) {
	ds := from(tableExamResults).
		Where(goqu.C("exam_id").Eq(examID)).
		Order(goqu.C("student_id").Asc())

	items, err := selectMany[exam.ExamResult](ctx, r.pool, ds)
	return items, wrapErr(tableExamResults, err)
}
