package repository

import (
	"context"
	"slices"
	"strings"

	"github.com/deppfellow/campus-manager/internal/model/exam"
	"github.com/google/uuid"
)

type resultKey struct {
	examID    uuid.UUID
	studentID string
}

type MemoryExamRepository struct {
	store   *memoryStore[exam.Exam]
	results *memoryStore[exam.ExamResult]
	// byStudent indexes results; guarded by results.mu.
	byStudent map[resultKey]uuid.UUID
}

func NewMemoryExamRepository() *MemoryExamRepository {
	return &MemoryExamRepository{
		store:     newMemoryStore[exam.Exam](),
		results:   newMemoryStore[exam.ExamResult](),
		byStudent: make(map[resultKey]uuid.UUID),
	}
}

func cloneExam(e exam.Exam) exam.Exam {
	e.Invigilators = slices.Clone(e.Invigilators)
	return e
}

func (r *MemoryExamRepository) Create(ctx context.Context, e *exam.Exam) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.get(e.ID); ok {
		return ErrConflict
	}
	r.store.put(cloneExam(*e))
	return nil
}

func (r *MemoryExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*exam.Exam, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	e = cloneExam(e)
	return &e, nil
}

func (r *MemoryExamRepository) List(ctx context.Context, f ExamFilter) ([]exam.Exam, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	items, total := r.store.filter(func(e exam.Exam) bool {
		if f.Status != "" && e.Status != f.Status {
			return false
		}
		return f.CourseCode == "" || strings.EqualFold(e.CourseCode, f.CourseCode)
	}, f.Page)

	out := make([]exam.Exam, len(items))
	for i, e := range items {
		out[i] = cloneExam(e)
	}
	return out, total, nil
}

func (r *MemoryExamRepository) Update(ctx context.Context, e *exam.Exam) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.get(e.ID); !ok {
		return ErrNotFound
	}
	r.store.put(cloneExam(*e))
	return nil
}

func (r *MemoryExamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !r.store.remove(id) {
		return ErrNotFound
	}

	r.results.mu.Lock()
	defer r.results.mu.Unlock()
	for key, resultID := range r.byStudent {
		if key.examID == id {
			r.results.remove(resultID)
			delete(r.byStudent, key)
		}
	}
	return nil
}

func (r *MemoryExamRepository) UpsertResult(ctx context.Context, res *exam.ExamResult) error {
	r.store.mu.RLock()
	_, ok := r.store.get(res.ExamID)
	r.store.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	r.results.mu.Lock()
	defer r.results.mu.Unlock()

	key := resultKey{examID: res.ExamID, studentID: res.StudentID}
	if id, ok := r.byStudent[key]; ok {
		existing, _ := r.results.get(id)
		res.ID = existing.ID
		res.CreatedAt = existing.CreatedAt
	}
	r.byStudent[key] = res.ID
	r.results.put(*res)
	return nil
}

func (r *MemoryExamRepository) ListResults(ctx context.Context, examID uuid.UUID) ([]exam.ExamResult, error) {
	r.results.mu.RLock()
	defer r.results.mu.RUnlock()

	items, _ := r.results.filter(func(res exam.ExamResult) bool {
		return res.ExamID == examID
	}, Page{})
	slices.SortStableFunc(items, func(a, b exam.ExamResult) int {
		return strings.Compare(a.StudentID, b.StudentID)
	})
	return items, nil
}
