package repository

import (
	"context"

	"github.com/deppfellow/campus-manager/internal/model/payment"
	"github.com/google/uuid"
)

type MemoryPaymentRepository struct {
	store *memoryStore[payment.Payment]
}

func NewMemoryPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{store: newMemoryStore[payment.Payment]()}
}

func (r *MemoryPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.get(p.ID); ok {
		return ErrConflict
	}
	r.store.put(*p)
	return nil
}

func (r *MemoryPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *MemoryPaymentRepository) List(ctx context.Context, f PaymentFilter) ([]payment.Payment, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	items, total := r.store.filter(func(p payment.Payment) bool {
		if f.StudentID != "" && p.StudentID != f.StudentID {
			return false
		}
		if f.Status != "" && p.Status != f.Status {
			return false
		}
		return f.Purpose == "" || p.Purpose == f.Purpose
	}, f.Page)
	return items, total, nil
}

func (r *MemoryPaymentRepository) Update(ctx context.Context, p *payment.Payment, expected payment.Status) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.get(p.ID)
	if !ok {
		return ErrNotFound
	}
	if current.Status != expected {
		return ErrConflict
	}
	r.store.put(*p)
	return nil
}
