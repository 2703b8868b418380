package repository

import (
	"context"

	"github.com/deppfellow/campus-manager/internal/model/payment"
	"github.com/google/uuid"
)

type PaymentFilter struct {
	StudentID string
	Status    payment.Status
	Purpose   payment.Purpose
	Page
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error)
	List(ctx context.Context, f PaymentFilter) ([]payment.Payment, int, error)
	// Update writes p only while the stored status still equals expected, so
	// two settlements of one payment cannot both succeed.
	Update(ctx context.Context, p *payment.Payment, expected payment.Status) error
}
