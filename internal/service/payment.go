package service

import (
	"context"
	"time"

	"github.com/deppfellow/campus-manager/internal/lib/email"
	"github.com/deppfellow/campus-manager/internal/lib/job"
	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/payment"
	"github.com/deppfellow/campus-manager/internal/repository"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

const entityPayment = "Payment"

// PaymentService settles payments. Every status change is a guarded write
// so two concurrent settlements cannot both succeed.
type PaymentService struct {
	repo   repository.PaymentRepository
	jobs   Enqueuer
	logger zerolog.Logger
	now    model.Clock
}

func NewPaymentService(s *server.Server, repo repository.PaymentRepository, jobs Enqueuer) *PaymentService {
	return &PaymentService{
		repo:   repo,
		jobs:   jobs,
		logger: componentLogger(s, "payment_service"),
		now:    model.SystemClock,
	}
}

func (s *PaymentService) CreatePayment(ctx context.Context, p *payment.CreatePaymentPayload) (*payment.Payment, error) {
	pay := &payment.Payment{
		Base:        model.NewBase(s.now()),
		StudentID:   p.StudentID,
		Amount:      p.Amount.Round(2),
		Currency:    p.Currency,
		Purpose:     p.Purpose,
		Method:      p.Method,
		Description: p.Description,
		Status:      payment.StatusPending,
	}

	if err := s.repo.Create(ctx, pay); err != nil {
		return nil, repoErr(err, entityPayment, nil)
	}

	s.logger.Info().
		Str("payment_id", pay.ID.String()).
		Str("student_id", pay.StudentID).
		Str("amount", pay.Amount.StringFixed(2)).
		Str("currency", pay.Currency).
		Msg("payment created")
	return pay, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	pay, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, entityPayment, nil)
	}
	return pay, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, q *payment.GetPaymentsQuery) (model.PaginatedResponse[payment.Payment], error) {
	items, total, err := s.repo.List(ctx, repository.PaymentFilter{
		StudentID: q.StudentID,
		Status:    q.Status,
		Purpose:   q.Purpose,
		Page:      pageOf(q.PageQuery),
	})
	if err != nil {
		return model.PaginatedResponse[payment.Payment]{}, err
	}
	return model.NewPage(items, q.PageQuery, total), nil
}

// settle applies one transition with mutate and stores it, guarded on the
// status read.
func (s *PaymentService) settle(ctx context.Context, id uuid.UUID, target payment.Status, mutate func(*payment.Payment)) (*payment.Payment, error) {
	pay, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	from := pay.Status
	next, err := from.TransitionTo(target)
	if err != nil {
		return nil, transitionErr(entityPayment, err)
	}

	pay.Status = next
	if mutate != nil {
		mutate(pay)
	}
	pay.Touch(s.now())

	if err := s.repo.Update(ctx, pay, from); err != nil {
		return nil, repoErr(err, entityPayment, conflict("PAYMENT_ALREADY_SETTLED", "Payment was settled by another request"))
	}

	s.logger.Info().
		Str("payment_id", pay.ID.String()).
		Str("from", string(from)).
		Str("to", string(next)).
		Msg("payment status changed")
	return pay, nil
}

// CompletePayment marks a pending payment as paid and emails a receipt
// when an address is given.
func (s *PaymentService) CompletePayment(ctx context.Context, p *payment.CompletePaymentPayload) (*payment.Payment, error) {
	pay, err := s.settle(ctx, p.ID, payment.StatusCompleted, func(pay *payment.Payment) {
		paidAt := s.now()
		pay.PaidAt = &paidAt
		pay.Reference = p.Reference
	})
	if err != nil {
		return nil, err
	}

	if p.Email != "" {
		dispatch(ctx, s.jobs, &s.logger, func() (*asynq.Task, error) {
			return job.NewPaymentReceiptTask(p.Email, email.PaymentReceipt{
				StudentID: pay.StudentID,
				Amount:    pay.Amount.StringFixed(2),
				Currency:  pay.Currency,
				Purpose:   string(pay.Purpose),
				Reference: pay.Reference,
				PaidAt:    pay.PaidAt.Format(time.RFC1123),
			})
		})
	}

	return pay, nil
}

func (s *PaymentService) FailPayment(ctx context.Context, p *payment.FailPaymentPayload) (*payment.Payment, error) {
	return s.settle(ctx, p.ID, payment.StatusFailed, func(pay *payment.Payment) {
		pay.FailureReason = p.Reason
	})
}

func (s *PaymentService) RefundPayment(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	return s.settle(ctx, id, payment.StatusRefunded, nil)
}

// StudentBalance totals every payment of a student per currency and
// status.
func (s *PaymentService) StudentBalance(ctx context.Context, studentID string) (*payment.Balance, error) {
	items, _, err := s.repo.List(ctx, repository.PaymentFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	balance := payment.Summarize(studentID, items)
	return &balance, nil
}
