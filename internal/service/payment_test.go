package service

import (
	"context"
	"sync"
	"testing"

	"github.com/deppfellow/campus-manager/internal/lib/job"
	"github.com/deppfellow/campus-manager/internal/model/payment"
	"github.com/deppfellow/campus-manager/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPaymentService(t *testing.T) (*PaymentService, *fakeJobs) {
	t.Helper()
	jobs := &fakeJobs{}
	svc := NewPaymentService(nil, repository.NewMemoryPaymentRepository(), jobs)
	svc.now = fixedClock
	return svc, jobs
}

func createTestPayment(t *testing.T, svc *PaymentService, student, amount, currency string) *payment.Payment {
	t.Helper()
	p, err := svc.CreatePayment(context.Background(), &payment.CreatePaymentPayload{
		StudentID: student,
		Amount:    decimal.RequireFromString(amount),
		Currency:  currency,
		Purpose:   payment.PurposeTuition,
		Method:    payment.MethodCard,
	})
	require.NoError(t, err)
	return p
}

func TestPaymentService_Lifecycle(t *testing.T) {
	svc, jobs := newTestPaymentService(t)
	ctx := context.Background()
	p := createTestPayment(t, svc, "S-1", "1200.50", "USD")
	assert.Equal(t, payment.StatusPending, p.Status)

	got, err := svc.CompletePayment(ctx, &payment.CompletePaymentPayload{ID: p.ID, Reference: "TXN-1", Email: "s1@example.com"})
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCompleted, got.Status)
	require.NotNil(t, got.PaidAt)
	assert.Equal(t, testNow, *got.PaidAt)
	assert.Equal(t, "TXN-1", got.Reference)
	assert.Equal(t, []string{job.TaskPaymentReceipt}, jobs.types())

	_, err = svc.FailPayment(ctx, &payment.FailPaymentPayload{ID: p.ID, Reason: "card declined"})
	requireCode(t, err, "INVALID_STATUS_TRANSITION")

	got, err = svc.RefundPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusRefunded, got.Status)

	_, err = svc.RefundPayment(ctx, p.ID)
	requireCode(t, err, "INVALID_STATUS_TRANSITION")
}

func TestPaymentService_Fail(t *testing.T) {
	svc, jobs := newTestPaymentService(t)
	ctx := context.Background()
	p := createTestPayment(t, svc, "S-1", "10", "EUR")

	got, err := svc.FailPayment(ctx, &payment.FailPaymentPayload{ID: p.ID, Reason: "card declined"})
	require.NoError(t, err)
	assert.Equal(t, payment.StatusFailed, got.Status)
	assert.Equal(t, "card declined", got.FailureReason)
	assert.Empty(t, jobs.tasks)
}

func TestPaymentService_ConcurrentSettlementSucceedsOnce(t *testing.T) {
	svc, _ := newTestPaymentService(t)
	ctx := context.Background()
	p := createTestPayment(t, svc, "S-1", "99.99", "USD")

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		oks int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.CompletePayment(ctx, &payment.CompletePaymentPayload{ID: p.ID, Reference: "R"}); err == nil {
				mu.Lock()
				oks++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
}

func TestPaymentService_StudentBalance(t *testing.T) {
	svc, _ := newTestPaymentService(t)
	ctx := context.Background()

	paid := createTestPayment(t, svc, "S-1", "100.10", "USD")
	createTestPayment(t, svc, "S-1", "50", "USD")
	createTestPayment(t, svc, "S-1", "20", "EUR")
	createTestPayment(t, svc, "S-2", "999", "USD")

	_, err := svc.CompletePayment(ctx, &payment.CompletePaymentPayload{ID: paid.ID, Reference: "R-1"})
	require.NoError(t, err)

	balance, err := svc.StudentBalance(ctx, "S-1")
	require.NoError(t, err)
	assert.Equal(t, 3, balance.Payments)
	require.Len(t, balance.Totals, 2)
	assert.Equal(t, "USD", balance.Totals[0].Currency)
	assert.Equal(t, "100.10", balance.Totals[0].Completed.StringFixed(2))
	assert.Equal(t, "50.00", balance.Totals[0].Pending.StringFixed(2))
	assert.Equal(t, "20.00", balance.Totals[1].Pending.StringFixed(2))

	page, err := svc.ListPayments(ctx, &payment.GetPaymentsQuery{StudentID: "S-2"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}
