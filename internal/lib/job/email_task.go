package job

import (
	"encoding/json"
	"time"

	"github.com/deppfellow/campus-manager/internal/lib/email"
	"github.com/hibiken/asynq"
)

// Task type names stored in Redis. Asynq routes on them.
const (
	TaskEventRegistration = "email:event_registration"
	TaskExamResult        = "email:exam_result"
	TaskPaymentReceipt    = "email:payment_receipt"
	TaskReportReady       = "email:report_ready"
)

// EmailPayload is the JSON payload of every email task. Data holds the
// template fields of the matching email type.
type EmailPayload[T any] struct {
	To   string `json:"to"`
	Data T      `json:"data"`
}

func newEmailTask[T any](taskType, to string, data T, queue string) (*asynq.Task, error) {
	payload, err := json.Marshal(EmailPayload[T]{To: to, Data: data})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		taskType,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(queue),
		asynq.Timeout(30*time.Second),
	), nil
}

func NewEventRegistrationTask(to string, d email.EventRegistration) (*asynq.Task, error) {
	return newEmailTask(TaskEventRegistration, to, d, QueueDefault)
}

func NewExamResultTask(to string, d email.ExamResult) (*asynq.Task, error) {
	return newEmailTask(TaskExamResult, to, d, QueueDefault)
}

// NewPaymentReceiptTask goes to the critical queue: receipts are owed.
func NewPaymentReceiptTask(to string, d email.PaymentReceipt) (*asynq.Task, error) {
	return newEmailTask(TaskPaymentReceipt, to, d, QueueCritical)
}

func NewReportReadyTask(to string, d email.ReportReady) (*asynq.Task, error) {
	return newEmailTask(TaskReportReady, to, d, QueueLow)
}
