package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/campus-manager/internal/lib/email"
	"github.com/deppfellow/campus-manager/internal/model/report"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ReportRunner is the part of the report service the workers drive.
type ReportRunner interface {
	GenerateByID(ctx context.Context, id uuid.UUID) error
	RequestScheduled(ctx context.Context, reportType report.Type) error
}

// Handlers are the dependencies of the task handlers.
type Handlers struct {
	Email   *email.Client
	Reports ReportRunner
}

// RegisterHandlers routes every task type to its handler. It must run
// before Start and before anything is enqueued inline.
func (j *JobService) RegisterHandlers(h Handlers) {
	j.mux.HandleFunc(TaskEventRegistration, emailHandler(j, "event_registration", h.Email.SendEventRegistration))
	j.mux.HandleFunc(TaskExamResult, emailHandler(j, "exam_result", h.Email.SendExamResult))
	j.mux.HandleFunc(TaskPaymentReceipt, emailHandler(j, "payment_receipt", h.Email.SendPaymentReceipt))
	j.mux.HandleFunc(TaskReportReady, emailHandler(j, "report_ready", h.Email.SendReportReady))

	j.mux.HandleFunc(TaskReportGenerate, j.reportGenerateHandler(h.Reports))
	j.mux.HandleFunc(TaskReportScheduled, j.scheduledReportHandler(h.Reports))
}

// emailHandler decodes an EmailPayload[T] and passes it to send.
func emailHandler[T any](j *JobService, kind string, send func(context.Context, string, T) error) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p EmailPayload[T]
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			// Retrying a malformed payload cannot succeed.
			return fmt.Errorf("failed to unmarshal %s email payload: %v: %w", kind, err, asynq.SkipRetry)
		}

		j.logger.Info().
			Str("type", kind).
			Str("to", p.To).
			Msg("processing email task")

		if err := send(ctx, p.To, p.Data); err != nil {
			j.logger.Error().
				Str("type", kind).
				Str("to", p.To).
				Err(err).
				Msg("failed to send email")
			return err // Asynq marks the task failed and schedules a retry
		}

		j.logger.Info().
			Str("type", kind).
			Str("to", p.To).
			Msg("email sent")
		return nil
	}
}

func (j *JobService) reportGenerateHandler(reports ReportRunner) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p ReportGeneratePayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("failed to unmarshal report payload: %v: %w", err, asynq.SkipRetry)
		}

		log := j.logger.With().Str("report_id", p.ReportID.String()).Logger()
		log.Info().Msg("generating report")

		if err := reports.GenerateByID(ctx, p.ReportID); err != nil {
			log.Error().Err(err).Msg("report generation failed")
			return err
		}
		return nil
	}
}

func (j *JobService) scheduledReportHandler(reports ReportRunner) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p ScheduledReportPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("failed to unmarshal scheduled report payload: %v: %w", err, asynq.SkipRetry)
		}

		j.logger.Info().Str("report_type", string(p.ReportType)).Msg("requesting scheduled report")
		return reports.RequestScheduled(ctx, p.ReportType)
	}
}
