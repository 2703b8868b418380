package job

import (
	"encoding/json"
	"time"

	"github.com/deppfellow/campus-manager/internal/model/report"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TaskReportGenerate  = "report:generate"
	TaskReportScheduled = "report:scheduled"
)

type ReportGeneratePayload struct {
	ReportID uuid.UUID `json:"report_id"`
}

// NewReportGenerateTask builds the task that generates one requested
// report. The report id doubles as the task id so a report is queued at
// most once at a time.
func NewReportGenerateTask(reportID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(ReportGeneratePayload{ReportID: reportID})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskReportGenerate,
		payload,
		asynq.MaxRetry(2),
		asynq.Queue(QueueDefault),
		asynq.Timeout(2*time.Minute),
		asynq.TaskID("report:"+reportID.String()),
	), nil
}

type ScheduledReportPayload struct {
	ReportType report.Type `json:"report_type"`
}

// NewScheduledReportTask asks for a fresh report of reportType. It is
// registered with the scheduler.
func NewScheduledReportTask(reportType report.Type) (*asynq.Task, error) {
	payload, err := json.Marshal(ScheduledReportPayload{ReportType: reportType})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskReportScheduled,
		payload,
		asynq.MaxRetry(1),
		asynq.Queue(QueueLow),
		asynq.Timeout(2*time.Minute),
	), nil
}
