package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/deppfellow/campus-manager/internal/lib/cache"
	"github.com/deppfellow/campus-manager/internal/lib/email"
	"github.com/deppfellow/campus-manager/internal/lib/export"
	"github.com/deppfellow/campus-manager/internal/lib/job"
	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/exam"
	"github.com/deppfellow/campus-manager/internal/model/hostel"
	"github.com/deppfellow/campus-manager/internal/model/payment"
	"github.com/deppfellow/campus-manager/internal/model/report"
	"github.com/deppfellow/campus-manager/internal/repository"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

const (
	entityReport = "Report"

	scheduledRequester = "scheduler"
	timestampLayout    = "2006-01-02 15:04"
)

var _ job.ReportRunner = (*ReportService)(nil)

// ReportService builds reports from the other stores. Generation runs on
// the job queue when it is available and inline otherwise.
type ReportService struct {
	repos  *repository.Repositories
	cache  *cache.ReportCache
	jobs   Enqueuer
	logger zerolog.Logger
	now    model.Clock
}

func NewReportService(s *server.Server, repos *repository.Repositories, reportCache *cache.ReportCache, jobs Enqueuer) *ReportService {
	return &ReportService{
		repos:  repos,
		cache:  reportCache,
		jobs:   jobs,
		logger: componentLogger(s, "report_service"),
		now:    model.SystemClock,
	}
}

// RequestReport stores a PENDING report and starts its generation.
func (s *ReportService) RequestReport(ctx context.Context, p *report.RequestReportPayload) (*report.Report, error) {
	title := p.Title
	if title == "" {
		title = p.ReportType.Title()
	}

	rep := &report.Report{
		Base:        model.NewBase(s.now()),
		ReportType:  p.ReportType,
		Title:       title,
		Parameters:  p.Parameters,
		RequestedBy: p.RequestedBy,
		Status:      report.StatusPending,
	}

	if err := s.repos.Reports.Create(ctx, rep); err != nil {
		return nil, repoErr(err, entityReport, nil)
	}

	s.logger.Info().
		Str("report_id", rep.ID.String()).
		Str("report_type", string(rep.ReportType)).
		Str("requested_by", rep.RequestedBy).
		Msg("report requested")

	return s.start(ctx, rep)
}

// GenerateReport starts generation again for an existing report.
func (s *ReportService) GenerateReport(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	rep, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep.Status == report.StatusGenerating {
		return nil, conflict("REPORT_IN_PROGRESS", "Report is already being generated")
	}
	return s.start(ctx, rep)
}

func (s *ReportService) start(ctx context.Context, rep *report.Report) (*report.Report, error) {
	if s.jobs != nil && s.jobs.Queued() {
		task, err := job.NewReportGenerateTask(rep.ID)
		if err != nil {
			return nil, err
		}
		err = s.jobs.Enqueue(ctx, task)
		if err == nil {
			return rep, nil
		}
		s.logger.Warn().Err(err).Str("report_id", rep.ID.String()).Msg("failed to enqueue report, generating inline")
	}
	return s.Generate(ctx, rep.ID)
}

// GenerateByID is the job queue entry point.
func (s *ReportService) GenerateByID(ctx context.Context, id uuid.UUID) error {
	_, err := s.Generate(ctx, id)
	return err
}

// RequestScheduled is called by the periodic scheduler.
func (s *ReportService) RequestScheduled(ctx context.Context, reportType report.Type) error {
	_, err := s.RequestReport(ctx, &report.RequestReportPayload{
		ReportType:  reportType,
		RequestedBy: scheduledRequester,
	})
	return err
}

// Generate moves the report to GENERATING, builds its document and stores
// it as READY, or as FAILED with the reason. Failing to build the document
// is recorded on the report and is not an error of Generate.
func (s *ReportService) Generate(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	rep, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}

	from := rep.Status
	next, err := rep.Status.TransitionTo(report.StatusGenerating)
	if err != nil {
		return nil, conflict("REPORT_IN_PROGRESS", "Report is already being generated")
	}
	rep.Status = next
	rep.Error = ""
	rep.Touch(s.now())
	if err := s.repos.Reports.Update(ctx, rep, from); err != nil {
		return nil, repoErr(err, entityReport, conflict("REPORT_IN_PROGRESS", "Report is already being generated"))
	}

	generatedAt := s.now()
	doc, buildErr := s.build(ctx, rep, generatedAt)
	if buildErr != nil {
		rep.Status = report.StatusFailed
		rep.Error = buildErr.Error()
		rep.Content = ""
		rep.Document = nil
	} else {
		rep.Status = report.StatusReady
		rep.Content = export.Text(*doc)
		rep.Document = doc
		rep.GeneratedAt = &generatedAt
	}
	rep.Touch(s.now())

	// The outcome is written even when ctx was cancelled mid-build, so the
	// report never stays GENERATING.
	store := context.WithoutCancel(ctx)
	if err := s.repos.Reports.Update(store, rep, report.StatusGenerating); err != nil {
		s.markFailed(store, rep, err)
		return nil, repoErr(err, entityReport, nil)
	}

	if buildErr != nil {
		s.logger.Warn().Err(buildErr).Str("report_id", rep.ID.String()).Msg("report generation failed")
		return rep, nil
	}

	if err := s.cache.Set(ctx, rep.ID, rep.Content); err != nil {
		s.logger.Warn().Err(err).Str("report_id", rep.ID.String()).Msg("failed to cache report content")
	}

	if to := rep.Parameters.NotifyEmail; to != "" {
		dispatch(ctx, s.jobs, &s.logger, func() (*asynq.Task, error) {
			return job.NewReportReadyTask(to, email.ReportReady{Title: rep.Title, ReportID: rep.ID.String()})
		})
	}

	s.logger.Info().
		Str("report_id", rep.ID.String()).
		Str("report_type", string(rep.ReportType)).
		Int("sections", len(doc.Sections)).
		Msg("report ready")
	return rep, nil
}

// markFailed is the fallback when storing the outcome failed.
func (s *ReportService) markFailed(ctx context.Context, rep *report.Report, cause error) {
	rep.Status = report.StatusFailed
	rep.Error = cause.Error()
	rep.Content = ""
	rep.Document = nil
	rep.GeneratedAt = nil
	rep.Touch(s.now())
	if err := s.repos.Reports.Update(ctx, rep, report.StatusGenerating); err != nil {
		s.logger.Error().Err(err).Str("report_id", rep.ID.String()).Msg("failed to release generating report")
	}
}

func (s *ReportService) GetReport(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	rep, err := s.repos.Reports.GetByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, entityReport, nil)
	}
	return rep, nil
}

func (s *ReportService) ListReports(ctx context.Context, q *report.GetReportsQuery) (model.PaginatedResponse[report.Report], error) {
	items, total, err := s.repos.Reports.List(ctx, repository.ReportFilter{
		ReportType: q.ReportType,
		Status:     q.Status,
		Page:       pageOf(q.PageQuery),
	})
	if err != nil {
		return model.PaginatedResponse[report.Report]{}, err
	}
	return model.NewPage(items, q.PageQuery, total), nil
}

func (s *ReportService) DeleteReport(ctx context.Context, id uuid.UUID) error {
	if err := s.repos.Reports.Delete(ctx, id); err != nil {
		return repoErr(err, entityReport, nil)
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("report_id", id.String()).Msg("failed to evict cached report")
	}
	return nil
}

// ExportFile is a rendered report ready for download.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Export renders a READY report as plain text or an XLSX workbook. Text
// is served from the cache when present.
func (s *ReportService) Export(ctx context.Context, p *report.ExportReportPayload) (*ExportFile, error) {
	rep, err := s.GetReport(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if rep.Status != report.StatusReady {
		return nil, conflict("REPORT_NOT_READY", "Report is not ready for export")
	}

	format := p.Format
	if format == "" {
		format = export.FormatText
	}
	name := fmt.Sprintf("%s-%s.%s", strings.ReplaceAll(strings.ToLower(string(rep.ReportType)), "_", "-"), rep.ID.String()[:8], format)

	switch format {
	case export.FormatXLSX:
		if rep.Document == nil {
			return nil, conflict("REPORT_NOT_READY", "Report has no structured content, generate it again")
		}
		data, err := export.XLSX(*rep.Document)
		if err != nil {
			return nil, err
		}
		return &ExportFile{Name: name, ContentType: export.ContentTypeXLSX, Data: data}, nil
	default:
		content, hit, err := s.cache.Get(ctx, rep.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("report_id", rep.ID.String()).Msg("report cache read failed")
		}
		if !hit {
			content = rep.Content
		}
		return &ExportFile{Name: name, ContentType: export.ContentTypeText, Data: []byte(content)}, nil
	}
}

// ------------------------------------------------------------ builders

var errMissingExam = errors.New("parameter exam_id is required")

func (s *ReportService) build(ctx context.Context, rep *report.Report, at time.Time) (*report.Document, error) {
	var (
		sections []report.Section
		err      error
	)

	switch rep.ReportType {
	case report.TypeEventSummary:
		sections, err = s.eventSections(ctx)
	case report.TypeExamResults:
		sections, err = s.examSections(ctx, rep.Parameters.ExamID)
	case report.TypeHostelOccupancy:
		sections, err = s.hostelSections(ctx)
	case report.TypePaymentSummary:
		sections, err = s.paymentSections(ctx, rep.Parameters.StudentID)
	case report.TypeTransportSchedule:
		sections, err = s.transportSections(ctx, rep.Parameters.Date)
	default:
		err = fmt.Errorf("unknown report type %q", rep.ReportType)
	}
	if err != nil {
		return nil, err
	}

	return &report.Document{Title: rep.Title, GeneratedAt: at, Sections: sections}, nil
}

func (s *ReportService) eventSections(ctx context.Context) ([]report.Section, error) {
	events, _, err := s.repos.Events.List(ctx, repository.EventFilter{})
	if err != nil {
		return nil, err
	}

	table := report.Section{
		Title:   "Events",
		Headers: []string{"Title", "Category", "Venue", "Starts", "Status", "Registered", "Capacity"},
	}
	byStatus := map[model.Lifecycle]int{}
	registrations := 0
	for _, e := range events {
		table.Rows = append(table.Rows, []string{
			e.Title,
			string(e.Category),
			e.Venue,
			e.StartsAt.UTC().Format(timestampLayout),
			string(e.Status),
			strconv.Itoa(len(e.Participants)),
			strconv.Itoa(e.Capacity),
		})
		byStatus[e.Status]++
		registrations += len(e.Participants)
	}

	table.Summary = []string{
		fmt.Sprintf("Total events: %d", len(events)),
		fmt.Sprintf("Total registrations: %d", registrations),
	}
	for _, st := range []model.Lifecycle{
		model.LifecyclePlanned,
		model.LifecycleScheduled,
		model.LifecycleInProgress,
		model.LifecycleCompleted,
		model.LifecycleCancelled,
	} {
		table.Summary = append(table.Summary, fmt.Sprintf("%s: %d", st, byStatus[st]))
	}
	return []report.Section{table}, nil
}

func (s *ReportService) examSections(ctx context.Context, rawID string) ([]report.Section, error) {
	if rawID == "" {
		return nil, errMissingExam
	}
	examID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parameter exam_id: %w", err)
	}

	e, err := s.repos.Exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("exam %s not found", examID)
		}
		return nil, err
	}
	results, err := s.repos.Exams.ListResults(ctx, examID)
	if err != nil {
		return nil, err
	}

	table := report.Section{
		Title:   fmt.Sprintf("%s %s", e.CourseCode, e.Title),
		Headers: []string{"Student", "Marks", "Grade", "Passed", "Remarks"},
	}
	for _, r := range results {
		table.Rows = append(table.Rows, []string{
			r.StudentID,
			formatFloat(r.Marks),
			string(r.Grade),
			yesNo(r.Passed),
			r.Remarks,
		})
	}

	stats := exam.Summarize(examID, results)
	table.Summary = []string{
		fmt.Sprintf("Results: %d", stats.Count),
		fmt.Sprintf("Average: %s / %s", formatFloat(stats.Average), formatFloat(e.MaxMarks)),
		fmt.Sprintf("Highest: %s", formatFloat(stats.Highest)),
		fmt.Sprintf("Lowest: %s", formatFloat(stats.Lowest)),
		fmt.Sprintf("Pass rate: %s%%", formatFloat(stats.PassRate)),
	}

	grades := report.Section{Title: "Grade distribution", Headers: []string{"Grade", "Students"}}
	for _, g := range exam.Grades {
		grades.Rows = append(grades.Rows, []string{string(g), strconv.Itoa(stats.Distribution[g])})
	}

	return []report.Section{table, grades}, nil
}

func (s *ReportService) hostelSections(ctx context.Context) ([]report.Section, error) {
	rooms, _, err := s.repos.Hostel.ListRooms(ctx, repository.RoomFilter{})
	if err != nil {
		return nil, err
	}
	summary := hostel.Summarize(rooms)

	blocks := report.Section{
		Title:   "Blocks",
		Headers: []string{"Block", "Rooms", "Capacity", "Occupied", "Vacant"},
	}
	for _, b := range summary.Blocks {
		blocks.Rows = append(blocks.Rows, []string{
			b.Block,
			strconv.Itoa(b.Rooms),
			strconv.Itoa(b.Capacity),
			strconv.Itoa(b.Occupied),
			strconv.Itoa(b.Capacity - b.Occupied),
		})
	}
	blocks.Summary = []string{
		fmt.Sprintf("Rooms: %d (available %d, full %d, maintenance %d)",
			summary.TotalRooms, summary.AvailableRooms, summary.FullRooms, summary.MaintenanceRooms),
		fmt.Sprintf("Occupancy: %d / %d (%s%%)", summary.TotalOccupied, summary.TotalCapacity, formatFloat(summary.OccupancyRate)),
	}

	detail := report.Section{
		Title:   "Rooms",
		Headers: []string{"Room", "Type", "Capacity", "Occupied", "Status", "Monthly fee"},
	}
	for _, r := range rooms {
		detail.Rows = append(detail.Rows, []string{
			r.Label(),
			string(r.RoomType),
			strconv.Itoa(r.Capacity),
			strconv.Itoa(r.Occupied),
			string(r.Status),
			r.MonthlyFee.StringFixed(2),
		})
	}

	return []report.Section{blocks, detail}, nil
}

func (s *ReportService) paymentSections(ctx context.Context, studentID string) ([]report.Section, error) {
	payments, _, err := s.repos.Payments.List(ctx, repository.PaymentFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	balance := payment.Summarize(studentID, payments)

	totals := report.Section{
		Title:   "Totals",
		Headers: []string{"Currency", "Pending", "Completed", "Failed", "Refunded"},
	}
	for _, t := range balance.Totals {
		totals.Rows = append(totals.Rows, []string{
			t.Currency,
			t.Pending.StringFixed(2),
			t.Completed.StringFixed(2),
			t.Failed.StringFixed(2),
			t.Refunded.StringFixed(2),
		})
	}
	totals.Summary = []string{fmt.Sprintf("Payments: %d", balance.Payments)}
	if studentID != "" {
		totals.Summary = append(totals.Summary, "Student: "+studentID)
	}

	detail := report.Section{
		Title:   "Payments",
		Headers: []string{"Student", "Purpose", "Method", "Amount", "Currency", "Status", "Reference"},
	}
	for _, p := range payments {
		detail.Rows = append(detail.Rows, []string{
			p.StudentID,
			string(p.Purpose),
			string(p.Method),
			p.Amount.StringFixed(2),
			p.Currency,
			string(p.Status),
			p.Reference,
		})
	}

	return []report.Section{totals, detail}, nil
}

func (s *ReportService) transportSections(ctx context.Context, date string) ([]report.Section, error) {
	f := repository.TripFilter{}
	title := "Trips"
	if date != "" {
		day, err := time.ParseInLocation(dateLayout, date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parameter date: %w", err)
		}
		end := day.AddDate(0, 0, 1)
		f.DepartsFrom, f.DepartsBefore = &day, &end
		title = "Trips on " + date
	}

	trips, _, err := s.repos.Transport.ListTrips(ctx, f)
	if err != nil {
		return nil, err
	}

	routes := map[uuid.UUID]string{}
	vehicles := map[uuid.UUID]string{}
	lookup := func(names map[uuid.UUID]string, id uuid.UUID, get func() (string, error)) string {
		if name, ok := names[id]; ok {
			return name
		}
		name, err := get()
		if err != nil {
			name = id.String()
		}
		names[id] = name
		return name
	}

	table := report.Section{
		Title:   title,
		Headers: []string{"Route", "Vehicle", "Departs", "Arrives", "Status"},
	}
	pending := 0
	for _, t := range trips {
		route := lookup(routes, t.RouteID, func() (string, error) {
			r, err := s.repos.Transport.GetRoute(ctx, t.RouteID)
			if err != nil {
				return "", err
			}
			return r.Name, nil
		})
		vehicle := lookup(vehicles, t.VehicleID, func() (string, error) {
			v, err := s.repos.Transport.GetVehicle(ctx, t.VehicleID)
			if err != nil {
				return "", err
			}
			return v.RegistrationNumber, nil
		})

		table.Rows = append(table.Rows, []string{
			route,
			vehicle,
			t.DepartsAt.UTC().Format(timestampLayout),
			t.ArrivesAt.UTC().Format(timestampLayout),
			string(t.Status),
		})
		if t.IsPending() {
			pending++
		}
	}
	table.Summary = []string{
		fmt.Sprintf("Trips: %d", len(trips)),
		fmt.Sprintf("Pending: %d", pending),
	}

	return []report.Section{table}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
