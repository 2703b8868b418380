package service

import (
	"context"
	"sync"

	"github.com/deppfellow/campus-manager/internal/lib/email"
	"github.com/deppfellow/campus-manager/internal/lib/job"
	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/exam"
	"github.com/deppfellow/campus-manager/internal/repository"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const entityExam = "Exam"

type ExamService struct {
	repo   repository.ExamRepository
	jobs   Enqueuer
	logger zerolog.Logger
	now    model.Clock

	mu sync.Mutex
}

func NewExamService(s *server.Server, repo repository.ExamRepository, jobs Enqueuer) *ExamService {
	return &ExamService{
		repo:   repo,
		jobs:   jobs,
		logger: componentLogger(s, "exam_service"),
		now:    model.SystemClock,
	}
}

func (s *ExamService) CreateExam(ctx context.Context, p *exam.CreateExamPayload) (*exam.Exam, error) {
	invigilators := p.Invigilators
	if invigilators == nil {
		invigilators = []string{}
	}

	e := &exam.Exam{
		Base:            model.NewBase(s.now()),
		CourseCode:      p.CourseCode,
		Title:           p.Title,
		Venue:           p.Venue,
		StartsAt:        p.StartsAt.UTC(),
		DurationMinutes: p.DurationMinutes,
		MaxMarks:        p.MaxMarks,
		PassMarks:       p.PassMarks,
		Invigilators:    invigilators,
		Status:          model.LifecyclePlanned,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, repoErr(err, entityExam, nil)
	}

	s.logger.Info().Str("exam_id", e.ID.String()).Str("course_code", e.CourseCode).Msg("exam created")
	return e, nil
}

func (s *ExamService) GetExam(ctx context.Context, id uuid.UUID) (*exam.Exam, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, entityExam, nil)
	}
	return e, nil
}

func (s *ExamService) ListExams(ctx context.Context, q *exam.GetExamsQuery) (model.PaginatedResponse[exam.Exam], error) {
	items, total, err := s.repo.List(ctx, repository.ExamFilter{
		Status:     q.Status,
		CourseCode: q.CourseCode,
		Page:       pageOf(q.PageQuery),
	})
	if err != nil {
		return model.PaginatedResponse[exam.Exam]{}, err
	}
	return model.NewPage(items, q.PageQuery, total), nil
}

func (s *ExamService) UpdateExam(ctx context.Context, p *exam.UpdateExamPayload) (*exam.Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.GetExam(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if !e.Status.IsEditable() {
		return nil, conflict("EXAM_NOT_EDITABLE", "Only planned or scheduled exams can be edited")
	}

	if p.CourseCode != nil {
		e.CourseCode = *p.CourseCode
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Venue != nil {
		e.Venue = *p.Venue
	}
	if p.StartsAt != nil {
		e.StartsAt = p.StartsAt.UTC()
	}
	if p.DurationMinutes != nil {
		e.DurationMinutes = *p.DurationMinutes
	}
	if p.MaxMarks != nil {
		e.MaxMarks = *p.MaxMarks
	}
	if p.PassMarks != nil {
		e.PassMarks = *p.PassMarks
	}
	if e.PassMarks > e.MaxMarks {
		return nil, badRequest("PASS_MARKS_ABOVE_MAX", "Pass marks must not exceed max marks")
	}

	e.Touch(s.now())
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, repoErr(err, entityExam, nil)
	}
	return e, nil
}

// TransitionExam moves the exam along its lifecycle. An exam needs at
// least one invigilator to start.
func (s *ExamService) TransitionExam(ctx context.Context, p *exam.TransitionExamPayload) (*exam.Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.GetExam(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	target, err := nextLifecycle(entityExam, e.Status, p.Status)
	if err != nil {
		return nil, err
	}
	next, err := e.Status.TransitionTo(target)
	if err != nil {
		return nil, transitionErr(entityExam, err)
	}
	if next == model.LifecycleInProgress && len(e.Invigilators) == 0 {
		return nil, conflict("NO_INVIGILATOR", "An exam cannot start without an invigilator")
	}

	from := e.Status
	e.Status = next
	e.Touch(s.now())
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, repoErr(err, entityExam, nil)
	}

	s.logger.Info().
		Str("exam_id", e.ID.String()).
		Str("from", string(from)).
		Str("to", string(next)).
		Msg("exam status changed")
	return e, nil
}

func (s *ExamService) AssignInvigilator(ctx context.Context, p *exam.AssignInvigilatorPayload) (*exam.Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.GetExam(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if e.Status.IsTerminal() {
		return nil, conflict("EXAM_CLOSED", "Invigilators cannot change on a finished exam")
	}
	if e.HasInvigilator(p.StaffID) {
		return nil, conflict("ALREADY_ASSIGNED", "Staff member already invigilates this exam")
	}

	e.Invigilators = append(e.Invigilators, p.StaffID)
	e.Touch(s.now())
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, repoErr(err, entityExam, nil)
	}
	return e, nil
}

// RemoveInvigilator keeps at least one invigilator on a running exam.
func (s *ExamService) RemoveInvigilator(ctx context.Context, p *exam.RemoveInvigilatorPayload) (*exam.Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.GetExam(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if e.Status.IsTerminal() {
		return nil, conflict("EXAM_CLOSED", "Invigilators cannot change on a finished exam")
	}
	if e.Status == model.LifecycleInProgress && len(e.Invigilators) == 1 && e.HasInvigilator(p.StaffID) {
		return nil, conflict("NO_INVIGILATOR", "A running exam needs at least one invigilator")
	}
	if !e.RemoveInvigilator(p.StaffID) {
		return nil, notFound("Invigilator")
	}

	e.Touch(s.now())
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, repoErr(err, entityExam, nil)
	}
	return e, nil
}

// RecordResult stores or overwrites the result of one student. It holds the
// exam lock so a concurrent PublishResults sees every recorded result.
func (s *ExamService) RecordResult(ctx context.Context, p *exam.RecordResultPayload) (*exam.ExamResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.GetExam(ctx, p.ExamID)
	if err != nil {
		return nil, err
	}
	if !e.AcceptsResults() {
		return nil, conflict("RESULTS_CLOSED", "Results can only be recorded for a running or completed exam before publication")
	}

	marks := *p.Marks
	if marks < 0 || marks > e.MaxMarks {
		return nil, badRequest("MARKS_OUT_OF_RANGE", "Marks must be between 0 and the exam's max marks")
	}

	r := &exam.ExamResult{
		Base:      model.NewBase(s.now()),
		ExamID:    e.ID,
		StudentID: p.StudentID,
		Remarks:   p.Remarks,
		Email:     p.Email,
	}
	r.Score(e, marks)

	if err := s.repo.UpsertResult(ctx, r); err != nil {
		return nil, repoErr(err, entityExam, nil)
	}

	s.logger.Debug().
		Str("exam_id", e.ID.String()).
		Str("student_id", r.StudentID).
		Str("grade", string(r.Grade)).
		Msg("result recorded")
	return r, nil
}

func (s *ExamService) ListResults(ctx context.Context, examID uuid.UUID) ([]exam.ExamResult, error) {
	if _, err := s.GetExam(ctx, examID); err != nil {
		return nil, err
	}
	results, err := s.repo.ListResults(ctx, examID)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []exam.ExamResult{}
	}
	return results, nil
}

func (s *ExamService) GetStatistics(ctx context.Context, examID uuid.UUID) (*exam.Statistics, error) {
	results, err := s.ListResults(ctx, examID)
	if err != nil {
		return nil, err
	}
	stats := exam.Summarize(examID, results)
	return &stats, nil
}

// PublishResults freezes the results of a completed exam and, when notify
// is set, sends one email per result that carries an address.
func (s *ExamService) PublishResults(ctx context.Context, p *exam.PublishResultsPayload) (*exam.Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.GetExam(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if e.Status != model.LifecycleCompleted {
		return nil, conflict("EXAM_NOT_COMPLETED", "Results can only be published for a completed exam")
	}
	if e.ResultsPublished {
		return nil, conflict("RESULTS_ALREADY_PUBLISHED", "Results are already published")
	}

	e.ResultsPublished = true
	e.Touch(s.now())
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, repoErr(err, entityExam, nil)
	}

	results, err := s.repo.ListResults(ctx, e.ID)
	if err != nil {
		return nil, err
	}

	notified := 0
	if p.Notify {
		for _, r := range results {
			if r.Email == "" {
				continue
			}
			dispatch(ctx, s.jobs, &s.logger, func() (*asynq.Task, error) {
				return job.NewExamResultTask(r.Email, email.ExamResult{
					StudentID:  r.StudentID,
					CourseCode: e.CourseCode,
					ExamTitle:  e.Title,
					Marks:      decimal.NewFromFloat(r.Marks).String(),
					MaxMarks:   decimal.NewFromFloat(e.MaxMarks).String(),
					Grade:      string(r.Grade),
					Passed:     r.Passed,
				})
			})
			notified++
		}
	}

	s.logger.Info().
		Str("exam_id", e.ID.String()).
		Int("results", len(results)).
		Int("notified", notified).
		Msg("results published")
	return e, nil
}

func (s *ExamService) DeleteExam(ctx context.Context, id uuid.UUID) error {
	e, err := s.GetExam(ctx, id)
	if err != nil {
		return err
	}
	if e.Status != model.LifecyclePlanned && e.Status != model.LifecycleCancelled {
		return conflict("EXAM_NOT_DELETABLE", "Only planned or cancelled exams can be deleted")
	}
	return repoErr(s.repo.Delete(ctx, id), entityExam, nil)
}
