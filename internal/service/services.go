package service

import (
	"github.com/deppfellow/campus-manager/internal/lib/cache"
	"github.com/deppfellow/campus-manager/internal/lib/email"
	"github.com/deppfellow/campus-manager/internal/lib/job"
	"github.com/deppfellow/campus-manager/internal/repository"
	"github.com/deppfellow/campus-manager/internal/server"
)

// Services groups one service per campus manager.
type Services struct {
	Auth      *AuthService
	Events    *EventService
	Exams     *ExamService
	Hostel    *HostelService
	Payments  *PaymentService
	Transport *TransportService
	Reports   *ReportService
	Job       *job.JobService
}

// NewService builds every service and registers the job handlers that
// call back into them.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	authService := NewAuthService(s)

	// A nil Enqueuer drops notifications; keep the interface nil rather
	// than wrapping a nil *JobService.
	var jobs Enqueuer
	if s.Job != nil {
		jobs = s.Job
	}

	reports := NewReportService(s, repos, cache.NewReportCache(s.Redis, cache.DefaultTTL), jobs)

	if s.Job != nil {
		s.Job.RegisterHandlers(job.Handlers{
			Email:   email.NewClient(s.Config, s.Logger),
			Reports: reports,
		})
	}

	return &Services{
		Auth:      authService,
		Events:    NewEventService(s, repos.Events, jobs),
		Exams:     NewExamService(s, repos.Exams, jobs),
		Hostel:    NewHostelService(s, repos.Hostel),
		Payments:  NewPaymentService(s, repos.Payments, jobs),
		Transport: NewTransportService(s, repos.Transport),
		Reports:   reports,
		Job:       s.Job,
	}, nil
}
