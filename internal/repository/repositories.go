// Package repository persists the campus entities.
//
// Every domain has one interface with two implementations: an in-memory
// store (the default, also used by tests) and a PostgreSQL store built
// with goqu on top of a pgx pool. Implementations return ErrNotFound and
// ErrConflict so services can map them without knowing the backend.
package repository

import (
	"errors"

	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when the addressed entity does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write collides with existing data,
	// such as a duplicate unique key or a lost race on capacity.
	ErrConflict = errors.New("record conflicts with existing data")
)

// Page bounds a list query. A zero Limit returns every match.
type Page struct {
	Limit  int
	Offset int
}

// Repositories is a container for all repository instances.
type Repositories struct {
	Events    EventRepository
	Exams     ExamRepository
	Hostel    HostelRepository
	Payments  PaymentRepository
	Transport TransportRepository
	Reports   ReportRepository
}

// NewRepositories picks the backend configured on the server.
func NewRepositories(s *server.Server) *Repositories {
	if s.Config.UsesPostgres() && s.DB != nil {
		return NewPostgresRepositories(s.DB.Pool)
	}
	return NewMemoryRepositories()
}

func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Events:    NewMemoryEventRepository(),
		Exams:     NewMemoryExamRepository(),
		Hostel:    NewMemoryHostelRepository(),
		Payments:  NewMemoryPaymentRepository(),
		Transport: NewMemoryTransportRepository(),
		Reports:   NewMemoryReportRepository(),
	}
}

func NewPostgresRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Events:    NewPostgresEventRepository(pool),
		Exams:     NewPostgresExamRepository(pool),
		Hostel:    NewPostgresHostelRepository(pool),
		Payments:  NewPostgresPaymentRepository(pool),
		Transport: NewPostgresTransportRepository(pool),
		Reports:   NewPostgresReportRepository(pool),
	}
}
