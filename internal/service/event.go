package service

import (
	"context"
	"sync"
	"time"

	"github.com/deppfellow/campus-manager/internal/errs"
	"github.com/deppfellow/campus-manager/internal/lib/email"
	"github.com/deppfellow/campus-manager/internal/lib/job"
	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/event"
	"github.com/deppfellow/campus-manager/internal/repository"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

const entityEvent = "Event"

type EventService struct {
	repo   repository.EventRepository
	jobs   Enqueuer
	logger zerolog.Logger
	now    model.Clock

	// mu serialises participant read-modify-write cycles.
	mu sync.Mutex
}

func NewEventService(s *server.Server, repo repository.EventRepository, jobs Enqueuer) *EventService {
	return &EventService{
		repo:   repo,
		jobs:   jobs,
		logger: componentLogger(s, "event_service"),
		now:    model.SystemClock,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, p *event.CreateEventPayload) (*event.Event, error) {
	e := &event.Event{
		Base:         model.NewBase(s.now()),
		Title:        p.Title,
		Description:  p.Description,
		Category:     p.Category,
		Organizer:    p.Organizer,
		Venue:        p.Venue,
		StartsAt:     p.StartsAt.UTC(),
		EndsAt:       p.EndsAt.UTC(),
		Capacity:     p.Capacity,
		Participants: []string{},
		Status:       model.LifecyclePlanned,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, repoErr(err, entityEvent, nil)
	}

	s.logger.Info().Str("event_id", e.ID.String()).Str("title", e.Title).Msg("event created")
	return e, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, entityEvent, nil)
	}
	return e, nil
}

func (s *EventService) ListEvents(ctx context.Context, q *event.GetEventsQuery) (model.PaginatedResponse[event.Event], error) {
	items, total, err := s.repo.List(ctx, repository.EventFilter{
		Status:   q.Status,
		Category: q.Category,
		Search:   q.Search,
		Page:     pageOf(q.PageQuery),
	})
	if err != nil {
		return model.PaginatedResponse[event.Event]{}, err
	}
	return model.NewPage(items, q.PageQuery, total), nil
}

// UpdateEvent edits an event that has not started running.
func (s *EventService) UpdateEvent(ctx context.Context, p *event.UpdateEventPayload) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.GetEvent(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if !e.Status.IsEditable() {
		return nil, conflict("EVENT_NOT_EDITABLE", "Only planned or scheduled events can be edited")
	}

	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Organizer != nil {
		e.Organizer = *p.Organizer
	}
	if p.Venue != nil {
		e.Venue = *p.Venue
	}
	if p.StartsAt != nil {
		e.StartsAt = p.StartsAt.UTC()
	}
	if p.EndsAt != nil {
		e.EndsAt = p.EndsAt.UTC()
	}
	if p.Capacity != nil {
		e.Capacity = *p.Capacity
	}

	if !e.EndsAt.After(e.StartsAt) {
		return nil, errs.NewBadRequestError("Validation failed", true, nil,
			[]errs.FieldError{{Field: "ends_at", Error: "must be after starts_at"}}, nil)
	}
	if e.Capacity < len(e.Participants) {
		return nil, errs.NewBadRequestError("Validation failed", true, nil,
			[]errs.FieldError{{Field: "capacity", Error: "must not be below the number of registered participants"}}, nil)
	}

	e.Touch(s.now())
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, repoErr(err, entityEvent, nil)
	}
	return e, nil
}

// TransitionEvent moves the event to p.Status, or one step along the
// lifecycle when p.Status is empty.
func (s *EventService) TransitionEvent(ctx context.Context, p *event.TransitionEventPayload) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.GetEvent(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	target, err := nextLifecycle(entityEvent, e.Status, p.Status)
	if err != nil {
		return nil, err
	}
	next, err := e.Status.TransitionTo(target)
	if err != nil {
		return nil, transitionErr(entityEvent, err)
	}

	from := e.Status
	e.Status = next
	e.Touch(s.now())
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, repoErr(err, entityEvent, nil)
	}

	s.logger.Info().
		Str("event_id", e.ID.String()).
		Str("from", string(from)).
		Str("to", string(next)).
		Msg("event status changed")
	return e, nil
}

func (s *EventService) RegisterParticipant(ctx context.Context, p *event.RegisterParticipantPayload) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.GetEvent(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	switch {
	case !e.AcceptsRegistrations():
		return nil, conflict("EVENT_CLOSED", "Registrations are closed for this event")
	case e.HasParticipant(p.StudentID):
		return nil, conflict("ALREADY_REGISTERED", "Student is already registered for this event")
	case e.IsFull():
		return nil, conflict("EVENT_FULL", "Event is full")
	}

	e.Participants = append(e.Participants, p.StudentID)
	e.Touch(s.now())
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, repoErr(err, entityEvent, nil)
	}

	s.logger.Info().
		Str("event_id", e.ID.String()).
		Str("student_id", p.StudentID).
		Int("seats_left", e.SeatsLeft()).
		Msg("participant registered")

	if p.Email != "" {
		name := p.Name
		if name == "" {
			name = p.StudentID
		}
		dispatch(ctx, s.jobs, &s.logger, func() (*asynq.Task, error) {
			return job.NewEventRegistrationTask(p.Email, email.EventRegistration{
				StudentName: name,
				EventTitle:  e.Title,
				Venue:       e.Venue,
				StartsAt:    e.StartsAt.Format(time.RFC1123),
			})
		})
	}

	return e, nil
}

func (s *EventService) UnregisterParticipant(ctx context.Context, p *event.UnregisterParticipantPayload) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.GetEvent(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if !e.AcceptsRegistrations() {
		return nil, conflict("EVENT_CLOSED", "Registrations are closed for this event")
	}
	if !e.RemoveParticipant(p.StudentID) {
		return nil, notFound("Participant")
	}

	e.Touch(s.now())
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, repoErr(err, entityEvent, nil)
	}
	return e, nil
}

// DeleteEvent removes events that never ran: PLANNED or CANCELLED.
func (s *EventService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	e, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if e.Status != model.LifecyclePlanned && e.Status != model.LifecycleCancelled {
		return conflict("EVENT_NOT_DELETABLE", "Only planned or cancelled events can be deleted")
	}
	return repoErr(s.repo.Delete(ctx, id), entityEvent, nil)
}
