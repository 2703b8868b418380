package service

import (
	"context"
	"testing"
	"time"

	"github.com/deppfellow/campus-manager/internal/lib/job"
	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/model/event"
	"github.com/deppfellow/campus-manager/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEventService(t *testing.T) (*EventService, *fakeJobs) {
	t.Helper()
	jobs := &fakeJobs{}
	svc := NewEventService(nil, repository.NewMemoryEventRepository(), jobs)
	svc.now = fixedClock
	return svc, jobs
}

func createTestEvent(t *testing.T, svc *EventService, capacity int) *event.Event {
	t.Helper()
	e, err := svc.CreateEvent(context.Background(), &event.CreateEventPayload{
		Title:     "Spring Hackathon",
		Category:  event.CategoryWorkshop,
		Organizer: "Computing Society",
		Venue:     "Main Hall",
		StartsAt:  testNow.Add(48 * time.Hour),
		EndsAt:    testNow.Add(56 * time.Hour),
		Capacity:  capacity,
	})
	require.NoError(t, err)
	return e
}

func TestEventService_CreateAndList(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()

	e := createTestEvent(t, svc, 10)
	assert.Equal(t, model.LifecyclePlanned, e.Status)
	assert.Empty(t, e.Participants)
	assert.Equal(t, testNow, e.CreatedAt)

	page, err := svc.ListEvents(ctx, &event.GetEventsQuery{Search: "hack"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, e.ID, page.Data[0].ID)

	_, err = svc.GetEvent(ctx, e.ID)
	require.NoError(t, err)
}

func TestEventService_ListHugePage(t *testing.T) {
	svc, _ := newTestEventService(t)
	createTestEvent(t, svc, 10)

	var page model.PaginatedResponse[event.Event]
	var err error
	require.NotPanics(t, func() {
		page, err = svc.ListEvents(context.Background(), &event.GetEventsQuery{
			PageQuery: model.PageQuery{Page: 461168601842738792, Limit: 20},
		})
	})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, 1, page.Total)
}

func TestEventService_Registration(t *testing.T) {
	svc, jobs := newTestEventService(t)
	ctx := context.Background()
	e := createTestEvent(t, svc, 2)

	got, err := svc.RegisterParticipant(ctx, &event.RegisterParticipantPayload{
		ID: e.ID, StudentID: "S-001", Name: "Ada", Email: "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"S-001"}, got.Participants)
	assert.Equal(t, []string{job.TaskEventRegistration}, jobs.types())

	_, err = svc.RegisterParticipant(ctx, &event.RegisterParticipantPayload{ID: e.ID, StudentID: "S-001"})
	requireCode(t, err, "ALREADY_REGISTERED")

	_, err = svc.RegisterParticipant(ctx, &event.RegisterParticipantPayload{ID: e.ID, StudentID: "S-002"})
	require.NoError(t, err)

	_, err = svc.RegisterParticipant(ctx, &event.RegisterParticipantPayload{ID: e.ID, StudentID: "S-003"})
	requireCode(t, err, "EVENT_FULL")

	// Only the first registration carried an email.
	assert.Len(t, jobs.tasks, 1)

	got, err = svc.UnregisterParticipant(ctx, &event.UnregisterParticipantPayload{ID: e.ID, StudentID: "S-001"})
	require.NoError(t, err)
	assert.Equal(t, []string{"S-002"}, got.Participants)

	_, err = svc.UnregisterParticipant(ctx, &event.UnregisterParticipantPayload{ID: e.ID, StudentID: "S-001"})
	requireCode(t, err, "PARTICIPANT_NOT_FOUND")
}

func TestEventService_RegistrationClosedOnceRunning(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()
	e := createTestEvent(t, svc, 5)

	for _, want := range []model.Lifecycle{model.LifecycleScheduled, model.LifecycleInProgress} {
		got, err := svc.TransitionEvent(ctx, &event.TransitionEventPayload{ID: e.ID})
		require.NoError(t, err)
		assert.Equal(t, want, got.Status)
	}

	_, err := svc.RegisterParticipant(ctx, &event.RegisterParticipantPayload{ID: e.ID, StudentID: "S-009"})
	requireCode(t, err, "EVENT_CLOSED")

	_, err = svc.UpdateEvent(ctx, &event.UpdateEventPayload{ID: e.ID})
	requireCode(t, err, "EVENT_NOT_EDITABLE")

	_, err = svc.TransitionEvent(ctx, &event.TransitionEventPayload{ID: e.ID, Status: model.LifecycleCancelled})
	requireCode(t, err, "INVALID_STATUS_TRANSITION")

	err = svc.DeleteEvent(ctx, e.ID)
	requireCode(t, err, "EVENT_NOT_DELETABLE")
}

func TestEventService_Update(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()
	e := createTestEvent(t, svc, 3)

	for _, id := range []string{"S-1", "S-2"} {
		_, err := svc.RegisterParticipant(ctx, &event.RegisterParticipantPayload{ID: e.ID, StudentID: id})
		require.NoError(t, err)
	}

	one := 1
	_, err := svc.UpdateEvent(ctx, &event.UpdateEventPayload{ID: e.ID, Capacity: &one})
	require.Error(t, err)
	requireCode(t, err, "BAD_REQUEST")

	early := e.StartsAt.Add(-time.Hour)
	_, err = svc.UpdateEvent(ctx, &event.UpdateEventPayload{ID: e.ID, EndsAt: &early})
	require.Error(t, err)

	venue := "Sports Complex"
	got, err := svc.UpdateEvent(ctx, &event.UpdateEventPayload{ID: e.ID, Venue: &venue})
	require.NoError(t, err)
	assert.Equal(t, "Sports Complex", got.Venue)
}

func TestEventService_Delete(t *testing.T) {
	svc, _ := newTestEventService(t)
	ctx := context.Background()
	e := createTestEvent(t, svc, 3)

	require.NoError(t, svc.DeleteEvent(ctx, e.ID))

	_, err := svc.GetEvent(ctx, e.ID)
	requireCode(t, err, "EVENT_NOT_FOUND")
}
