package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/deppfellow/campus-manager/internal/errs"
	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/repository"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// fakeJobs records tasks instead of running them.
type fakeJobs struct {
	queued bool
	err    error
	tasks  []*asynq.Task
}

func (f *fakeJobs) Enqueue(ctx context.Context, task *asynq.Task) error {
	if f.err != nil {
		return f.err
	}
	f.tasks = append(f.tasks, task)
	return nil
}

func (f *fakeJobs) Queued() bool { return f.queued }

func (f *fakeJobs) types() []string {
	out := make([]string, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, t.Type())
	}
	return out
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, code, httpErr.Code)
}

func TestRepoErr(t *testing.T) {
	assert.NoError(t, repoErr(nil, "Room", nil))

	requireCode(t, repoErr(repository.ErrNotFound, "Room", nil), "ROOM_NOT_FOUND")
	requireCode(t, repoErr(fmt.Errorf("wrapped: %w", repository.ErrConflict), "Room", conflict("ROOM_FULL", "full")), "ROOM_FULL")
	requireCode(t, repoErr(repository.ErrConflict, "Room", nil), "ROOM_CONFLICT")

	plain := errors.New("connection reset")
	assert.Same(t, plain, repoErr(plain, "Room", nil))
}

func TestNextLifecycle(t *testing.T) {
	got, err := nextLifecycle("Event", model.LifecyclePlanned, "")
	require.NoError(t, err)
	assert.Equal(t, model.LifecycleScheduled, got)

	got, err = nextLifecycle("Event", model.LifecyclePlanned, model.LifecycleCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.LifecycleCancelled, got)

	_, err = nextLifecycle("Event", model.LifecycleCompleted, "")
	requireCode(t, err, "INVALID_STATUS_TRANSITION")
}

func TestTransitionErr(t *testing.T) {
	_, moveErr := model.LifecycleTransitions.Move(model.LifecycleCompleted, model.LifecyclePlanned)
	requireCode(t, transitionErr("Exam", moveErr), "INVALID_STATUS_TRANSITION")

	other := errors.New("boom")
	assert.Same(t, other, transitionErr("Exam", other))
}

func TestPageOf(t *testing.T) {
	assert.Equal(t, repository.Page{Limit: model.DefaultPageLimit, Offset: 0}, pageOf(model.PageQuery{}))
	assert.Equal(t, repository.Page{Limit: 5, Offset: 10}, pageOf(model.PageQuery{Page: 3, Limit: 5}))
}

func TestDispatch_FailuresAreSwallowed(t *testing.T) {
	jobs := &fakeJobs{err: errors.New("redis down")}
	log := componentLogger(nil, "test")

	assert.NotPanics(t, func() {
		dispatch(context.Background(), jobs, &log, func() (*asynq.Task, error) {
			return asynq.NewTask("email:test", nil), nil
		})
		dispatch(context.Background(), jobs, &log, func() (*asynq.Task, error) {
			return nil, errors.New("bad payload")
		})
		dispatch(context.Background(), nil, &log, func() (*asynq.Task, error) {
			t.Fatal("build must not run without a queue")
			return nil, nil
		})
	})
	assert.Empty(t, jobs.tasks)
}
