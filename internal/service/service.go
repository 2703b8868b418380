// Package service holds the business rules of each campus manager.
//
// Services validate state (lifecycles, capacity, ownership), call the
// repositories and translate repository sentinels into errs.HTTPError
// values. Notifications and long-running work are handed to the job
// queue through Enqueuer.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/deppfellow/campus-manager/internal/errs"
	"github.com/deppfellow/campus-manager/internal/model"
	"github.com/deppfellow/campus-manager/internal/repository"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/deppfellow/campus-manager/internal/sqlerr"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Enqueuer is implemented by job.JobService.
type Enqueuer interface {
	Enqueue(ctx context.Context, task *asynq.Task) error
	// Queued is false when tasks run inline.
	Queued() bool
}

func componentLogger(s *server.Server, component string) zerolog.Logger {
	if s == nil || s.Logger == nil {
		return zerolog.Nop()
	}
	return s.Logger.With().Str("component", component).Logger()
}

func notFound(entity string) *errs.HTTPError {
	return errs.NewNotFoundError(entity+" not found", true, errs.Code(errs.MakeUpperCaseWithUnderscores(entity)+"_NOT_FOUND"))
}

func conflict(code, message string) *errs.HTTPError {
	return errs.NewConflictError(message, true, errs.Code(code))
}

func badRequest(code, message string) *errs.HTTPError {
	return errs.NewBadRequestError(message, true, errs.Code(code), nil, nil)
}

// repoErr translates repository sentinels. onConflict replaces
// ErrConflict when the caller knows what the conflict means; otherwise
// sqlerr describes the violated constraint.
func repoErr(err error, entity string, onConflict *errs.HTTPError) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound(entity)
	case errors.Is(err, repository.ErrConflict):
		if onConflict != nil {
			return onConflict
		}
		if converted := sqlerr.HandleError(err); errs.StatusOf(converted) != http.StatusInternalServerError {
			return converted
		}
		return conflict(errs.MakeUpperCaseWithUnderscores(entity)+"_CONFLICT", entity+" was changed by another request")
	default:
		return err
	}
}

func transitionErr(entity string, err error) error {
	if errors.Is(err, model.ErrInvalidTransition) {
		return conflict("INVALID_STATUS_TRANSITION", fmt.Sprintf("%s: %v", entity, err))
	}
	return err
}

// nextLifecycle resolves an empty target to the next step of the sequence.
func nextLifecycle(entity string, current, target model.Lifecycle) (model.Lifecycle, error) {
	if target != "" {
		return target, nil
	}
	next, ok := current.Next()
	if !ok {
		return "", conflict("INVALID_STATUS_TRANSITION", fmt.Sprintf("%s is %s and has no next status", entity, current))
	}
	return next, nil
}

func pageOf(q model.PageQuery) repository.Page {
	n := q.Normalize()
	return repository.Page{Limit: n.Limit, Offset: q.Offset()}
}

// dispatch hands a notification task to the queue. Notifications are best
// effort: failures are logged and never fail the calling operation.
func dispatch(ctx context.Context, jobs Enqueuer, log *zerolog.Logger, build func() (*asynq.Task, error)) {
	if jobs == nil {
		return
	}

	task, err := build()
	if err != nil {
		log.Error().Err(err).Msg("failed to build notification task")
		return
	}

	if err := jobs.Enqueue(ctx, task); err != nil {
		log.Warn().Err(err).Str("type", task.Type()).Msg("failed to dispatch notification")
	}
}
