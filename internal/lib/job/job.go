// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - Tasks are enqueued (producer) with asynq.Client.
//   - A server runs workers that process them (consumer) with asynq.Server.
//   - A scheduler enqueues periodic tasks from a cron spec.
//
// When jobs are disabled the JobService runs every enqueued task inline
// through the same ServeMux, so callers do not branch on the mode.
package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/campus-manager/internal/config"
	"github.com/deppfellow/campus-manager/internal/model/report"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// JobService holds the Asynq client (enqueue), server (worker execution)
// and scheduler (periodic tasks).
type JobService struct {
	// Client is nil when jobs run inline.
	Client *asynq.Client

	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux

	cfg    *config.Config
	logger *zerolog.Logger
}

// NewJobService creates a JobService. A Redis-backed queue is only built
// when cfg.Jobs.Enabled is set.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	j := &JobService{
		mux:    asynq.NewServeMux(),
		cfg:    cfg,
		logger: logger,
	}

	if !cfg.Jobs.Enabled {
		return j
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	j.Client = asynq.NewClient(redisOpt)

	// Queue weights share the workers by ratio: out of 10 tasks roughly
	// 6 critical, 3 default and 1 low.
	j.server = asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Jobs.Concurrency,
		Queues: map[string]int{
			QueueCritical: 6,
			QueueDefault:  3,
			QueueLow:      1,
		},
		Logger:   asynqLogger{logger: logger},
		LogLevel: asynq.WarnLevel,
	})

	if cfg.Jobs.OccupancyReportCron != "" {
		j.scheduler = asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
			Logger:   asynqLogger{logger: logger},
			LogLevel: asynq.WarnLevel,
		})
	}

	return j
}

// Queued reports whether tasks go through Redis.
func (j *JobService) Queued() bool {
	return j.Client != nil
}

// Enqueue hands task to the queue, or processes it right away when jobs
// run inline.
func (j *JobService) Enqueue(ctx context.Context, task *asynq.Task) error {
	if !j.Queued() {
		return j.mux.ProcessTask(ctx, task)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		j.logger.Debug().Str("type", task.Type()).Msg("task already queued")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", task.Type(), err)
	}

	j.logger.Debug().
		Str("type", task.Type()).
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("task enqueued")
	return nil
}

// Start registers the periodic tasks and starts the worker. Both run in
// background goroutines; Start returns once they are up.
func (j *JobService) Start() error {
	if !j.Queued() {
		j.logger.Info().Msg("background jobs disabled, tasks run inline")
		return nil
	}

	if j.scheduler != nil {
		task, err := NewScheduledReportTask(report.TypeHostelOccupancy)
		if err != nil {
			return err
		}
		entryID, err := j.scheduler.Register(j.cfg.Jobs.OccupancyReportCron, task)
		if err != nil {
			return fmt.Errorf("failed to register occupancy report schedule: %w", err)
		}
		if err := j.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		j.logger.Info().
			Str("cron", j.cfg.Jobs.OccupancyReportCron).
			Str("entry_id", entryID).
			Msg("periodic occupancy report scheduled")
	}

	j.logger.Info().Int("concurrency", j.cfg.Jobs.Concurrency).Msg("starting background job server")

	if err := j.server.Start(j.mux); err != nil {
		return fmt.Errorf("failed to start job server: %w", err)
	}

	return nil
}

// Stop gracefully stops the scheduler and the worker, then closes the
// client.
func (j *JobService) Stop() {
	if !j.Queued() {
		return
	}

	j.logger.Info().Msg("stopping background job server")
	if j.scheduler != nil {
		j.scheduler.Shutdown()
	}
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("failed to close job client")
	}
}

// asynqLogger routes asynq's own logs through zerolog.
type asynqLogger struct {
	logger *zerolog.Logger
}

func (l asynqLogger) Debug(args ...any) { l.logger.Debug().Str("component", "asynq").Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...any)  { l.logger.Info().Str("component", "asynq").Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...any)  { l.logger.Warn().Str("component", "asynq").Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...any) { l.logger.Error().Str("component", "asynq").Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...any) { l.logger.Fatal().Str("component", "asynq").Msg(fmt.Sprint(args...)) }
