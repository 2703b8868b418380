// Package server defines the Server struct that composes the app's main
// dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool (only with postgres storage)
//   - redis client (only when an address is configured)
//   - background job service (asynq, or inline when disabled)
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/campus-manager/internal/config"
	"github.com/deppfellow/campus-manager/internal/database"
	"github.com/deppfellow/campus-manager/internal/lib/job"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/campus-manager/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself. DB and Redis are nil when the
// configuration does not ask for them.
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	LoggerService *loggerPkg.LoggerService

	DB *database.Database

	Redis *redis.Client

	// Job enqueues background tasks. Its worker is started separately
	// with StartJobs once handlers are registered.
	Job *job.JobService

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// Notes:
//   - PostgreSQL is only connected when storage.driver is "postgres", and a
//     failure there blocks startup.
//   - Redis connection failure does not block startup (it logs and continues).
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	var db *database.Database
	if cfg.UsesPostgres() {
		var err error
		db, err = database.New(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		// Instrument Redis commands when New Relic is enabled.
		if loggerService != nil && loggerService.GetApplication() != nil {
			redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without a working cache")
		}
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Redis:         redisClient,
		Job:           job.NewJobService(logger, cfg),
	}

	return server, nil
}

// StartJobs starts the asynq worker and scheduler. It is a no-op when jobs
// run inline.
func (s *Server) StartJobs() error {
	if s.Job == nil {
		return nil
	}
	return s.Job.Start()
}

// SetupHTTPServer configures the internal net/http server.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Config stores seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
//
// It requires SetupHTTPServer to be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("storage", s.Config.Storage.Driver).
		Bool("jobs", s.Job != nil && s.Job.Queued()).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and its dependencies.
//
// It stops the HTTP server (finishing inflight requests until ctx
// expires), then the job worker, then closes Redis and the DB pool.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}
