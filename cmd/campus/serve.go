package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/campus-manager/internal/config"
	"github.com/deppfellow/campus-manager/internal/database"
	"github.com/deppfellow/campus-manager/internal/handler"
	"github.com/deppfellow/campus-manager/internal/logger"
	"github.com/deppfellow/campus-manager/internal/repository"
	"github.com/deppfellow/campus-manager/internal/router"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/deppfellow/campus-manager/internal/service"
	"github.com/spf13/cobra"
)

const DefaultContextTimeout = 30

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the background job worker",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	if cfg.UsesPostgres() && cfg.Storage.AutoMigrate {
		if err := database.Migrate(cmd.Context(), &log, cfg, -1); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewService(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create services")
	}

	// Handlers are registered by NewService, so the worker starts after it.
	if err := srv.StartJobs(); err != nil {
		log.Fatal().Err(err).Msg("failed to start job worker")
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers, services)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
