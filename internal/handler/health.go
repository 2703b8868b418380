package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/campus-manager/internal/middleware"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth pings every configured backend. A failing database makes the
// service unhealthy (503); a failing Redis only degrades caching and jobs,
// so it is reported without failing the check.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]interface{}{}
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"storage":     h.server.Config.Storage.Driver,
		"jobs":        h.server.Job != nil && h.server.Job.Queued(),
		"checks":      checks,
	}
	isHealthy := true

	if h.server.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		checks["database"] = h.ping(logger, "database", func() error {
			return h.server.DB.Pool.Ping(ctx)
		})
		if checks["database"].(map[string]interface{})["status"] != "healthy" {
			isHealthy = false
		}
	}

	if h.server.Redis != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		checks["redis"] = h.ping(logger, "redis", func() error {
			return h.server.Redis.Ping(ctx).Err()
		})
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthError("overall", map[string]interface{}{
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) ping(logger zerolog.Logger, name string, ping func() error) map[string]interface{} {
	started := time.Now()
	err := ping()
	elapsed := time.Since(started)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("response_time", elapsed).
			Msgf("%s health check failed", name)

		h.recordHealthError(name, map[string]interface{}{
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return map[string]interface{}{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}
	}

	return map[string]interface{}{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}
}

func (h *HealthHandler) recordHealthError(checkType string, attrs map[string]interface{}) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}
	attrs["check_type"] = checkType
	attrs["operation"] = "health_check"
	attrs["error_type"] = checkType + "_unhealthy"
	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attrs)
}
