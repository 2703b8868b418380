// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/deppfellow/campus-manager/internal/handler"
	"github.com/deppfellow/campus-manager/internal/middleware"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/deppfellow/campus-manager/internal/service"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with global middleware, the system
// routes and the authenticated, rate limited /api/v1 group.
func NewRouter(s *server.Server, h *handler.Handlers, services *service.Services) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middleware.RequestID(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	if !services.Auth.Enabled() {
		s.Logger.Warn().Str("user_id", middleware.LocalUserID).Msg("authentication disabled, API requests run as the local user")
	}

	v1 := router.Group("/api/v1",
		middlewares.RateLimit.Limit(),
		middlewares.Auth.RequireAuth,
		// Rebuild the request logger so it carries the authenticated user.
		middlewares.ContextEnhancer.EnhanceContext(),
	)

	registerEventRoutes(v1, h)
	registerExamRoutes(v1, h)
	registerHostelRoutes(v1, h)
	registerPaymentRoutes(v1, h)
	registerTransportRoutes(v1, h)
	registerReportRoutes(v1, h)

	return router
}
