package router

import (
	"github.com/deppfellow/campus-manager/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.StaticFS("/static", handler.StaticFS())

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
