package handler

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/labstack/echo/v4"
)

//go:embed static
var staticFiles embed.FS

// StaticFS serves the API documentation assets under /static.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := staticFiles.ReadFile("static/openapi.html")
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err := c.HTMLBlob(http.StatusOK, templateBytes); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
