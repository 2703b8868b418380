package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/campus-manager/internal/config"
	"github.com/deppfellow/campus-manager/internal/errs"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(mutate func(*config.Config)) *server.Server {
	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server:  config.ServerConfig{Port: "0"},
		Auth:    config.AuthConfig{Disabled: true},
	}
	if mutate != nil {
		mutate(cfg)
	}
	logger := zerolog.Nop()
	return &server.Server{Config: cfg, Logger: &logger}
}

func newEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates one", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("keeps the incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", rec.Body.String())
	})
}

func TestRequireAuthDisabled(t *testing.T) {
	s := testServer(nil)
	e := newEcho(s)
	e.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusOK, GetUserID(c))
	}, NewAuthMiddleware(s).RequireAuth)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, LocalUserID, rec.Body.String())
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	s := testServer(func(c *config.Config) { c.Auth.Disabled = false })
	e := newEcho(s)
	e.GET("/me", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, NewAuthMiddleware(s).RequireAuth)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)
}

func TestRateLimit(t *testing.T) {
	s := testServer(func(c *config.Config) { c.Server.RateLimit = 1 })
	e := newEcho(s)
	e.GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, NewRateLimitMiddleware(s).Limit())

	codes := make([]int, 0, 5)
	for range 5 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, http.StatusNoContent, codes[0])
	assert.Contains(t, codes, http.StatusTooManyRequests)
}

func TestRateLimitDisabled(t *testing.T) {
	s := testServer(nil)
	e := newEcho(s)
	e.GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, NewRateLimitMiddleware(s).Limit())

	for range 20 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestGlobalErrorHandler(t *testing.T) {
	s := testServer(nil)
	e := newEcho(s)
	e.GET("/conflict", func(c echo.Context) error {
		return errs.NewConflictError("Event is full", true, errs.Code("EVENT_FULL"))
	})
	e.GET("/boom", func(c echo.Context) error {
		return assert.AnError
	})

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"http error", "/conflict", http.StatusConflict, "EVENT_FULL"},
		{"unknown route", "/nowhere", http.StatusNotFound, "NOT_FOUND"},
		{"plain error", "/boom", http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.status, body.Status)
		})
	}
}

func TestGetLoggerFallback(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.NotNil(t, GetLogger(c))
	assert.NotNil(t, LoggerFromContext(c.Request().Context()))
}
