package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/campus-manager/internal/config"
	"github.com/deppfellow/campus-manager/internal/errs"
	"github.com/deppfellow/campus-manager/internal/handler"
	"github.com/deppfellow/campus-manager/internal/lib/export"
	"github.com/deppfellow/campus-manager/internal/middleware"
	"github.com/deppfellow/campus-manager/internal/repository"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/deppfellow/campus-manager/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server:  config.ServerConfig{Port: "0"},
		Storage: config.StorageConfig{Driver: config.StorageMemory},
		Auth:    config.AuthConfig{Disabled: true},
	}
	logger := zerolog.Nop()
	s := &server.Server{Config: cfg, Logger: &logger}

	services, err := service.NewService(s, repository.NewMemoryRepositories())
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services), services)
}

func do(t *testing.T, r *echo.Echo, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestSystemRoutes(t *testing.T) {
	r := newTestRouter(t)

	t.Run("status", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/status", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[map[string]any](t, rec)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, config.StorageMemory, body["storage"])
		assert.Equal(t, false, body["jobs"])
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("docs", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/docs", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "/static/openapi.json")
	})

	t.Run("openapi document", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/static/openapi.json", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		doc := decode[map[string]any](t, rec)
		paths := doc["paths"].(map[string]any)
		assert.Contains(t, paths, "/api/v1/reports/{id}/export")
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/api/v1/nowhere", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEventRoutes(t *testing.T) {
	r := newTestRouter(t)

	t.Run("validation errors name json fields", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/api/v1/events", map[string]any{"title": "x"})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decode[errs.HTTPError](t, rec)
		fields := make([]string, 0, len(body.Errors))
		for _, fe := range body.Errors {
			fields = append(fields, fe.Field)
		}
		assert.Contains(t, fields, "title")
		assert.Contains(t, fields, "venue")
	})

	rec := do(t, r, http.MethodPost, "/api/v1/events", map[string]any{
		"title":     "Robotics Workshop",
		"category":  "WORKSHOP",
		"organizer": "Engineering Club",
		"venue":     "Lab 3",
		"starts_at": "2030-05-10T09:00:00Z",
		"ends_at":   "2030-05-10T12:00:00Z",
		"capacity":  1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	id := created["id"].(string)

	rec = do(t, r, http.MethodPost, "/api/v1/events/"+id+"/participants", map[string]any{"student_id": "S-1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/api/v1/events/"+id+"/participants", map[string]any{"student_id": "S-2"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EVENT_FULL", decode[errs.HTTPError](t, rec).Code)

	rec = do(t, r, http.MethodDelete, "/api/v1/events/"+id+"/participants/S-1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/api/v1/events?category=WORKSHOP", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, page["total"])

	rec = do(t, r, http.MethodDelete, "/api/v1/events/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/v1/events/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "EVENT_NOT_FOUND", decode[errs.HTTPError](t, rec).Code)
}

func TestHostelRoutes(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/v1/hostel/rooms", map[string]any{
		"block":       "A",
		"number":      "101",
		"room_type":   "SINGLE",
		"capacity":    1,
		"monthly_fee": "250.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	roomID := decode[map[string]any](t, rec)["id"].(string)

	rec = do(t, r, http.MethodPost, "/api/v1/hostel/allocations", map[string]any{"room_id": roomID, "student_id": "S-1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/api/v1/hostel/allocations", map[string]any{"room_id": roomID, "student_id": "S-2"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ROOM_FULL", decode[errs.HTTPError](t, rec).Code)

	rec = do(t, r, http.MethodGet, "/api/v1/hostel/occupancy", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestReportRoutes(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/v1/payments", map[string]any{
		"student_id": "S-1",
		"amount":     "150.50",
		"currency":   "usd",
		"purpose":    "TUITION",
		"method":     "CARD",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/api/v1/reports", map[string]any{"report_type": "PAYMENT_SUMMARY"})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	rep := decode[map[string]any](t, rec)
	assert.Equal(t, "READY", rep["status"])
	assert.Equal(t, middleware.LocalUserID, rep["requested_by"])
	id := rep["id"].(string)

	t.Run("text export", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/api/v1/reports/"+id+"/export", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		assert.Equal(t, export.ContentTypeText, rec.Header().Get(echo.HeaderContentType))
		assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentDisposition), "attachment; filename=\"payment-summary-"))
		assert.Contains(t, rec.Body.String(), "150.50")
	})

	t.Run("xlsx export", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/api/v1/reports/"+id+"/export?format=xlsx", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, export.ContentTypeXLSX, rec.Header().Get(echo.HeaderContentType))

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		assert.NotEmpty(t, f.GetSheetList())
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/api/v1/reports/"+id+"/export?format=pdf", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("exam report needs exam_id", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/api/v1/reports", map[string]any{"report_type": "EXAM_RESULTS"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	rec = do(t, r, http.MethodDelete, "/api/v1/reports/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
