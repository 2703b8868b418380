package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/campus-manager/internal/config"
	"github.com/deppfellow/campus-manager/internal/middleware"
	"github.com/deppfellow/campus-manager/internal/server"
	"github.com/deppfellow/campus-manager/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetPayload struct {
	Name string `json:"name" validate:"required,max=10"`
}

func (p *greetPayload) Validate() error {
	return validation.Struct(p)
}

func testHandler() (Handler, *echo.Echo) {
	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{Primary: config.Primary{Env: "test"}},
		Logger: &logger,
	}
	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	return NewHandler(s), e
}

func post(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandleBindsFreshPayloadPerRequest(t *testing.T) {
	h, e := testHandler()

	greet := func(c echo.Context, p *greetPayload) (map[string]string, error) {
		return map[string]string{"greeting": "hello " + p.Name}, nil
	}
	e.POST("/greet", Handle(h, greet, http.StatusCreated, &greetPayload{}))

	rec := post(e, "/greet", `{"name":"ada"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"greeting":"hello ada"}`, rec.Body.String())

	// A second request without a name must not see the previous binding.
	rec = post(e, "/greet", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleNoContent(t *testing.T) {
	h, e := testHandler()

	called := false
	e.POST("/noop", HandleNoContent(h, func(c echo.Context, p *greetPayload) error {
		called = true
		return nil
	}, http.StatusNoContent, &greetPayload{}))

	rec := post(e, "/noop", `{"name":"x"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, called)
}

func TestHandleFile(t *testing.T) {
	h, e := testHandler()

	e.POST("/file", HandleFile(h, func(c echo.Context, p *greetPayload) (*File, error) {
		return &File{Name: p.Name + ".txt", ContentType: "text/plain; charset=utf-8", Data: []byte("hi " + p.Name)}, nil
	}, http.StatusOK, &greetPayload{}))

	rec := post(e, "/file", `{"name":"ada"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="ada.txt"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "hi ada", rec.Body.String())
}

func TestNewRequestAllocates(t *testing.T) {
	template := &greetPayload{Name: "stale"}
	fresh := newRequest(template)

	assert.NotSame(t, template, fresh)
	assert.Empty(t, fresh.Name)
}
