package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/campus-manager/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createRoomRequest struct {
	Block    string `json:"block" validate:"required,max=10"`
	Capacity int    `json:"capacity" validate:"gte=1,max=12"`
	Type     string `json:"room_type" validate:"required,oneof=SINGLE DOUBLE"`
}

func (r *createRoomRequest) Validate() error {
	return Struct(r)
}

type customRequest struct {
	Name string `json:"name"`
}

func (r *customRequest) Validate() error {
	if r.Name == "reserved" {
		return CustomValidationErrors{{Field: "name", Message: "is reserved"}}
	}
	return nil
}

func newContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidate_OK(t *testing.T) {
	req := &createRoomRequest{}
	err := BindAndValidate(newContext(`{"block":"A","capacity":2,"room_type":"DOUBLE"}`), req)
	require.NoError(t, err)
	assert.Equal(t, "A", req.Block)
	assert.Equal(t, 2, req.Capacity)
}

func TestBindAndValidate_FieldErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{"capacity":0,"room_type":"SUITE"}`), &createRoomRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "block", Error: "is required"},
		{Field: "capacity", Error: "must be at least 1"},
		{Field: "room_type", Error: "must be one of: SINGLE DOUBLE"},
	}, httpErr.Errors)
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	err := BindAndValidate(newContext(`{"block":`), &createRoomRequest{})
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{"name":"reserved"}`), &customRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, []errs.FieldError{{Field: "name", Error: "is reserved"}}, httpErr.Errors)
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("6f1c2b1e-8d3a-4f7e-9b2c-1a2b3c4d5e6f"))
	assert.False(t, IsValidUUID("room-101"))
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "starts_at", toSnake("StartsAt"))
}
