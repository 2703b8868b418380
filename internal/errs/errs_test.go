package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *HTTPError
		status int
		code   string
	}{
		{"unauthorized", NewUnauthorizedError("no token", false), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", NewForbiddenError("nope", false), http.StatusForbidden, "FORBIDDEN"},
		{"bad request", NewBadRequestError("bad", false, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"bad request with code", NewBadRequestError("bad", false, Code("MARKS_OUT_OF_RANGE"), nil, nil), http.StatusBadRequest, "MARKS_OUT_OF_RANGE"},
		{"not found", NewNotFoundError("missing", false, nil), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", NewConflictError("busy", true, Code("ROOM_FULL")), http.StatusConflict, "ROOM_FULL"},
		{"too many requests", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestHTTPError_Is(t *testing.T) {
	roomFull := NewConflictError("Room is full", true, Code("ROOM_FULL"))
	wrapped := fmt.Errorf("allocate: %w", roomFull)

	assert.True(t, errors.Is(wrapped, &HTTPError{}))
	assert.True(t, errors.Is(wrapped, &HTTPError{Code: "ROOM_FULL"}))
	assert.False(t, errors.Is(wrapped, &HTTPError{Code: "EVENT_FULL"}))
	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))
}

func TestStatusAndCodeOf(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewNotFoundError("Exam not found", true, Code("EXAM_NOT_FOUND")))
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
	assert.Equal(t, "EXAM_NOT_FOUND", CodeOf(err))
	assert.Zero(t, StatusOf(errors.New("x")))
	assert.Empty(t, CodeOf(nil))
}

func TestWithMessage(t *testing.T) {
	base := NewBadRequestError("a", true, nil, []FieldError{{Field: "x", Error: "y"}}, nil)
	copied := base.WithMessage("b")

	assert.Equal(t, "a", base.Message)
	assert.Equal(t, "b", copied.Message)
	assert.Equal(t, base.Errors, copied.Errors)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
}
