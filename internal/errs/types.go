package errs

import (
	"net/http"
)

func codeOrDefault(code *string, status int) string {
	if code != nil {
		return *code
	}
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewUnauthorizedError creates a 401 Unauthorized HTTPError.
func NewUnauthorizedError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     codeOrDefault(nil, http.StatusUnauthorized),
		Message:  message,
		Status:   http.StatusUnauthorized,
		Override: override,
	}
}

// NewForbiddenError creates a 403 Forbidden HTTPError.
func NewForbiddenError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     codeOrDefault(nil, http.StatusForbidden),
		Message:  message,
		Status:   http.StatusForbidden,
		Override: override,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code defaults to "BAD_REQUEST"; errors and action are optional.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	return &HTTPError{
		Code:     codeOrDefault(code, http.StatusBadRequest),
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	return &HTTPError{
		Code:     codeOrDefault(code, http.StatusNotFound),
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewConflictError creates a 409 Conflict HTTPError.
//
// Used when a request is well formed but the resource is in a state that
// does not allow it: an illegal status transition, a full room, a
// duplicate registration.
func NewConflictError(message string, override bool, code *string) *HTTPError {
	return &HTTPError{
		Code:     codeOrDefault(code, http.StatusConflict),
		Message:  message,
		Status:   http.StatusConflict,
		Override: override,
	}
}

// NewTooManyRequestsError creates a 429 HTTPError for the rate limiter.
func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		Code:     codeOrDefault(nil, http.StatusTooManyRequests),
		Message:  message,
		Status:   http.StatusTooManyRequests,
		Override: true,
	}
}

// NewInternalServerError creates a 500 HTTPError with the generic status text.
// The real cause is logged, never sent.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     codeOrDefault(nil, http.StatusInternalServerError),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// ValidationError converts a generic validation error into a 400 HTTPError.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}

// Code returns a pointer to c, for the optional code arguments above.
func Code(c string) *string {
	return &c
}
