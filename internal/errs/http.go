// Package errs defines the error shape returned to API clients.
//
// Every failure that reaches the HTTP layer is rendered as an HTTPError:
//   - Code: machine-friendly error code (e.g. "EVENT_FULL").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Errors: field-level validation errors, if any.
//   - Action: optional client instruction (e.g. redirect).
package errs

import (
	"errors"
	"strings"
)

// FieldError represents a field-level validation error.
//
//	{ "field": "capacity", "error": "must be at least 1" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	ActionTypeRedirect ActionType = "redirect"
)

// Action describes an optional "what the client should do next" instruction.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the main error type for API responses.
// Override tells the error handler the message is safe to show verbatim.
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
	Action   *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is matches any *HTTPError with the same Code. A target without a code
// matches every HTTPError.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
	}
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an HTTPError.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

// CodeOf returns the code carried by err, or "" when err is not an HTTPError.
func CodeOf(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return ""
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
