package sqlerr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/campus-manager/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_PgErrors(t *testing.T) {
	tests := []struct {
		name    string
		pgErr   *pgconn.PgError
		status  int
		code    string
		message string
	}{
		{
			name: "unique violation on registration number",
			pgErr: &pgconn.PgError{
				Code: "23505", Severity: "ERROR", TableName: "vehicles",
				ConstraintName: "uq_vehicles__registration_number",
			},
			status:  http.StatusConflict,
			code:    "VEHICLE_ALREADY_EXISTS",
			message: "A Vehicle with this Registration Number already exists",
		},
		{
			name:    "foreign key violation",
			pgErr:   &pgconn.PgError{Code: "23503", TableName: "allocations", ColumnName: "room_id"},
			status:  http.StatusBadRequest,
			code:    "ALLOCATION_NOT_FOUND",
			message: "The referenced Room does not exist",
		},
		{
			name:    "not null violation",
			pgErr:   &pgconn.PgError{Code: "23502", TableName: "exams", ColumnName: "course_code"},
			status:  http.StatusBadRequest,
			code:    "EXAM_REQUIRED",
			message: "The Course Code is required",
		},
		{
			name:    "check violation",
			pgErr:   &pgconn.PgError{Code: "23514", TableName: "rooms", ColumnName: "capacity"},
			status:  http.StatusBadRequest,
			code:    "ROOM_INVALID",
			message: "The Capacity value does not meet required conditions",
		},
		{
			name:    "unknown error",
			pgErr:   &pgconn.PgError{Code: "XX000"},
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_SERVER_ERROR",
			message: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HandleError(fmt.Errorf("insert: %w", tt.pgErr))

			var httpErr *errs.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.code, httpErr.Code)
			assert.Equal(t, tt.message, httpErr.Message)
		})
	}
}

func TestHandleError_NoRows(t *testing.T) {
	err := HandleError(fmt.Errorf("table:exam_results: %w", pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))
	assert.Equal(t, "Exam Result not found", err.Error())

	err = HandleError(pgx.ErrNoRows)
	assert.Equal(t, "Resource not found", err.Error())
}

func TestHandleError_PassThrough(t *testing.T) {
	original := errs.NewConflictError("Room is full", true, errs.Code("ROOM_FULL"))
	assert.Same(t, original, HandleError(original))

	assert.Equal(t, http.StatusInternalServerError, errs.StatusOf(HandleError(fmt.Errorf("boom"))))
}

func TestMapCodeAndSeverity(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, ExclusionViolation, MapCode("23P01"))
	assert.Equal(t, Other, MapCode("00000"))
	assert.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	assert.Equal(t, SeverityError, MapSeverity("weird"))

	converted := ConvertPgError(&pgconn.PgError{Code: "23505", Severity: "ERROR"})
	assert.Equal(t, UniqueViolation, ErrCode(converted))
	assert.Equal(t, Other, ErrCode(fmt.Errorf("x")))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "license_number", extractColumnForUniqueViolation("uq_drivers__license_number"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("unique_users_email"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("users_email_key"))
	assert.Empty(t, extractColumnForUniqueViolation(""))
}
