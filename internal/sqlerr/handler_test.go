package sqlerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solandra/intake-api/internal/errs"
)

func TestHandleError(t *testing.T) {
	t.Run("passes through an existing HTTPError", func(t *testing.T) {
		orig := errs.NewNotFoundError("Submission not found", true, nil)

		err := HandleError(orig)
		assert.Same(t, orig, err)
	})

	t.Run("maps a unique violation on mobile number", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           sqlstateUniqueViolation,
			Severity:       "ERROR",
			Message:        "duplicate key value violates unique constraint",
			TableName:      "submissions",
			ConstraintName: "submissions_mobile_number_key",
		}

		err := HandleError(pgErr)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Status)
		assert.True(t, httpErr.Override)
		assert.Equal(t, "SUBMISSION_ALREADY_EXISTS", httpErr.Code)
		assert.Equal(t, "A Submission with this Mobile Number already exists", httpErr.Message)
	})

	t.Run("maps a unique violation on email", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           sqlstateUniqueViolation,
			Severity:       "ERROR",
			TableName:      "submissions",
			ConstraintName: "submissions_email_key",
		}

		err := HandleError(pgErr)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Status)
		assert.Equal(t, "A Submission with this Email already exists", httpErr.Message)
	})

	t.Run("maps a check violation", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:       sqlstateCheckViolation,
			Severity:   "ERROR",
			TableName:  "submissions",
			ColumnName: "agreed_to_terms",
		}

		err := HandleError(pgErr)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Status)
		assert.Equal(t, "SUBMISSION_INVALID", httpErr.Code)
		assert.Equal(t, "The Agreed To Terms value does not meet required conditions", httpErr.Message)
	})

	t.Run("maps a not null violation with field errors", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:       sqlstateNotNullViolation,
			Severity:   "ERROR",
			TableName:  "submissions",
			ColumnName: "name",
		}

		err := HandleError(pgErr)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Status)
		assert.Equal(t, "SUBMISSION_REQUIRED", httpErr.Code)
		require.Len(t, httpErr.Errors, 1)
		assert.Equal(t, "name", httpErr.Errors[0].Field)
	})

	t.Run("maps ErrNoRows to a 404", func(t *testing.T) {
		err := HandleError(pgx.ErrNoRows)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 404, httpErr.Status)
		assert.Equal(t, "Resource not found", httpErr.Message)
	})

	t.Run("uses the table annotation for 404 phrasing", func(t *testing.T) {
		annotated := fmt.Errorf("table:submissions: %w", pgx.ErrNoRows)

		err := HandleError(annotated)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 404, httpErr.Status)
		assert.Equal(t, "Submission not found", httpErr.Message)
	})

	t.Run("maps unknown errors to a 500", func(t *testing.T) {
		err := HandleError(errors.New("network blip"))

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 500, httpErr.Status)
	})

	t.Run("maps an unrecognized pg error to a 500", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "57014", Severity: "ERROR"}

		err := HandleError(pgErr)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 500, httpErr.Status)
	})
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		table      string
		constraint string
		want       string
	}{
		{"table prefixed key", "submissions", "submissions_mobile_number_key", "mobile_number"},
		{"table prefixed ukey", "submissions", "submissions_email_ukey", "email"},
		{"unique prefix convention", "submissions", "unique_submissions_email", "email"},
		{"suffix fallback without table", "", "accounts_email_key", "email"},
		{"empty constraint", "submissions", "", ""},
		{"unrecognized shape", "submissions", "some_random_index", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractColumnForUniqueViolation(tt.table, tt.constraint))
		})
	}
}

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode(sqlstateUniqueViolation))
	assert.Equal(t, ForeignKeyViolation, MapCode(sqlstateForeignKeyViolation))
	assert.Equal(t, NotNullViolation, MapCode(sqlstateNotNullViolation))
	assert.Equal(t, CheckViolation, MapCode(sqlstateCheckViolation))
	assert.Equal(t, Other, MapCode("57014"))
}
