package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solandra/intake-api/internal/errs"
)

var testValidate = validator.New()

type intakeForm struct {
	Name         string `json:"name" validate:"required,max=200"`
	MobileNumber string `json:"mobile_number" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
}

func (r *intakeForm) Validate() error {
	return testValidate.Struct(r)
}

func newTestContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestBindAndValidate(t *testing.T) {
	t.Run("accepts a valid payload", func(t *testing.T) {
		c := newTestContext(`{"name":"Ada","mobile_number":"+14155550100","email":"ada@example.com"}`)

		var form intakeForm
		require.NoError(t, BindAndValidate(c, &form))
		assert.Equal(t, "Ada", form.Name)
		assert.Equal(t, "+14155550100", form.MobileNumber)
	})

	t.Run("reports missing required fields", func(t *testing.T) {
		c := newTestContext(`{"email":"ada@example.com"}`)

		var form intakeForm
		err := BindAndValidate(c, &form)
		require.Error(t, err)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Status)
		assert.Equal(t, "Validation failed", httpErr.Message)
		require.Len(t, httpErr.Errors, 2)
		assert.Equal(t, errs.FieldError{Field: "name", Error: "is required"}, httpErr.Errors[0])
		assert.Equal(t, errs.FieldError{Field: "mobile_number", Error: "is required"}, httpErr.Errors[1])
	})

	t.Run("reports a malformed email", func(t *testing.T) {
		c := newTestContext(`{"name":"Ada","mobile_number":"+14155550100","email":"not-an-email"}`)

		var form intakeForm
		err := BindAndValidate(c, &form)
		require.Error(t, err)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Len(t, httpErr.Errors, 1)
		assert.Equal(t, "email", httpErr.Errors[0].Field)
		assert.Equal(t, "must be a valid email address", httpErr.Errors[0].Error)
	})

	t.Run("rejects malformed JSON as a 400", func(t *testing.T) {
		c := newTestContext(`{"name":`)

		var form intakeForm
		err := BindAndValidate(c, &form)
		require.Error(t, err)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Status)
	})

	t.Run("converts custom validation errors", func(t *testing.T) {
		c := newTestContext(`{}`)

		err := BindAndValidate(c, &customForm{})
		require.Error(t, err)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Len(t, httpErr.Errors, 1)
		assert.Equal(t, "agreed_to_terms", httpErr.Errors[0].Field)
	})
}

type customForm struct{}

func (r *customForm) Validate() error {
	return CustomValidationErrors{
		{Field: "agreed_to_terms", Message: "must be accepted"},
	}
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Name":         "name",
		"BusinessName": "business_name",
		"MobileNumber": "mobile_number",
		"ID":           "id",
		"APIKey":       "apikey",
		"UserID2":      "user_id2",
	}

	for in, want := range tests {
		assert.Equal(t, want, snakeCase(in), "input %q", in)
	}
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("11111111-1111-4111-8111-111111111111"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
}
