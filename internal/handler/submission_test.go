package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solandra/intake-api/internal/config"
	"github.com/solandra/intake-api/internal/errs"
	"github.com/solandra/intake-api/internal/model"
	"github.com/solandra/intake-api/internal/server"
	"github.com/solandra/intake-api/internal/service"
)

type stubStore struct {
	submissions []model.Submission
	deleteErr   error
}

func (s *stubStore) Insert(_ context.Context, sub *model.Submission) error {
	s.submissions = append(s.submissions, *sub)
	return nil
}

func (s *stubStore) List(_ context.Context) ([]model.Submission, error) {
	return s.submissions, nil
}

func (s *stubStore) Delete(_ context.Context, id string) error {
	return s.deleteErr
}

func (s *stubStore) MobileNumberExists(_ context.Context, mobile string) (bool, error) {
	for _, sub := range s.submissions {
		if sub.MobileNumber == mobile {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, sub := range s.submissions {
		if sub.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func newHandlerTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Email: &config.EmailConfig{Enabled: false},
			Admin: config.AdminConfig{Password: "admin123"},
		},
		Logger: &logger,
	}
}

func newSubmissionHandler(srv *server.Server, store *stubStore) *SubmissionHandler {
	svc := service.NewSubmissionService(srv, store, nil)
	return NewSubmissionHandler(srv, svc)
}

func jsonRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func TestSubmissionCreateHandler(t *testing.T) {
	t.Run("returns the stored submission", func(t *testing.T) {
		srv := newHandlerTestServer()
		store := &stubStore{}
		h := newSubmissionHandler(srv, store)

		e := echo.New()
		req, rec := jsonRequest(http.MethodPost, "/api/submissions",
			`{"name":"Ada Lovelace","business_name":"Analytical Engines Ltd","mobile_number":"+14155550100","email":"ada@example.com","agreed_to_terms":true}`)
		c := e.NewContext(req, rec)

		require.NoError(t, h.Create()(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var got model.Submission
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, "Ada Lovelace", got.Name)
		assert.True(t, got.AgreedToTerms)
		assert.False(t, got.Timestamp.IsZero())
		require.Len(t, store.submissions, 1)
	})

	t.Run("rejects a refusal of the terms", func(t *testing.T) {
		h := newSubmissionHandler(newHandlerTestServer(), &stubStore{})

		e := echo.New()
		req, rec := jsonRequest(http.MethodPost, "/api/submissions",
			`{"name":"Ada","business_name":"AE Ltd","mobile_number":"+14155550100","agreed_to_terms":false}`)
		c := e.NewContext(req, rec)

		err := h.Create()(c)
		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, "You must agree to the terms and conditions", httpErr.Message)
	})

	t.Run("rejects a duplicate mobile number", func(t *testing.T) {
		store := &stubStore{submissions: []model.Submission{{MobileNumber: "+14155550100"}}}
		h := newSubmissionHandler(newHandlerTestServer(), store)

		e := echo.New()
		req, rec := jsonRequest(http.MethodPost, "/api/submissions",
			`{"name":"Ada","business_name":"AE Ltd","mobile_number":"+14155550100","agreed_to_terms":true}`)
		c := e.NewContext(req, rec)

		err := h.Create()(c)
		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, "A submission with this mobile number already exists", httpErr.Message)
	})

	t.Run("rejects a payload missing required fields", func(t *testing.T) {
		h := newSubmissionHandler(newHandlerTestServer(), &stubStore{})

		e := echo.New()
		req, rec := jsonRequest(http.MethodPost, "/api/submissions", `{"agreed_to_terms":true}`)
		c := e.NewContext(req, rec)

		err := h.Create()(c)
		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.NotEmpty(t, httpErr.Errors)
	})
}

func TestSubmissionListHandler(t *testing.T) {
	store := &stubStore{submissions: []model.Submission{
		{ID: "b", Name: "Newest"},
		{ID: "a", Name: "Oldest"},
	}}
	h := newSubmissionHandler(newHandlerTestServer(), store)

	e := echo.New()
	req, rec := jsonRequest(http.MethodGet, "/api/submissions", "")
	c := e.NewContext(req, rec)

	require.NoError(t, h.List()(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []model.Submission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
}

func TestSubmissionDeleteHandler(t *testing.T) {
	t.Run("returns a success envelope", func(t *testing.T) {
		h := newSubmissionHandler(newHandlerTestServer(), &stubStore{})

		e := echo.New()
		req, rec := jsonRequest(http.MethodDelete, "/", "")
		c := e.NewContext(req, rec)
		c.SetPath("/api/submissions/:id")
		c.SetParamNames("id")
		c.SetParamValues("11111111-1111-1111-1111-111111111111")

		require.NoError(t, h.Delete()(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var got StatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.True(t, got.Success)
		assert.Equal(t, "Submission deleted", got.Message)
	})

	t.Run("propagates the store's 404", func(t *testing.T) {
		store := &stubStore{deleteErr: errs.NewNotFoundError("Submission not found", true, nil)}
		h := newSubmissionHandler(newHandlerTestServer(), store)

		e := echo.New()
		req, rec := jsonRequest(http.MethodDelete, "/", "")
		c := e.NewContext(req, rec)
		c.SetPath("/api/submissions/:id")
		c.SetParamNames("id")
		c.SetParamValues("missing")

		err := h.Delete()(c)
		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
	})
}

func TestSubmissionExportHandler(t *testing.T) {
	store := &stubStore{submissions: []model.Submission{
		{ID: "a", Name: "Ada", BusinessName: "AE Ltd", MobileNumber: "+14155550100"},
	}}
	h := newSubmissionHandler(newHandlerTestServer(), store)

	e := echo.New()
	req, rec := jsonRequest(http.MethodGet, "/api/admin/submissions/export", "")
	c := e.NewContext(req, rec)

	require.NoError(t, h.Export()(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=submissions.csv", rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "id,name,business_name,mobile_number,email,agreed_to_terms,timestamp\n"))
	assert.Contains(t, body, "Ada")
}

func TestAdminVerifyHandler(t *testing.T) {
	newAdminHandler := func() *AdminHandler {
		srv := newHandlerTestServer()
		return NewAdminHandler(srv, service.NewAdminService(srv))
	}

	t.Run("grants access with the right password", func(t *testing.T) {
		h := newAdminHandler()

		e := echo.New()
		req, rec := jsonRequest(http.MethodPost, "/api/admin/verify", `{"password":"admin123"}`)
		c := e.NewContext(req, rec)

		require.NoError(t, h.Verify()(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var got StatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.True(t, got.Success)
		assert.Equal(t, "Access granted", got.Message)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		h := newAdminHandler()

		e := echo.New()
		req, rec := jsonRequest(http.MethodPost, "/api/admin/verify", `{"password":"nope"}`)
		c := e.NewContext(req, rec)

		err := h.Verify()(c)
		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
	})

	t.Run("rejects a missing password field", func(t *testing.T) {
		h := newAdminHandler()

		e := echo.New()
		req, rec := jsonRequest(http.MethodPost, "/api/admin/verify", `{}`)
		c := e.NewContext(req, rec)

		err := h.Verify()(c)
		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	})
}
