package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solandra/intake-api/internal/config"
	"github.com/solandra/intake-api/internal/errs"
	"github.com/solandra/intake-api/internal/model"
	"github.com/solandra/intake-api/internal/server"
)

type fakeStore struct {
	inserted []*model.Submission
	listed   []model.Submission
	deleted  []string

	mobileExists bool
	emailExists  bool

	insertErr error
	listErr   error
	deleteErr error
	existsErr error
}

func (f *fakeStore) Insert(_ context.Context, sub *model.Submission) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, sub)
	return nil
}

func (f *fakeStore) List(_ context.Context) ([]model.Submission, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listed, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) MobileNumberExists(_ context.Context, _ string) (bool, error) {
	return f.mobileExists, f.existsErr
}

func (f *fakeStore) EmailExists(_ context.Context, _ string) (bool, error) {
	return f.emailExists, f.existsErr
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "test-task"}, nil
}

func newTestServer(emailEnabled bool) *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Email: &config.EmailConfig{Enabled: emailEnabled},
		},
		Logger: &logger,
	}
}

func validInput() CreateSubmissionInput {
	return CreateSubmissionInput{
		Name:          "Ada Lovelace",
		BusinessName:  "Analytical Engines Ltd",
		MobileNumber:  "+14155550100",
		Email:         "ada@example.com",
		AgreedToTerms: true,
	}
}

func TestCreateSubmission(t *testing.T) {
	t.Run("rejects when terms not agreed", func(t *testing.T) {
		store := &fakeStore{}
		svc := NewSubmissionService(newTestServer(true), store, &fakeEnqueuer{})

		input := validInput()
		input.AgreedToTerms = false

		sub, err := svc.Create(context.Background(), input)
		require.Error(t, err)
		assert.Nil(t, sub)
		assert.Empty(t, store.inserted)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Status)
		assert.Equal(t, "You must agree to the terms and conditions", httpErr.Message)
	})

	t.Run("rejects duplicate mobile number", func(t *testing.T) {
		store := &fakeStore{mobileExists: true}
		svc := NewSubmissionService(newTestServer(true), store, &fakeEnqueuer{})

		sub, err := svc.Create(context.Background(), validInput())
		require.Error(t, err)
		assert.Nil(t, sub)
		assert.Empty(t, store.inserted)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Status)
		assert.Equal(t, "A submission with this mobile number already exists", httpErr.Message)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		store := &fakeStore{emailExists: true}
		svc := NewSubmissionService(newTestServer(true), store, &fakeEnqueuer{})

		sub, err := svc.Create(context.Background(), validInput())
		require.Error(t, err)
		assert.Nil(t, sub)

		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 400, httpErr.Status)
		assert.Equal(t, "A submission with this email already exists", httpErr.Message)
	})

	t.Run("skips email lookup when none supplied", func(t *testing.T) {
		// emailExists true would reject if the lookup ran.
		store := &fakeStore{emailExists: true}
		svc := NewSubmissionService(newTestServer(true), store, &fakeEnqueuer{})

		input := validInput()
		input.Email = ""

		sub, err := svc.Create(context.Background(), input)
		require.NoError(t, err)
		require.NotNil(t, sub)
	})

	t.Run("stores submission with generated id and timestamp", func(t *testing.T) {
		store := &fakeStore{}
		enq := &fakeEnqueuer{}
		svc := NewSubmissionService(newTestServer(true), store, enq)

		before := time.Now().UTC()
		sub, err := svc.Create(context.Background(), validInput())
		require.NoError(t, err)
		require.NotNil(t, sub)

		require.Len(t, store.inserted, 1)
		assert.Equal(t, sub, store.inserted[0])
		assert.NotEmpty(t, sub.ID)
		assert.Equal(t, "Ada Lovelace", sub.Name)
		assert.True(t, sub.AgreedToTerms)
		assert.False(t, sub.Timestamp.Before(before))

		require.Len(t, enq.tasks, 1)
		assert.Equal(t, "email:submission_received", enq.tasks[0].Type())
	})

	t.Run("does not enqueue without an email address", func(t *testing.T) {
		enq := &fakeEnqueuer{}
		svc := NewSubmissionService(newTestServer(true), &fakeStore{}, enq)

		input := validInput()
		input.Email = ""

		_, err := svc.Create(context.Background(), input)
		require.NoError(t, err)
		assert.Empty(t, enq.tasks)
	})

	t.Run("does not enqueue when email integration is disabled", func(t *testing.T) {
		enq := &fakeEnqueuer{}
		svc := NewSubmissionService(newTestServer(false), &fakeStore{}, enq)

		_, err := svc.Create(context.Background(), validInput())
		require.NoError(t, err)
		assert.Empty(t, enq.tasks)
	})

	t.Run("enqueue failure does not fail the submission", func(t *testing.T) {
		enq := &fakeEnqueuer{err: errors.New("redis down")}
		svc := NewSubmissionService(newTestServer(true), &fakeStore{}, enq)

		sub, err := svc.Create(context.Background(), validInput())
		require.NoError(t, err)
		assert.NotNil(t, sub)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		storeErr := errors.New("connection reset")
		store := &fakeStore{insertErr: storeErr}
		svc := NewSubmissionService(newTestServer(true), store, &fakeEnqueuer{})

		sub, err := svc.Create(context.Background(), validInput())
		require.ErrorIs(t, err, storeErr)
		assert.Nil(t, sub)
	})
}

func TestListSubmissions(t *testing.T) {
	listed := []model.Submission{
		{ID: "b", Timestamp: time.Now().UTC()},
		{ID: "a", Timestamp: time.Now().UTC().Add(-time.Hour)},
	}
	store := &fakeStore{listed: listed}
	svc := NewSubmissionService(newTestServer(false), store, nil)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, listed, got)
}

func TestDeleteSubmission(t *testing.T) {
	t.Run("delegates to the store", func(t *testing.T) {
		store := &fakeStore{}
		svc := NewSubmissionService(newTestServer(false), store, nil)

		err := svc.Delete(context.Background(), "some-id")
		require.NoError(t, err)
		assert.Equal(t, []string{"some-id"}, store.deleted)
	})

	t.Run("surfaces the store's not found error", func(t *testing.T) {
		notFound := errs.NewNotFoundError("Submission not found", true, nil)
		store := &fakeStore{deleteErr: notFound}
		svc := NewSubmissionService(newTestServer(false), store, nil)

		err := svc.Delete(context.Background(), "missing")
		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, 404, httpErr.Status)
	})
}

func TestExportCSV(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	store := &fakeStore{listed: []model.Submission{
		{
			ID:            "11111111-1111-1111-1111-111111111111",
			Name:          "Grace Hopper",
			BusinessName:  "Compilers Inc",
			MobileNumber:  "+14155550123",
			Email:         "grace@example.com",
			AgreedToTerms: true,
			Timestamp:     ts,
		},
	}}
	svc := NewSubmissionService(newTestServer(false), store, nil)

	data, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)

	want := "id,name,business_name,mobile_number,email,agreed_to_terms,timestamp\n" +
		"11111111-1111-1111-1111-111111111111,Grace Hopper,Compilers Inc,+14155550123,grace@example.com,true,2026-03-14T09:26:53Z\n"
	assert.Equal(t, want, string(data))
}
