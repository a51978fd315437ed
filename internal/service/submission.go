package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/solandra/intake-api/internal/errs"
	"github.com/solandra/intake-api/internal/lib/job"
	"github.com/solandra/intake-api/internal/model"
	"github.com/solandra/intake-api/internal/server"
)

// SubmissionStore is the persistence surface the submission service needs.
// Satisfied by repository.SubmissionRepository; tests swap in a fake.
type SubmissionStore interface {
	Insert(ctx context.Context, sub *model.Submission) error
	List(ctx context.Context) ([]model.Submission, error)
	Delete(ctx context.Context, id string) error
	MobileNumberExists(ctx context.Context, mobileNumber string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// TaskEnqueuer is the slice of asynq.Client the service uses to queue the
// confirmation email.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// CreateSubmissionInput carries the already-bound intake form fields from
// the handler layer.
type CreateSubmissionInput struct {
	Name          string
	BusinessName  string
	MobileNumber  string
	Email         string
	AgreedToTerms bool
}

// SubmissionService implements the intake rules.
type SubmissionService struct {
	server   *server.Server
	store    SubmissionStore
	enqueuer TaskEnqueuer
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(s *server.Server, store SubmissionStore, enqueuer TaskEnqueuer) *SubmissionService {
	return &SubmissionService{
		server:   s,
		store:    store,
		enqueuer: enqueuer,
	}
}

// Create validates the intake rules and persists a new submission.
//
// Rules:
//   - agreed_to_terms must be true
//   - mobile number must not already exist
//   - email, when present, must not already exist
//
// The duplicate checks are lookup-then-insert; the unique constraints in
// the schema backstop the race and surface as the same 400 via sqlerr.
// On success a confirmation email is enqueued when the submitter left an
// address; enqueue failures are logged and never surfaced.
func (s *SubmissionService) Create(ctx context.Context, input CreateSubmissionInput) (*model.Submission, error) {
	if !input.AgreedToTerms {
		return nil, errs.NewBadRequestError("You must agree to the terms and conditions", true, nil, nil, nil)
	}

	exists, err := s.store.MobileNumberExists(ctx, input.MobileNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.NewBadRequestError("A submission with this mobile number already exists", true, nil, nil, nil)
	}

	if input.Email != "" {
		exists, err := s.store.EmailExists(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errs.NewBadRequestError("A submission with this email already exists", true, nil, nil, nil)
		}
	}

	sub := &model.Submission{
		ID:            uuid.New().String(),
		Name:          input.Name,
		BusinessName:  input.BusinessName,
		MobileNumber:  input.MobileNumber,
		Email:         input.Email,
		AgreedToTerms: input.AgreedToTerms,
		Timestamp:     time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, sub); err != nil {
		return nil, err
	}

	s.enqueueConfirmation(sub)

	return sub, nil
}

// enqueueConfirmation queues the confirmation email for a stored
// submission. Best effort: no email address, disabled integration, or a
// broken queue all end here, never at the caller.
func (s *SubmissionService) enqueueConfirmation(sub *model.Submission) {
	if sub.Email == "" || s.enqueuer == nil {
		return
	}
	if s.server.Config == nil || s.server.Config.Email == nil || !s.server.Config.Email.Enabled {
		return
	}

	task, err := job.NewSubmissionReceivedTask(sub.Email, sub.Name, sub.BusinessName)
	if err != nil {
		s.server.Logger.Error().Err(err).
			Str("submission_id", sub.ID).
			Msg("failed to build confirmation email task")
		return
	}

	if _, err := s.enqueuer.Enqueue(task); err != nil {
		s.server.Logger.Error().Err(err).
			Str("submission_id", sub.ID).
			Str("to", sub.Email).
			Msg("failed to enqueue confirmation email")
		return
	}

	s.server.Logger.Info().
		Str("submission_id", sub.ID).
		Str("to", sub.Email).
		Msg("confirmation email enqueued")
}

// List returns all submissions, newest first.
func (s *SubmissionService) List(ctx context.Context) ([]model.Submission, error) {
	return s.store.List(ctx)
}

// Delete removes a submission by id. A miss surfaces as the repository's
// 404.
func (s *SubmissionService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// ExportCSV renders every submission as a CSV document for the admin list
// view.
func (s *SubmissionService) ExportCSV(ctx context.Context) ([]byte, error) {
	submissions, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"id", "name", "business_name", "mobile_number", "email", "agreed_to_terms", "timestamp"},
	}
	for _, sub := range submissions {
		agreed := "false"
		if sub.AgreedToTerms {
			agreed = "true"
		}
		records = append(records, []string{
			sub.ID,
			sub.Name,
			sub.BusinessName,
			sub.MobileNumber,
			sub.Email,
			agreed,
			sub.Timestamp.Format(time.RFC3339),
		})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
