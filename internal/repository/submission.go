package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solandra/intake-api/internal/errs"
	"github.com/solandra/intake-api/internal/model"
	"github.com/solandra/intake-api/internal/server"
	"github.com/solandra/intake-api/internal/sqlerr"
	"github.com/solandra/intake-api/internal/validation"
)

// SubmissionRepository persists intake submissions in the submissions
// table.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository constructs a SubmissionRepository over the shared
// pool.
func NewSubmissionRepository(s *server.Server) *SubmissionRepository {
	return &SubmissionRepository{
		pool: s.DB.Pool,
	}
}

// Insert stores a new submission. An empty email is stored as NULL so the
// partial unique index only applies to real addresses. Constraint
// violations come back as client-facing 400s via sqlerr.
func (r *SubmissionRepository) Insert(ctx context.Context, sub *model.Submission) error {
	_, err := r.pool.Exec(ctx, `
		insert into submissions (id, name, business_name, mobile_number, email, agreed_to_terms, created_at)
		values ($1, $2, $3, $4, $5, $6, $7)`,
		sub.ID,
		sub.Name,
		sub.BusinessName,
		sub.MobileNumber,
		nullableText(sub.Email),
		sub.AgreedToTerms,
		sub.Timestamp,
	)
	if err != nil {
		return sqlerr.HandleError(err)
	}
	return nil
}

// List returns all submissions, newest first.
func (r *SubmissionRepository) List(ctx context.Context) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx, `
		select id, name, business_name, mobile_number, email, agreed_to_terms, created_at
		from submissions
		order by created_at desc`)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	defer rows.Close()

	// Empty list serializes as [], not null.
	submissions := make([]model.Submission, 0)
	for rows.Next() {
		var sub model.Submission
		var email *string
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.BusinessName, &sub.MobileNumber, &email, &sub.AgreedToTerms, &sub.Timestamp); err != nil {
			return nil, sqlerr.HandleError(err)
		}
		if email != nil {
			sub.Email = *email
		}
		submissions = append(submissions, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlerr.HandleError(err)
	}

	return submissions, nil
}

// Delete removes a submission by id. A miss is a 404, matching the API
// contract directly since nothing else can fail a delete by primary key.
func (r *SubmissionRepository) Delete(ctx context.Context, id string) error {
	// A malformed id cannot match any row; treat it as a miss instead of
	// letting the uuid cast error out.
	if !validation.IsValidUUID(id) {
		return errs.NewNotFoundError("Submission not found", true, nil)
	}

	tag, err := r.pool.Exec(ctx, `delete from submissions where id = $1`, id)
	if err != nil {
		return sqlerr.HandleError(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NewNotFoundError("Submission not found", true, nil)
	}
	return nil
}

// MobileNumberExists reports whether a submission with this mobile number
// is already stored.
func (r *SubmissionRepository) MobileNumberExists(ctx context.Context, mobileNumber string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`select exists(select 1 from submissions where mobile_number = $1)`,
		mobileNumber,
	).Scan(&exists)
	if err != nil {
		return false, sqlerr.HandleError(err)
	}
	return exists, nil
}

// EmailExists reports whether a submission with this email is already
// stored.
func (r *SubmissionRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`select exists(select 1 from submissions where email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, sqlerr.HandleError(err)
	}
	return exists, nil
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
