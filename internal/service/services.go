package service

import (
	"github.com/solandra/intake-api/internal/lib/job"
	"github.com/solandra/intake-api/internal/repository"
	"github.com/solandra/intake-api/internal/server"
)

// Services groups all business-layer services.
type Services struct {
	Submission *SubmissionService
	Admin      *AdminService
	Job        *job.JobService
}

// NewServices constructs the service container. The job service was already
// created and started by the server; it is exposed here for anything that
// needs to enqueue work.
func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var enqueuer TaskEnqueuer
	if s.Job != nil {
		enqueuer = s.Job.Client
	}

	return &Services{
		Submission: NewSubmissionService(s, repos.Submission, enqueuer),
		Admin:      NewAdminService(s),
		Job:        s.Job,
	}, nil
}
