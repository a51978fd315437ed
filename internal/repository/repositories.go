package repository

import (
	"github.com/solandra/intake-api/internal/server"
)

// Repositories is a container for all repository instances, wired once
// during startup and handed to the service layer.
type Repositories struct {
	Submission *SubmissionRepository
}

// NewRepositories constructs the repository container from the application
// container (the pool lives on s.DB).
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Submission: NewSubmissionRepository(s),
	}
}
