package handler

import (
	"github.com/solandra/intake-api/internal/server"
	"github.com/solandra/intake-api/internal/service"
)

// Handlers is a container that groups all HTTP handlers so router setup
// passes one object around instead of many.
type Handlers struct {
	Submission *SubmissionHandler // intake form endpoints
	Admin      *AdminHandler      // admin password verification
	Health     *HealthHandler     // liveness/dependency checks
	OpenAPI    *OpenAPIHandler    // API documentation UI
}

// NewHandlers constructs the handler container from the application
// container and the business layer.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Submission: NewSubmissionHandler(s, services.Submission),
		Admin:      NewAdminHandler(s, services.Admin),
		Health:     NewHealthHandler(s),
		OpenAPI:    NewOpenAPIHandler(s),
	}
}
