package service

import (
	"crypto/subtle"

	"github.com/solandra/intake-api/internal/errs"
	"github.com/solandra/intake-api/internal/server"
)

// AdminService verifies the admin shared secret. There is no session or
// token issuance; the frontend just gates its admin view on a successful
// check.
type AdminService struct {
	server *server.Server
}

// NewAdminService constructs an AdminService.
func NewAdminService(s *server.Server) *AdminService {
	return &AdminService{
		server: s,
	}
}

// Verify compares the supplied password against the configured admin
// secret. Constant-time compare so response timing leaks nothing about the
// secret.
func (s *AdminService) Verify(password string) error {
	expected := s.server.Config.Admin.Password
	if subtle.ConstantTimeCompare([]byte(password), []byte(expected)) != 1 {
		return errs.NewUnauthorizedError("Invalid password", true)
	}
	return nil
}
