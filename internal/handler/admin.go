package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/solandra/intake-api/internal/server"
	"github.com/solandra/intake-api/internal/service"
)

// AdminVerifyRequest carries the shared secret for the admin check.
type AdminVerifyRequest struct {
	Password string `json:"password" validate:"required"`
}

func (r *AdminVerifyRequest) Validate() error {
	return validate.Struct(r)
}

// AdminHandler exposes the admin verification endpoint.
type AdminHandler struct {
	Handler
	service *service.AdminService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(s *server.Server, svc *service.AdminService) *AdminHandler {
	return &AdminHandler{
		Handler: NewHandler(s),
		service: svc,
	}
}

// Verify handles POST /api/admin/verify: 200 with a success envelope when
// the password matches, 401 otherwise. No session or token is issued.
func (h *AdminHandler) Verify() echo.HandlerFunc {
	return Handle(h.Handler, h.verify, http.StatusOK, func() *AdminVerifyRequest {
		return &AdminVerifyRequest{}
	})
}

func (h *AdminHandler) verify(c echo.Context, req *AdminVerifyRequest) (*StatusResponse, error) {
	if err := h.service.Verify(req.Password); err != nil {
		return nil, err
	}
	return &StatusResponse{
		Success: true,
		Message: "Access granted",
	}, nil
}
