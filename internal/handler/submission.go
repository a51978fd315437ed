package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/solandra/intake-api/internal/model"
	"github.com/solandra/intake-api/internal/server"
	"github.com/solandra/intake-api/internal/service"
)

// validate applies the struct tag rules on request payloads. Shared across
// the handler package; validator instances cache struct metadata and are
// safe for concurrent use.
var validate = validator.New()

// StatusResponse is the success envelope used by delete and admin verify,
// matching what the intake frontend expects.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CreateSubmissionRequest is the intake form payload.
//
// AgreedToTerms carries no `required` tag on purpose: a false value must
// produce the dedicated terms message from the service, not a generic
// "is required" field error.
type CreateSubmissionRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	BusinessName  string `json:"business_name" validate:"required,max=200"`
	MobileNumber  string `json:"mobile_number" validate:"required,max=32"`
	Email         string `json:"email" validate:"omitempty,email"`
	AgreedToTerms bool   `json:"agreed_to_terms"`
}

func (r *CreateSubmissionRequest) Validate() error {
	return validate.Struct(r)
}

// ListSubmissionsRequest is empty; the list endpoint takes no input.
type ListSubmissionsRequest struct{}

func (r *ListSubmissionsRequest) Validate() error {
	return nil
}

// DeleteSubmissionRequest binds the submission id from the route path.
// The id is not format-checked: an id that never existed is a 404, not a
// 400.
type DeleteSubmissionRequest struct {
	ID string `param:"id" validate:"required"`
}

func (r *DeleteSubmissionRequest) Validate() error {
	return validate.Struct(r)
}

// ExportSubmissionsRequest is empty; the export endpoint takes no input.
type ExportSubmissionsRequest struct{}

func (r *ExportSubmissionsRequest) Validate() error {
	return nil
}

// SubmissionHandler exposes the intake form endpoints.
type SubmissionHandler struct {
	Handler
	service *service.SubmissionService
}

// NewSubmissionHandler constructs a SubmissionHandler.
func NewSubmissionHandler(s *server.Server, svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		Handler: NewHandler(s),
		service: svc,
	}
}

// Create handles POST /api/submissions. Returns 200 with the created
// record; terms refusal and duplicate mobile/email are 400s from the
// service.
func (h *SubmissionHandler) Create() echo.HandlerFunc {
	return Handle(h.Handler, h.create, http.StatusOK, func() *CreateSubmissionRequest {
		return &CreateSubmissionRequest{}
	})
}

func (h *SubmissionHandler) create(c echo.Context, req *CreateSubmissionRequest) (*model.Submission, error) {
	return h.service.Create(c.Request().Context(), service.CreateSubmissionInput{
		Name:          req.Name,
		BusinessName:  req.BusinessName,
		MobileNumber:  req.MobileNumber,
		Email:         req.Email,
		AgreedToTerms: req.AgreedToTerms,
	})
}

// List handles GET /api/submissions. All records, newest first.
func (h *SubmissionHandler) List() echo.HandlerFunc {
	return Handle(h.Handler, h.list, http.StatusOK, func() *ListSubmissionsRequest {
		return &ListSubmissionsRequest{}
	})
}

func (h *SubmissionHandler) list(c echo.Context, req *ListSubmissionsRequest) ([]model.Submission, error) {
	return h.service.List(c.Request().Context())
}

// Delete handles DELETE /api/submissions/:id. 200 with a success envelope,
// 404 when the id is unknown.
func (h *SubmissionHandler) Delete() echo.HandlerFunc {
	return Handle(h.Handler, h.delete, http.StatusOK, func() *DeleteSubmissionRequest {
		return &DeleteSubmissionRequest{}
	})
}

func (h *SubmissionHandler) delete(c echo.Context, req *DeleteSubmissionRequest) (*StatusResponse, error) {
	if err := h.service.Delete(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}
	return &StatusResponse{
		Success: true,
		Message: "Submission deleted",
	}, nil
}

// Export handles GET /api/admin/submissions/export, a CSV download of all
// submissions for the admin list view.
func (h *SubmissionHandler) Export() echo.HandlerFunc {
	return HandleFile(h.Handler, h.export, http.StatusOK, func() *ExportSubmissionsRequest {
		return &ExportSubmissionsRequest{}
	}, "submissions.csv", "text/csv")
}

func (h *SubmissionHandler) export(c echo.Context, req *ExportSubmissionsRequest) ([]byte, error) {
	return h.service.ExportCSV(c.Request().Context())
}
