package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/solandra/intake-api/internal/handler"
	"github.com/solandra/intake-api/internal/middleware"
)

// registerAPIRoutes registers the business endpoints under /api.
func registerAPIRoutes(r *echo.Echo, h *handler.Handlers, mw *middleware.Middlewares) {
	api := r.Group("/api")

	// Identification ping used by the frontend and smoke checks.
	api.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Client Intake API"})
	})

	// Public intake form. Rate limited: it is the only unauthenticated
	// write surface.
	api.POST("/submissions", h.Submission.Create(), mw.RateLimit.Limiter())
	api.GET("/submissions", h.Submission.List())
	api.DELETE("/submissions/:id", h.Submission.Delete())

	api.POST("/admin/verify", h.Admin.Verify())
	api.GET("/admin/submissions/export", h.Submission.Export())
}
