package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/solandra/intake-api/internal/errs"
	"github.com/solandra/intake-api/internal/server"
)

// DefaultIntakeRateLimit is applied when no per-IP budget is configured.
const DefaultIntakeRateLimit = 5.0

// RateLimitMiddleware guards the public intake endpoint. The form is
// unauthenticated, so a per-IP limiter is the only thing between it and a
// script in a loop.
type RateLimitMiddleware struct {
	server *server.Server
}

// NewRateLimitMiddleware constructs a RateLimitMiddleware.
func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limiter returns an in-memory per-IP rate limiter for the intake endpoint.
// Denied requests get the errs 429 shape and are recorded as New Relic
// custom events.
func (r *RateLimitMiddleware) Limiter() echo.MiddlewareFunc {
	limit := r.server.Config.Server.IntakeRateLimit
	if limit <= 0 {
		limit = DefaultIntakeRateLimit
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStore(rate.Limit(limit)),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewInternalServerError()
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			return errs.NewTooManyRequestsError("Too many submissions, please try again later")
		},
	})
}

// RecordRateLimitHit records a rate limit event for telemetry, when New
// Relic is configured.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
