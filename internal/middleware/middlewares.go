package middleware

import (
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/solandra/intake-api/internal/server"
)

// Middlewares is a container that groups all middleware components used by
// the HTTP server. Build once during wiring, reuse during route setup.
type Middlewares struct {
	// Global holds common middleware used across the whole API: CORS,
	// request logging, recovery, secure headers, and the global error
	// handler.
	Global *GlobalMiddlewares

	// ContextEnhancer enriches each request with a request-scoped logger
	// (request_id, method, path, ip, optional trace metadata).
	ContextEnhancer *ContextEnhancer

	// Tracing provides New Relic middleware and helpers to attach custom
	// attributes and notice errors on transactions.
	Tracing *TracingMiddleware

	// RateLimit guards the public intake endpoint and records limit hits.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components from the application
// container. When New Relic is not configured, nrApp is nil and tracing
// middleware degrades into a no-op.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
