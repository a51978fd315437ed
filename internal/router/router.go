// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups, mapping
// paths to their corresponding handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/solandra/intake-api/internal/handler"
	"github.com/solandra/intake-api/internal/middleware"
)

// New builds the Echo instance with the full middleware stack and all
// routes registered.
//
// Middleware order matters: request ID first so everything downstream can
// correlate, then the New Relic transaction, then the context enhancer so
// the request logger carries trace ids.
func New(h *handler.Handlers, mw *middleware.Middlewares) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	e.Use(middleware.RequestID())
	e.Use(mw.Tracing.NewRelicMiddleware())
	e.Use(mw.ContextEnhancer.EnhanceContext())
	e.Use(mw.Tracing.EnhanceTracing())
	e.Use(mw.Global.CORS())
	e.Use(mw.Global.RequestLogger())
	e.Use(mw.Global.Recover())
	e.Use(mw.Global.Secure())

	registerAPIRoutes(e, h, mw)
	registerSystemRoutes(e, h)

	return e
}
