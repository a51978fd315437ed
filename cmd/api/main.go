// Command api runs the client intake HTTP server.
//
// Startup order: config, logger (+ optional New Relic), database
// migrations, application container, dependency containers, router, then
// ListenAndServe with graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/solandra/intake-api/internal/config"
	"github.com/solandra/intake-api/internal/database"
	"github.com/solandra/intake-api/internal/handler"
	loggerPkg "github.com/solandra/intake-api/internal/logger"
	"github.com/solandra/intake-api/internal/middleware"
	"github.com/solandra/intake-api/internal/repository"
	"github.com/solandra/intake-api/internal/router"
	"github.com/solandra/intake-api/internal/server"
	"github.com/solandra/intake-api/internal/service"
)

// shutdownTimeout bounds how long in-flight requests get to finish.
const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Load logs fatally on its own; this is the belt to its suspenders.
		os.Exit(1)
	}

	loggerService, err := loggerPkg.NewLoggerService(cfg)
	if err != nil {
		os.Exit(1)
	}
	logger := loggerPkg.NewLogger(cfg, loggerService)

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelMigrate()
	if err := database.Migrate(migrateCtx, &logger, cfg); err != nil {
		logger.Fatal().Err(err).Msg("failed to run database migrations")
	}

	srv, err := server.New(cfg, &logger, loggerService)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewServices(srv, repos)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize services")
	}

	handlers := handler.NewHandlers(srv, services)
	middlewares := middleware.NewMiddlewares(srv)

	e := router.New(handlers, middlewares)
	srv.SetupHTTPServer(e)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	loggerService.Shutdown()
}
