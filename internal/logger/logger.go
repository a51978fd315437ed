// Package logger configures the application's logging, monitoring, and
// observability.
//
// It uses ZeroLog for logging and integrates with New Relic to instrument
// the codebase, forwarding logs, metrics, and traces for debugging.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/solandra/intake-api/internal/config"
)

// LoggerService wraps the optional New Relic application instance.
//
// When New Relic is disabled (no license key configured), nrApp is nil and
// every integration built on top of it degrades into a no-op.
type LoggerService struct {
	nrApp *newrelic.Application
}

// NewLoggerService initializes New Relic from config, if a license key is
// present. A missing key is not an error: the service comes back with a nil
// application and instrumentation is skipped everywhere.
func NewLoggerService(cfg *config.Config) (*LoggerService, error) {
	nr := cfg.Observability.NewRelic
	if nr.LicenseKey == "" {
		return &LoggerService{}, nil
	}

	opts := []newrelic.ConfigOption{
		newrelic.ConfigAppName(cfg.Observability.ServiceName),
		newrelic.ConfigLicense(nr.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(nr.AppLogForwardingEnabled),
		newrelic.ConfigDistributedTracerEnabled(nr.DistributedTracingEnabled),
	}
	if nr.DebugLogging {
		opts = append(opts, newrelic.ConfigDebugLogger(os.Stderr))
	}

	app, err := newrelic.NewApplication(opts...)
	if err != nil {
		return nil, err
	}

	return &LoggerService{nrApp: app}, nil
}

// GetApplication returns the New Relic application instance, or nil when
// New Relic is not configured.
func (ls *LoggerService) GetApplication() *newrelic.Application {
	return ls.nrApp
}

// Shutdown flushes pending telemetry. Safe to call when New Relic is
// disabled.
func (ls *LoggerService) Shutdown() {
	if ls.nrApp != nil {
		ls.nrApp.Shutdown(10 * time.Second)
	}
}

// NewLogger builds the application's main structured logger.
//
// Format follows config: console output for local development, JSON
// elsewhere. When New Relic log forwarding is enabled, log lines are routed
// through the zerologWriter integration so they carry linking metadata.
func NewLogger(cfg *config.Config, ls *LoggerService) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Observability.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if cfg.Observability.Logging.Format == "console" || cfg.Primary.Env == "local" {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	} else if ls != nil && ls.GetApplication() != nil && cfg.Observability.NewRelic.AppLogForwardingEnabled {
		zw := zerologWriter.New(os.Stdout, ls.GetApplication())
		out = &zw
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.Observability.ServiceName).
		Str("env", cfg.Observability.Environment).
		Logger()
}

// WithTraceContext returns a copy of logger with New Relic trace correlation
// fields attached, so log lines can be joined with distributed traces.
func WithTraceContext(logger zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return logger
	}
	md := txn.GetTraceMetadata()
	return logger.With().
		Str("trace.id", md.TraceID).
		Str("span.id", md.SpanID).
		Logger()
}

// NewPgxLogger builds the logger used for SQL query tracing in local
// development. Console output keeps queries readable.
func NewPgxLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		Level(level).
		With().
		Timestamp().
		Str("component", "pgx").
		Logger()
}

// pgx tracelog levels. Mirrored here so callers don't need to import
// tracelog just to pick a verbosity.
const (
	pgxTraceLevelError = 2
	pgxTraceLevelWarn  = 3
	pgxTraceLevelInfo  = 4
	pgxTraceLevelDebug = 5
	pgxTraceLevelTrace = 6
)

// GetPgxTraceLogLevel maps a zerolog level to the equivalent pgx tracelog
// level.
func GetPgxTraceLogLevel(level zerolog.Level) int {
	switch level {
	case zerolog.TraceLevel:
		return pgxTraceLevelTrace
	case zerolog.DebugLevel:
		return pgxTraceLevelDebug
	case zerolog.WarnLevel:
		return pgxTraceLevelWarn
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return pgxTraceLevelError
	default:
		return pgxTraceLevelInfo
	}
}
