// Package config manages environment variables.
//
// It reads variables from the process environment (optionally seeded from a
// `.env` file), loads them into structured Go types, and validates that
// required values are present so the app fails fast on bad or missing config.
//
// Env vars use the INTAKE_ prefix and dot-delimited nesting, e.g.
// INTAKE_SERVER.PORT maps to Config.Server.Port.
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process env, if one
	// exists, before any env var is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// DefaultAdminPassword is used when no admin password is configured.
// Intended for local development only.
const DefaultAdminPassword = "admin123"

// Config is the root configuration object for the application.
//
// Observability and Email are pointers because they are optional. If not
// provided, defaults are injected at load time (Email defaults to disabled).
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Admin         AdminConfig          `koanf:"admin"`
	Email         *EmailConfig         `koanf:"email"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
// Used to tag logs/traces and switch behavior based on env.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are stored as seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// IntakeRateLimit is the per-IP requests-per-second budget for the
	// public submission endpoint. Zero falls back to a default.
	IntakeRateLimit float64 `koanf:"intake_rate_limit"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details ("host:port").
// Redis backs the asynq job queue used for outbound email.
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AdminConfig stores the shared secret used by the admin verification
// endpoint. There is no session or token issuance behind it.
type AdminConfig struct {
	Password string `koanf:"password"`
}

// EmailConfig controls the outbound transactional email integration.
//
// When Enabled is false (or the block is absent entirely) no confirmation
// emails are enqueued and the Resend key is not required.
type EmailConfig struct {
	Enabled      bool   `koanf:"enabled"`
	ResendAPIKey string `koanf:"resend_api_key" validate:"required_if=Enabled true"`
	FromName     string `koanf:"from_name"`
	FromAddress  string `koanf:"from_address"`
}

// Load reads configuration from the environment, unmarshals it into Config,
// applies defaults for the optional blocks, and validates the result.
func Load() (*Config, error) {
	// Bootstrap logger for config loading itself; the real application
	// logger is built later from the loaded config.
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	// Load INTAKE_-prefixed env vars. Keys keep their dot nesting:
	// INTAKE_DATABASE.HOST -> database.host -> Config.Database.Host.
	err := k.Load(env.Provider("INTAKE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "INTAKE_"))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not load initial env variables.")
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("Could not unmarshal main config.")
	}

	if mainConfig.Admin.Password == "" {
		mainConfig.Admin.Password = DefaultAdminPassword
		logger.Warn().Msg("no admin password configured, using development default")
	}

	// Email integration is optional; absent means disabled.
	if mainConfig.Email == nil {
		mainConfig.Email = &EmailConfig{Enabled: false}
	}
	if mainConfig.Email.FromName == "" {
		mainConfig.Email.FromName = "Client Intake"
	}
	if mainConfig.Email.FromAddress == "" {
		mainConfig.Email.FromAddress = "onboarding@resend.dev"
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// A partially supplied block (say, just a license key) still gets the
	// logging defaults.
	if mainConfig.Observability.Logging.Level == "" {
		mainConfig.Observability.Logging.Level = "info"
	}
	if mainConfig.Observability.Logging.Format == "" {
		mainConfig.Observability.Logging.Format = "json"
	}

	// Service name and environment are forced so telemetry stays consistent
	// regardless of what the env provided.
	mainConfig.Observability.ServiceName = "intake-api"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	// Validate after defaulting so optional blocks only fail on values the
	// operator actually set wrong.
	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("Config validation failed.")
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}
