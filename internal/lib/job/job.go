// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue: tasks are enqueued with asynq.Client
// and processed by workers run by asynq.Server. The only task family today
// is outbound email, which is deliberately best effort; a task that
// exhausts its retries is dropped with an error log, never surfaced to the
// original HTTP caller.
package job

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/solandra/intake-api/internal/config"
	"github.com/solandra/intake-api/internal/lib/email"
)

// JobService holds the Asynq client (enqueue) and server (worker
// execution), plus the email client the handlers deliver through.
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	server *asynq.Server
	email  *email.Client
	logger *zerolog.Logger
}

// NewJobService creates a JobService wired to the Redis address from
// config.
//
// Queue weights distribute the worker pool by ratio: out of 10 concurrent
// tasks roughly 6 go to critical, 3 to default, 1 to low.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client: client,
		server: server,
		logger: logger,
	}
}

// InitHandlers initializes dependencies required by job handlers. Must be
// called before Start; handlers that run without an email client fail the
// task.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	if cfg.Email.Enabled {
		j.email = email.NewClient(cfg, logger)
	}
}

// Start registers task handlers and starts the background worker server.
// asynq's Start returns once workers are running.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSubmissionReceived, j.handleSubmissionReceivedTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop gracefully stops the job server and closes client resources.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}
