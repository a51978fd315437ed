package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// handleSubmissionReceivedTask processes the intake confirmation email
// task: decode payload, deliver through the email client, log the outcome.
// Returning an error makes Asynq retry the task.
func (j *JobService) handleSubmissionReceivedTask(ctx context.Context, t *asynq.Task) error {
	var p SubmissionReceivedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal submission received payload: %w", err)
	}

	if j.email == nil {
		// Email was disabled after the task was enqueued; nothing to do.
		j.logger.Warn().
			Str("type", "submission_received").
			Str("to", p.To).
			Msg("Email integration disabled, dropping confirmation task")
		return nil
	}

	j.logger.Info().
		Str("type", "submission_received").
		Str("to", p.To).
		Msg("Processing submission confirmation email task")

	if err := j.email.SendSubmissionReceivedEmail(p.To, p.Name, p.BusinessName); err != nil {
		j.logger.Error().
			Str("type", "submission_received").
			Str("to", p.To).
			Err(err).
			Msg("Failed to send submission confirmation email")
		return err
	}

	j.logger.Info().
		Str("type", "submission_received").
		Str("to", p.To).
		Msg("Successfully sent submission confirmation email")

	return nil
}
