package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskSubmissionReceived is the job type for the intake confirmation
	// email. Asynq routes on this string.
	TaskSubmissionReceived = "email:submission_received"
)

// SubmissionReceivedPayload is the JSON payload for the confirmation email
// task, serialized into Redis alongside the task.
type SubmissionReceivedPayload struct {
	To           string `json:"to"`
	Name         string `json:"name"`
	BusinessName string `json:"business_name"`
}

// NewSubmissionReceivedTask constructs the Asynq task for a confirmation
// email: default queue, up to 3 retries, 30 second handler timeout.
func NewSubmissionReceivedTask(to, name, businessName string) (*asynq.Task, error) {
	payload, err := json.Marshal(SubmissionReceivedPayload{
		To:           to,
		Name:         name,
		BusinessName: businessName,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskSubmissionReceived,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
