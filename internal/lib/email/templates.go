package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateSubmissionReceived corresponds to
	// templates/emails/submission_received.html.
	TemplateSubmissionReceived Template = "submission_received"
)
