package email

// SendSubmissionReceivedEmail sends the intake confirmation to a submitter.
//
// Data keys must match the variables in the submission_received template.
func (c *Client) SendSubmissionReceivedEmail(to, name, businessName string) error {
	data := map[string]string{
		"ClientName":   name,
		"BusinessName": businessName,
	}

	return c.SendEmail(
		to,
		"We received your submission",
		TemplateSubmissionReceived,
		data,
	)
}
