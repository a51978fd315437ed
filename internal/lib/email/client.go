// Package email provides an email sending client.
//
// It uses Resend (resend-go) as the email provider and loads HTML templates
// from the filesystem to render email bodies. Delivery is best effort: the
// caller decides whether a failure matters, and for intake confirmations it
// never does.
package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/solandra/intake-api/internal/config"
)

// Client wraps the Resend client with sender identity from config.
type Client struct {
	client      *resend.Client
	fromName    string
	fromAddress string
	logger      *zerolog.Logger
}

// NewClient creates an email Client backed by the Resend API key from
// config.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return &Client{
		client:      resend.NewClient(cfg.Email.ResendAPIKey),
		fromName:    cfg.Email.FromName,
		fromAddress: cfg.Email.FromAddress,
		logger:      logger,
	}
}

// SendEmail sends an email with HTML rendered from a template file.
//
// The template is loaded from templates/emails/<name>.html and executed
// with data before the Resend API is called.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	tmplPath := fmt.Sprintf("%s/%s.html", "templates/emails", templateName)

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return errors.Wrapf(err, "failed to parse email template %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return errors.Wrapf(err, "failed to execute email template %s", templateName)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromAddress),
		To:      []string{to},
		Subject: subject,
		Html:    body.String(),
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
