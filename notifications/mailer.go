// Package notifications delivers portal emails. Delivery is fire-and-forget:
// failures are logged and counted, never returned to the request that
// triggered them.
package notifications

import (
	"context"

	"portal/logger"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	log "github.com/sirupsen/logrus"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type SendgridMailer struct {
	client     *sendgrid.Client
	sender     string
	senderName string
}

func NewSendgridMailer(apiKey, sender, senderName string) *SendgridMailer {
	return &SendgridMailer{
		client:     sendgrid.NewSendClient(apiKey),
		sender:     sender,
		senderName: senderName,
	}
}

func (m *SendgridMailer) Send(ctx context.Context, to, subject, html string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(m.senderName, m.sender),
		subject,
		mail.NewEmail("", to),
		"",
		html,
	)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return errors.Wrap(err, "sendgrid send")
	}
	if response.StatusCode >= 300 {
		return errors.Errorf("sendgrid send: status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

// LogMailer only logs outgoing mail. Used when no email provider is
// configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, _ string) error {
	log.WithFields(log.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Email provider not configured, skipping send")
	return nil
}

// NewMailer picks SendGrid when an API key is configured.
func NewMailer(apiKey, sender, senderName string) Mailer {
	if apiKey == "" {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeEmail).Warn("SENDGRID_API_KEY is empty, emails will only be logged")
		return LogMailer{}
	}
	return NewSendgridMailer(apiKey, sender, senderName)
}
