package services

import (
	"context"
	"strings"
	"time"

	"portal/apperrors"
	"portal/logger"
	"portal/metrics"
	"portal/models"
	"portal/notifications"
	"portal/repositories"
	"portal/utils"

	log "github.com/sirupsen/logrus"
)

type SendStats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

type Newsletter struct {
	subscriptions *repositories.Newsletters
	mailer        notifications.Mailer
	now           func() time.Time
}

func NewNewsletter(subscriptions *repositories.Newsletters, mailer notifications.Mailer) *Newsletter {
	return &Newsletter{subscriptions: subscriptions, mailer: mailer, now: time.Now}
}

// Subscribe registers the address, or reactivates it. created reports
// whether a new subscription was stored.
func (s *Newsletter) Subscribe(ctx context.Context, email string) (created bool, err error) {
	existing, err := s.subscriptions.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.IsSubscribed:
		return false, apperrors.Conflict("Email is already subscribed")
	case err == nil:
		return false, s.subscriptions.SetSubscribed(ctx, existing, true)
	case !apperrors.Is(err, apperrors.KindNotFound):
		return false, err
	}

	subscription := &models.Newsletter{
		Email:        email,
		IsSubscribed: true,
		SubscribedAt: s.now().UTC(),
	}
	if err := s.subscriptions.Create(ctx, subscription); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Newsletter) Unsubscribe(ctx context.Context, email string) error {
	subscription, err := s.subscriptions.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !subscription.IsSubscribed {
		return apperrors.Validation("Email is already unsubscribed", nil)
	}
	return s.subscriptions.SetSubscribed(ctx, subscription, false)
}

func (s *Newsletter) Subscribers(ctx context.Context) ([]models.Newsletter, error) {
	return s.subscriptions.ListAll(ctx)
}

// Send mails the newsletter to every active subscriber. Individual
// failures are counted, not returned.
func (s *Newsletter) Send(ctx context.Context, subject, content string) (*SendStats, error) {
	subject, content = strings.TrimSpace(subject), strings.TrimSpace(content)
	if subject == "" || content == "" {
		return nil, apperrors.Validation("Subject and content are required.", nil)
	}

	subscribers, err := s.subscriptions.ListSubscribed(ctx)
	if err != nil {
		return nil, err
	}
	if len(subscribers) == 0 {
		return nil, apperrors.Validation("No subscribers to send to.", nil)
	}

	email := utils.NewsletterEmail(subject, content)
	stats := &SendStats{Total: len(subscribers)}
	for _, subscriber := range subscribers {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Internal("newsletter send interrupted", err)
		}
		if err := s.mailer.Send(ctx, subscriber.Email, email.Subject, email.HTML); err != nil {
			stats.Failed++
			metrics.EmailsSent.WithLabelValues(email.Template, "failed").Inc()
			log.WithFields(log.Fields{
				logger.ErrorTypeField: logger.ErrorTypeEmail,
				"to":                  subscriber.Email,
			}).Errorf("Error sending newsletter: %v", err)
			continue
		}
		stats.Successful++
		metrics.EmailsSent.WithLabelValues(email.Template, "sent").Inc()
	}

	log.WithFields(log.Fields{
		"total":      stats.Total,
		"successful": stats.Successful,
	}).Info("Newsletter sent")
	return stats, nil
}
