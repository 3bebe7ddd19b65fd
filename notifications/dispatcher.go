package notifications

import (
	"context"
	"time"

	"portal/events"
	"portal/logger"
	"portal/metrics"
	"portal/utils"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

const sendTimeout = 30 * time.Second

// Dispatcher turns bus events into emails. Handlers run asynchronously so
// publishers never wait on delivery.
type Dispatcher struct {
	bus    EventBus.Bus
	mailer Mailer
}

func NewDispatcher(bus EventBus.Bus, mailer Mailer) (*Dispatcher, error) {
	d := &Dispatcher{bus: bus, mailer: mailer}

	subscriptions := map[string]any{
		events.ApplicationSubmittedTopic:     d.onApplicationSubmitted,
		events.ApplicationStatusChangedTopic: d.onStatusChanged,
		events.UserRegisteredTopic:           d.onUserRegistered,
		events.DeadlineSoonTopic:             d.onDeadlineSoon,
	}
	for topic, handler := range subscriptions {
		if err := bus.SubscribeAsync(topic, handler, false); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Wait blocks until every in-flight handler has returned.
func (d *Dispatcher) Wait() {
	d.bus.WaitAsync()
}

func (d *Dispatcher) onApplicationSubmitted(event events.ApplicationSubmitted) {
	d.deliver(event.ApplicantEmail,
		utils.ApplicationConfirmationEmail(event.ApplicantName, event.OpportunityTitle, event.Provider))
}

func (d *Dispatcher) onStatusChanged(event events.ApplicationStatusChanged) {
	d.deliver(event.ApplicantEmail,
		utils.StatusUpdateEmail(event.ApplicantName, event.OpportunityTitle, string(event.To)))
}

func (d *Dispatcher) onUserRegistered(event events.UserRegistered) {
	d.deliver(event.Email, utils.WelcomeEmail(event.Name))
}

func (d *Dispatcher) onDeadlineSoon(event events.DeadlineSoon) {
	for _, recipient := range event.Recipients {
		d.deliver(recipient.Email,
			utils.DeadlineReminderEmail(recipient.Name, event.Title, event.Deadline, event.DaysLeft))
	}
}

func (d *Dispatcher) deliver(to string, email utils.Email) {
	if to == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.mailer.Send(ctx, to, email.Subject, email.HTML); err != nil {
		metrics.EmailsSent.WithLabelValues(email.Template, "failed").Inc()
		log.WithFields(log.Fields{
			logger.ErrorTypeField: logger.ErrorTypeEmail,
			"template":            email.Template,
			"to":                  to,
		}).Errorf("Error sending email: %v", err)
		return
	}
	metrics.EmailsSent.WithLabelValues(email.Template, "sent").Inc()
	log.WithFields(log.Fields{"template": email.Template, "to": to}).Debug("Email sent")
}
