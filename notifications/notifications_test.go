package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"portal/events"
	"portal/models"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	to      string
	subject string
	html    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, html: html})
	return nil
}

func (m *fakeMailer) all() []sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentEmail(nil), m.sent...)
}

func TestDispatcher_ApplicationSubmittedSendsConfirmation(t *testing.T) {
	bus := EventBus.New()
	mailer := &fakeMailer{}
	dispatcher, err := NewDispatcher(bus, mailer)
	require.NoError(t, err)

	bus.Publish(events.ApplicationSubmittedTopic, events.ApplicationSubmitted{
		ApplicationID:    uuid.New(),
		ApplicantEmail:   "thandi@example.com",
		ApplicantName:    "Thandi",
		OpportunityTitle: "Sasol Bursary",
		Provider:         "Sasol",
		SubmittedAt:      time.Now(),
	})
	dispatcher.Wait()

	sent := mailer.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "thandi@example.com", sent[0].to)
	assert.Equal(t, "Application Submitted Successfully", sent[0].subject)
	assert.Contains(t, sent[0].html, "Sasol Bursary")
}

func TestDispatcher_StatusChangedSendsUpdate(t *testing.T) {
	bus := EventBus.New()
	mailer := &fakeMailer{}
	dispatcher, err := NewDispatcher(bus, mailer)
	require.NoError(t, err)

	bus.Publish(events.ApplicationStatusChangedTopic, events.ApplicationStatusChanged{
		ApplicantEmail:   "thandi@example.com",
		ApplicantName:    "Thandi",
		OpportunityTitle: "Sasol Bursary",
		From:             models.StatusPending,
		To:               models.StatusShortlisted,
	})
	dispatcher.Wait()

	sent := mailer.all()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].html, "Shortlisted")
}

func TestDispatcher_DeadlineSoonNotifiesEveryRecipient(t *testing.T) {
	bus := EventBus.New()
	mailer := &fakeMailer{}
	dispatcher, err := NewDispatcher(bus, mailer)
	require.NoError(t, err)

	bus.Publish(events.DeadlineSoonTopic, events.DeadlineSoon{
		Title:    "Sasol Bursary",
		Deadline: time.Now().Add(72 * time.Hour),
		DaysLeft: 3,
		Recipients: []events.Recipient{
			{Email: "a@example.com", Name: "A"},
			{Email: "", Name: "skipped"},
			{Email: "b@example.com", Name: "B"},
		},
	})
	dispatcher.Wait()

	sent := mailer.all()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[0].html, "in 3 days")
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	bus := EventBus.New()
	mailer := &fakeMailer{err: errors.New("provider down")}
	dispatcher, err := NewDispatcher(bus, mailer)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		bus.Publish(events.UserRegisteredTopic, events.UserRegistered{Email: "thandi@example.com", Name: "Thandi"})
		dispatcher.Wait()
	})
	assert.Empty(t, mailer.all())
}

func TestNewMailer_WithoutKeyOnlyLogs(t *testing.T) {
	mailer := NewMailer("", "noreply@example.com", "Portal")
	assert.IsType(t, LogMailer{}, mailer)
	assert.NoError(t, mailer.Send(context.Background(), "x@example.com", "subject", "<p>hi</p>"))
}
