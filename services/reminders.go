package services

import (
	"context"
	"time"

	"portal/events"
	"portal/models"
	"portal/repositories"
	"portal/utils"

	"github.com/asaskevich/EventBus"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const reminderLimit = 50

// reminderDays are the days-left values that trigger a reminder, so each
// opportunity is announced at most twice when the job runs daily.
var reminderDays = []int{3, 1}

// Reminders announces closing opportunities to newsletter subscribers.
type Reminders struct {
	opportunities *repositories.Opportunities
	newsletters   *repositories.Newsletters
	bus           EventBus.Bus
	now           func() time.Time
}

func NewReminders(opportunities *repositories.Opportunities, newsletters *repositories.Newsletters, bus EventBus.Bus) *Reminders {
	return &Reminders{opportunities: opportunities, newsletters: newsletters, bus: bus, now: time.Now}
}

// Run publishes one deadline event per opportunity due for a reminder and
// returns how many were published.
func (r *Reminders) Run(ctx context.Context) (int, error) {
	now := r.now().UTC()
	maxDays := lo.Max(reminderDays)
	closing, err := r.opportunities.UpcomingDeadlines(ctx, now, now.Add(time.Duration(maxDays)*24*time.Hour), reminderLimit)
	if err != nil {
		return 0, err
	}
	due := lo.Filter(closing, func(o models.Opportunity, _ int) bool {
		return lo.Contains(reminderDays, utils.DaysLeft(o.ApplicationDeadline, now))
	})
	if len(due) == 0 {
		return 0, nil
	}

	subscribers, err := r.newsletters.ListSubscribed(ctx)
	if err != nil {
		return 0, err
	}
	if len(subscribers) == 0 {
		return 0, nil
	}
	recipients := lo.Map(subscribers, func(n models.Newsletter, _ int) events.Recipient {
		return events.Recipient{Email: n.Email, Name: "Student"}
	})

	for _, opportunity := range due {
		r.bus.Publish(events.DeadlineSoonTopic, events.DeadlineSoon{
			OpportunityID: opportunity.ID,
			Title:         opportunity.Title,
			Deadline:      opportunity.ApplicationDeadline,
			DaysLeft:      utils.DaysLeft(opportunity.ApplicationDeadline, now),
			Recipients:    recipients,
		})
	}
	log.WithField("opportunities", len(due)).Info("Deadline reminders published")
	return len(due), nil
}
