package services

import (
	"context"
	"time"

	"portal/logger"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const jobTimeout = 10 * time.Minute

// StartScheduler runs counter reconciliation and deadline reminders on the
// given cron specs. The caller stops the returned cron on shutdown.
func (s *Services) StartScheduler(reconcileSpec, reminderSpec string) (*cron.Cron, error) {
	log.Info("[SCHEDULER] Initializing scheduler...")
	c := cron.New()

	if _, err := c.AddFunc(reconcileSpec, s.runReconcile); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(reminderSpec, s.runReminders); err != nil {
		return nil, err
	}

	c.Start()
	log.WithFields(log.Fields{
		"reconcile": reconcileSpec,
		"reminders": reminderSpec,
	}).Info("[SCHEDULER] Scheduler started")
	return c, nil
}

func (s *Services) runReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	corrected, err := s.Reconciler.Run(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeCounter).Errorf("[SCHEDULER] Reconciliation failed: %v", err)
		return
	}
	log.Infof("[SCHEDULER] Reconciliation finished, %d counters corrected", corrected)
}

func (s *Services) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	published, err := s.Reminders.Run(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("[SCHEDULER] Deadline reminders failed: %v", err)
		return
	}
	log.Infof("[SCHEDULER] Deadline reminders sent for %d opportunities", published)
}
