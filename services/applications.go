package services

import (
	"context"
	"time"

	"portal/apperrors"
	"portal/events"
	"portal/logger"
	"portal/metrics"
	"portal/models"
	"portal/repositories"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Requester identifies the account performing an operation.
type Requester struct {
	ID      uuid.UUID
	IsAdmin bool
}

func (r Requester) CanAccess(ownerID uuid.UUID) bool {
	return r.IsAdmin || r.ID == ownerID
}

type Page[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
}

// Applications implements the submission workflow and the status lifecycle.
type Applications struct {
	applications  *repositories.Applications
	opportunities *repositories.Opportunities
	users         *repositories.Users
	counts        *CountCache
	bus           EventBus.Bus
	now           func() time.Time
}

func NewApplications(applications *repositories.Applications, opportunities *repositories.Opportunities,
	users *repositories.Users, counts *CountCache, bus EventBus.Bus) *Applications {
	return &Applications{
		applications:  applications,
		opportunities: opportunities,
		users:         users,
		counts:        counts,
		bus:           bus,
		now:           time.Now,
	}
}

// Submit creates a Pending application for the pair. The unique
// (applicant, opportunity) index is the final arbiter of duplicates; the
// stored counter is bumped afterwards and repaired by reconciliation if
// that step fails.
func (s *Applications) Submit(ctx context.Context, applicantID, opportunityID uuid.UUID,
	answers []models.Answer, documents []models.Document) (*models.Application, error) {
	opportunity, err := s.opportunities.FindByID(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	if !opportunity.IsActive {
		return nil, apperrors.Validation("This opportunity is not accepting applications", nil)
	}

	now := s.now().UTC()
	if !opportunity.IsOpenAt(now) {
		return nil, apperrors.DeadlinePassed("Application deadline has passed")
	}

	if _, err := s.users.FindByID(ctx, applicantID); err != nil {
		return nil, err
	}

	_, err = s.applications.FindByPair(ctx, applicantID, opportunityID)
	switch {
	case err == nil:
		metrics.ApplicationConflicts.Inc()
		return nil, apperrors.Conflict(repositories.AlreadyAppliedMsg)
	case !apperrors.Is(err, apperrors.KindNotFound):
		return nil, err
	}

	application := &models.Application{
		ApplicantID:     applicantID,
		OpportunityID:   opportunityID,
		Status:          models.StatusPending,
		ApplicationDate: now,
		Answers:         answers,
		Documents:       stampDocuments(documents, now),
	}
	if err := s.applications.Create(ctx, application); err != nil {
		if apperrors.Is(err, apperrors.KindConflict) {
			metrics.ApplicationConflicts.Inc()
		}
		return nil, err
	}
	metrics.ApplicationsSubmitted.Inc()

	fields := log.Fields{
		"application_id": application.ID,
		"opportunity_id": opportunityID,
		"user_id":        applicantID,
	}
	if err := s.opportunities.IncrementApplicationCount(ctx, opportunityID); err != nil {
		log.WithFields(fields).
			WithField(logger.ErrorTypeField, logger.ErrorTypeCounter).
			Errorf("Application saved but counter update failed, left for reconciliation: %v", err)
	}
	s.counts.Invalidate(opportunityID)

	saved, err := s.applications.FindByID(ctx, application.ID)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.ApplicationSubmittedTopic, submittedEvent(saved))
	log.WithFields(fields).Info("Application submitted")
	return saved, nil
}

// submittedEvent tolerates parties that failed to preload.
func submittedEvent(application *models.Application) events.ApplicationSubmitted {
	event := events.ApplicationSubmitted{
		ApplicationID: application.ID,
		SubmittedAt:   application.ApplicationDate,
	}
	if application.Applicant != nil {
		event.ApplicantEmail = application.Applicant.Email
		event.ApplicantName = application.Applicant.FullName()
	}
	if application.Opportunity != nil {
		event.OpportunityTitle = application.Opportunity.Title
		event.Provider = application.Opportunity.Provider
	}
	return event
}

func stampDocuments(documents []models.Document, now time.Time) []models.Document {
	stamped := make([]models.Document, 0, len(documents))
	for _, document := range documents {
		if document.UploadedAt.IsZero() {
			document.UploadedAt = now
		}
		stamped = append(stamped, document)
	}
	return stamped
}

// TransitionStatus moves an application along the status lifecycle.
// Setting the current status again is a no-op.
func (s *Applications) TransitionStatus(ctx context.Context, applicationID uuid.UUID, next models.Status) (*models.Application, error) {
	if !next.Valid() {
		return nil, apperrors.Validation("Invalid status", map[string]string{"status": "unknown status"})
	}

	application, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	current := application.Status
	if current == next {
		return application, nil
	}
	if current.IsTerminal() {
		return nil, apperrors.Validation("Application status is final", map[string]string{
			"status": "cannot change a " + string(current) + " application",
		})
	}
	if !current.CanTransitionTo(next) {
		return nil, apperrors.Validation("Invalid status transition", map[string]string{
			"status": "cannot move from " + string(current) + " to " + string(next),
		})
	}

	updated, err := s.applications.UpdateStatus(ctx, applicationID, current, next)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperrors.Conflict("Application status was changed concurrently, reload and try again")
	}
	metrics.StatusTransitions.WithLabelValues(string(next)).Inc()

	application, err = s.applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	event := events.ApplicationStatusChanged{
		ApplicationID: application.ID,
		From:          current,
		To:            next,
	}
	if application.Applicant != nil {
		event.ApplicantEmail = application.Applicant.Email
		event.ApplicantName = application.Applicant.FullName()
	}
	if application.Opportunity != nil {
		event.OpportunityTitle = application.Opportunity.Title
	}
	s.bus.Publish(events.ApplicationStatusChangedTopic, event)

	log.WithFields(log.Fields{
		"application_id": applicationID,
		"from":           current,
		"to":             next,
	}).Info("Application status changed")
	return application, nil
}

func (s *Applications) Get(ctx context.Context, applicationID uuid.UUID, requester Requester) (*models.Application, error) {
	application, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !requester.CanAccess(application.ApplicantID) {
		return nil, apperrors.Forbidden("Not authorized to view this application")
	}
	return application, nil
}

// ListForAccount returns the account's applications, newest first.
func (s *Applications) ListForAccount(ctx context.Context, accountID uuid.UUID) ([]models.Application, error) {
	return s.applications.ListByApplicant(ctx, accountID)
}

// ListAll pages through every application, newest first. An empty status
// matches all statuses.
func (s *Applications) ListAll(ctx context.Context, status models.Status, page, pageSize int) (*Page[models.Application], error) {
	return s.list(ctx, repositories.ApplicationFilter{Status: status, Page: page, Limit: pageSize})
}

// ListVisible is ListAll for administrators and the caller's own
// applications for everyone else.
func (s *Applications) ListVisible(ctx context.Context, requester Requester, status models.Status, page, pageSize int) (*Page[models.Application], error) {
	filter := repositories.ApplicationFilter{Status: status, Page: page, Limit: pageSize}
	if !requester.IsAdmin {
		filter.ApplicantID = requester.ID
	}
	return s.list(ctx, filter)
}

func (s *Applications) list(ctx context.Context, filter repositories.ApplicationFilter) (*Page[models.Application], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.Validation("Invalid status", map[string]string{"status": "unknown status"})
	}
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	items, total, err := s.applications.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newPage(items, total, filter.Page, filter.Limit), nil
}
