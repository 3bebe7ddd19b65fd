package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"portal/apperrors"
	"portal/events"
	"portal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSubmit_CreatesPendingApplicationWithParties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "thandi@example.com")
	opportunity := f.opportunity(t, "Sasol Bursary", time.Now().Add(24*time.Hour))

	var published []events.ApplicationSubmitted
	require.NoError(t, f.bus.Subscribe(events.ApplicationSubmittedTopic, func(e events.ApplicationSubmitted) {
		published = append(published, e)
	}))

	documents := []models.Document{{Name: "id.pdf", StorageKey: "documents/1_id.pdf", URL: "https://storage.googleapis.com/b/documents/1_id.pdf", Size: 10, Type: "application/pdf"}}
	application, err := f.svc.Applications.Submit(ctx, user.ID, opportunity.ID,
		[]models.Answer{{Question: "Why?", Answer: "Passion"}}, documents)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, application.Status)
	require.NotNil(t, application.Applicant)
	require.NotNil(t, application.Opportunity)
	assert.Equal(t, "thandi@example.com", application.Applicant.Email)
	assert.Equal(t, "Sasol Bursary", application.Opportunity.Title)
	assert.Equal(t, int64(1), application.Opportunity.ApplicationsCount)
	require.Len(t, application.Documents, 1)
	assert.False(t, application.Documents[0].UploadedAt.IsZero())

	require.Len(t, published, 1)
	assert.Equal(t, application.ID, published[0].ApplicationID)
	assert.Equal(t, "Thandi Mokoena", published[0].ApplicantName)

	profile, err := f.svc.Profile.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{application.ID}, profile.ApplicationIDs)
}

func TestSubmit_SecondSubmissionIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "thandi@example.com")
	opportunity := f.opportunity(t, "Sasol Bursary", time.Now().Add(24*time.Hour))

	_, err := f.svc.Applications.Submit(ctx, user.ID, opportunity.ID, nil, nil)
	require.NoError(t, err)

	_, err = f.svc.Applications.Submit(ctx, user.ID, opportunity.ID, nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	assert.Contains(t, err.Error(), "already applied")

	stored, err := f.svc.Opportunities.Get(ctx, opportunity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.ApplicationsCount)
}

func TestSubmit_ConcurrentDuplicatesYieldOneSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "thandi@example.com")
	opportunity := f.opportunity(t, "Sasol Bursary", time.Now().Add(24*time.Hour))

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Applications.Submit(ctx, user.ID, opportunity.ID, nil, nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperrors.Is(err, apperrors.KindConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	var stored models.Opportunity
	require.NoError(t, f.db.First(&stored, "id = ?", opportunity.ID).Error)
	assert.Equal(t, int64(1), stored.ApplicationsCount)
}

func TestSubmit_ConcurrentSubmissionsKeepCountersExact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	users := f.users(t, 6)
	shared := f.opportunity(t, "Shared", time.Now().Add(24*time.Hour))
	separate := []*models.Opportunity{
		f.opportunity(t, "First", time.Now().Add(24*time.Hour)),
		f.opportunity(t, "Second", time.Now().Add(24*time.Hour)),
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(users)*2)
	for i, user := range users {
		wg.Add(2)
		go func(userID uuid.UUID) {
			defer wg.Done()
			_, err := f.svc.Applications.Submit(ctx, userID, shared.ID, nil, nil)
			errs <- err
		}(user.ID)
		go func(userID, opportunityID uuid.UUID) {
			defer wg.Done()
			_, err := f.svc.Applications.Submit(ctx, userID, opportunityID, nil, nil)
			errs <- err
		}(user.ID, separate[i%2].ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	expected := map[uuid.UUID]int64{shared.ID: 6, separate[0].ID: 3, separate[1].ID: 3}
	for id, want := range expected {
		var stored models.Opportunity
		require.NoError(t, f.db.First(&stored, "id = ?", id).Error)
		assert.Equal(t, want, stored.ApplicationsCount, stored.Title)

		derived, err := f.svc.Counts.ApplicationCount(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, derived)
	}
}

func TestSubmit_Deadline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "thandi@example.com")
	deadline := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	opportunity := f.opportunity(t, "Sasol Bursary", deadline)

	f.svc.Applications.now = func() time.Time { return deadline }
	_, err := f.svc.Applications.Submit(ctx, user.ID, opportunity.ID, nil, nil)
	assert.True(t, apperrors.Is(err, apperrors.KindDeadlinePassed))

	f.svc.Applications.now = func() time.Time { return deadline.Add(time.Hour) }
	_, err = f.svc.Applications.Submit(ctx, user.ID, opportunity.ID, nil, nil)
	assert.True(t, apperrors.Is(err, apperrors.KindDeadlinePassed))

	f.svc.Applications.now = func() time.Time { return deadline.Add(-time.Second) }
	_, err = f.svc.Applications.Submit(ctx, user.ID, opportunity.ID, nil, nil)
	assert.NoError(t, err)
}

func TestSubmit_UnknownOrInactiveOpportunity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "thandi@example.com")

	_, err := f.svc.Applications.Submit(ctx, user.ID, uuid.New(), nil, nil)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	opportunity := f.opportunity(t, "Closed", time.Now().Add(24*time.Hour))
	_, err = f.svc.Admin.BulkOpportunities(ctx, []uuid.UUID{opportunity.ID}, BulkDeactivate)
	require.NoError(t, err)

	_, err = f.svc.Applications.Submit(ctx, user.ID, opportunity.ID, nil, nil)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestSubmit_CheckOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "thandi@example.com")
	deadline := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	opportunity := f.opportunity(t, "Sasol Bursary", deadline)
	_, err := f.svc.Applications.Submit(ctx, user.ID, opportunity.ID, nil, nil)
	require.NoError(t, err)

	f.svc.Applications.now = func() time.Time { return deadline.Add(time.Hour) }
	_, err = f.svc.Applications.Submit(ctx, user.ID, opportunity.ID, nil, nil)
	assert.True(t, apperrors.Is(err, apperrors.KindDeadlinePassed))

	_, err = f.svc.Admin.BulkOpportunities(ctx, []uuid.UUID{opportunity.ID}, BulkDeactivate)
	require.NoError(t, err)
	_, err = f.svc.Applications.Submit(ctx, user.ID, opportunity.ID, nil, nil)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestSubmit_CounterFailureLeftForReconciliation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "thandi@example.com")
	opportunity := f.opportunity(t, "Sasol Bursary", time.Now().Add(24*time.Hour))

	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("fail_opportunity_updates", func(tx *gorm.DB) {
		if tx.Statement.Table == "opportunities" {
			tx.AddError(errors.New("counter column locked"))
		}
	}))

	application, err := f.svc.Applications.Submit(ctx, user.ID, opportunity.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, application.Status)

	var stored models.Opportunity
	require.NoError(t, f.db.First(&stored, "id = ?", opportunity.ID).Error)
	assert.Zero(t, stored.ApplicationsCount)

	require.NoError(t, f.db.Callback().Update().Remove("fail_opportunity_updates"))

	corrected, err := f.svc.Reconciler.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, corrected)
	require.NoError(t, f.db.First(&stored, "id = ?", opportunity.ID).Error)
	assert.Equal(t, int64(1), stored.ApplicationsCount)
}

func TestSubmittedEvent_ToleratesMissingParties(t *testing.T) {
	application := &models.Application{Base: models.Base{ID: uuid.New()}, ApplicationDate: time.Now()}

	var event events.ApplicationSubmitted
	assert.NotPanics(t, func() { event = submittedEvent(application) })
	assert.Equal(t, application.ID, event.ApplicationID)
	assert.Empty(t, event.ApplicantEmail)
	assert.Empty(t, event.OpportunityTitle)
}

func TestTransitionStatus_FollowsLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "thandi@example.com")
	opportunity := f.opportunity(t, "Sasol Bursary", time.Now().Add(24*time.Hour))
	application, err := f.svc.Applications.Submit(ctx, user.ID, opportunity.ID, nil, nil)
	require.NoError(t, err)

	var changes []events.ApplicationStatusChanged
	require.NoError(t, f.bus.Subscribe(events.ApplicationStatusChangedTopic, func(e events.ApplicationStatusChanged) {
		changes = append(changes, e)
	}))

	updated, err := f.svc.Applications.TransitionStatus(ctx, application.ID, models.StatusUnderReview)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, updated.Status)

	_, err = f.svc.Applications.TransitionStatus(ctx, application.ID, models.StatusPending)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	updated, err = f.svc.Applications.TransitionStatus(ctx, application.ID, models.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)

	_, err = f.svc.Applications.TransitionStatus(ctx, application.ID, models.StatusRejected)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	same, err := f.svc.Applications.TransitionStatus(ctx, application.ID, models.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, same.Status)

	require.Len(t, changes, 2)
	assert.Equal(t, models.StatusAccepted, changes[1].To)
	assert.Equal(t, "thandi@example.com", changes[1].ApplicantEmail)

	_, err = f.svc.Applications.TransitionStatus(ctx, application.ID, models.Status("Archived"))
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = f.svc.Applications.TransitionStatus(ctx, uuid.New(), models.StatusRejected)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestGet_OnlyOwnerOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "thandi@example.com")
	stranger := f.user(t, "sipho@example.com")
	opportunity := f.opportunity(t, "Sasol Bursary", time.Now().Add(24*time.Hour))
	application, err := f.svc.Applications.Submit(ctx, owner.ID, opportunity.ID, nil, nil)
	require.NoError(t, err)

	_, err = f.svc.Applications.Get(ctx, application.ID, Requester{ID: stranger.ID})
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	found, err := f.svc.Applications.Get(ctx, application.ID, Requester{ID: owner.ID})
	require.NoError(t, err)
	assert.Equal(t, application.ID, found.ID)

	_, err = f.svc.Applications.Get(ctx, application.ID, Requester{ID: stranger.ID, IsAdmin: true})
	assert.NoError(t, err)
}

func TestListings_OrderAndVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "thandi@example.com")
	other := f.user(t, "sipho@example.com")
	first := f.opportunity(t, "First", time.Now().Add(24*time.Hour))
	second := f.opportunity(t, "Second", time.Now().Add(48*time.Hour))

	base := time.Now().Add(-time.Hour)
	f.svc.Applications.now = func() time.Time { return base }
	older, err := f.svc.Applications.Submit(ctx, owner.ID, first.ID, nil, nil)
	require.NoError(t, err)
	f.svc.Applications.now = func() time.Time { return base.Add(time.Minute) }
	newer, err := f.svc.Applications.Submit(ctx, owner.ID, second.ID, nil, nil)
	require.NoError(t, err)
	f.svc.Applications.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = f.svc.Applications.Submit(ctx, other.ID, first.ID, nil, nil)
	require.NoError(t, err)

	mine, err := f.svc.Applications.ListForAccount(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)
	assert.Equal(t, older.ID, mine[1].ID)

	page, err := f.svc.Applications.ListAll(ctx, "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 2)

	visible, err := f.svc.Applications.ListVisible(ctx, Requester{ID: other.ID}, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), visible.Total)

	_, err = f.svc.Applications.ListAll(ctx, models.Status("Archived"), 1, 10)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestScenario_SubmitDuplicateAcceptThenReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@example.com")
	l1 := f.opportunity(t, "L1", time.Now().Add(24*time.Hour))

	application, err := f.svc.Applications.Submit(ctx, u1.ID, l1.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, application.Status)

	_, err = f.svc.Applications.Submit(ctx, u1.ID, l1.ID, nil, nil)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	accepted, err := f.svc.Applications.TransitionStatus(ctx, application.ID, models.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, accepted.Status)

	_, err = f.svc.Applications.TransitionStatus(ctx, application.ID, models.StatusRejected)
	assert.Error(t, err)

	final, err := f.svc.Applications.Get(ctx, application.ID, Requester{ID: u1.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, final.Status)
}
