package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"portal/apperrors"
	"portal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpportunities_ListHidesInactiveAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	soon := f.opportunity(t, "Soon", time.Now().Add(48*time.Hour))
	f.opportunity(t, "Later", time.Now().Add(96*time.Hour))
	hidden := f.opportunity(t, "Hidden", time.Now().Add(24*time.Hour))
	_, err := f.svc.Admin.BulkOpportunities(ctx, []uuid.UUID{hidden.ID}, BulkDeactivate)
	require.NoError(t, err)

	page, err := f.svc.Opportunities.List(ctx, OpportunityQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, soon.ID, page.Items[0].ID)

	page, err = f.svc.Opportunities.List(ctx, OpportunityQuery{IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	page, err = f.svc.Opportunities.List(ctx, OpportunityQuery{Search: "later"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Later", page.Items[0].Title)

	page, err = f.svc.Opportunities.List(ctx, OpportunityQuery{Category: models.CategoryInternship})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = f.svc.Opportunities.List(ctx, OpportunityQuery{Category: "Bursary"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestOpportunities_GetCountsViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	opportunity := f.opportunity(t, "Viewed", time.Now().Add(24*time.Hour))

	_, err := f.svc.Opportunities.Get(ctx, opportunity.ID)
	require.NoError(t, err)
	got, err := f.svc.Opportunities.Get(ctx, opportunity.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)

	_, err = f.svc.Opportunities.Get(ctx, uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestOpportunities_CreateValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Opportunities.Create(context.Background(), OpportunityInput{Title: "Only a title"})
	require.Error(t, err)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "provider")
	assert.Contains(t, appErr.Fields, "applicationDeadline")
}

func TestOpportunities_CreateInactive(t *testing.T) {
	f := newFixture(t)
	inactive := false

	created, err := f.svc.Opportunities.Create(context.Background(), OpportunityInput{
		Title:               "Draft",
		Description:         "Not yet published",
		Category:            models.CategoryGraduate,
		Field:               "Finance",
		Provider:            "Absa",
		Location:            "Cape Town",
		ApplicationDeadline: time.Now().Add(72 * time.Hour),
		IsActive:            &inactive,
	})
	require.NoError(t, err)
	assert.False(t, created.IsActive)
}

func TestOpportunities_UpdateKeepsUnsetFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	opportunity := f.opportunity(t, "Original", time.Now().Add(24*time.Hour))

	updated, err := f.svc.Opportunities.Update(ctx, opportunity.ID, OpportunityInput{Location: "Durban"})
	require.NoError(t, err)
	assert.Equal(t, "Original", updated.Title)
	assert.Equal(t, "Durban", updated.Location)
}

func TestOpportunities_UpcomingDeadlines(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.Opportunities.now = func() time.Time { return base }
	f.opportunity(t, "Past", base.Add(-time.Hour))
	f.opportunity(t, "Two days", base.Add(48*time.Hour))
	f.opportunity(t, "Far away", base.AddDate(0, 2, 0))

	upcoming, err := f.svc.Opportunities.UpcomingDeadlines(context.Background())
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Two days", upcoming[0].Title)
	assert.Equal(t, 2, upcoming[0].DaysLeft)
}

const importCSV = `title,description,category,field,provider,location,applicationDeadline,documentsRequired,applyUrl,rating
Engineering Bursary,Covers tuition,Bursary,Engineering,Sasol,Secunda,2030-01-31,ID copy; Transcript,https://sasol.example/apply,4.5
Data Internship,Twelve months,internship,IT,Absa,Johannesburg,2030-02-15T00:00:00Z,,,
No Provider,Missing provider,bursary,Science,,Pretoria,2030-01-01,,,
Bad Date,Unparseable deadline,graduate,Law,Webber,Cape Town,next week,,,
`

func TestOpportunities_Import(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stats, err := f.svc.Opportunities.Import(ctx, strings.NewReader(importCSV))
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Inserted: 2, Skipped: 2}, *stats)

	page, err := f.svc.Opportunities.List(ctx, OpportunityQuery{Search: "engineering bursary"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	bursary := page.Items[0]
	assert.Equal(t, models.CategoryBursary, bursary.Category)
	assert.Equal(t, []string{"ID copy", "Transcript"}, []string(bursary.DocumentsRequired))
	assert.Equal(t, "redirect", bursary.ApplyMethod.Type)
	assert.Equal(t, 4.5, bursary.Rating)

	again := "title,provider,location,applicationDeadline\nengineering bursary,SASOL,Sasolburg,2030-03-01\n"
	stats, err = f.svc.Opportunities.Import(ctx, strings.NewReader(again))
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Updated: 1}, *stats)

	updated, err := f.svc.Opportunities.Get(ctx, bursary.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sasolburg", updated.Location)
	assert.Equal(t, "Covers tuition", updated.Description)
}

func TestOpportunities_ImportEmpty(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Opportunities.Import(context.Background(), strings.NewReader(""))
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}
