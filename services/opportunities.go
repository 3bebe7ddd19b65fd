package services

import (
	"context"
	"time"

	"portal/apperrors"
	"portal/models"
	"portal/repositories"
	"portal/utils"

	"github.com/google/uuid"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const (
	upcomingWindow = 30 * 24 * time.Hour
	upcomingLimit  = 10
)

// OpportunityInput carries the editable fields of an opportunity. On update
// zero values leave the stored field untouched.
type OpportunityInput struct {
	Title               string
	Description         string
	Category            models.Category
	Field               string
	Provider            string
	Location            string
	Eligibility         models.Eligibility
	Funding             models.Funding
	ApplicationDeadline time.Time
	ApplicationProcess  string
	ApplyMethod         models.ApplyMethod
	DocumentsRequired   []string
	Contact             models.ContactInfo
	Rating              *float64
	IsActive            *bool
}

type OpportunityQuery struct {
	Category        models.Category
	Search          string
	Page            int
	Limit           int
	IncludeInactive bool
}

type UpcomingDeadline struct {
	ID                  uuid.UUID       `json:"id"`
	Title               string          `json:"title"`
	Provider            string          `json:"provider"`
	Category            models.Category `json:"category"`
	ApplicationDeadline time.Time       `json:"applicationDeadline"`
	DaysLeft            int             `json:"daysLeft"`
}

type Opportunities struct {
	opportunities *repositories.Opportunities
	counts        *CountCache
	now           func() time.Time
}

func NewOpportunities(opportunities *repositories.Opportunities, counts *CountCache) *Opportunities {
	return &Opportunities{opportunities: opportunities, counts: counts, now: time.Now}
}

// List returns active opportunities ordered by closing date.
func (s *Opportunities) List(ctx context.Context, query OpportunityQuery) (*Page[models.Opportunity], error) {
	if query.Category != "" && !query.Category.Valid() {
		return nil, apperrors.Validation("Invalid category", map[string]string{"category": "unknown category"})
	}
	page, limit := normalizePage(query.Page, query.Limit)

	items, total, err := s.opportunities.List(ctx, repositories.OpportunityFilter{
		Category:   query.Category,
		Search:     query.Search,
		ActiveOnly: !query.IncludeInactive,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	if err := s.withDerivedCounts(ctx, items); err != nil {
		return nil, err
	}
	return newPage(items, total, page, limit), nil
}

// Get returns the opportunity and records a view.
func (s *Opportunities) Get(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	if err := s.opportunities.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	opportunity, err := s.opportunities.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.counts.ApplicationCount(ctx, id)
	if err != nil {
		return nil, err
	}
	opportunity.ApplicationsCount = count
	return opportunity, nil
}

func (s *Opportunities) withDerivedCounts(ctx context.Context, items []models.Opportunity) error {
	if len(items) == 0 {
		return nil
	}
	counts, err := s.counts.ApplicationCounts(ctx, lo.Map(items, func(o models.Opportunity, _ int) uuid.UUID {
		return o.ID
	}))
	if err != nil {
		return err
	}
	for i := range items {
		items[i].ApplicationsCount = counts[items[i].ID]
	}
	return nil
}

func (s *Opportunities) Create(ctx context.Context, input OpportunityInput) (*models.Opportunity, error) {
	if err := validateOpportunity(input, true); err != nil {
		return nil, err
	}
	opportunity := &models.Opportunity{IsActive: true}
	applyOpportunityInput(opportunity, input)

	if err := s.opportunities.Create(ctx, opportunity); err != nil {
		return nil, err
	}
	// IsActive false is a zero value and would be replaced by the column default
	if input.IsActive != nil && !*input.IsActive {
		if _, err := s.opportunities.SetActive(ctx, []uuid.UUID{opportunity.ID}, false); err != nil {
			return nil, err
		}
	}
	log.WithField("opportunity_id", opportunity.ID).Info("Opportunity created")
	return s.opportunities.FindByID(ctx, opportunity.ID)
}

func (s *Opportunities) Update(ctx context.Context, id uuid.UUID, input OpportunityInput) (*models.Opportunity, error) {
	if err := validateOpportunity(input, false); err != nil {
		return nil, err
	}
	opportunity, err := s.opportunities.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyOpportunityInput(opportunity, input)
	if err := s.opportunities.Save(ctx, opportunity); err != nil {
		return nil, err
	}
	return s.opportunities.FindByID(ctx, id)
}

// Delete removes the opportunity and its applications.
func (s *Opportunities) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.opportunities.Delete(ctx, id); err != nil {
		return err
	}
	s.counts.Invalidate(id)
	log.WithField("opportunity_id", id).Info("Opportunity deleted")
	return nil
}

// UpcomingDeadlines lists active opportunities closing within 30 days.
func (s *Opportunities) UpcomingDeadlines(ctx context.Context) ([]UpcomingDeadline, error) {
	now := s.now().UTC()
	items, err := s.opportunities.UpcomingDeadlines(ctx, now, now.Add(upcomingWindow), upcomingLimit)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(o models.Opportunity, _ int) UpcomingDeadline {
		return UpcomingDeadline{
			ID:                  o.ID,
			Title:               o.Title,
			Provider:            o.Provider,
			Category:            o.Category,
			ApplicationDeadline: o.ApplicationDeadline,
			DaysLeft:            utils.DaysLeft(o.ApplicationDeadline, now),
		}
	}), nil
}

func validateOpportunity(input OpportunityInput, creating bool) error {
	fields := map[string]string{}
	if input.Category != "" && !input.Category.Valid() {
		fields["category"] = "must be one of bursary, internship, graduate, learnership"
	}
	if input.Rating != nil && (*input.Rating < 0 || *input.Rating > 5) {
		fields["rating"] = "must be between 0 and 5"
	}
	if input.ApplyMethod.Type != "" && !lo.Contains([]string{"site", "redirect"}, input.ApplyMethod.Type) {
		fields["applyMethod.type"] = "must be site or redirect"
	}
	if creating {
		required := map[string]string{
			"title":       input.Title,
			"description": input.Description,
			"category":    string(input.Category),
			"field":       input.Field,
			"provider":    input.Provider,
			"location":    input.Location,
		}
		for name, value := range required {
			if value == "" {
				fields[name] = "is required"
			}
		}
		if input.ApplicationDeadline.IsZero() {
			fields["applicationDeadline"] = "is required"
		}
	}
	if len(fields) > 0 {
		return apperrors.Validation("Validation failed!", fields)
	}
	return nil
}

func applyOpportunityInput(o *models.Opportunity, input OpportunityInput) {
	setString := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}
	setString(&o.Title, input.Title)
	setString(&o.Description, input.Description)
	setString(&o.Field, input.Field)
	setString(&o.Provider, input.Provider)
	setString(&o.Location, input.Location)
	setString(&o.ApplicationProcess, input.ApplicationProcess)
	if input.Category != "" {
		o.Category = input.Category
	}
	if !lo.IsEmpty(input.Funding) {
		o.Funding = input.Funding
	}
	if !lo.IsEmpty(input.ApplyMethod) {
		o.ApplyMethod = input.ApplyMethod
	}
	if !lo.IsEmpty(input.Contact) {
		o.Contact = input.Contact
	}
	if !isEmptyEligibility(input.Eligibility) {
		o.Eligibility = input.Eligibility
	}
	if !input.ApplicationDeadline.IsZero() {
		o.ApplicationDeadline = input.ApplicationDeadline.UTC()
	}
	if input.DocumentsRequired != nil {
		o.DocumentsRequired = input.DocumentsRequired
	}
	if input.Rating != nil {
		o.Rating = *input.Rating
	}
	if input.IsActive != nil {
		o.IsActive = *input.IsActive
	}
}

func isEmptyEligibility(e models.Eligibility) bool {
	return e.MinAge == 0 && e.MaxAge == 0 && e.RequiredEducation == "" && len(e.RequiredFields) == 0 &&
		e.MinimumAverage == "" && len(e.Citizenship) == 0 && len(e.YearOfStudy) == 0 && e.OtherRequirements == ""
}
