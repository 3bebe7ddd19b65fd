package repositories

import (
	"context"
	"time"

	"portal/apperrors"
	"portal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	applicationNotFound = "Application not found"
	AlreadyAppliedMsg   = "You have already applied for this opportunity"
)

type ApplicationFilter struct {
	Status      models.Status
	ApplicantID uuid.UUID
	Page        int
	Limit       int
}

type StatusCount struct {
	Status models.Status `json:"status"`
	Count  int64         `json:"count"`
}

type Applications struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *Applications {
	return &Applications{db: db}
}

func (repo *Applications) WithTx(tx *gorm.DB) *Applications {
	return &Applications{db: tx}
}

// withParties preloads the applicant and opportunity of each application.
func withParties(db *gorm.DB) *gorm.DB {
	return db.Preload("Applicant").Preload("Opportunity")
}

// Create inserts the application. A violation of the unique
// (applicant, opportunity) index is reported as a conflict.
func (repo *Applications) Create(ctx context.Context, application *models.Application) error {
	err := repo.db.WithContext(ctx).Omit("Applicant", "Opportunity").Create(application).Error
	if isDuplicate(err) {
		return apperrors.Conflict(AlreadyAppliedMsg)
	}
	return translate(err, "create application", applicationNotFound)
}

func (repo *Applications) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var application models.Application
	err := repo.db.WithContext(ctx).Scopes(withParties).First(&application, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "find application", applicationNotFound)
	}
	return &application, nil
}

func (repo *Applications) FindByPair(ctx context.Context, applicantID, opportunityID uuid.UUID) (*models.Application, error) {
	var application models.Application
	err := repo.db.WithContext(ctx).
		First(&application, "applicant_id = ? AND opportunity_id = ?", applicantID, opportunityID).Error
	if err != nil {
		return nil, translate(err, "find application by pair", applicationNotFound)
	}
	return &application, nil
}

func (repo *Applications) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]models.Application, error) {
	var applications []models.Application
	err := repo.db.WithContext(ctx).
		Preload("Opportunity").
		Where("applicant_id = ?", applicantID).
		Order("application_date desc").
		Find(&applications).Error
	return applications, translate(err, "list applications by applicant", applicationNotFound)
}

func (repo *Applications) List(ctx context.Context, filter ApplicationFilter) ([]models.Application, int64, error) {
	query := repo.db.WithContext(ctx).Model(&models.Application{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ApplicantID != uuid.Nil {
		query = query.Where("applicant_id = ?", filter.ApplicantID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count applications", applicationNotFound)
	}

	var applications []models.Application
	err := query.Scopes(withParties, paginate(filter.Page, filter.Limit)).
		Order("application_date desc").
		Order("id").
		Find(&applications).Error
	if err != nil {
		return nil, 0, translate(err, "list applications", applicationNotFound)
	}
	return applications, total, nil
}

// UpdateStatus moves the application from one status to another. It returns
// false when the stored status no longer equals from.
func (repo *Applications) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.Status) (bool, error) {
	result := repo.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return false, translate(result.Error, "update application status", applicationNotFound)
	}
	return result.RowsAffected == 1, nil
}

// CountByOpportunity derives the number of applications per opportunity.
// With no ids every opportunity that has applications is returned.
func (repo *Applications) CountByOpportunity(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]int64, error) {
	var rows []struct {
		OpportunityID uuid.UUID
		Total         int64
	}
	query := repo.db.WithContext(ctx).Model(&models.Application{}).
		Select("opportunity_id, COUNT(*) AS total").
		Group("opportunity_id")
	if len(ids) > 0 {
		query = query.Where("opportunity_id IN ?", ids)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, translate(err, "count applications by opportunity", applicationNotFound)
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.OpportunityID] = row.Total
	}
	return counts, nil
}

func (repo *Applications) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := repo.db.WithContext(ctx).Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&counts).Error
	return counts, translate(err, "count applications by status", applicationNotFound)
}

func (repo *Applications) Count(ctx context.Context) (int64, error) {
	var total int64
	err := repo.db.WithContext(ctx).Model(&models.Application{}).Count(&total).Error
	return total, translate(err, "count applications", applicationNotFound)
}

func (repo *Applications) Recent(ctx context.Context, limit int) ([]models.Application, error) {
	var applications []models.Application
	err := repo.db.WithContext(ctx).Scopes(withParties).
		Order("application_date desc").
		Limit(limit).
		Find(&applications).Error
	return applications, translate(err, "load recent applications", applicationNotFound)
}

// FindAll loads every application with its parties. Used by exports.
func (repo *Applications) FindAll(ctx context.Context) ([]models.Application, error) {
	var applications []models.Application
	err := repo.db.WithContext(ctx).Scopes(withParties).
		Order("application_date desc").
		Find(&applications).Error
	return applications, translate(err, "load applications", applicationNotFound)
}

// SubmittedSince returns the submission times of applications after since.
func (repo *Applications) SubmittedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := repo.db.WithContext(ctx).Model(&models.Application{}).
		Where("application_date >= ?", since).
		Pluck("application_date", &times).Error
	return times, translate(err, "load application dates", applicationNotFound)
}
