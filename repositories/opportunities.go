package repositories

import (
	"context"
	"strings"
	"time"

	"portal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const opportunityNotFound = "Opportunity not found"

type OpportunityFilter struct {
	Category   models.Category
	Search     string
	ActiveOnly bool
	Page       int
	Limit      int
}

type Opportunities struct {
	db *gorm.DB
}

func NewOpportunityRepository(db *gorm.DB) *Opportunities {
	return &Opportunities{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (repo *Opportunities) WithTx(tx *gorm.DB) *Opportunities {
	return &Opportunities{db: tx}
}

func (repo *Opportunities) FindByID(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	var opportunity models.Opportunity
	err := repo.db.WithContext(ctx).First(&opportunity, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "find opportunity", opportunityNotFound)
	}
	return &opportunity, nil
}

// FindByTitle looks up a listing by its title and provider, ignoring case.
func (repo *Opportunities) FindByTitle(ctx context.Context, title, provider string) (*models.Opportunity, error) {
	var opportunity models.Opportunity
	err := repo.db.WithContext(ctx).
		Where("LOWER(title) = ? AND LOWER(provider) = ?", strings.ToLower(title), strings.ToLower(provider)).
		First(&opportunity).Error
	if err != nil {
		return nil, translate(err, "find opportunity by title", opportunityNotFound)
	}
	return &opportunity, nil
}

func (repo *Opportunities) Create(ctx context.Context, opportunity *models.Opportunity) error {
	return translate(repo.db.WithContext(ctx).Create(opportunity).Error, "create opportunity", opportunityNotFound)
}

func (repo *Opportunities) Save(ctx context.Context, opportunity *models.Opportunity) error {
	// counters are only ever changed through relative updates
	err := repo.db.WithContext(ctx).Omit("applications_count", "views", "created_at").Save(opportunity).Error
	return translate(err, "save opportunity", opportunityNotFound)
}

// Delete removes the opportunity together with every application that
// references it.
func (repo *Opportunities) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := repo.DeleteMany(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return translate(gorm.ErrRecordNotFound, "delete opportunity", opportunityNotFound)
	}
	return nil
}

// DeleteMany removes the given opportunities and cascades to their
// applications inside one transaction. It returns the number of deleted
// opportunities.
func (repo *Opportunities) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var deleted int64
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("opportunity_id IN ?", ids).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&models.Opportunity{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, translate(err, "delete opportunities", opportunityNotFound)
}

// SetActive flips the active flag of the given opportunities and returns
// the number of rows matched.
func (repo *Opportunities) SetActive(ctx context.Context, ids []uuid.UUID, active bool) (int64, error) {
	result := repo.db.WithContext(ctx).Model(&models.Opportunity{}).
		Where("id IN ?", ids).
		Update("is_active", active)
	return result.RowsAffected, translate(result.Error, "update opportunities", opportunityNotFound)
}

func (repo *Opportunities) List(ctx context.Context, filter OpportunityFilter) ([]models.Opportunity, int64, error) {
	query := repo.db.WithContext(ctx).Model(&models.Opportunity{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(provider) LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count opportunities", opportunityNotFound)
	}

	var opportunities []models.Opportunity
	err := query.Scopes(paginate(filter.Page, filter.Limit)).
		Order("application_deadline asc").
		Find(&opportunities).Error
	if err != nil {
		return nil, 0, translate(err, "list opportunities", opportunityNotFound)
	}
	return opportunities, total, nil
}

// UpcomingDeadlines returns active opportunities closing between from and to.
func (repo *Opportunities) UpcomingDeadlines(ctx context.Context, from, to time.Time, limit int) ([]models.Opportunity, error) {
	var opportunities []models.Opportunity
	err := repo.db.WithContext(ctx).
		Where("is_active = ? AND application_deadline >= ? AND application_deadline <= ?", true, from, to).
		Order("application_deadline asc").
		Limit(limit).
		Find(&opportunities).Error
	return opportunities, translate(err, "list upcoming deadlines", opportunityNotFound)
}

// IncrementApplicationCount adds one to the cached counter with a relative
// update so concurrent submissions never lose increments.
func (repo *Opportunities) IncrementApplicationCount(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Model(&models.Opportunity{}).
		Where("id = ?", id).
		UpdateColumn("applications_count", gorm.Expr("applications_count + ?", 1))
	if result.Error == nil && result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "increment application count", opportunityNotFound)
	}
	return translate(result.Error, "increment application count", opportunityNotFound)
}

func (repo *Opportunities) IncrementViews(ctx context.Context, id uuid.UUID) error {
	err := repo.db.WithContext(ctx).Model(&models.Opportunity{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	return translate(err, "increment views", opportunityNotFound)
}

// SyncApplicationCount rewrites the cached counter from the applications
// table in a single statement.
func (repo *Opportunities) SyncApplicationCount(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)
	derived := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Application{}).
		Select("COUNT(*)").
		Where("opportunity_id = ?", id)
	err := db.Model(&models.Opportunity{}).
		Where("id = ?", id).
		UpdateColumn("applications_count", derived).Error
	return translate(err, "sync application count", opportunityNotFound)
}

// StoredCounts returns the cached application counter of every opportunity.
func (repo *Opportunities) StoredCounts(ctx context.Context) (map[uuid.UUID]int64, error) {
	var rows []struct {
		ID                uuid.UUID
		ApplicationsCount int64
	}
	err := repo.db.WithContext(ctx).Model(&models.Opportunity{}).
		Select("id, applications_count").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "load stored counts", opportunityNotFound)
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.ApplicationsCount
	}
	return counts, nil
}

func (repo *Opportunities) FindAll(ctx context.Context) ([]models.Opportunity, error) {
	var opportunities []models.Opportunity
	err := repo.db.WithContext(ctx).Order("created_at desc").Find(&opportunities).Error
	return opportunities, translate(err, "load opportunities", opportunityNotFound)
}

func (repo *Opportunities) Recent(ctx context.Context, limit int) ([]models.Opportunity, error) {
	var opportunities []models.Opportunity
	err := repo.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&opportunities).Error
	return opportunities, translate(err, "load recent opportunities", opportunityNotFound)
}

func (repo *Opportunities) TopByApplications(ctx context.Context, limit int) ([]models.Opportunity, error) {
	var opportunities []models.Opportunity
	err := repo.db.WithContext(ctx).
		Order("applications_count desc").
		Order("views desc").
		Limit(limit).
		Find(&opportunities).Error
	return opportunities, translate(err, "load top opportunities", opportunityNotFound)
}

func (repo *Opportunities) Count(ctx context.Context, activeOnly bool) (int64, error) {
	query := repo.db.WithContext(ctx).Model(&models.Opportunity{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var total int64
	err := query.Count(&total).Error
	return total, translate(err, "count opportunities", opportunityNotFound)
}

type CategoryStat struct {
	Category          models.Category `json:"category"`
	Count             int64           `json:"count"`
	TotalApplications int64           `json:"totalApplications"`
	AvgViews          float64         `json:"avgViews"`
}

// CategoryStats aggregates active opportunities per category.
func (repo *Opportunities) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	var stats []CategoryStat
	err := repo.db.WithContext(ctx).Model(&models.Opportunity{}).
		Select("category, COUNT(*) AS count, COALESCE(SUM(applications_count), 0) AS total_applications, COALESCE(AVG(views), 0) AS avg_views").
		Where("is_active = ?", true).
		Group("category").
		Order("category").
		Scan(&stats).Error
	return stats, translate(err, "aggregate categories", opportunityNotFound)
}

// CountByCategory counts every opportunity, active or not, per category.
func (repo *Opportunities) CountByCategory(ctx context.Context) (map[models.Category]int64, error) {
	var rows []struct {
		Category models.Category
		Total    int64
	}
	err := repo.db.WithContext(ctx).Model(&models.Opportunity{}).
		Select("category, COUNT(*) AS total").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "count opportunities by category", opportunityNotFound)
	}

	counts := make(map[models.Category]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Total
	}
	return counts, nil
}
