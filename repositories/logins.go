package repositories

import (
	"context"

	"portal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Logins struct {
	db *gorm.DB
}

func NewLoginRepository(db *gorm.DB) *Logins {
	return &Logins{db: db}
}

func (repo *Logins) Create(ctx context.Context, record *models.LoginRecord) error {
	return translate(repo.db.WithContext(ctx).Create(record).Error, "record login", userNotFound)
}

// ListByUser pages through a user's logins, newest first.
func (repo *Logins) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.LoginRecord, int64, error) {
	query := repo.db.WithContext(ctx).Model(&models.LoginRecord{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count logins", userNotFound)
	}
	var records []models.LoginRecord
	err := query.Scopes(paginate(page, limit)).Order("timestamp desc").Find(&records).Error
	return records, total, translate(err, "list logins", userNotFound)
}
