package repositories

import (
	"context"
	"strings"

	"portal/apperrors"
	"portal/models"

	"gorm.io/gorm"
)

const subscriptionNotFound = "Email not found in subscriptions"

type Newsletters struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) *Newsletters {
	return &Newsletters{db: db}
}

func (repo *Newsletters) FindByEmail(ctx context.Context, email string) (*models.Newsletter, error) {
	var subscription models.Newsletter
	err := repo.db.WithContext(ctx).First(&subscription, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, translate(err, "find subscription", subscriptionNotFound)
	}
	return &subscription, nil
}

func (repo *Newsletters) Create(ctx context.Context, subscription *models.Newsletter) error {
	subscription.Email = strings.ToLower(strings.TrimSpace(subscription.Email))
	err := repo.db.WithContext(ctx).Create(subscription).Error
	if isDuplicate(err) {
		return apperrors.Conflict("Email is already subscribed")
	}
	return translate(err, "create subscription", subscriptionNotFound)
}

func (repo *Newsletters) SetSubscribed(ctx context.Context, subscription *models.Newsletter, subscribed bool) error {
	err := repo.db.WithContext(ctx).Model(subscription).Update("is_subscribed", subscribed).Error
	return translate(err, "update subscription", subscriptionNotFound)
}

// ListAll returns every subscription, most recent first.
func (repo *Newsletters) ListAll(ctx context.Context) ([]models.Newsletter, error) {
	var subscriptions []models.Newsletter
	err := repo.db.WithContext(ctx).Order("subscribed_at desc").Find(&subscriptions).Error
	return subscriptions, translate(err, "list subscriptions", subscriptionNotFound)
}

func (repo *Newsletters) ListSubscribed(ctx context.Context) ([]models.Newsletter, error) {
	var subscriptions []models.Newsletter
	err := repo.db.WithContext(ctx).Where("is_subscribed = ?", true).Order("subscribed_at desc").Find(&subscriptions).Error
	return subscriptions, translate(err, "list subscribers", subscriptionNotFound)
}

func (repo *Newsletters) Count(ctx context.Context, subscribedOnly bool) (int64, error) {
	query := repo.db.WithContext(ctx).Model(&models.Newsletter{})
	if subscribedOnly {
		query = query.Where("is_subscribed = ?", true)
	}
	var total int64
	err := query.Count(&total).Error
	return total, translate(err, "count subscriptions", subscriptionNotFound)
}
