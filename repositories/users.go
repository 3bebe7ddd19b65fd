package repositories

import (
	"context"
	"strings"
	"time"

	"portal/apperrors"
	"portal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const userNotFound = "User not found"

type Users struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *Users {
	return &Users{db: db}
}

func (repo *Users) WithTx(tx *gorm.DB) *Users {
	return &Users{db: tx}
}

func (repo *Users) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := repo.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find user", userNotFound)
	}
	return &user, nil
}

func (repo *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := repo.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, translate(err, "find user by email", userNotFound)
	}
	return &user, nil
}

func (repo *Users) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	err := repo.db.WithContext(ctx).Create(user).Error
	if isDuplicate(err) {
		return apperrors.Conflict("Email is already registered!")
	}
	return translate(err, "create user", userNotFound)
}

func (repo *Users) Save(ctx context.Context, user *models.User) error {
	err := repo.db.WithContext(ctx).Omit("created_at").Save(user).Error
	if isDuplicate(err) {
		return apperrors.Conflict("Email is already registered!")
	}
	return translate(err, "save user", userNotFound)
}

// Delete removes the user and every application they own in one
// transaction. It returns the opportunities whose applications were removed.
func (repo *Users) Delete(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var affected []uuid.UUID
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Application{}).
			Where("applicant_id = ?", id).
			Distinct().
			Pluck("opportunity_id", &affected).Error; err != nil {
			return err
		}
		if err := tx.Where("applicant_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.LoginRecord{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "delete user", userNotFound)
	}
	return affected, nil
}

func (repo *Users) List(ctx context.Context, search string, page, limit int) ([]models.User, int64, error) {
	query := repo.db.WithContext(ctx).Model(&models.User{})
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count users", userNotFound)
	}

	var users []models.User
	err := query.Scopes(paginate(page, limit)).Order("created_at desc").Find(&users).Error
	if err != nil {
		return nil, 0, translate(err, "list users", userNotFound)
	}
	return users, total, nil
}

// ApplicationIDs derives the user's application back-reference list.
func (repo *Users) ApplicationIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := repo.db.WithContext(ctx).Model(&models.Application{}).
		Where("applicant_id = ?", id).
		Order("application_date desc").
		Pluck("id", &ids).Error
	return ids, translate(err, "load application ids", userNotFound)
}

func (repo *Users) Count(ctx context.Context) (int64, error) {
	var total int64
	err := repo.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error
	return total, translate(err, "count users", userNotFound)
}

func (repo *Users) Recent(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := repo.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&users).Error
	return users, translate(err, "load recent users", userNotFound)
}

// FindAll loads every user, newest first. Used by exports.
func (repo *Users) FindAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := repo.db.WithContext(ctx).Order("created_at desc").Find(&users).Error
	return users, translate(err, "load users", userNotFound)
}

// CreatedSince returns the creation times of users registered after since.
func (repo *Users) CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := repo.db.WithContext(ctx).Model(&models.User{}).
		Where("created_at >= ?", since).
		Pluck("created_at", &times).Error
	return times, translate(err, "load user creation times", userNotFound)
}
