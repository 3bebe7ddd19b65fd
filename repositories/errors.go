package repositories

import (
	"strings"

	"portal/apperrors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicate recognises unique-constraint violations from every supported
// driver, with or without gorm's error translation.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

// translate turns a storage error into the service error vocabulary.
func translate(err error, op string, notFound string) error {
	switch {
	case err == nil:
		return nil
	case isNotFound(err):
		return apperrors.NotFound(notFound)
	default:
		return apperrors.Internal(op, errors.Wrap(err, op))
	}
}

// paginate applies offset pagination. page is 1-based.
func paginate(page, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 10
		}
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}
