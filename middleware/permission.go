package middleware

import (
	"context"

	"portal/apperrors"
	"portal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AccountFinder loads accounts by id.
type AccountFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RequireAdmin lets a request through only when the stored account is an
// administrator. The token claim alone is not trusted since the flag can be
// revoked after the token was issued.
func RequireAdmin(accounts AccountFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := UserID(c)
		if !ok {
			return unauthorized(c, "Unauthorized: User ID not found")
		}

		user, err := accounts.FindByID(c.UserContext(), userID)
		if apperrors.Is(err, apperrors.KindNotFound) {
			return unauthorized(c, "Account no longer exists")
		}
		if err != nil {
			return ErrorResponse(c, err)
		}
		if !user.IsAdmin {
			return JsonResponse(c, fiber.StatusForbidden, false, "Access denied. Admin privileges required.", nil)
		}

		c.Locals(isAdminKey, true)
		return c.Next()
	}
}
