package middleware

import (
	"fmt"
	"strings"
	"time"

	"portal/config"
	"portal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	userIDKey  = "userId"
	emailKey   = "email"
	isAdminKey = "isAdmin"
)

// GenerateJWT signs a token carrying the account id, email and admin flag.
func GenerateJWT(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId":  user.ID.String(),
		"email":   user.Email,
		"isAdmin": user.IsAdmin,
		"iat":     now.Unix(),
		"exp":     now.Add(config.AppConfig.JWTTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTKey))
}

func unauthorized(c *fiber.Ctx, message string) error {
	return JsonResponse(c, fiber.StatusUnauthorized, false, message, nil)
}

// JWTMiddleware rejects requests without a valid bearer token and stores the
// caller's id, email and admin flag in the request locals.
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return unauthorized(c, "Missing or invalid Authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return unauthorized(c, "Invalid Authorization header format")
	}
	tokenString := authHeader[len("Bearer "):]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return unauthorized(c, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return unauthorized(c, "Invalid token payload")
	}
	rawID, _ := claims["userId"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return unauthorized(c, "Invalid token payload")
	}
	email, _ := claims["email"].(string)
	isAdmin, _ := claims["isAdmin"].(bool)

	c.Locals(userIDKey, userID)
	c.Locals(emailKey, email)
	c.Locals(isAdminKey, isAdmin)
	return c.Next()
}

// UserID returns the authenticated account id.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(userIDKey).(uuid.UUID)
	return id, ok
}

// IsAdmin reports whether the token was issued to an administrator.
func IsAdmin(c *fiber.Ctx) bool {
	isAdmin, _ := c.Locals(isAdminKey).(bool)
	return isAdmin
}
