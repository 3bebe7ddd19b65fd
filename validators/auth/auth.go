package authValidator

import (
	"strings"

	"portal/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	RegisterKey = "validatedRegistration"
	LoginKey    = "validatedLogin"
	HistoryKey  = "validatedLoginHistory"
)

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Register() fiber.Handler {
	return validators.Body(RegisterKey, func(reqData *RegisterRequest, errors map[string]string) {
		if strings.TrimSpace(reqData.FirstName) == "" {
			errors["firstName"] = "First name is required"
		}
		if strings.TrimSpace(reqData.LastName) == "" {
			errors["lastName"] = "Last name is required"
		}
	})
}

func Login() fiber.Handler {
	return validators.Body[LoginRequest](LoginKey)
}

func LoginHistory() fiber.Handler {
	return validators.Query[validators.Pagination](HistoryKey)
}
