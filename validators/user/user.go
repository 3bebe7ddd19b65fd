package userValidator

import (
	"portal/validators"
	profileValidator "portal/validators/profile"

	"github.com/gofiber/fiber/v2"
)

const (
	ListKey   = "validatedUserList"
	UpdateKey = "validatedUserUpdate"
)

type ListRequest struct {
	validators.Pagination
	Search string `json:"search" query:"search" validate:"omitempty,max=100"`
}

// UpdateRequest is an administrator's edit of an account.
type UpdateRequest struct {
	profileValidator.UpdateRequest
	Email         string `json:"email" validate:"omitempty,email"`
	IsAdmin       *bool  `json:"isAdmin"`
	EmailVerified *bool  `json:"emailVerified"`
}

func List() fiber.Handler {
	return validators.Query[ListRequest](ListKey)
}

func Update() fiber.Handler {
	return validators.Body[UpdateRequest](UpdateKey)
}
