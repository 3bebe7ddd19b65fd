package applicationValidator

import (
	"portal/models"
	"portal/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	SubmitKey = "validatedApplication"
	StatusKey = "validatedStatus"
	ListKey   = "validatedApplicationList"
)

// SubmitRequest references documents uploaded beforehand through the
// uploads endpoint.
type SubmitRequest struct {
	OpportunityID string            `json:"opportunityId" validate:"required,uuid"`
	Answers       []models.Answer   `json:"answers" validate:"omitempty,max=50,dive"`
	Documents     []models.Document `json:"documents" validate:"omitempty,max=20,dive"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,status"`
}

type ListRequest struct {
	validators.Pagination
	Status string `json:"status" query:"status" validate:"omitempty,status"`
}

func Submit() fiber.Handler {
	return validators.Body[SubmitRequest](SubmitKey)
}

func UpdateStatus() fiber.Handler {
	return validators.Body[StatusRequest](StatusKey)
}

func List() fiber.Handler {
	return validators.Query[ListRequest](ListKey)
}
