package opportunityValidator

import (
	"strings"
	"time"

	"portal/models"
	"portal/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	OpportunityKey = "validatedOpportunity"
	ListKey        = "validatedOpportunityList"
)

// OpportunityRequest is the body of create and update. On update every
// field is optional.
type OpportunityRequest struct {
	Title               string             `json:"title" validate:"omitempty,max=200"`
	Description         string             `json:"description" validate:"omitempty,max=10000"`
	Category            models.Category    `json:"category" validate:"omitempty,category"`
	Field               string             `json:"field" validate:"omitempty,max=100"`
	Provider            string             `json:"provider" validate:"omitempty,max=200"`
	Location            string             `json:"location" validate:"omitempty,max=200"`
	Eligibility         models.Eligibility `json:"eligibility"`
	Funding             models.Funding     `json:"funding"`
	ApplicationDeadline *time.Time         `json:"applicationDeadline"`
	ApplicationProcess  string             `json:"applicationProcess"`
	ApplyMethod         models.ApplyMethod `json:"applyMethod"`
	DocumentsRequired   []string           `json:"documentsRequired" validate:"omitempty,dive,max=200"`
	Contact             models.ContactInfo `json:"contactInfo"`
	Rating              *float64           `json:"rating" validate:"omitempty,gte=0,lte=5"`
	IsActive            *bool              `json:"isActive"`
}

type ListRequest struct {
	validators.Pagination
	Category string `json:"category" query:"category" validate:"omitempty,category"`
	Search   string `json:"search" query:"search" validate:"omitempty,max=100"`
}

func checkApplyMethod(reqData *OpportunityRequest, errors map[string]string) {
	switch reqData.ApplyMethod.Type {
	case "", "site":
	case "redirect":
		if strings.TrimSpace(reqData.ApplyMethod.URL) == "" {
			errors["applyMethod.url"] = "A redirect URL is required!"
		}
	default:
		errors["applyMethod.type"] = "Must be one of: site, redirect"
	}
}

func Create() fiber.Handler {
	return validators.Body(OpportunityKey, checkApplyMethod, func(reqData *OpportunityRequest, errors map[string]string) {
		required := map[string]string{
			"title":       reqData.Title,
			"description": reqData.Description,
			"category":    string(reqData.Category),
			"provider":    reqData.Provider,
		}
		for field, value := range required {
			if strings.TrimSpace(value) == "" {
				errors[field] = "This field is required!"
			}
		}
		if reqData.ApplicationDeadline == nil || reqData.ApplicationDeadline.IsZero() {
			errors["applicationDeadline"] = "Valid application deadline is required"
		}
	})
}

func Update() fiber.Handler {
	return validators.Body(OpportunityKey, checkApplyMethod)
}

func List() fiber.Handler {
	return validators.Query[ListRequest](ListKey)
}
