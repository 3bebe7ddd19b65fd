package adminValidator

import (
	"portal/middleware"
	"portal/utils"
	"portal/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	BulkKey      = "validatedBulk"
	ActivityKey  = "validatedActivity"
	AnalyticsKey = "validatedAnalytics"
)

type BulkRequest struct {
	OpportunityIDs []string `json:"opportunityIds" validate:"required,min=1,max=500,dive,uuid"`
	Action         string   `json:"action" validate:"required,oneof=activate deactivate delete"`
}

type ActivityRequest struct {
	Limit int `json:"limit" query:"limit" validate:"omitempty,min=1,max=100"`
}

type AnalyticsRequest struct {
	Period string `json:"period" query:"period" validate:"omitempty,oneof=7d 30d 90d 1y"`
}

func Bulk() fiber.Handler {
	return validators.Body[BulkRequest](BulkKey)
}

func Activity() fiber.Handler {
	return validators.Query[ActivityRequest](ActivityKey)
}

func Analytics() fiber.Handler {
	return validators.Query[AnalyticsRequest](AnalyticsKey)
}

type ExportRequest struct {
	Type string `json:"type" validate:"oneof=users applications opportunities newsletter"`
}

// ExportType checks the :type route parameter.
func ExportType() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if errs := validators.Struct(&ExportRequest{Type: c.Params("type")}); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}
		return c.Next()
	}
}

// ImportFile accepts the CSV upload of an opportunity import.
func ImportFile() fiber.Handler {
	return validators.File(utils.CSVRule)
}
