package adminController

import (
	"bytes"

	"portal/controllers"
	"portal/middleware"
	"portal/services"
	"portal/validators"
	adminValidator "portal/validators/admin"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Controller struct {
	admin         *services.Admin
	opportunities *services.Opportunities
	reconciler    *services.Reconciler
}

func New(svc *services.Services) *Controller {
	return &Controller{admin: svc.Admin, opportunities: svc.Opportunities, reconciler: svc.Reconciler}
}

func (ctrl *Controller) Stats(c *fiber.Ctx) error {
	stats, err := ctrl.admin.DashboardStats(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", stats)
}

func (ctrl *Controller) Activity(c *fiber.Ctx) error {
	reqData, ok := c.Locals(adminValidator.ActivityKey).(*adminValidator.ActivityRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	activity, err := ctrl.admin.RecentActivity(c.UserContext(), reqData.Limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recent activity fetched successfully!", fiber.Map{
		"activities": activity,
	})
}

func (ctrl *Controller) Bulk(c *fiber.Ctx) error {
	reqData, ok := c.Locals(adminValidator.BulkKey).(*adminValidator.BulkRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	ids := lo.Map(reqData.OpportunityIDs, func(id string, _ int) uuid.UUID { return uuid.MustParse(id) })

	affected, err := ctrl.admin.BulkOpportunities(c.UserContext(), ids, services.BulkAction(reqData.Action))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bulk operation completed successfully", fiber.Map{
		"action":        reqData.Action,
		"affectedCount": affected,
	})
}

func (ctrl *Controller) Export(c *fiber.Ctx) error {
	file, err := ctrl.admin.Export(c.UserContext(), services.ExportType(c.Params("type")))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	c.Attachment(file.Filename)
	c.Set(fiber.HeaderContentType, file.ContentType)
	return c.Status(fiber.StatusOK).Send(file.Data)
}

func (ctrl *Controller) Analytics(c *fiber.Ctx) error {
	reqData, ok := c.Locals(adminValidator.AnalyticsKey).(*adminValidator.AnalyticsRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	analytics, err := ctrl.admin.Analytics(c.UserContext(), reqData.Period)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics fetched successfully!", analytics)
}

// Reconcile rewrites drifting application counters on demand.
func (ctrl *Controller) Reconcile(c *fiber.Ctx) error {
	corrected, err := ctrl.reconciler.Run(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Counters reconciled", fiber.Map{
		"corrected": corrected,
	})
}

// Import upserts opportunities from an uploaded CSV file.
func (ctrl *Controller) Import(c *fiber.Ctx) error {
	file, ok := validators.UploadedFile(c)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	stats, err := ctrl.opportunities.Import(c.UserContext(), bytes.NewReader(file.Data))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Opportunities imported", stats)
}
