package applicationController

import (
	"portal/controllers"
	"portal/middleware"
	"portal/models"
	"portal/services"
	"portal/validators"
	applicationValidator "portal/validators/application"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Controller struct {
	applications *services.Applications
}

func New(svc *services.Services) *Controller {
	return &Controller{applications: svc.Applications}
}

// List returns every application to administrators and the caller's own
// applications to everyone else.
func (ctrl *Controller) List(c *fiber.Ctx) error {
	requester, ok := controllers.Requester(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	reqData, ok := c.Locals(applicationValidator.ListKey).(*applicationValidator.ListRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}

	page, err := ctrl.applications.ListVisible(c.UserContext(), requester, models.Status(reqData.Status), reqData.Page, reqData.Limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Applications fetched successfully!", fiber.Map{
		"applications": page.Items,
		"total":        page.Total,
		"currentPage":  page.CurrentPage,
		"totalPages":   page.TotalPages,
	})
}

func (ctrl *Controller) Mine(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	applications, err := ctrl.applications.ListForAccount(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Applications fetched successfully!", fiber.Map{
		"applications": applications,
	})
}

func (ctrl *Controller) Get(c *fiber.Ctx) error {
	requester, ok := controllers.Requester(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	application, err := ctrl.applications.Get(c.UserContext(), validators.ID(c, "id"), requester)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Application fetched successfully!", application)
}

func (ctrl *Controller) Submit(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	reqData, ok := c.Locals(applicationValidator.SubmitKey).(*applicationValidator.SubmitRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	opportunityID, err := uuid.Parse(reqData.OpportunityID)
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"opportunityId": "Must be a valid ID!"})
	}

	application, err := ctrl.applications.Submit(c.UserContext(), userID, opportunityID, reqData.Answers, reqData.Documents)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Application submitted successfully!", application)
}

func (ctrl *Controller) UpdateStatus(c *fiber.Ctx) error {
	reqData, ok := c.Locals(applicationValidator.StatusKey).(*applicationValidator.StatusRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	application, err := ctrl.applications.TransitionStatus(c.UserContext(), validators.ID(c, "id"), models.Status(reqData.Status))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Application status updated successfully!", application)
}
