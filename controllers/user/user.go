package userController

import (
	"portal/controllers"
	"portal/middleware"
	"portal/services"
	"portal/validators"
	userValidator "portal/validators/user"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	users *services.Users
}

func New(svc *services.Services) *Controller {
	return &Controller{users: svc.Users}
}

func (ctrl *Controller) List(c *fiber.Ctx) error {
	reqData, ok := c.Locals(userValidator.ListKey).(*userValidator.ListRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	page, err := ctrl.users.List(c.UserContext(), reqData.Search, reqData.Page, reqData.Limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users":       page.Items,
		"total":       page.Total,
		"currentPage": page.CurrentPage,
		"totalPages":  page.TotalPages,
	})
}

func (ctrl *Controller) Get(c *fiber.Ctx) error {
	user, err := ctrl.users.Get(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", user)
}

func (ctrl *Controller) Update(c *fiber.Ctx) error {
	reqData, ok := c.Locals(userValidator.UpdateKey).(*userValidator.UpdateRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	user, err := ctrl.users.Update(c.UserContext(), validators.ID(c, "id"), services.UserUpdate{
		ProfileUpdate: controllers.ProfileUpdate(&reqData.UpdateRequest),
		Email:         reqData.Email,
		IsAdmin:       reqData.IsAdmin,
		EmailVerified: reqData.EmailVerified,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully!", user)
}

func (ctrl *Controller) Delete(c *fiber.Ctx) error {
	if err := ctrl.users.Delete(c.UserContext(), validators.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User removed", nil)
}

// Applications lists an account's applications for the owner or an
// administrator.
func (ctrl *Controller) Applications(c *fiber.Ctx) error {
	requester, ok := controllers.Requester(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	applications, err := ctrl.users.Applications(c.UserContext(), validators.ID(c, "id"), requester)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Applications fetched successfully!", fiber.Map{
		"applications": applications,
	})
}
