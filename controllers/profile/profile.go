package profileController

import (
	"context"

	"portal/controllers"
	"portal/middleware"
	"portal/models"
	"portal/services"
	"portal/utils"
	"portal/validators"
	profileValidator "portal/validators/profile"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Controller struct {
	profile *services.Profile
}

func New(svc *services.Services) *Controller {
	return &Controller{profile: svc.Profile}
}

func (ctrl *Controller) Complete(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	profile, err := ctrl.profile.Get(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", profile)
}

func (ctrl *Controller) Stats(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	stats, err := ctrl.profile.Stats(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile stats fetched successfully!", stats)
}

func (ctrl *Controller) Update(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	reqData, ok := c.Locals(profileValidator.UpdateKey).(*profileValidator.UpdateRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	profile, err := ctrl.profile.Update(c.UserContext(), userID, controllers.ProfileUpdate(reqData))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", profile)
}

type uploadFunc func(ctx context.Context, userID uuid.UUID, file *utils.UploadedFile) (*models.StoredFile, int, error)

func (ctrl *Controller) upload(c *fiber.Ctx, store uploadFunc, message string) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	file, ok := validators.UploadedFile(c)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	stored, completion, err := store(c.UserContext(), userID, file)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"file":              stored,
		"profileCompletion": completion,
	})
}

func (ctrl *Controller) remove(c *fiber.Ctx, remove func(context.Context, uuid.UUID) (int, error), message string) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	completion, err := remove(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"profileCompletion": completion,
	})
}

func (ctrl *Controller) UploadPhoto(c *fiber.Ctx) error {
	return ctrl.upload(c, ctrl.profile.UploadPhoto, "Profile photo uploaded successfully")
}

func (ctrl *Controller) DeletePhoto(c *fiber.Ctx) error {
	return ctrl.remove(c, ctrl.profile.DeletePhoto, "Profile photo deleted successfully")
}

func (ctrl *Controller) UploadResume(c *fiber.Ctx) error {
	return ctrl.upload(c, ctrl.profile.UploadResume, "Resume uploaded successfully")
}

func (ctrl *Controller) DeleteResume(c *fiber.Ctx) error {
	return ctrl.remove(c, ctrl.profile.DeleteResume, "Resume deleted successfully")
}
