package uploadController

import (
	"portal/controllers"
	"portal/middleware"
	"portal/services"
	"portal/validators"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	profile *services.Profile
}

func New(svc *services.Services) *Controller {
	return &Controller{profile: svc.Profile}
}

func (ctrl *Controller) Files(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	files, err := ctrl.profile.Files(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Files fetched successfully!", files)
}

func (ctrl *Controller) UploadTranscript(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	file, ok := validators.UploadedFile(c)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	transcript, err := ctrl.profile.UploadTranscript(c.UserContext(), userID, file, c.FormValue("description"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transcript uploaded successfully", transcript)
}

func (ctrl *Controller) DeleteTranscript(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	if err := ctrl.profile.DeleteTranscript(c.UserContext(), userID, validators.ID(c, "transcriptId")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transcript deleted successfully", nil)
}

// UploadDocument stores a file to be referenced by a later application.
func (ctrl *Controller) UploadDocument(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	file, ok := validators.UploadedFile(c)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	document, err := ctrl.profile.UploadDocument(c.UserContext(), userID, file)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document uploaded successfully", document)
}
