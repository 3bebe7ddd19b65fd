package uploadRoutes

import (
	profileController "portal/controllers/profile"
	uploadController "portal/controllers/upload"
	"portal/middleware"
	"portal/services"
	"portal/validators"
	profileValidator "portal/validators/profile"

	"github.com/gofiber/fiber/v2"
)

func SetupUploadRoutes(api fiber.Router, svc *services.Services) {
	ctrl := uploadController.New(svc)
	profile := profileController.New(svc)
	group := api.Group("/uploads", middleware.JWTMiddleware)

	group.Get("/", ctrl.Files)
	group.Post("/profile-photo", profileValidator.Photo(), profile.UploadPhoto)
	group.Post("/resume", profileValidator.Resume(), profile.UploadResume)
	group.Post("/transcript", profileValidator.Transcript(), ctrl.UploadTranscript)
	group.Delete("/transcript/:transcriptId", validators.IDParams("transcriptId"), ctrl.DeleteTranscript)
	group.Post("/documents", profileValidator.Document(), ctrl.UploadDocument)
}
