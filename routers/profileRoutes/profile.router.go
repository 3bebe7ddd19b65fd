package profileRoutes

import (
	profileController "portal/controllers/profile"
	"portal/middleware"
	"portal/services"
	profileValidator "portal/validators/profile"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(api fiber.Router, svc *services.Services) {
	ctrl := profileController.New(svc)
	group := api.Group("/profile", middleware.JWTMiddleware)

	group.Get("/complete", ctrl.Complete)
	group.Get("/stats", ctrl.Stats)
	group.Put("/", profileValidator.Update(), ctrl.Update)
	group.Post("/photo", profileValidator.Photo(), ctrl.UploadPhoto)
	group.Delete("/photo", ctrl.DeletePhoto)
	group.Post("/resume", profileValidator.Resume(), ctrl.UploadResume)
	group.Delete("/resume", ctrl.DeleteResume)
}
