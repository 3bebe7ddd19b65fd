package applicationRoutes

import (
	applicationController "portal/controllers/application"
	"portal/middleware"
	"portal/services"
	"portal/validators"
	applicationValidator "portal/validators/application"

	"github.com/gofiber/fiber/v2"
)

func SetupApplicationRoutes(api fiber.Router, svc *services.Services, limiter *middleware.RateLimiter) {
	ctrl := applicationController.New(svc)
	group := api.Group("/applications", middleware.JWTMiddleware)

	group.Get("/", applicationValidator.List(), ctrl.List)
	group.Get("/mine", ctrl.Mine)
	group.Get("/:id", validators.IDParams("id"), ctrl.Get)
	group.Post("/", limiter.Handler(), applicationValidator.Submit(), ctrl.Submit)
	group.Put("/:id/status", middleware.RequireAdmin(svc.UserRepo), validators.IDParams("id"), applicationValidator.UpdateStatus(), ctrl.UpdateStatus)
}
