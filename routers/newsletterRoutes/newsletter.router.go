package newsletterRoutes

import (
	newsletterController "portal/controllers/newsletter"
	"portal/middleware"
	"portal/services"
	newsletterValidator "portal/validators/newsletter"

	"github.com/gofiber/fiber/v2"
)

func SetupNewsletterRoutes(api fiber.Router, svc *services.Services, limiter *middleware.RateLimiter) {
	ctrl := newsletterController.New(svc)
	admin := middleware.RequireAdmin(svc.UserRepo)
	group := api.Group("/newsletter")

	group.Post("/subscribe", limiter.Handler(), newsletterValidator.Email(), ctrl.Subscribe)
	group.Post("/unsubscribe", limiter.Handler(), newsletterValidator.Email(), ctrl.Unsubscribe)
	group.Get("/subscribers", middleware.JWTMiddleware, admin, ctrl.Subscribers)
	group.Post("/send", middleware.JWTMiddleware, admin, newsletterValidator.Send(), ctrl.Send)
}
