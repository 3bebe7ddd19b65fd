package opportunityRoutes

import (
	opportunityController "portal/controllers/opportunity"
	"portal/middleware"
	"portal/services"
	"portal/validators"
	opportunityValidator "portal/validators/opportunity"

	"github.com/gofiber/fiber/v2"
)

func SetupOpportunityRoutes(api fiber.Router, svc *services.Services) {
	ctrl := opportunityController.New(svc)
	admin := middleware.RequireAdmin(svc.UserRepo)
	group := api.Group("/opportunities")

	group.Get("/", opportunityValidator.List(), ctrl.List)
	group.Get("/upcoming", ctrl.Upcoming)
	group.Get("/:id", validators.IDParams("id"), ctrl.Get)
	group.Post("/", middleware.JWTMiddleware, admin, opportunityValidator.Create(), ctrl.Create)
	group.Put("/:id", middleware.JWTMiddleware, admin, validators.IDParams("id"), opportunityValidator.Update(), ctrl.Update)
	group.Delete("/:id", middleware.JWTMiddleware, admin, validators.IDParams("id"), ctrl.Delete)
}
