package userRoutes

import (
	userController "portal/controllers/user"
	"portal/middleware"
	"portal/services"
	"portal/validators"
	userValidator "portal/validators/user"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(api fiber.Router, svc *services.Services) {
	ctrl := userController.New(svc)
	admin := middleware.RequireAdmin(svc.UserRepo)
	group := api.Group("/users", middleware.JWTMiddleware)

	group.Get("/", admin, userValidator.List(), ctrl.List)
	group.Get("/:id/applications", validators.IDParams("id"), ctrl.Applications)
	group.Get("/:id", admin, validators.IDParams("id"), ctrl.Get)
	group.Put("/:id", admin, validators.IDParams("id"), userValidator.Update(), ctrl.Update)
	group.Delete("/:id", admin, validators.IDParams("id"), ctrl.Delete)
}
