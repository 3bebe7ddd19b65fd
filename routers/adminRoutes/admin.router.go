package adminRoutes

import (
	adminController "portal/controllers/admin"
	"portal/middleware"
	"portal/services"
	adminValidator "portal/validators/admin"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(api fiber.Router, svc *services.Services) {
	ctrl := adminController.New(svc)
	group := api.Group("/admin", middleware.JWTMiddleware, middleware.RequireAdmin(svc.UserRepo))

	group.Get("/stats", ctrl.Stats)
	group.Get("/activity", adminValidator.Activity(), ctrl.Activity)
	group.Post("/opportunities/bulk", adminValidator.Bulk(), ctrl.Bulk)
	group.Post("/opportunities/import", adminValidator.ImportFile(), ctrl.Import)
	group.Get("/export/:type", adminValidator.ExportType(), ctrl.Export)
	group.Get("/analytics", adminValidator.Analytics(), ctrl.Analytics)
	group.Post("/reconcile", ctrl.Reconcile)
}
