package authRoutes

import (
	authController "portal/controllers/auth"
	"portal/middleware"
	"portal/services"
	authValidator "portal/validators/auth"
	profileValidator "portal/validators/profile"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(api fiber.Router, svc *services.Services, limiter *middleware.RateLimiter) {
	ctrl := authController.New(svc)
	authGroup := api.Group("/auth")

	authGroup.Post("/register", limiter.Handler(), authValidator.Register(), ctrl.Register)
	authGroup.Post("/login", limiter.Handler(), authValidator.Login(), ctrl.Login)
	authGroup.Get("/login-history", middleware.JWTMiddleware, authValidator.LoginHistory(), ctrl.LoginHistory)
	authGroup.Get("/profile", middleware.JWTMiddleware, ctrl.GetProfile)
	authGroup.Put("/profile", middleware.JWTMiddleware, profileValidator.Update(), ctrl.UpdateProfile)
}
