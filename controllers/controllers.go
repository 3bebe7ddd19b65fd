// Package controllers holds helpers shared by the per-area HTTP handlers.
package controllers

import (
	"portal/middleware"
	"portal/services"
	profileValidator "portal/validators/profile"

	"github.com/gofiber/fiber/v2"
)

// Requester identifies the caller of an authenticated route.
func Requester(c *fiber.Ctx) (services.Requester, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		return services.Requester{}, false
	}
	return services.Requester{ID: id, IsAdmin: middleware.IsAdmin(c)}, true
}

// Unauthorized is returned when a route runs without the JWT middleware
// having stored a caller.
func Unauthorized(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
}

// InvalidRequest is returned when a controller runs without its validator.
func InvalidRequest(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
}

func ProfileUpdate(reqData *profileValidator.UpdateRequest) services.ProfileUpdate {
	return services.ProfileUpdate{
		FirstName:   reqData.FirstName,
		LastName:    reqData.LastName,
		Phone:       reqData.Phone,
		DateOfBirth: reqData.DateOfBirth,
		IDNumber:    reqData.IDNumber,
		Gender:      reqData.Gender,
		Race:        reqData.Race,
		Address:     reqData.Address,
		Education:   reqData.Education,
		Skills:      reqData.Skills,
	}
}
