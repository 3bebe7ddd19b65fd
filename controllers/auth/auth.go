package authController

import (
	"portal/controllers"
	"portal/middleware"
	"portal/models"
	"portal/services"
	"portal/validators"
	authValidator "portal/validators/auth"
	profileValidator "portal/validators/profile"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type Controller struct {
	auth    *services.Auth
	profile *services.Profile
}

func New(svc *services.Services) *Controller {
	return &Controller{auth: svc.Auth, profile: svc.Profile}
}

func (ctrl *Controller) withToken(c *fiber.Ctx, status int, message string, user *models.User) error {
	token, err := middleware.GenerateJWT(user)
	if err != nil {
		log.WithField("user_id", user.ID).Errorf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
	return middleware.JsonResponse(c, status, true, message, fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (ctrl *Controller) Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals(authValidator.RegisterKey).(*authValidator.RegisterRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}

	user, err := ctrl.auth.Register(c.UserContext(), services.Registration{
		FirstName: reqData.FirstName,
		LastName:  reqData.LastName,
		Email:     reqData.Email,
		Password:  reqData.Password,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return ctrl.withToken(c, fiber.StatusCreated, "User registered successfully!", user)
}

func (ctrl *Controller) Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals(authValidator.LoginKey).(*authValidator.LoginRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}

	user, err := ctrl.auth.Login(c.UserContext(), reqData.Email, reqData.Password)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	ip := c.IP()
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		ip = forwarded
	}
	ctrl.auth.RecordLogin(c.UserContext(), user.ID, services.LoginSource{
		IPAddress: ip,
		Device:    c.Get(fiber.HeaderUserAgent),
	})
	return ctrl.withToken(c, fiber.StatusOK, "Login successful!", user)
}

func (ctrl *Controller) LoginHistory(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	reqData, ok := c.Locals(authValidator.HistoryKey).(*validators.Pagination)
	if !ok {
		return controllers.InvalidRequest(c)
	}

	history, err := ctrl.auth.LoginHistory(c.UserContext(), userID, reqData.Page, reqData.Limit)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login History List.", history)
}

func (ctrl *Controller) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	profile, err := ctrl.profile.Get(c.UserContext(), userID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", profile)
}

func (ctrl *Controller) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	reqData, ok := c.Locals(profileValidator.UpdateKey).(*profileValidator.UpdateRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}

	profile, err := ctrl.profile.Update(c.UserContext(), userID, controllers.ProfileUpdate(reqData))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", profile)
}
