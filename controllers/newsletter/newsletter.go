package newsletterController

import (
	"portal/controllers"
	"portal/middleware"
	"portal/services"
	newsletterValidator "portal/validators/newsletter"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	newsletter *services.Newsletter
}

func New(svc *services.Services) *Controller {
	return &Controller{newsletter: svc.Newsletter}
}

func (ctrl *Controller) Subscribe(c *fiber.Ctx) error {
	reqData, ok := c.Locals(newsletterValidator.EmailKey).(*newsletterValidator.EmailRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	created, err := ctrl.newsletter.Subscribe(c.UserContext(), reqData.Email)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !created {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Successfully resubscribed to newsletter", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Successfully subscribed to newsletter", nil)
}

func (ctrl *Controller) Unsubscribe(c *fiber.Ctx) error {
	reqData, ok := c.Locals(newsletterValidator.EmailKey).(*newsletterValidator.EmailRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	if err := ctrl.newsletter.Unsubscribe(c.UserContext(), reqData.Email); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Successfully unsubscribed from newsletter", nil)
}

func (ctrl *Controller) Subscribers(c *fiber.Ctx) error {
	subscribers, err := ctrl.newsletter.Subscribers(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Subscribers fetched successfully!", fiber.Map{
		"subscribers": subscribers,
		"total":       len(subscribers),
	})
}

func (ctrl *Controller) Send(c *fiber.Ctx) error {
	reqData, ok := c.Locals(newsletterValidator.SendKey).(*newsletterValidator.SendRequest)
	if !ok {
		return controllers.InvalidRequest(c)
	}
	stats, err := ctrl.newsletter.Send(c.UserContext(), reqData.Subject, reqData.Content)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Newsletter sent successfully", stats)
}
