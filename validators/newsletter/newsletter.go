package newsletterValidator

import (
	"portal/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	EmailKey = "validatedSubscription"
	SendKey  = "validatedNewsletter"
)

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SendRequest struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

func Email() fiber.Handler {
	return validators.Body[EmailRequest](EmailKey)
}

func Send() fiber.Handler {
	return validators.Body[SendRequest](SendKey)
}
