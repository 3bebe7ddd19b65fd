package middleware

import (
	"errors"

	"portal/apperrors"
	"portal/logger"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, fields map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", fields)
}

// ErrorResponse writes err using the status of its kind. Internal errors
// are logged and their detail is hidden from the client.
func ErrorResponse(c *fiber.Ctx, err error) error {
	kind := apperrors.KindOf(err)
	var appErr *apperrors.Error
	errors.As(err, &appErr)

	if kind == apperrors.KindInternal {
		log.WithFields(log.Fields{
			logger.ErrorTypeField: logger.ErrorTypeHttp,
			"method":              c.Method(),
			"path":                c.Path(),
		}).Errorf("Request failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  false,
			"code":    kind.Code(),
			"message": "Something went wrong!",
			"data":    nil,
		})
	}

	message := err.Error()
	var data interface{}
	if appErr != nil {
		message = appErr.Message
		if len(appErr.Fields) > 0 {
			data = appErr.Fields
		}
	}
	return c.Status(kind.HTTPStatus()).JSON(fiber.Map{
		"status":  false,
		"code":    kind.Code(),
		"message": message,
		"data":    data,
	})
}
