// Package validators holds the shared request validation used by the
// per-area validator middleware. Validated input is stored in the request
// locals for the controller that follows.
package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"portal/apperrors"
	"portal/middleware"
	"portal/models"
	"portal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const FileKey = "validatedFile"

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return models.Status(fl.Field().String()).Valid()
	})
	return v
}

// Struct validates v and returns a message per failing field, keyed by its
// JSON path. The map is empty when v is valid.
func Struct(v any) map[string]string {
	errs := make(map[string]string)
	err := validate.Struct(v)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["body"] = err.Error()
		return errs
	}
	for _, fe := range fieldErrs {
		errs[fieldPath(fe.Namespace())] = message(fe)
	}
	return errs
}

// fieldPath drops the root type and embedded struct names from a namespace
// such as "SubmitRequest.documents[0].url".
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	kept := make([]string, 0, len(parts))
	for _, part := range parts[1:] {
		if part != "" && unicode.IsUpper(rune(part[0])) {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, ".")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required!"
	case "email":
		return "Invalid email!"
	case "url":
		return "Must be a valid URL!"
	case "uuid":
		return "Must be a valid ID!"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters long!", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at least %s item(s)!", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s!", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters long!", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s!", fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("Must be %s %s!", map[string]string{"gte": "at least", "lte": "at most"}[fe.Tag()], fe.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters long!", fe.Param())
	case "numeric":
		return "Must contain only digits!"
	case "oneof":
		return "Must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "category":
		return "Must be one of: " + strings.Join(categoryNames(), ", ")
	case "status":
		return "Must be a valid application status!"
	default:
		return "Invalid value!"
	}
}

func categoryNames() []string {
	names := make([]string, 0, len(models.Categories))
	for _, category := range models.Categories {
		names = append(names, string(category))
	}
	return names
}

// Body parses the JSON body into a new T, runs the struct rules and any
// extra checks, then stores the result under key.
func Body[T any](key string, checks ...func(*T, map[string]string)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		return store(c, key, reqData, checks)
	}
}

// Query is Body for query string parameters.
func Query[T any](key string, checks ...func(*T, map[string]string)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		return store(c, key, reqData, checks)
	}
}

func store[T any](c *fiber.Ctx, key string, reqData *T, checks []func(*T, map[string]string)) error {
	errs := Struct(reqData)
	for _, check := range checks {
		check(reqData, errs)
	}
	if len(errs) > 0 {
		return middleware.ValidationErrorResponse(c, errs)
	}
	c.Locals(key, reqData)
	return c.Next()
}

func paramKey(name string) string {
	return "param:" + name
}

// IDParams checks that every named route parameter is a UUID.
func IDParams(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		errs := make(map[string]string)
		for _, name := range names {
			id, err := uuid.Parse(c.Params(name))
			if err != nil {
				errs[name] = "Must be a valid ID!"
				continue
			}
			c.Locals(paramKey(name), id)
		}
		if len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}
		return c.Next()
	}
}

// ID returns a route parameter checked by IDParams.
func ID(c *fiber.Ctx, name string) uuid.UUID {
	id, _ := c.Locals(paramKey(name)).(uuid.UUID)
	return id
}

// File reads the multipart file named by the rule and stores it for the
// controller.
func File(rule utils.FileRule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header, err := c.FormFile(rule.Field)
		if err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{rule.Field: "No file uploaded"})
		}
		file, err := utils.ReadUploadedFile(header, rule)
		if err != nil {
			var appErr *apperrors.Error
			if errors.As(err, &appErr) && appErr.Kind == apperrors.KindValidation {
				fields := appErr.Fields
				if len(fields) == 0 {
					fields = map[string]string{rule.Field: appErr.Message}
				}
				return middleware.ValidationErrorResponse(c, fields)
			}
			return middleware.ErrorResponse(c, err)
		}
		c.Locals(FileKey, file)
		return c.Next()
	}
}

// UploadedFile returns the file stored by File.
func UploadedFile(c *fiber.Ctx) (*utils.UploadedFile, bool) {
	file, ok := c.Locals(FileKey).(*utils.UploadedFile)
	return file, ok
}

// Pagination is the shared page/limit query of list endpoints.
type Pagination struct {
	Page  int `json:"page" query:"page" validate:"omitempty,min=1"`
	Limit int `json:"limit" query:"limit" validate:"omitempty,min=1,max=100"`
}
