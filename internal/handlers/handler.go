package handlers

import (
	"Folio/internal/apperr"
	"Folio/internal/middleware"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// parseBody decodes the JSON body into out and runs its validate tags.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.InvalidArgument("malformed request body")
	}
	if err := validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var fields []string
			for _, fieldErr := range validationErrors {
				fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fieldErr.Field()), fieldErr.Tag()))
			}
			return apperr.InvalidArgument("invalid fields: %s", strings.Join(fields, ", "))
		}
		return apperr.InvalidArgument("invalid request body")
	}
	return nil
}

// optionalQuery returns nil for an absent or empty query parameter.
func optionalQuery(c *fiber.Ctx, key string) *string {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil
	}
	return &value
}

func respondError(c *fiber.Ctx, err error) error {
	return middleware.ErrorResponse(c, err)
}
