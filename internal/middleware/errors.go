package middleware

import (
	"Folio/internal/apperr"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// StatusOf maps an error code to its HTTP status.
func StatusOf(code apperr.Code) int {
	switch code {
	case apperr.CodeInvalidArgument:
		return fiber.StatusBadRequest
	case apperr.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case apperr.CodePermissionDenied:
		return fiber.StatusForbidden
	case apperr.CodeNotFound:
		return fiber.StatusNotFound
	case apperr.CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorResponse writes err as {"error": {"code", "message"}}.
func ErrorResponse(c *fiber.Ctx, err error) error {
	code := apperr.CodeOf(err)
	return c.Status(StatusOf(code)).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": apperr.MessageOf(err),
		},
	})
}

// ErrorHandler is the application-wide fallback for errors returned by
// handlers and for Fiber's own errors such as unknown routes.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := apperr.CodeStorageFailure
		switch fiberErr.Code {
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			code = apperr.CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
			code = apperr.CodeInvalidArgument
		case fiber.StatusUnauthorized:
			code = apperr.CodeUnauthenticated
		case fiber.StatusForbidden:
			code = apperr.CodePermissionDenied
		}
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiber.Map{"code": code, "message": fiberErr.Message},
		})
	}
	return ErrorResponse(c, err)
}
