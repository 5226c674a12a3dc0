package middleware

import (
	"Folio/internal/apperr"
	"Folio/internal/models"
	"Folio/internal/services"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	userKey  = "folio.user"
	tokenKey = "folio.token"
)

// RequireAuth resolves the bearer token to a user and stores both in the
// request locals.
func RequireAuth(authService services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return ErrorResponse(c, apperr.Unauthenticated("missing bearer token"))
		}
		user, err := authService.Authenticate(c.UserContext(), token)
		if err != nil {
			return ErrorResponse(c, err)
		}
		c.Locals(userKey, user)
		c.Locals(tokenKey, token)
		return c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return ErrorResponse(c, apperr.Unauthenticated("missing bearer token"))
		}
		if user.Role != models.RoleAdmin {
			return ErrorResponse(c, apperr.PermissionDenied("admin role required"))
		}
		return c.Next()
	}
}

func BearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

func CurrentToken(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenKey).(string)
	return token
}

func ActorFrom(c *fiber.Ctx) services.Actor {
	user := CurrentUser(c)
	if user == nil {
		return services.Actor{}
	}
	return services.Actor{ID: user.ID, Role: user.Role}
}
