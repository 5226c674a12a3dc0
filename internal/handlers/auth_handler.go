package handlers

import (
	"Folio/internal/dto"
	"Folio/internal/mapper"
	"Folio/internal/middleware"
	"Folio/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body dto.LoginRequest
	if err := parseBody(c, &body); err != nil {
		return respondError(c, err)
	}
	session, user, err := h.authService.Login(c.UserContext(), body.Username, body.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"user":       mapper.ToUserGetDTO(user),
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), middleware.CurrentToken(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{})
}
