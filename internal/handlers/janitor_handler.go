package handlers

import (
	"Folio/internal/apperr"
	"Folio/internal/services"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Cleaner starts a janitor cycle on demand.
type Cleaner interface {
	ForceStartCleanCycle() error
}

type JanitorHandler struct {
	janitor Cleaner
}

func NewJanitorHandler(janitor *services.Janitor) *JanitorHandler {
	return &JanitorHandler{janitor: janitor}
}

func (h *JanitorHandler) Clean(c *fiber.Ctx) error {
	err := h.janitor.ForceStartCleanCycle()
	if errors.Is(err, services.ErrCleaningInProgress) {
		return respondError(c, apperr.Conflict("cleaning is in progress"))
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{})
}
