package handlers

import (
	"Folio/internal/services"

	"github.com/gofiber/fiber/v2"
)

type StatsHandler struct {
	treeService services.TreeService
	catalog     *services.CategoryCatalog
}

func NewStatsHandler(treeService services.TreeService, catalog *services.CategoryCatalog) *StatsHandler {
	return &StatsHandler{treeService: treeService, catalog: catalog}
}

func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.treeService.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"stats": stats})
}

func (h *StatsHandler) GetCategories(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"categories": h.catalog.All()})
}
