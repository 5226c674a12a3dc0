package handlers

import (
	"Folio/internal/mapper"
	"Folio/internal/services"

	"github.com/gofiber/fiber/v2"
)

type DocumentHandler struct {
	treeService services.TreeService
}

func NewDocumentHandler(treeService services.TreeService) *DocumentHandler {
	return &DocumentHandler{treeService: treeService}
}

func (h *DocumentHandler) ListDocuments(c *fiber.Ctx) error {
	page, err := h.treeService.ListDocuments(c.UserContext(), services.DocumentQuery{
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
		Page:        c.QueryInt("page", 1),
		Limit:       c.QueryInt("limit", services.DefaultPageLimit),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"documents":  mapper.ToNodeGetDTOs(page.Items),
		"pagination": page.Pagination,
	})
}

func (h *DocumentHandler) Search(c *fiber.Ctx) error {
	page, err := h.treeService.Search(c.UserContext(), services.SearchQuery{
		Query:       c.Query("query"),
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
		Page:        c.QueryInt("page", 1),
		Limit:       c.QueryInt("limit", services.DefaultPageLimit),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"documents":  mapper.ToNodeGetDTOs(page.Items),
		"pagination": page.Pagination,
	})
}
