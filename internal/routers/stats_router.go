package routers

import (
	"Folio/cmd"
	"Folio/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupStatsRouter(app *fiber.App, server *cmd.Server) {
	handler := server.StatsHandler
	requireAuth := middleware.RequireAuth(server.AuthService)
	app.Get("/stats", requireAuth, handler.GetStats)
	app.Get("/categories", requireAuth, handler.GetCategories)
}
