package routers

import (
	"Folio/cmd"
	"Folio/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupDocumentRouter(app *fiber.App, server *cmd.Server) {
	handler := server.DocumentHandler
	group := app.Group("/documents", middleware.RequireAuth(server.AuthService))
	group.Get("/", handler.ListDocuments)
	group.Get("/search", handler.Search)
}
