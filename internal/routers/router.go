package routers

import (
	"Folio/cmd"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, server *cmd.Server) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})
	SetupAuthRouter(app, server)
	SetupFileSystemRouter(app, server)
	SetupDocumentRouter(app, server)
	SetupStatsRouter(app, server)
	SetupJanitorRouter(app, server)
}
