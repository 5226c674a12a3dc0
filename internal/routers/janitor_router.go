package routers

import (
	"Folio/cmd"
	"Folio/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupJanitorRouter(app *fiber.App, server *cmd.Server) {
	app.Post("/janitor/clean",
		middleware.RequireAuth(server.AuthService),
		middleware.RequireAdmin(),
		server.JanitorHandler.Clean,
	)
}
