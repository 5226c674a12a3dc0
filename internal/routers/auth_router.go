package routers

import (
	"Folio/cmd"
	"Folio/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRouter(app *fiber.App, server *cmd.Server) {
	authHandler := server.AuthHandler
	app.Post("/auth/login", authHandler.Login)
	app.Post("/auth/logout", middleware.RequireAuth(server.AuthService), authHandler.Logout)
}
