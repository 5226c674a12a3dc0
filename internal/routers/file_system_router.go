package routers

import (
	"Folio/cmd"
	"Folio/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupFileSystemRouter registers the fixed paths before the /:id ones.
func SetupFileSystemRouter(app *fiber.App, server *cmd.Server) {
	handler := server.FileSystemHandler
	group := app.Group("/file-system", middleware.RequireAuth(server.AuthService))
	group.Get("/contents", handler.GetContents)
	group.Get("/breadcrumb", handler.GetBreadcrumb)
	group.Post("/folder", handler.CreateFolder)
	group.Post("/upload", handler.UploadFile)
	group.Get("/:id/download", handler.Download)
	group.Patch("/:id/rename", handler.Rename)
	group.Patch("/:id/move", handler.Move)
	group.Get("/:id", handler.GetNode)
	group.Patch("/:id", handler.UpdateMetadata)
	group.Delete("/:id", handler.Delete)
}
