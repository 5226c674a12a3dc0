//go:build wireinject
// +build wireinject

package main

import (
	"Folio/cmd"
	"Folio/database"
	"Folio/internal/config"
	"Folio/internal/handlers"
	"Folio/internal/repository"
	"Folio/internal/services"
	"Folio/internal/storage"

	"github.com/google/wire"
)

func InitializeServer(configuration *config.Configuration) (*cmd.Server, func(), error) {
	wire.Build(
		cmd.NewServer,
		database.OpenDatabase,
		repository.NewNodeRepository,
		repository.NewUserRepository,
		repository.NewSessionRepository,
		repository.NewOrphanBlobRepository,
		storage.NewBlobStore,
		services.NewLogService,
		services.NewTreeService,
		services.NewMoverService,
		services.NewFileService,
		services.NewAuthService,
		services.NewCategoryCatalog,
		services.NewJanitorService,
		handlers.NewFileSystemHandler,
		handlers.NewDocumentHandler,
		handlers.NewAuthHandler,
		handlers.NewStatsHandler,
		handlers.NewJanitorHandler,
	)
	return nil, nil, nil
}
