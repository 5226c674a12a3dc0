package cmd

import (
	"Folio/internal/config"
	"Folio/internal/handlers"
	"Folio/internal/repository"
	"Folio/internal/services"
)

type Server struct {
	Configuration     *config.Configuration
	FileSystemHandler *handlers.FileSystemHandler
	DocumentHandler   *handlers.DocumentHandler
	AuthHandler       *handlers.AuthHandler
	StatsHandler      *handlers.StatsHandler
	JanitorHandler    *handlers.JanitorHandler
	AuthService       services.AuthService
	NodeRepository    repository.NodeRepository
	LogService        services.LogService
	JanitorService    *services.Janitor
}

func NewServer(
	configuration *config.Configuration,
	fileSystemHandler *handlers.FileSystemHandler,
	documentHandler *handlers.DocumentHandler,
	authHandler *handlers.AuthHandler,
	statsHandler *handlers.StatsHandler,
	janitorHandler *handlers.JanitorHandler,
	authService services.AuthService,
	nodeRepository repository.NodeRepository,
	logService services.LogService,
	janitorService *services.Janitor,
) *Server {
	return &Server{
		Configuration:     configuration,
		FileSystemHandler: fileSystemHandler,
		DocumentHandler:   documentHandler,
		AuthHandler:       authHandler,
		StatsHandler:      statsHandler,
		JanitorHandler:    janitorHandler,
		AuthService:       authService,
		NodeRepository:    nodeRepository,
		LogService:        logService,
		JanitorService:    janitorService,
	}
}
