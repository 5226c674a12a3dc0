package cli

import (
	"Folio/cmd"
	"Folio/internal/middleware"
	"Folio/internal/routers"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the janitor",
		RunE: func(c *cobra.Command, args []string) error {
			server, cleanup, err := options.server()
			if err != nil {
				return err
			}
			defer cleanup()
			return serve(server)
		},
	}
}

// NewApp builds the Fiber application with every route registered.
func NewApp(server *cmd.Server) *fiber.App {
	cfg := server.Configuration
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.Server.RequestConfig.SizeLimit * 1024 * 1024,
		Concurrency:  cfg.Server.Concurrency * 1024,
		AppName:      "Folio",
		ErrorHandler: middleware.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	routers.SetupRoutes(app, server)
	return app
}

func serve(server *cmd.Server) error {
	log := server.LogService.Log
	if err := server.JanitorService.StartCleanCycle(); err != nil {
		return fmt.Errorf("starting janitor: %w", err)
	}
	defer server.JanitorService.StopClean()

	app := NewApp(server)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signals
		log.WithField("signal", sig.String()).Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("failed to shut down")
		}
	}()

	port := server.Configuration.Server.Port
	log.WithFields(logrus.Fields{"port": port}).Info("listening")
	if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
