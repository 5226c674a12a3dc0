// Package cli holds the folio command line: the HTTP server and the
// operator commands that run against the same configuration.
package cli

import (
	"Folio/cmd"
	"Folio/internal/config"
	"fmt"

	"github.com/spf13/cobra"
)

// Injector builds the server graph from a loaded configuration.
type Injector func(configuration *config.Configuration) (*cmd.Server, func(), error)

type rootOptions struct {
	configPath string
	inject     Injector
}

func NewRootCommand(inject Injector) *cobra.Command {
	options := &rootOptions{inject: inject}
	rootCmd := &cobra.Command{
		Use:           "folio",
		Short:         "Hierarchical file-system metadata service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&options.configPath, "config", "c", config.DefaultConfigurationFile, "path to the configuration file")

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	userCmd.AddCommand(newUserAddCommand(options))

	rootCmd.AddCommand(newServeCommand(options), userCmd, newTreeCommand(options))
	return rootCmd
}

// server loads the configuration and builds the server. The caller must
// run the returned cleanup.
func (o *rootOptions) server() (*cmd.Server, func(), error) {
	configuration, err := config.LoadConfiguration(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration %s: %w", o.configPath, err)
	}
	server, cleanup, err := o.inject(configuration)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing server: %w", err)
	}
	return server, cleanup, nil
}
