package commands

import (
	"github.com/spf13/cobra"

	"domainsearch/internal/app"
	"domainsearch/internal/config"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the domain search HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), cfg, lg)
		},
	}
	config.BindServeFlags(cmd.Flags(), cfg)
	return cmd
}
