package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"domainsearch/internal/domain"
)

func extensionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extensions",
		Short: "Print selectable domain extensions",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, ext := range domain.Extensions {
				fmt.Fprintln(cmd.OutOrStdout(), ext)
			}
			return nil
		},
	}
}
