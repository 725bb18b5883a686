package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"domainsearch/internal/config"
	"domainsearch/internal/logger"
)

var (
	cfg *config.Config
	lg  *slog.Logger

	closeLogger = func() {}
)

func Execute() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:           "domainsearch",
		Short:         "Search a catalog of short domain names",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			level, err := logger.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			lg, closeLogger = logger.New(os.Stderr, level)
			return nil
		},
	}

	config.BindFlags(root.PersistentFlags(), cfg)

	root.AddCommand(serveCmd(), searchCmd(), extensionsCmd())

	err = root.ExecuteContext(ctx)
	closeLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}
