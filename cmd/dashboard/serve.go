package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zatekoja/feedbackdashboard/internal/infrastructure/observability"
	"github.com/zatekoja/feedbackdashboard/pkg/config"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, cfg, closeApp, err := loadApp(ctx, root, func(cfg *config.Config) {
				if port != 0 {
					cfg.Server.Port = port
				}
			})
			if err != nil {
				return err
			}
			defer closeApp()

			observability.GetLogger().Info().Str("addr", cfg.Server.Addr()).Msg("Starting feedback dashboard server")
			return application.Serve(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides SERVER_PORT)")
	return cmd
}
