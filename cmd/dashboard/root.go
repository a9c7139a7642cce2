package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zatekoja/feedbackdashboard/internal/app"
	"github.com/zatekoja/feedbackdashboard/internal/infrastructure/observability"
	"github.com/zatekoja/feedbackdashboard/pkg/config"
)

type rootOptions struct {
	envFile string
	baseURL string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Feedback sentiment dashboard",
		Long:          "Renders the feedback table and sentiment chart from the feedback API, once or as a server.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the environment")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "api", "", "feedback API base URL (overrides FEEDBACK_API_BASE_URL)")

	cmd.AddCommand(newRenderCmd(opts), newServeCmd(opts))
	return cmd
}

// loadApp loads configuration, applies flag overrides and builds the
// application. The caller must call the returned close function. Logs go to
// stderr so rendered documents can be piped from stdout.
func loadApp(ctx context.Context, opts *rootOptions, overrides ...func(*config.Config)) (*app.App, *config.Config, func(), error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if opts.baseURL != "" {
		cfg.FeedbackAPI.BaseURL = opts.baseURL
	}
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	observability.InitLoggerWriter(os.Stderr, cfg.OTEL.ServiceName, cfg.Log.Env, cfg.Log.Level)

	application, err := app.New(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := application.Close(shutdownCtx); err != nil {
			observability.GetLogger().Error().Err(err).Msg("Error releasing resources")
		}
	}
	return application, cfg, closeFn, nil
}
