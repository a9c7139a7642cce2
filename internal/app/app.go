package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/zatekoja/feedbackdashboard/internal/adapters/render"
	"github.com/zatekoja/feedbackdashboard/internal/api/handlers"
	"github.com/zatekoja/feedbackdashboard/internal/api/routes"
	"github.com/zatekoja/feedbackdashboard/internal/application/services"
	"github.com/zatekoja/feedbackdashboard/internal/infrastructure/observability"
	"github.com/zatekoja/feedbackdashboard/pkg/config"
	"golang.org/x/sync/errgroup"
)

// App wires configuration, telemetry, the feedback source and the
// dashboard loader for the command line entry points.
type App struct {
	cfg      *config.Config
	metrics  *observability.Metrics
	loader   *services.DashboardLoader
	renderer *render.DocumentRenderer
	closers  []func(context.Context) error
}

// New builds an App. OpenTelemetry export failures are logged and the app
// runs without export.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}
	logger := observability.GetLogger()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			observability.EnableOTelLogs()
			a.closers = append(a.closers, shutdown)
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	a.metrics = metrics

	source, closeSource, err := NewFeedbackSource(ctx, cfg, metrics)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.closers = append(a.closers, func(context.Context) error { return closeSource() })

	a.loader = services.NewDashboardLoader(source,
		services.WithMetrics(metrics),
		services.WithClearBeforePopulate(cfg.Dashboard.ClearBeforePopulate),
	)
	a.renderer = render.NewDocumentRenderer(cfg.Dashboard.Title, cfg.Dashboard.ChartJSURL)
	return a, nil
}

// Handler returns the HTTP handler serving the dashboard routes.
func (a *App) Handler() http.Handler {
	dashboardHandler := handlers.NewDashboardHandler(a.loader, a.renderer)
	return routes.NewRouter(dashboardHandler, a.cfg.Server.AllowedOrigins, a.metrics).SetupRoutes()
}

// RenderOnce runs one load into a fresh page and writes the HTML document
// to w. A load failure is reported, not returned.
func (a *App) RenderOnce(ctx context.Context, w io.Writer) (services.LoadReport, error) {
	page := render.NewPage()
	report := a.loader.Load(ctx, page)
	if err := a.renderer.Render(w, page); err != nil {
		return report, err
	}
	return report, nil
}

// Serve listens on the configured address until ctx is done, then shuts
// the server down gracefully.
func (a *App) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.Server.Addr(), err)
	}
	return a.serve(ctx, ln)
}

func (a *App) serve(ctx context.Context, ln net.Listener) error {
	logger := observability.GetLogger()
	server := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", ln.Addr().String()).Msg("Dashboard server listening")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Dashboard server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close releases telemetry exporters and cache connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
