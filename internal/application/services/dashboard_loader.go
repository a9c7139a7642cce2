package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/zatekoja/feedbackdashboard/internal/domain/entities"
	"github.com/zatekoja/feedbackdashboard/internal/domain/providers"
	"github.com/zatekoja/feedbackdashboard/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/feedbackdashboard/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// LoadFailureMessage is logged, with the error, whenever a load fails.
const LoadFailureMessage = "Error fetching feedback data"

// LoadReport describes one Load run. Err holds the swallowed failure, if any.
type LoadReport struct {
	RunID        string
	Rows         int
	Tally        *entities.SentimentTally
	ChartCreated bool
	Err          error
	Duration     time.Duration
}

// Failed reports whether the run hit a failure.
func (r LoadReport) Failed() bool {
	return r.Err != nil
}

// LoaderOption configures a DashboardLoader.
type LoaderOption func(*DashboardLoader)

// WithLogger sets the logger failures and diagnostics are written to.
// Defaults to the global logger.
func WithLogger(logger zerolog.Logger) LoaderOption {
	return func(l *DashboardLoader) {
		l.logger = &logger
	}
}

// WithMetrics records load counters on metrics.
func WithMetrics(metrics *observability.Metrics) LoaderOption {
	return func(l *DashboardLoader) {
		l.metrics = metrics
	}
}

// WithClearBeforePopulate makes every Load start from an empty table body
// and an unbound canvas. Without it, rows from earlier runs are kept.
func WithClearBeforePopulate(clear bool) LoaderOption {
	return func(l *DashboardLoader) {
		l.clearBeforePopulate = clear
	}
}

// DashboardLoader fetches the feedback list once and renders it into a
// page: one table row per record and one sentiment bar chart.
type DashboardLoader struct {
	source              providers.FeedbackSource
	logger              *zerolog.Logger
	metrics             *observability.Metrics
	clearBeforePopulate bool
}

// NewDashboardLoader creates a loader reading from source.
func NewDashboardLoader(source providers.FeedbackSource, opts ...LoaderOption) *DashboardLoader {
	l := &DashboardLoader{source: source}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load runs the dashboard initialization against page. It never returns an
// error and never panics: any failure, including a panic in the source or
// the page, is logged with LoadFailureMessage and recorded in the report.
// Rows appended before a failure stay on the page.
func (l *DashboardLoader) Load(ctx context.Context, page providers.Page) (report LoadReport) {
	start := time.Now()
	report.RunID = uuid.NewString()

	ctx, span := observability.StartSpan(ctx, "DashboardLoader.Load")
	defer span.End()

	logger := l.loggerFor(ctx).With().Str("run_id", report.RunID).Logger()

	defer func() {
		if r := recover(); r != nil {
			report.Err = apperrors.NewInternalError("dashboard load panicked", fmt.Errorf("%v", r))
		}
		report.Duration = time.Since(start)

		if report.Err != nil {
			logger.Error().Err(report.Err).Msg(LoadFailureMessage)
			observability.RecordError(span, report.Err)
		} else {
			logger.Debug().
				Int("rows", report.Rows).
				Dur("duration", report.Duration).
				Msg("Dashboard loaded")
		}

		observability.SetSpanAttributes(span,
			attribute.String("dashboard.run_id", report.RunID),
			attribute.Int("dashboard.rows", report.Rows),
			attribute.Bool("dashboard.chart_created", report.ChartCreated),
		)
		observability.RecordDashboardLoad(ctx, l.metrics, report.Rows, report.Err != nil)
	}()

	report.Err = l.populate(ctx, page, &logger, &report)
	return report
}

func (l *DashboardLoader) populate(ctx context.Context, page providers.Page, logger *zerolog.Logger, report *LoadReport) error {
	body := page.TableBody()
	canvas := page.ChartCanvas()

	if l.clearBeforePopulate {
		if err := body.Clear(); err != nil {
			return renderError("clear feedback table", err)
		}
		canvas.Destroy()
	}

	records, err := l.source.ListFeedbacks(ctx)
	if err != nil {
		return err
	}

	for i, record := range records {
		if problems := record.Problems(); len(problems) > 0 {
			event := logger.Debug().Int("index", i)
			for _, p := range problems {
				event = event.Str(p.Field, string(p.Kind))
			}
			event.Msg("Feedback record has field problems")
		}
		if err := body.AppendRow(record.Cells()); err != nil {
			return renderError("append feedback row", err)
		}
		report.Rows++
	}

	tally := entities.TallyRecords(records)
	report.Tally = tally

	if err := canvas.NewChart(entities.NewSentimentBarChart(tally)); err != nil {
		return renderError("create sentiment chart", err)
	}
	report.ChartCreated = true
	return nil
}

func (l *DashboardLoader) loggerFor(ctx context.Context) zerolog.Logger {
	if l.logger != nil {
		return observability.WithTraceContext(ctx, *l.logger)
	}
	return *observability.LoggerFromContext(ctx)
}

func renderError(msg string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return apperrors.NewRenderError(msg, err)
}
