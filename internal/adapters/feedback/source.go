package feedback

import (
	"context"
	"time"

	"github.com/zatekoja/feedbackdashboard/internal/domain/entities"
	"github.com/zatekoja/feedbackdashboard/internal/domain/providers"
	"github.com/zatekoja/feedbackdashboard/internal/infrastructure/clients/feedbackapi"
	"github.com/zatekoja/feedbackdashboard/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/feedbackdashboard/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// Source decodes the raw upstream body into feedback records.
type Source struct {
	raw     providers.RawFeedbackSource
	metrics *observability.Metrics
}

// NewSource creates a FeedbackSource over raw. metrics may be nil.
func NewSource(raw providers.RawFeedbackSource, metrics *observability.Metrics) *Source {
	return &Source{raw: raw, metrics: metrics}
}

// ListFeedbacks performs one fetch and decodes the result.
func (s *Source) ListFeedbacks(ctx context.Context) ([]entities.FeedbackRecord, error) {
	ctx, span := observability.StartSpan(ctx, "feedback.ListFeedbacks")
	defer span.End()

	start := time.Now()
	body, err := s.raw.FetchFeedbacksJSON(ctx)
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordUpstreamFetch(ctx, s.metrics, string(apperrors.TypeOf(err)), time.Since(start))
		return nil, err
	}

	records, err := feedbackapi.DecodeFeedbacks(body)
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordUpstreamFetch(ctx, s.metrics, string(apperrors.ErrorTypeDecode), time.Since(start))
		return nil, err
	}

	observability.RecordUpstreamFetch(ctx, s.metrics, "ok", time.Since(start))
	observability.SetSpanAttributes(span, attribute.Int("feedback.count", len(records)))
	return records, nil
}

var _ providers.FeedbackSource = (*Source)(nil)
