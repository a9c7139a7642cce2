package feedback

import (
	"context"
	"time"

	"github.com/zatekoja/feedbackdashboard/internal/domain/providers"
	"github.com/zatekoja/feedbackdashboard/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/feedbackdashboard/pkg/errors"
	"github.com/zatekoja/feedbackdashboard/pkg/retry"
)

// RetryingSource retries transient upstream failures: network errors and
// 5xx/429 answers. Other failures are returned on the first attempt.
type RetryingSource struct {
	next providers.RawFeedbackSource
	cfg  retry.Config
}

// NewRetryingSource wraps next with attempts tries spaced delay apart.
func NewRetryingSource(next providers.RawFeedbackSource, attempts int, delay time.Duration) *RetryingSource {
	cfg := retry.Fixed(attempts, delay)
	cfg.ShouldRetry = apperrors.IsRetryable
	return &RetryingSource{next: next, cfg: cfg}
}

// FetchFeedbacksJSON implements providers.RawFeedbackSource.
func (s *RetryingSource) FetchFeedbacksJSON(ctx context.Context) ([]byte, error) {
	cfg := s.cfg
	cfg.OnRetry = func(attempt int, err error, next time.Duration) {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("next_delay", next).
			Msg("Retrying feedback fetch")
	}

	var body []byte
	err := retry.Do(ctx, cfg, func(ctx context.Context) error {
		var err error
		body, err = s.next.FetchFeedbacksJSON(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

var _ providers.RawFeedbackSource = (*RetryingSource)(nil)
