package providers

import (
	"context"

	"github.com/zatekoja/feedbackdashboard/internal/domain/entities"
)

// FeedbackSource yields the feedback list shown on the dashboard.
type FeedbackSource interface {
	// ListFeedbacks performs one fetch of the full list, in server order.
	ListFeedbacks(ctx context.Context) ([]entities.FeedbackRecord, error)
}

// RawFeedbackSource yields the undecoded /api/feedbacks body.
type RawFeedbackSource interface {
	FetchFeedbacksJSON(ctx context.Context) ([]byte, error)
}

// FeedbackSourceFunc adapts a function to FeedbackSource.
type FeedbackSourceFunc func(ctx context.Context) ([]entities.FeedbackRecord, error)

// ListFeedbacks calls f(ctx).
func (f FeedbackSourceFunc) ListFeedbacks(ctx context.Context) ([]entities.FeedbackRecord, error) {
	return f(ctx)
}
