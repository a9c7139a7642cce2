package feedback

import (
	"context"
	"errors"
	"time"

	"github.com/zatekoja/feedbackdashboard/internal/domain/entities"
	"github.com/zatekoja/feedbackdashboard/internal/domain/providers"
	"github.com/zatekoja/feedbackdashboard/internal/infrastructure/clients/feedbackapi"
	"github.com/zatekoja/feedbackdashboard/internal/infrastructure/observability"
	"golang.org/x/sync/singleflight"
)

// FeedbacksCacheKey is the cache key of the raw /api/feedbacks body.
const FeedbacksCacheKey = "feedbacks:list"

// sharedFetchTimeout bounds an upstream fetch shared by concurrent misses.
// The fetch outlives the caller that started it.
const sharedFetchTimeout = 30 * time.Second

// CachedSource serves the feedback list from cache, falling back to the
// upstream on a miss. Only bodies that decode are cached, and concurrent
// misses share one upstream fetch.
type CachedSource struct {
	raw     providers.RawFeedbackSource
	cache   providers.CacheProvider
	ttl     time.Duration
	metrics *observability.Metrics
	group   singleflight.Group
}

// NewCachedSource creates a cached feedback source. metrics may be nil.
func NewCachedSource(raw providers.RawFeedbackSource, cache providers.CacheProvider, ttl time.Duration, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		raw:     raw,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
	}
}

// ListFeedbacks implements providers.FeedbackSource.
func (s *CachedSource) ListFeedbacks(ctx context.Context) ([]entities.FeedbackRecord, error) {
	logger := observability.LoggerFromContext(ctx)

	cached, err := s.cache.Get(ctx, FeedbacksCacheKey)
	switch {
	case err == nil:
		records, decodeErr := feedbackapi.DecodeFeedbacks(cached)
		if decodeErr == nil {
			observability.RecordCacheHit(ctx, s.metrics, FeedbacksCacheKey)
			return records, nil
		}
		logger.Warn().Err(decodeErr).Msg("Discarding undecodable cached feedback list")
		if err := s.cache.Delete(ctx, FeedbacksCacheKey); err != nil {
			logger.Warn().Err(err).Msg("Failed to delete cached feedback list")
		}
	case !errors.Is(err, providers.ErrCacheMiss):
		logger.Warn().Err(err).Msg("Feedback cache unavailable")
	}
	observability.RecordCacheMiss(ctx, s.metrics, FeedbacksCacheKey)

	ch := s.group.DoChan(FeedbacksCacheKey, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()

		body, err := s.raw.FetchFeedbacksJSON(fetchCtx)
		if err != nil {
			return nil, err
		}
		records, err := feedbackapi.DecodeFeedbacks(body)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(fetchCtx, FeedbacksCacheKey, body, s.ttl); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache feedback list")
		}
		return records, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	shared := res.Val.([]entities.FeedbackRecord)
	records := make([]entities.FeedbackRecord, len(shared))
	copy(records, shared)
	return records, nil
}

var _ providers.FeedbackSource = (*CachedSource)(nil)
