package app

import (
	"context"

	"github.com/zatekoja/feedbackdashboard/internal/adapters/cache"
	"github.com/zatekoja/feedbackdashboard/internal/adapters/feedback"
	"github.com/zatekoja/feedbackdashboard/internal/domain/providers"
	"github.com/zatekoja/feedbackdashboard/internal/infrastructure/clients/feedbackapi"
	redisclient "github.com/zatekoja/feedbackdashboard/internal/infrastructure/clients/redis"
	"github.com/zatekoja/feedbackdashboard/internal/infrastructure/observability"
	"github.com/zatekoja/feedbackdashboard/pkg/config"
)

// NewFeedbackSource assembles the feedback source from configuration:
// HTTP client, then retries, then the circuit breaker, then the cache.
// The returned close function releases the cache connection.
func NewFeedbackSource(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) (providers.FeedbackSource, func() error, error) {
	logger := observability.GetLogger()
	closeFn := func() error { return nil }

	var raw providers.RawFeedbackSource = feedbackapi.NewClient(
		cfg.FeedbackAPI.BaseURL,
		feedbackapi.WithTimeout(cfg.FeedbackAPI.Timeout),
	)
	if cfg.FeedbackAPI.RetryAttempts > 1 {
		raw = feedback.NewRetryingSource(raw, cfg.FeedbackAPI.RetryAttempts, cfg.FeedbackAPI.RetryDelay)
	}
	if cfg.FeedbackAPI.Breaker.Enabled {
		raw = feedback.NewBreakerSource(raw, cfg.FeedbackAPI.Breaker.MaxFailures, cfg.FeedbackAPI.Breaker.OpenTimeout)
	}

	if !cfg.Cache.Enabled {
		return feedback.NewSource(raw, metrics), closeFn, nil
	}

	var store providers.CacheProvider
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		client, err := redisclient.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, falling back to in-memory feedback cache")
			store = cache.NewMemoryAdapter()
			break
		}
		store = cache.NewRedisAdapter(client, cfg.Cache.KeyPrefix)
		closeFn = client.Close
		logger.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Feedback cache backed by Redis")
	default:
		store = cache.NewMemoryAdapter()
	}

	return feedback.NewCachedSource(raw, store, cfg.Cache.TTL, metrics), closeFn, nil
}
