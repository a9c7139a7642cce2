package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	apperrors "github.com/zatekoja/feedbackdashboard/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	FeedbackAPI FeedbackAPIConfig
	Dashboard   DashboardConfig
	Cache       CacheConfig
	Redis       RedisConfig
	Log         LogConfig
	OTEL        OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" envDefault:"8080"`
	// AllowedOrigins lists origins allowed to read responses cross-origin.
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// FeedbackAPIConfig describes the upstream that serves /api/feedbacks.
type FeedbackAPIConfig struct {
	BaseURL string `env:"FEEDBACK_API_BASE_URL" envDefault:"http://localhost:8000"`
	// Timeout of zero leaves the request bounded only by its context.
	Timeout       time.Duration `env:"FEEDBACK_API_TIMEOUT" envDefault:"0s"`
	RetryAttempts int           `env:"FEEDBACK_RETRY_ATTEMPTS" envDefault:"1"`
	RetryDelay    time.Duration `env:"FEEDBACK_RETRY_DELAY" envDefault:"1s"`
	Breaker       BreakerConfig
}

// BreakerConfig controls the circuit breaker in front of the feedback API
type BreakerConfig struct {
	Enabled     bool          `env:"FEEDBACK_BREAKER_ENABLED" envDefault:"false"`
	MaxFailures uint32        `env:"FEEDBACK_BREAKER_MAX_FAILURES" envDefault:"5"`
	OpenTimeout time.Duration `env:"FEEDBACK_BREAKER_OPEN_TIMEOUT" envDefault:"30s"`
}

// DashboardConfig holds page rendering options
type DashboardConfig struct {
	Title               string `env:"DASHBOARD_TITLE" envDefault:"Feedback Dashboard"`
	ClearBeforePopulate bool   `env:"DASHBOARD_CLEAR_BEFORE_POPULATE" envDefault:"false"`
	ChartJSURL          string `env:"DASHBOARD_CHARTJS_URL" envDefault:"https://cdn.jsdelivr.net/npm/chart.js"`
}

// CacheConfig controls caching of the upstream feedback list
type CacheConfig struct {
	Enabled bool          `env:"FEEDBACK_CACHE_ENABLED" envDefault:"false"`
	TTL     time.Duration `env:"FEEDBACK_CACHE_TTL" envDefault:"60s"`
	// Backend is "redis" or "memory".
	Backend   string `env:"FEEDBACK_CACHE_BACKEND" envDefault:"redis"`
	KeyPrefix string `env:"FEEDBACK_CACHE_KEY_PREFIX" envDefault:"feedbackdashboard:"`
}

// Cache backends
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Env   string `env:"APP_ENV" envDefault:"production"`
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"feedback-dashboard"`
	ServiceVersion string `env:"OTEL_SERVICE_VERSION" envDefault:"1.0.0"`
	Endpoint       string `env:"OTEL_ENDPOINT"`
	Enabled        bool   `env:"OTEL_ENABLED" envDefault:"false"`
}

// Load loads configuration from a local .env file (if any) and environment
// variables. Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the rest of the application relies on.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return apperrors.NewValidationError(fmt.Sprintf("SERVER_PORT out of range: %d", c.Server.Port))
	}

	u, err := url.Parse(c.FeedbackAPI.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.NewValidationError(fmt.Sprintf("FEEDBACK_API_BASE_URL must be an absolute http(s) URL: %q", c.FeedbackAPI.BaseURL))
	}
	if c.FeedbackAPI.Timeout < 0 {
		return apperrors.NewValidationError("FEEDBACK_API_TIMEOUT must not be negative")
	}
	if c.FeedbackAPI.RetryAttempts < 1 {
		return apperrors.NewValidationError("FEEDBACK_RETRY_ATTEMPTS must be at least 1")
	}
	if c.FeedbackAPI.Breaker.Enabled && c.FeedbackAPI.Breaker.MaxFailures == 0 {
		return apperrors.NewValidationError("FEEDBACK_BREAKER_MAX_FAILURES must be at least 1")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return apperrors.NewValidationError("FEEDBACK_CACHE_TTL must be positive when caching is enabled")
	}
	if c.Cache.Backend != CacheBackendRedis && c.Cache.Backend != CacheBackendMemory {
		return apperrors.NewValidationError(fmt.Sprintf("FEEDBACK_CACHE_BACKEND must be %q or %q: %q", CacheBackendRedis, CacheBackendMemory, c.Cache.Backend))
	}
	return nil
}

// Addr returns the listen address of the HTTP server
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
