package feedbackapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zatekoja/feedbackdashboard/internal/domain/entities"
	apperrors "github.com/zatekoja/feedbackdashboard/pkg/errors"
)

// FeedbacksPath is the upstream endpoint serving the feedback list.
const FeedbacksPath = "/api/feedbacks"

// maxBodyBytes bounds how much of an upstream body is read.
const maxBodyBytes = 32 << 20

// HTTPClient fetches feedback from the upstream feedback service.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = d
	}
}

// NewClient builds a client for baseURL. A trailing slash is ignored.
func NewClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the absolute URL of the feedback list.
func (c *HTTPClient) Endpoint() string {
	return c.baseURL + FeedbacksPath
}

// FetchFeedbacksJSON performs one GET of the feedback list and returns the
// body undecoded. Non-2xx statuses are upstream status errors.
func (c *HTTPClient) FetchFeedbacksJSON(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint(), nil)
	if err != nil {
		return nil, apperrors.NewNetworkError("build feedback request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("fetch feedbacks", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, apperrors.NewUpstreamStatusError(
			fmt.Sprintf("feedback api returned status %d", resp.StatusCode), resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewNetworkError("read feedback response", err)
	}
	return body, nil
}

// ListFeedbacks fetches and decodes the feedback list.
func (c *HTTPClient) ListFeedbacks(ctx context.Context) ([]entities.FeedbackRecord, error) {
	body, err := c.FetchFeedbacksJSON(ctx)
	if err != nil {
		return nil, err
	}
	return DecodeFeedbacks(body)
}

// DecodeFeedbacks decodes an /api/feedbacks body, mapping failures to
// decode errors.
func DecodeFeedbacks(body []byte) ([]entities.FeedbackRecord, error) {
	records, err := entities.DecodeFeedbackRecords(body)
	if err != nil {
		return nil, apperrors.NewDecodeError("decode feedback list", err)
	}
	return records, nil
}
