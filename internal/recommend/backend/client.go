// Package backend is the HTTP client for the recommendation service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripvibe/tripvibe/internal/profile"
	"github.com/tripvibe/tripvibe/internal/provider/resilience"
	"github.com/tripvibe/tripvibe/internal/recommend"
	"github.com/tripvibe/tripvibe/internal/telemetry"
)

const (
	// ProviderName identifies the recommendation backend in health reports.
	ProviderName = "recommendation-backend"

	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:5000"

	// RecommendPath is the recommendation endpoint.
	RecommendPath = "/api/recommend"
)

// ClientConfig holds configuration for the backend client.
type ClientConfig struct {
	// BaseURL is the backend root, without a trailing slash.
	BaseURL string

	// Timeout bounds the whole call. Zero or negative waits as long as the
	// caller's context allows.
	Timeout time.Duration

	// HTTPClient is the HTTP client to use.
	// If nil, a resilient client with retries disabled is created whose
	// breaker counts only transport failures.
	HTTPClient *resilience.Client

	// Registry receives the default client for health reporting.
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client posts trip profiles to the recommendation backend.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *resilience.Client
	metrics    *telemetry.OutboundMetrics
	logger     zerolog.Logger
}

// NewClient creates a backend client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout < 0 {
		timeout = 0
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		breaker := resilience.SubmissionCircuitBreakerConfig(ProviderName)
		rc := resilience.DefaultClientConfig(ProviderName)
		rc.Timeout = timeout
		if timeout == 0 {
			rc.Timeout = -1
		}
		rc.DisableRetry = true
		rc.CircuitBreaker = &breaker
		rc.Registry = cfg.Registry
		httpClient = resilience.NewClient(rc)
	}

	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: httpClient,
		metrics:    telemetry.NewOutboundMetrics("tripvibe/recommend"),
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Timeout returns the per-call limit. Zero means none.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// FetchRecommendations sends one POST with the payload as JSON. Any non-2xx
// status yields *recommend.HTTPError. An empty body yields a nil response
// and no error.
func (c *Client) FetchRecommendations(ctx context.Context, payload *profile.Payload) (*recommend.Response, error) {
	start := time.Now()
	resp, err := c.fetch(ctx, payload)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.metrics.Record(ctx, ProviderName, outcome, start)
	return resp, err
}

func (c *Client) fetch(ctx context.Context, payload *profile.Payload) (*recommend.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+RecommendPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("previous_city", payload.PreviousCity.Name).
		Str("current_city", payload.CurrentCity.Name).
		Int("source_places", len(payload.SourcePlaces)).
		Msg("requesting recommendations")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return nil, fmt.Errorf("%w: %w", recommend.ErrBackendUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v", recommend.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.logger.Warn().Int("status", resp.StatusCode).Msg("recommendation backend returned error status")
		return nil, &recommend.HTTPError{StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", recommend.ErrBackendUnavailable, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var out recommend.Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", recommend.ErrMalformedResponse, err)
	}
	return &out, nil
}
