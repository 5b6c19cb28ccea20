// Package google implements reverse geocoding with the Google Geocoding API.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tripvibe/tripvibe/internal/geocode"
	"github.com/tripvibe/tripvibe/internal/provider/resilience"
	"github.com/tripvibe/tripvibe/internal/telemetry"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "google-geocoding"

	// DefaultBaseURL is the Google Geocoding API base URL.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode"
)

// ClientConfig holds configuration for the Google geocoding client.
type ClientConfig struct {
	// APIKey is the Google Maps Platform key (required).
	APIKey string

	// BaseURL overrides the API base URL.
	BaseURL string

	// RequestsPerSecond paces outgoing requests (default: 10, burst 1).
	RequestsPerSecond float64

	// HTTPClient is the HTTP client to use.
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Google Geocoding API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	limiter    *rate.Limiter
	metrics    *telemetry.OutboundMetrics
	logger     zerolog.Logger
}

var _ geocode.Provider = (*Client)(nil)

// NewClient creates a new Google geocoding client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		metrics:    telemetry.NewOutboundMetrics("tripvibe/geocode"),
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// ReverseGeocode looks up the address at a point. The city is taken from the
// first result's locality component, falling back to postal_town.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (*geocode.Address, error) {
	if err := geocode.ValidateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, c.newError("RATE_LIMITED", "waiting for rate limiter", err)
	}

	start := time.Now()
	addr, err := c.reverseGeocode(ctx, lat, lng)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.metrics.Record(ctx, ProviderName, outcome, start)
	return addr, err
}

func (c *Client) reverseGeocode(ctx context.Context, lat, lng float64) (*geocode.Address, error) {
	query := url.Values{}
	query.Set("latlng", strconv.FormatFloat(lat, 'f', 6, 64)+","+strconv.FormatFloat(lng, 'f', 6, 64))
	query.Set("key", c.apiKey)
	reqURL := c.baseURL + "/json?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.newError("UNAVAILABLE", "executing request", fmt.Errorf("%w: %v", geocode.ErrProviderUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.newError(strconv.Itoa(resp.StatusCode), "unexpected status code", geocode.ErrProviderUnavailable)
	}

	var gr geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	switch gr.Status {
	case statusOK:
	case statusZeroResults:
		return nil, c.newError(gr.Status, "no results", geocode.ErrNoResults)
	case statusOverQueryLimit:
		return nil, c.newError(gr.Status, gr.ErrorMessage, geocode.ErrRateLimitExceeded)
	case statusRequestDenied, statusInvalidRequest:
		return nil, c.newError(gr.Status, gr.ErrorMessage, geocode.ErrRequestDenied)
	default:
		return nil, c.newError(gr.Status, gr.ErrorMessage, geocode.ErrProviderUnavailable)
	}

	if len(gr.Results) == 0 {
		return nil, c.newError(gr.Status, "empty results", geocode.ErrNoResults)
	}

	c.logger.Debug().
		Str("formatted", gr.Results[0].FormattedAddress).
		Msg("reverse geocode resolved")

	return toAddress(gr.Results[0]), nil
}

func toAddress(r geocodeResult) *geocode.Address {
	addr := &geocode.Address{Formatted: r.FormattedAddress}
	var postalTown string
	for _, comp := range r.AddressComponents {
		switch {
		case comp.is("locality"):
			addr.City = comp.LongName
		case comp.is("postal_town"):
			postalTown = comp.LongName
		case comp.is("administrative_area_level_1"):
			addr.Region = comp.LongName
		case comp.is("country"):
			addr.Country = comp.LongName
			addr.CountryCode = comp.ShortName
		}
	}
	if addr.City == "" {
		addr.City = postalTown
	}
	return addr
}

func (c *Client) newError(code, message string, err error) *geocode.Error {
	if message == "" {
		message = "geocoding failed"
	}
	return &geocode.Error{
		Provider: ProviderName,
		Code:     code,
		Message:  message,
		Err:      err,
	}
}
