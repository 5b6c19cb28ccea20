package google_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripvibe/tripvibe/internal/geocode"
	"github.com/tripvibe/tripvibe/internal/geocode/google"
	"github.com/tripvibe/tripvibe/internal/provider/resilience"
)

const delhiResponse = `{
  "status": "OK",
  "results": [{
    "formatted_address": "Janpath, New Delhi, Delhi 110001, India",
    "address_components": [
      {"long_name": "Janpath", "short_name": "Janpath", "types": ["route"]},
      {"long_name": "New Delhi", "short_name": "New Delhi", "types": ["locality", "political"]},
      {"long_name": "Delhi", "short_name": "DL", "types": ["administrative_area_level_1", "political"]},
      {"long_name": "India", "short_name": "IN", "types": ["country", "political"]}
    ],
    "geometry": {"location": {"lat": 28.6139, "lng": 77.2090}}
  }]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *google.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	httpCfg := resilience.DefaultClientConfig("geocode-test")
	httpCfg.DisableRetry = true
	httpCfg.Timeout = 2 * time.Second

	return google.NewClient(google.ClientConfig{
		APIKey:            "test-key",
		BaseURL:           server.URL,
		RequestsPerSecond: 1000,
		HTTPClient:        resilience.NewClient(httpCfg),
		Logger:            zerolog.Nop(),
	})
}

func TestClient_ReverseGeocode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json", r.URL.Path)
		assert.Equal(t, "28.613900,77.209000", r.URL.Query().Get("latlng"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(delhiResponse))
	})

	addr, err := client.ReverseGeocode(context.Background(), 28.6139, 77.2090)
	require.NoError(t, err)

	assert.Equal(t, "New Delhi", addr.City)
	assert.Equal(t, "Delhi", addr.Region)
	assert.Equal(t, "India", addr.Country)
	assert.Equal(t, "IN", addr.CountryCode)
	assert.Equal(t, google.ProviderName, client.Name())
}

func TestClient_ReverseGeocode_PostalTownFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"address_components":[
			{"long_name":"Bath","short_name":"Bath","types":["postal_town"]}]}]}`))
	})

	addr, err := client.ReverseGeocode(context.Background(), 51.38, -2.36)
	require.NoError(t, err)
	assert.Equal(t, "Bath", addr.City)
}

func TestClient_ReverseGeocode_NoCityComponent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"address_components":[
			{"long_name":"Pacific Ocean","short_name":"Pacific Ocean","types":["natural_feature"]}]}]}`))
	})

	addr, err := client.ReverseGeocode(context.Background(), 0, -150)
	require.NoError(t, err)
	assert.Empty(t, addr.City)
}

func TestClient_ReverseGeocode_StatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"zero results", `{"status":"ZERO_RESULTS","results":[]}`, geocode.ErrNoResults},
		{"over limit", `{"status":"OVER_QUERY_LIMIT","error_message":"quota"}`, geocode.ErrRateLimitExceeded},
		{"denied", `{"status":"REQUEST_DENIED","error_message":"bad key"}`, geocode.ErrRequestDenied},
		{"unknown", `{"status":"UNKNOWN_ERROR"}`, geocode.ErrProviderUnavailable},
		{"ok but empty", `{"status":"OK","results":[]}`, geocode.ErrNoResults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.ReverseGeocode(context.Background(), 10, 10)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var gerr *geocode.Error
			require.True(t, errors.As(err, &gerr))
			assert.Equal(t, google.ProviderName, gerr.Provider)
		})
	}
}

func TestClient_ReverseGeocode_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.ReverseGeocode(context.Background(), 10, 10)
	require.Error(t, err)

	var gerr *geocode.Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, "403", gerr.Code)
	assert.True(t, gerr.IsRetryable())
}

func TestClient_ReverseGeocode_InvalidCoordinates(t *testing.T) {
	client := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Error("provider must not be called")
	})

	_, err := client.ReverseGeocode(context.Background(), 91, 0)
	assert.ErrorIs(t, err, geocode.ErrInvalidCoordinates)
}
