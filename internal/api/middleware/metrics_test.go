package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/tripvibe/tripvibe/internal/api/middleware"
)

// collectingMetrics installs a manual reader as the global meter provider.
func collectingMetrics(t *testing.T) (*middleware.Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(mp)
	t.Cleanup(func() {
		otel.SetMeterProvider(prev)
		_ = mp.Shutdown(context.Background())
	})

	metrics, err := middleware.NewMetrics()
	require.NoError(t, err)
	return metrics, reader
}

func requestTotals(t *testing.T, reader *sdkmetric.ManualReader) []metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "http.server.request.total" {
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				return sum.DataPoints
			}
		}
	}
	t.Fatal("http.server.request.total not recorded")
	return nil
}

func attr(dp metricdata.DataPoint[int64], key string) string {
	v, _ := dp.Attributes.Value(attribute.Key(key))
	return v.Emit()
}

func TestMetrics_LabelsByChiRoute(t *testing.T) {
	metrics, reader := collectingMetrics(t)

	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Delete("/v1/places/{placeId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, id := range []string{"1718000000000", "1718000000001"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/places/"+id, http.NoBody))
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	points := requestTotals(t, reader)
	require.Len(t, points, 1, "both ids share one route series")
	assert.Equal(t, int64(2), points[0].Value)
	assert.Equal(t, "/v1/places/{placeId}", attr(points[0], "http.route"))
	assert.Equal(t, "204", attr(points[0], "http.status_code"))
	assert.Equal(t, "false", attr(points[0], "error"))
}

func TestMetrics_FlagsFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
		failed string
	}{
		{"upstream failure", http.StatusBadGateway, "502", "true"},
		{"list full", http.StatusConflict, "409", "true"},
		{"implicit ok", 0, "200", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics, reader := collectingMetrics(t)

			handler := metrics.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				_, _ = w.Write([]byte(`{}`))
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/recommendations", http.NoBody))

			points := requestTotals(t, reader)
			require.Len(t, points, 1)
			assert.Equal(t, tt.code, attr(points[0], "http.status_code"))
			assert.Equal(t, tt.failed, attr(points[0], "error"))
			assert.Equal(t, http.MethodPost, attr(points[0], "http.method"))
		})
	}
}
