package models_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripvibe/tripvibe/internal/api/models"
)

func TestProblem_Builders(t *testing.T) {
	p := models.NewProblem(models.ProblemTypeValidation, "Validation error", http.StatusBadRequest, "req_test123").
		WithDetail("latitude must be between -90 and 90").
		WithInstance("/v1/places").
		WithErrors([]models.FieldError{{Field: "latitude", Message: "must be <= 90", Code: "lte"}})

	assert.Equal(t, "req_test123", p.TraceID)
	assert.Equal(t, "latitude must be between -90 and 90", p.Detail)
	assert.Equal(t, "/v1/places", p.Instance)
	require.Len(t, p.Errors, 1)
	assert.Equal(t, "lte", p.Errors[0].Code)
}

func TestProblem_Write(t *testing.T) {
	p := models.NewBadRequest("req_test123", "invalid input", []models.FieldError{
		{Field: "category", Message: "must be one of: Café, Restaurant, Park, Gym"},
	})
	p.Instance = "/v1/places"

	w := httptest.NewRecorder()
	p.Write(w)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Equal(t, "req_test123", w.Header().Get("X-Request-Id"))

	var result models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, models.ProblemTypeValidation, result.Type)
	assert.Equal(t, "invalid input", result.Detail)
	assert.Equal(t, "/v1/places", result.Instance)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "category", result.Errors[0].Field)
}

func TestProblem_WriteWithoutTraceID(t *testing.T) {
	w := httptest.NewRecorder()
	models.NewNotFound("", "place").Write(w)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get("X-Request-Id"))
}

func TestProblemConstructors(t *testing.T) {
	tests := []struct {
		problem *models.Problem
		typ     string
		title   string
		status  int
	}{
		{models.NewBadRequest("req_1", "bad", nil), models.ProblemTypeValidation, "Validation error", http.StatusBadRequest},
		{models.NewNotFound("req_1", "place"), models.ProblemTypeNotFound, "Not found", http.StatusNotFound},
		{models.NewConflict("req_1", "list full"), models.ProblemTypeConflict, "Conflict", http.StatusConflict},
		{models.NewUnsupportedMediaType("req_1", "json only"), models.ProblemTypeUnsupportedMediaType, "Unsupported media type", http.StatusUnsupportedMediaType},
		{models.NewTooManyRequests("req_1", "slow down"), models.ProblemTypeTooManyRequests, "Too many requests", http.StatusTooManyRequests},
		{models.NewInternalError("req_1", "boom"), models.ProblemTypeInternal, "Internal server error", http.StatusInternalServerError},
		{models.NewBadGateway("req_1", "HTTP error! status: 500"), models.ProblemTypeBadGateway, "Bad gateway", http.StatusBadGateway},
		{models.NewServiceUnavailable("req_1", "circuit open"), models.ProblemTypeUnavailable, "Service unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.problem.Type)
			assert.Equal(t, tt.title, tt.problem.Title)
			assert.Equal(t, tt.status, tt.problem.Status)
			assert.Equal(t, "req_1", tt.problem.TraceID)
			assert.NotEmpty(t, tt.problem.Detail)
		})
	}
}

func TestTimestamp_JSON(t *testing.T) {
	ts := models.Timestamp(time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC))

	raw, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-01T12:30:00Z"`, string(raw))

	var back models.Timestamp
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, ts.Time().Equal(back.Time()))

	assert.NoError(t, json.Unmarshal([]byte("null"), &back))
	assert.Error(t, json.Unmarshal([]byte("12"), &back))
}
