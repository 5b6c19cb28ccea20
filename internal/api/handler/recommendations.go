package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tripvibe/tripvibe/internal/api/models"
	"github.com/tripvibe/tripvibe/internal/api/response"
	"github.com/tripvibe/tripvibe/internal/navigation"
	"github.com/tripvibe/tripvibe/internal/provider/resilience"
	"github.com/tripvibe/tripvibe/internal/recommend"
	"github.com/tripvibe/tripvibe/internal/results"
)

// Recommender runs one recommendation round trip.
type Recommender interface {
	Recommend(ctx context.Context) ([]recommend.Recommendation, error)
}

// RecommendationsHandler submits the stored trip profile.
type RecommendationsHandler struct {
	service Recommender
	logger  zerolog.Logger
}

// NewRecommendationsHandler creates a new RecommendationsHandler.
func NewRecommendationsHandler(service Recommender, logger zerolog.Logger) *RecommendationsHandler {
	return &RecommendationsHandler{service: service, logger: logger}
}

// CreateRecommendations handles POST /v1/recommendations. Both a populated
// and an empty answer are 200. A profile without places is 409 and upstream
// failures map to 502 or 503.
func (h *RecommendationsHandler) CreateRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.Recommend(r.Context())
	view := results.FromOutcome(recs, err)

	if err != nil && !errors.Is(err, recommend.ErrNoResults) {
		h.writeFailure(w, r, err, view)
		return
	}

	out := models.RecommendationResult{View: view}
	if view.State == results.StateReady {
		params, perr := view.Params()
		if perr != nil {
			h.logger.Warn().Err(perr).Msg("failed to encode results params")
		} else {
			out.Next = params.URL()
		}
	}
	response.JSON(w, r, http.StatusOK, out)
}

func (h *RecommendationsHandler) writeFailure(w http.ResponseWriter, r *http.Request, err error, view results.View) {
	var httpErr *recommend.HTTPError
	switch {
	case errors.Is(err, recommend.ErrProfileIncomplete):
		response.Conflict(w, r, view.Message)
	case errors.As(err, &httpErr):
		h.logger.Warn().Int("upstream_status", httpErr.StatusCode).Msg("recommendation backend rejected request")
		response.BadGateway(w, r, httpErr.Error())
	case errors.Is(err, resilience.ErrCircuitOpen):
		response.ServiceUnavailable(w, r, view.Message)
	case errors.Is(err, recommend.ErrBackendUnavailable):
		h.logger.Warn().Err(err).Msg("recommendation backend unreachable")
		response.BadGateway(w, r, view.Message)
	case errors.Is(err, recommend.ErrMalformedResponse):
		h.logger.Warn().Err(err).Msg("recommendation backend sent malformed response")
		response.BadGateway(w, r, view.Message)
	default:
		h.logger.Error().Err(err).Msg("recommendation request failed")
		response.InternalError(w, r, view.Message)
	}
}

// GetRecommendations handles GET /v1/recommendations?results= - rebuilds the
// results screen from the URL returned by a previous submission.
func (h *RecommendationsHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	params, err := navigation.Decode(r.URL.Query())
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	view := results.FromParams(params)
	if view.State == results.StateFailed {
		response.BadRequest(w, r, view.Message, []models.FieldError{{Field: navigation.ParamResults, Message: "must be a JSON array of recommendations"}})
		return
	}
	response.JSON(w, r, http.StatusOK, models.RecommendationResult{View: view})
}
