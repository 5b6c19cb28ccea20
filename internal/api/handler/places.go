package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tripvibe/tripvibe/internal/api/models"
	"github.com/tripvibe/tripvibe/internal/api/response"
	"github.com/tripvibe/tripvibe/internal/navigation"
	"github.com/tripvibe/tripvibe/internal/places"
	"github.com/tripvibe/tripvibe/internal/store"
	"github.com/tripvibe/tripvibe/internal/validation"
)

// PlacesHandler handles the frequent-places list and its draft.
type PlacesHandler struct {
	store  *store.ProfileStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewPlacesHandler creates a new PlacesHandler. now may be nil.
func NewPlacesHandler(s *store.ProfileStore, logger zerolog.Logger, now func() time.Time) *PlacesHandler {
	return &PlacesHandler{store: s, logger: logger, now: now}
}

func (h *PlacesHandler) collector() *places.Collector {
	return places.NewCollector(places.Config{Store: h.store, Logger: h.logger, Now: h.now})
}

// ListPlaces handles GET /v1/places?latitude=&longitude=. The optional
// point is the one just confirmed on the map; with the restored draft it
// decides whether the add action is available.
func (h *PlacesHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	params, err := navigation.Decode(r.URL.Query())
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	c := h.collector()
	if err := c.Load(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to load places")
		response.InternalError(w, r, "failed to load places")
		return
	}

	if params.Latitude != "" || params.Longitude != "" {
		lat, lng, ok := params.Coordinates()
		if !ok {
			response.Invalid(w, r, validation.Fields(
				navigation.ParamLatitude, "must be a number",
				navigation.ParamLongitude, "must be a number",
			))
			return
		}
		c.SetCoordinates(lat, lng)
	}

	response.JSON(w, r, http.StatusOK, models.PlaceList{
		Places:      c.Places(),
		Form:        c.Form(),
		MaxPlaces:   places.MaxPlaces,
		HasRoom:     c.HasRoom(),
		CanAdd:      c.CanAdd(),
		CanContinue: c.CanContinue(),
	})
}

// AddPlace handles POST /v1/places. Fields missing from the body are taken
// from the saved draft, which is cleared on success.
func (h *PlacesHandler) AddPlace(w http.ResponseWriter, r *http.Request) {
	var input models.PlaceInput
	if err := response.DecodeJSON(w, r, &input); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	c := h.collector()
	if err := c.Load(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to load places")
		response.InternalError(w, r, "failed to load places")
		return
	}

	if strings.TrimSpace(input.Name) != "" {
		c.SetName(input.Name)
	}
	if input.Category != "" {
		c.SetCategory(input.Category)
	}
	if input.Latitude != nil && input.Longitude != nil {
		c.SetCoordinates(*input.Latitude, *input.Longitude)
	}

	place, err := c.Add(r.Context())
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.Is(err, places.ErrListFull):
			response.Conflict(w, r, fmt.Sprintf("at most %d frequent places can be added", places.MaxPlaces))
		case errors.As(err, &verr):
			response.Invalid(w, r, verr)
		default:
			h.logger.Error().Err(err).Msg("failed to add place")
			response.InternalError(w, r, "failed to add place")
		}
		return
	}

	response.Created(w, r, "/v1/places/"+place.ID, place)
}

// DeletePlace handles DELETE /v1/places/{placeId}.
func (h *PlacesHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	err := h.collector().Remove(r.Context(), chi.URLParam(r, "placeId"))
	switch {
	case err == nil:
		response.NoContent(w, r)
	case errors.Is(err, places.ErrPlaceNotFound):
		response.NotFound(w, r, "place")
	default:
		h.logger.Error().Err(err).Msg("failed to remove place")
		response.InternalError(w, r, "failed to remove place")
	}
}

// GetDraft handles GET /v1/places/draft.
func (h *PlacesHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.store.Draft(r.Context())
	if err != nil && !errors.Is(err, store.ErrCorrupt) {
		response.InternalError(w, r, "failed to read draft")
		return
	}
	if draft == nil {
		response.NotFound(w, r, "draft")
		return
	}
	response.JSON(w, r, http.StatusOK, draft)
}

// PutDraft handles PUT /v1/places/draft - saves the in-progress name and
// category before the user leaves for the map.
func (h *PlacesHandler) PutDraft(w http.ResponseWriter, r *http.Request) {
	var input models.DraftInput
	if err := response.DecodeJSON(w, r, &input); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	if err := validation.Struct(input); err != nil {
		writeValidation(w, r, err)
		return
	}

	c := h.collector()
	if err := c.Load(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to load places")
		response.InternalError(w, r, "failed to load places")
		return
	}
	c.SetName(input.PlaceName)
	c.SetCategory(input.Category)

	draft, err := c.SaveDraft(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to save draft")
		return
	}
	response.JSON(w, r, http.StatusOK, draft)
}

// CycleDraftCategory handles POST /v1/places/draft/category - advances the
// draft to the next category and saves it.
func (h *PlacesHandler) CycleDraftCategory(w http.ResponseWriter, r *http.Request) {
	c := h.collector()
	if err := c.Load(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to load places")
		response.InternalError(w, r, "failed to load places")
		return
	}
	c.CycleCategory()

	draft, err := c.SaveDraft(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to save draft")
		return
	}
	response.JSON(w, r, http.StatusOK, draft)
}

// DeleteDraft handles DELETE /v1/places/draft.
func (h *PlacesHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearDraft(r.Context()); err != nil {
		response.InternalError(w, r, "failed to clear draft")
		return
	}
	response.NoContent(w, r)
}
