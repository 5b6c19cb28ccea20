package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tripvibe/tripvibe/internal/api/models"
	"github.com/tripvibe/tripvibe/internal/api/response"
	"github.com/tripvibe/tripvibe/internal/picker"
	"github.com/tripvibe/tripvibe/internal/places"
	"github.com/tripvibe/tripvibe/internal/profile"
	"github.com/tripvibe/tripvibe/internal/store"
	"github.com/tripvibe/tripvibe/internal/validation"
)

// ProfileHandler handles the stored trip profile.
type ProfileHandler struct {
	store     *store.ProfileStore
	cities    *picker.CitySaver
	assembler *profile.Assembler
	logger    zerolog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(s *store.ProfileStore, cities *picker.CitySaver, assembler *profile.Assembler, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{store: s, cities: cities, assembler: assembler, logger: logger}
}

// GetProfile handles GET /v1/profile - everything stored for the trip.
// Corrupt values are reported as absent.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var out models.Profile
	var err error

	if out.PreviousCity, err = tolerate(ctx, h.logger, store.KeyPreviousCity, h.store.PreviousCity); err != nil {
		response.InternalError(w, r, "failed to read profile")
		return
	}
	if out.CurrentCity, err = tolerate(ctx, h.logger, store.KeyCurrentCity, h.store.CurrentCity); err != nil {
		response.InternalError(w, r, "failed to read profile")
		return
	}
	if out.Draft, err = tolerate(ctx, h.logger, store.KeyPlacesDraft, h.store.Draft); err != nil {
		response.InternalError(w, r, "failed to read profile")
		return
	}

	out.Places, err = h.store.Places(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrCorrupt) {
			response.InternalError(w, r, "failed to read profile")
			return
		}
		h.logger.Warn().Err(err).Msg("ignoring corrupt frequent places")
		out.Places = []store.PlaceRecord{}
	}
	out.CanContinue = len(out.Places) >= places.MinPlaces

	response.JSON(w, r, http.StatusOK, out)
}

// ResetProfile handles DELETE /v1/profile - removes every stored key.
func (h *ProfileHandler) ResetProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reset(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to reset profile")
		response.InternalError(w, r, "failed to reset profile")
		return
	}
	response.NoContent(w, r)
}

// PutCity handles PUT /v1/profile/cities/{role} - resolves and stores the
// city at the given point as the previous or current city.
func (h *ProfileHandler) PutCity(w http.ResponseWriter, r *http.Request) {
	role, err := picker.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		response.NotFound(w, r, "city role must be previous or current")
		return
	}

	var input models.CityInput
	if err := response.DecodeJSON(w, r, &input); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	if err := validation.Struct(input); err != nil {
		writeValidation(w, r, err)
		return
	}

	record, err := h.cities.Save(r.Context(), role, *input.Lat, *input.Lng)
	if err != nil {
		h.logger.Error().Err(err).Str("role", string(role)).Msg("failed to save city")
		response.InternalError(w, r, "failed to save city")
		return
	}

	response.JSON(w, r, http.StatusOK, record)
}

// GetPayload handles GET /v1/profile/payload - the body that would be sent
// to the recommendation backend.
func (h *ProfileHandler) GetPayload(w http.ResponseWriter, r *http.Request) {
	payload, err := h.assembler.Assemble(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to assemble profile")
		response.InternalError(w, r, "failed to assemble profile")
		return
	}
	response.JSON(w, r, http.StatusOK, payload)
}

func tolerate[T any](ctx context.Context, logger zerolog.Logger, key string, read func(context.Context) (*T, error)) (*T, error) {
	v, err := read(ctx)
	if err != nil {
		if errors.Is(err, store.ErrCorrupt) {
			logger.Warn().Err(err).Str("key", key).Msg("ignoring corrupt value")
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// writeValidation writes field errors, or a 500 for anything else.
func writeValidation(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.Invalid(w, r, verr)
		return
	}
	response.InternalError(w, r, "validation failed")
}
