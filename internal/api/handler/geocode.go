package handler

import (
	"net/http"
	"strconv"

	"github.com/tripvibe/tripvibe/internal/api/models"
	"github.com/tripvibe/tripvibe/internal/api/response"
	"github.com/tripvibe/tripvibe/internal/geocode"
	"github.com/tripvibe/tripvibe/internal/picker"
	"github.com/tripvibe/tripvibe/internal/validation"
)

// GeocodeHandler exposes the city resolver.
type GeocodeHandler struct {
	resolver picker.CityResolver
}

// NewGeocodeHandler creates a new GeocodeHandler.
func NewGeocodeHandler(resolver picker.CityResolver) *GeocodeHandler {
	return &GeocodeHandler{resolver: resolver}
}

// ReverseGeocode handles GET /v1/geocode/reverse?lat=&lng=. An unresolvable
// point yields the unknown-city sentinel, not an error.
func (h *GeocodeHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)

	var pairs []string
	if latErr != nil {
		pairs = append(pairs, "lat", "must be a number")
	}
	if lngErr != nil {
		pairs = append(pairs, "lng", "must be a number")
	}
	if len(pairs) > 0 {
		response.Invalid(w, r, validation.Fields(pairs...))
		return
	}
	if err := geocode.ValidateCoordinates(lat, lng); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	response.JSON(w, r, http.StatusOK, models.ReverseGeocode{
		City:      h.resolver.Resolve(r.Context(), lat, lng),
		Latitude:  lat,
		Longitude: lng,
	})
}
