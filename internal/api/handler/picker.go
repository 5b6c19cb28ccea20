package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tripvibe/tripvibe/internal/api/models"
	"github.com/tripvibe/tripvibe/internal/api/response"
	"github.com/tripvibe/tripvibe/internal/navigation"
	"github.com/tripvibe/tripvibe/internal/picker"
	"github.com/tripvibe/tripvibe/internal/validation"
)

// PickerHandler serves the location picker: its initial state, viewport
// gestures, and the confirm step.
type PickerHandler struct {
	cities *picker.CitySaver
	logger zerolog.Logger
}

// NewPickerHandler creates a new PickerHandler. cities stores the confirmed
// center when a confirm names a city role.
func NewPickerHandler(cities *picker.CitySaver, logger zerolog.Logger) *PickerHandler {
	return &PickerHandler{cities: cities, logger: logger}
}

// GetPicker handles GET /v1/picker?mode=&returnTo=&latitude=&longitude=.
func (h *PickerHandler) GetPicker(w http.ResponseWriter, r *http.Request) {
	p, ok := h.fromQuery(w, r)
	if !ok {
		return
	}
	writePickerState(w, r, p)
}

// ApplyAction handles POST /v1/picker/actions - pans, zooms, or recenters on
// the device location and returns the new viewport.
func (h *PickerHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	p, ok := h.fromQuery(w, r)
	if !ok {
		return
	}

	var input models.PickerAction
	if err := response.DecodeJSON(w, r, &input); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	if err := validation.Struct(input); err != nil {
		writeValidation(w, r, err)
		return
	}

	// Zoom and locate start from the viewport the client shows.
	if input.Region != nil && input.Action != picker.ActionPan {
		p.Pan(*input.Region)
	}

	var src picker.LocationSource
	if input.Location != nil {
		src = *input.Location
	}
	if err := p.Apply(r.Context(), input.Action, input.Region, src); err != nil {
		if errors.Is(err, picker.ErrUnknownAction) {
			response.Invalid(w, r, validation.Fields("action", "must be one of: pan, zoomIn, zoomOut, locate"))
			return
		}
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	writePickerState(w, r, p)
}

// ConfirmPicker handles POST /v1/picker/confirm?role=. In pick mode the
// body's point is returned as coordinates for the return route, and with a
// role it is also stored as that trip city. In place mode the point is
// ignored and only the route is returned.
func (h *PickerHandler) ConfirmPicker(w http.ResponseWriter, r *http.Request) {
	p, ok := h.fromQuery(w, r)
	if !ok {
		return
	}

	var role picker.Role
	if raw := r.URL.Query().Get("role"); raw != "" {
		parsed, err := picker.ParseRole(raw)
		if err != nil {
			response.Invalid(w, r, validation.Fields("role", "must be previous or current"))
			return
		}
		role = parsed
	}

	var input models.PickerConfirm
	if err := response.DecodeJSON(w, r, &input); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}
	if err := validation.Struct(input); err != nil {
		writeValidation(w, r, err)
		return
	}

	p.JumpTo(*input.Latitude, *input.Longitude)
	params := p.Confirm()
	out := models.PickerResult{
		Route:  params.Route,
		URL:    params.URL(),
		Params: params,
	}

	if role != "" && p.Mode() == navigation.ModePick {
		city, err := h.cities.SaveRegion(r.Context(), role, p)
		if err != nil {
			h.logger.Error().Err(err).Str("role", string(role)).Msg("failed to save picked city")
			response.InternalError(w, r, "failed to save city")
			return
		}
		out.City = city
	}

	response.JSON(w, r, http.StatusOK, out)
}

func (h *PickerHandler) fromQuery(w http.ResponseWriter, r *http.Request) (*picker.Picker, bool) {
	params, err := navigation.Decode(r.URL.Query())
	if err != nil {
		response.BadRequest(w, r, err.Error(), []models.FieldError{{Field: navigation.ParamMode, Message: "must be pick or place"}})
		return nil, false
	}
	return picker.FromParams(params), true
}

func writePickerState(w http.ResponseWriter, r *http.Request, p *picker.Picker) {
	response.JSON(w, r, http.StatusOK, models.PickerState{
		Mode:     p.Mode(),
		ReturnTo: p.ReturnTo(),
		Region:   p.Region(),
	})
}
