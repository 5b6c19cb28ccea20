package models

import (
	"github.com/tripvibe/tripvibe/internal/navigation"
	"github.com/tripvibe/tripvibe/internal/picker"
	"github.com/tripvibe/tripvibe/internal/results"
	"github.com/tripvibe/tripvibe/internal/store"
)

// CityInput is the body of PUT /v1/profile/cities/{role}.
type CityInput = Coordinates

// Profile is everything stored for the trip.
type Profile struct {
	PreviousCity *store.CityRecord   `json:"previousCity"`
	CurrentCity  *store.CityRecord   `json:"currentCity"`
	Places       []store.PlaceRecord `json:"places"`
	Draft        *store.DraftRecord  `json:"draft"`
	CanContinue  bool                `json:"canContinue"`
}

// ReverseGeocode is the body of GET /v1/geocode/reverse.
type ReverseGeocode struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RecommendationResult is the body of POST and GET /v1/recommendations.
type RecommendationResult struct {
	results.View

	// Next is the results screen URL carrying the items, set when ready.
	Next string `json:"next,omitempty"`
}

// PickerState is the body of GET /v1/picker.
type PickerState struct {
	Mode     navigation.Mode `json:"mode"`
	ReturnTo string          `json:"returnTo"`
	Region   picker.Region   `json:"region"`
}

// PickerConfirm is the body of POST /v1/picker/confirm: the map center at
// the time the user confirmed.
type PickerConfirm struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

// PickerResult is where the client navigates after confirming. City is set
// when the confirm stored a trip city.
type PickerResult struct {
	Route  string            `json:"route"`
	URL    string            `json:"url"`
	Params navigation.Params `json:"params"`
	City   *store.CityRecord `json:"city,omitempty"`
}

// PickerAction is the body of POST /v1/picker/actions. Region is the
// viewport the client currently shows; Location carries device fixes for
// the locate action.
type PickerAction struct {
	Action   picker.Action            `json:"action" validate:"required"`
	Region   *picker.Region           `json:"region" validate:"omitempty"`
	Location *picker.ReportedLocation `json:"location"`
}
