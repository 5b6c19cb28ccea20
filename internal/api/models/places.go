package models

import (
	"github.com/tripvibe/tripvibe/internal/places"
	"github.com/tripvibe/tripvibe/internal/store"
)

// PlaceInput is the body of POST /v1/places.
type PlaceInput struct {
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// DraftInput is the body of PUT /v1/places/draft.
type DraftInput struct {
	PlaceName string `json:"placeName" validate:"max=200"`
	Category  string `json:"category" validate:"omitempty,oneof=Café Restaurant Park Gym"`
}

// PlaceList is the body of GET /v1/places.
type PlaceList struct {
	Places    []store.PlaceRecord `json:"places"`
	Form      places.Form         `json:"form"`
	MaxPlaces int                 `json:"maxPlaces"`
	HasRoom   bool                `json:"hasRoom"`

	// CanAdd is true when the form is complete and the list has room.
	CanAdd      bool `json:"canAdd"`
	CanContinue bool `json:"canContinue"`
}
