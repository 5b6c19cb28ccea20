// Package store provides the persistent key/value coordinate store that holds
// the trip profile between screens and sessions.
package store

import (
	"context"
	"errors"
)

// Persisted keys.
const (
	KeyPreviousCity   = "previous_city"
	KeyCurrentCity    = "current_city"
	KeyFrequentPlaces = "frequent-places"
	KeyPlacesDraft    = "frequent-places-draft"
)

// AllKeys lists every key the profile owns.
var AllKeys = []string{KeyPreviousCity, KeyCurrentCity, KeyFrequentPlaces, KeyPlacesDraft}

// Errors returned by store implementations.
var (
	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("key not found")

	// ErrCorrupt is returned when a stored value cannot be decoded.
	ErrCorrupt = errors.New("stored value is corrupt")
)

// Store is a durable string-keyed store of JSON documents.
// Implementations are safe for concurrent use. Writes are last-writer-wins
// and there is no ordering guarantee across keys.
type Store interface {
	// Get returns the raw value for key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the given keys. Absent keys are ignored.
	Remove(ctx context.Context, keys ...string) error
}

// Pinger is implemented by stores that can report backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Coordinates is a latitude/longitude pair as persisted in city records.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CityRecord is stored under previous_city and current_city.
type CityRecord struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}

// PlaceRecord is one entry of the frequent-places list.
type PlaceRecord struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DraftRecord holds the partially entered place form.
type DraftRecord struct {
	PlaceName string `json:"placeName"`
	Category  string `json:"category"`
}
