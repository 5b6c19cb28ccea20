// Package geocode turns coordinates into human-readable city names.
package geocode

import (
	"context"
	"errors"
	"math"
)

// UnknownCity is returned whenever a city name cannot be determined.
const UnknownCity = "Unknown City"

// Geocoding errors.
var (
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
	ErrNoResults           = errors.New("no geocoding results")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
	ErrRateLimitExceeded   = errors.New("geocoding rate limit exceeded")
	ErrRequestDenied       = errors.New("geocoding request denied")
)

// Address is the structured result of a reverse geocode.
type Address struct {
	City        string
	Region      string
	Country     string
	CountryCode string
	Formatted   string
}

// Provider performs reverse geocoding against an external service.
type Provider interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (*Address, error)

	// Name returns the provider name for logging and health reporting.
	Name() string
}

// Error is a provider error with its upstream status code.
type Error struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is transient.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrProviderUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}

// ValidateCoordinates rejects values outside the WGS84 range.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
