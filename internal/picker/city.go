package picker

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tripvibe/tripvibe/internal/store"
)

// Role selects which trip anchor a confirmed city becomes.
type Role string

// City roles.
const (
	RolePrevious Role = "previous"
	RoleCurrent  Role = "current"
)

// ErrInvalidRole is returned for a role other than previous or current.
var ErrInvalidRole = errors.New("invalid city role")

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePrevious, RoleCurrent:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// CityResolver names the city at a point. It never fails.
type CityResolver interface {
	Resolve(ctx context.Context, lat, lng float64) string
}

// CityStore persists trip anchor cities.
type CityStore interface {
	SetPreviousCity(ctx context.Context, city store.CityRecord) error
	SetCurrentCity(ctx context.Context, city store.CityRecord) error
}

// CitySaverConfig holds dependencies for CitySaver.
type CitySaverConfig struct {
	Resolver CityResolver
	Store    CityStore
	Logger   zerolog.Logger
}

// CitySaver turns a confirmed map center into a stored City Record.
type CitySaver struct {
	resolver CityResolver
	store    CityStore
	logger   zerolog.Logger
}

// NewCitySaver creates a CitySaver.
func NewCitySaver(cfg CitySaverConfig) *CitySaver {
	return &CitySaver{
		resolver: cfg.Resolver,
		store:    cfg.Store,
		logger:   cfg.Logger,
	}
}

// Save resolves the city name at lat/lng and overwrites the record for role.
// Geocoding never fails the call; storage errors are returned.
func (s *CitySaver) Save(ctx context.Context, role Role, lat, lng float64) (*store.CityRecord, error) {
	record := store.CityRecord{
		Name:        s.resolver.Resolve(ctx, lat, lng),
		Coordinates: store.Coordinates{Lat: lat, Lng: lng},
	}

	var err error
	switch role {
	case RolePrevious:
		err = s.store.SetPreviousCity(ctx, record)
	case RoleCurrent:
		err = s.store.SetCurrentCity(ctx, record)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if err != nil {
		return nil, fmt.Errorf("save %s city: %w", role, err)
	}

	s.logger.Info().
		Str("role", string(role)).
		Str("city", record.Name).
		Msg("city saved")

	return &record, nil
}

// SaveRegion saves the center of the picker's current region.
func (s *CitySaver) SaveRegion(ctx context.Context, role Role, p *Picker) (*store.CityRecord, error) {
	r := p.Region()
	return s.Save(ctx, role, r.Latitude, r.Longitude)
}
