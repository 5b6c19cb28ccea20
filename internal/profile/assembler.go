// Package profile builds the trip profile payload sent to the recommendation
// backend from whatever is currently stored.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tripvibe/tripvibe/internal/store"
)

// Defaults applied to missing profile data.
const (
	UnknownName     = "unknown"
	DefaultCategory = "restaurant"
)

// Coordinates is a lat/lng pair on the wire.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// City is a trip anchor in the payload.
type City struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}

// SourcePlace is one frequent place in the payload.
type SourcePlace struct {
	Type        string      `json:"type"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}

// Payload is the request body of a recommendation call.
type Payload struct {
	PreviousCity City          `json:"previous_city"`
	CurrentCity  City          `json:"current_city"`
	SourcePlaces []SourcePlace `json:"source_places"`
}

// Reader is the read side of the profile store.
type Reader interface {
	PreviousCity(ctx context.Context) (*store.CityRecord, error)
	CurrentCity(ctx context.Context) (*store.CityRecord, error)
	Places(ctx context.Context) ([]store.PlaceRecord, error)
}

// AssemblerConfig holds assembler dependencies.
type AssemblerConfig struct {
	Store  Reader
	Logger zerolog.Logger
}

// Assembler builds payloads.
type Assembler struct {
	store  Reader
	logger zerolog.Logger
}

// NewAssembler creates an Assembler.
func NewAssembler(cfg AssemblerConfig) *Assembler {
	return &Assembler{store: cfg.Store, logger: cfg.Logger}
}

// Assemble reads the previous city, current city, and places concurrently
// and returns a payload with every missing field defaulted. It fails only on
// storage errors. Undecodable values are treated as absent.
func (a *Assembler) Assemble(ctx context.Context) (*Payload, error) {
	var (
		previous *store.CityRecord
		current  *store.CityRecord
		places   []store.PlaceRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		previous, err = a.tolerate(store.KeyPreviousCity, func() (*store.CityRecord, error) {
			return a.store.PreviousCity(gctx)
		})
		return err
	})
	g.Go(func() error {
		var err error
		current, err = a.tolerate(store.KeyCurrentCity, func() (*store.CityRecord, error) {
			return a.store.CurrentCity(gctx)
		})
		return err
	})
	g.Go(func() error {
		list, err := a.store.Places(gctx)
		if err != nil {
			if errors.Is(err, store.ErrCorrupt) {
				a.logger.Warn().Err(err).Msg("ignoring corrupt frequent places")
				return nil
			}
			return fmt.Errorf("read %s: %w", store.KeyFrequentPlaces, err)
		}
		places = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Build(previous, current, places), nil
}

func (a *Assembler) tolerate(key string, read func() (*store.CityRecord, error)) (*store.CityRecord, error) {
	rec, err := read()
	if err != nil {
		if errors.Is(err, store.ErrCorrupt) {
			a.logger.Warn().Err(err).Str("key", key).Msg("ignoring corrupt city record")
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return rec, nil
}

// Build applies the defaulting rules to already loaded records.
func Build(previous, current *store.CityRecord, places []store.PlaceRecord) *Payload {
	p := &Payload{
		PreviousCity: city(previous),
		CurrentCity:  city(current),
		SourcePlaces: make([]SourcePlace, 0, len(places)),
	}
	for _, pl := range places {
		p.SourcePlaces = append(p.SourcePlaces, SourcePlace{
			Type:        orDefault(strings.ToLower(strings.TrimSpace(pl.Category)), DefaultCategory),
			Name:        orDefault(pl.Name, UnknownName),
			Coordinates: Coordinates{Lat: pl.Latitude, Lng: pl.Longitude},
		})
	}
	return p
}

func city(rec *store.CityRecord) City {
	if rec == nil {
		return City{Name: UnknownName}
	}
	return City{
		Name:        orDefault(rec.Name, UnknownName),
		Coordinates: Coordinates{Lat: rec.Coordinates.Lat, Lng: rec.Coordinates.Lng},
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
