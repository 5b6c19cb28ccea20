package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ProfileStore gives typed access to the trip profile keys on top of a Store.
// Absent keys are reported as nil records, never as errors.
type ProfileStore struct {
	store Store
}

// NewProfileStore wraps s.
func NewProfileStore(s Store) *ProfileStore {
	return &ProfileStore{store: s}
}

// Backend returns the underlying store.
func (p *ProfileStore) Backend() Store {
	return p.store
}

// PreviousCity returns the origin city, or nil if none was picked.
func (p *ProfileStore) PreviousCity(ctx context.Context) (*CityRecord, error) {
	return p.city(ctx, KeyPreviousCity)
}

// SetPreviousCity overwrites the origin city.
func (p *ProfileStore) SetPreviousCity(ctx context.Context, city CityRecord) error {
	return p.put(ctx, KeyPreviousCity, city)
}

// CurrentCity returns the destination city, or nil if none was picked.
func (p *ProfileStore) CurrentCity(ctx context.Context) (*CityRecord, error) {
	return p.city(ctx, KeyCurrentCity)
}

// SetCurrentCity overwrites the destination city.
func (p *ProfileStore) SetCurrentCity(ctx context.Context, city CityRecord) error {
	return p.put(ctx, KeyCurrentCity, city)
}

// Places returns the committed frequent places in insertion order.
// The result is never nil.
func (p *ProfileStore) Places(ctx context.Context) ([]PlaceRecord, error) {
	places := []PlaceRecord{}
	found, err := p.load(ctx, KeyFrequentPlaces, &places)
	if err != nil || !found || places == nil {
		return []PlaceRecord{}, err
	}
	return places, nil
}

// SetPlaces overwrites the whole frequent-places list.
func (p *ProfileStore) SetPlaces(ctx context.Context, places []PlaceRecord) error {
	if places == nil {
		places = []PlaceRecord{}
	}
	return p.put(ctx, KeyFrequentPlaces, places)
}

// Draft returns the saved form draft, or nil if there is none.
func (p *ProfileStore) Draft(ctx context.Context) (*DraftRecord, error) {
	var d DraftRecord
	found, err := p.load(ctx, KeyPlacesDraft, &d)
	if err != nil || !found {
		return nil, err
	}
	return &d, nil
}

// SetDraft overwrites the form draft.
func (p *ProfileStore) SetDraft(ctx context.Context, draft DraftRecord) error {
	return p.put(ctx, KeyPlacesDraft, draft)
}

// ClearDraft removes the form draft.
func (p *ProfileStore) ClearDraft(ctx context.Context) error {
	return p.store.Remove(ctx, KeyPlacesDraft)
}

// ClearPlaces removes the committed list and the draft together.
func (p *ProfileStore) ClearPlaces(ctx context.Context) error {
	return p.store.Remove(ctx, KeyFrequentPlaces, KeyPlacesDraft)
}

// Reset removes every profile key.
func (p *ProfileStore) Reset(ctx context.Context) error {
	return p.store.Remove(ctx, AllKeys...)
}

// Ping reports backend reachability when the store supports it.
func (p *ProfileStore) Ping(ctx context.Context) error {
	if pinger, ok := p.store.(Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

func (p *ProfileStore) city(ctx context.Context, key string) (*CityRecord, error) {
	var c CityRecord
	found, err := p.load(ctx, key, &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

func (p *ProfileStore) load(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := p.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

func (p *ProfileStore) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return p.store.Set(ctx, key, raw)
}
