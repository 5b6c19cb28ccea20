package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripvibe/tripvibe/internal/store"
)

func TestProfileStore_AbsentKeys(t *testing.T) {
	ctx := context.Background()
	p := store.NewProfileStore(store.NewInMemoryStore())

	city, err := p.PreviousCity(ctx)
	require.NoError(t, err)
	assert.Nil(t, city)

	places, err := p.Places(ctx)
	require.NoError(t, err)
	assert.NotNil(t, places)
	assert.Empty(t, places)

	draft, err := p.Draft(ctx)
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestProfileStore_CityRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := store.NewInMemoryStore()
	p := store.NewProfileStore(backend)

	want := store.CityRecord{Name: "Mumbai", Coordinates: store.Coordinates{Lat: 19.076, Lng: 72.8777}}
	require.NoError(t, p.SetCurrentCity(ctx, want))

	raw, err := backend.Get(ctx, store.KeyCurrentCity)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Mumbai","coordinates":{"lat":19.076,"lng":72.8777}}`, string(raw))

	got, err := p.CurrentCity(ctx)
	require.NoError(t, err)
	assert.Equal(t, &want, got)
}

func TestProfileStore_PlacesRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := store.NewInMemoryStore()
	p := store.NewProfileStore(backend)

	want := []store.PlaceRecord{
		{ID: "1700000000000", Name: "Blue Tokai", Category: "Café", Latitude: 28.55, Longitude: 77.25},
		{ID: "1700000000001", Name: "Lodhi Garden", Category: "Park", Latitude: 28.59, Longitude: 77.22},
	}
	require.NoError(t, p.SetPlaces(ctx, want))

	raw, err := backend.Get(ctx, store.KeyFrequentPlaces)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"latitude":28.55`)

	got, err := p.Places(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestProfileStore_DraftLifecycle(t *testing.T) {
	ctx := context.Background()
	backend := store.NewInMemoryStore()
	p := store.NewProfileStore(backend)

	require.NoError(t, p.SetDraft(ctx, store.DraftRecord{PlaceName: "Gym X", Category: "Gym"}))

	raw, err := backend.Get(ctx, store.KeyPlacesDraft)
	require.NoError(t, err)
	assert.JSONEq(t, `{"placeName":"Gym X","category":"Gym"}`, string(raw))

	require.NoError(t, p.ClearDraft(ctx))
	draft, err := p.Draft(ctx)
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestProfileStore_ClearPlacesAndReset(t *testing.T) {
	ctx := context.Background()
	backend := store.NewInMemoryStore()
	p := store.NewProfileStore(backend)

	require.NoError(t, p.SetPreviousCity(ctx, store.CityRecord{Name: "A"}))
	require.NoError(t, p.SetCurrentCity(ctx, store.CityRecord{Name: "B"}))
	require.NoError(t, p.SetPlaces(ctx, []store.PlaceRecord{{ID: "1"}}))
	require.NoError(t, p.SetDraft(ctx, store.DraftRecord{PlaceName: "x"}))

	require.NoError(t, p.ClearPlaces(ctx))
	assert.Equal(t, 2, backend.Len())

	require.NoError(t, p.Reset(ctx))
	assert.Equal(t, 0, backend.Len())
}

func TestProfileStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	backend := store.NewInMemoryStore()
	p := store.NewProfileStore(backend)

	require.NoError(t, backend.Set(ctx, store.KeyCurrentCity, []byte(`{not json`)))

	_, err := p.CurrentCity(ctx)
	assert.ErrorIs(t, err, store.ErrCorrupt)
}

func TestProfileStore_NullTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()
	backend := store.NewInMemoryStore()
	p := store.NewProfileStore(backend)

	require.NoError(t, backend.Set(ctx, store.KeyFrequentPlaces, []byte(`null`)))

	places, err := p.Places(ctx)
	require.NoError(t, err)
	assert.Empty(t, places)
}

type failingStore struct{ store.Store }

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk unavailable")
}

func TestProfileStore_BackendError(t *testing.T) {
	p := store.NewProfileStore(failingStore{store.NewInMemoryStore()})

	_, err := p.Places(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk unavailable")
	assert.NoError(t, p.Ping(context.Background()), "embedded store is not a Pinger through the wrapper")
}
