package geocode_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/tripvibe/tripvibe/internal/geocode"
)

type fakeProvider struct {
	addr  *geocode.Address
	err   error
	calls atomic.Int32
}

func (f *fakeProvider) ReverseGeocode(context.Context, float64, float64) (*geocode.Address, error) {
	f.calls.Add(1)
	return f.addr, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
		want     string
	}{
		{"city found", &fakeProvider{addr: &geocode.Address{City: "Jaipur"}}, "Jaipur"},
		{"city trimmed", &fakeProvider{addr: &geocode.Address{City: "  Pune "}}, "Pune"},
		{"empty city", &fakeProvider{addr: &geocode.Address{City: ""}}, geocode.UnknownCity},
		{"nil address", &fakeProvider{}, geocode.UnknownCity},
		{"provider error", &fakeProvider{err: geocode.ErrProviderUnavailable}, geocode.UnknownCity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := geocode.NewResolver(geocode.ResolverConfig{Provider: tt.provider, Logger: zerolog.Nop()})
			assert.Equal(t, tt.want, r.Resolve(context.Background(), 26.9124, 75.7873))
		})
	}
}

func TestResolver_CachesNamesButNotSentinel(t *testing.T) {
	ok := &fakeProvider{addr: &geocode.Address{City: "Jaipur"}}
	r := geocode.NewResolver(geocode.ResolverConfig{Provider: ok})

	assert.Equal(t, "Jaipur", r.Resolve(context.Background(), 26.91241, 75.78731))
	assert.Equal(t, "Jaipur", r.Resolve(context.Background(), 26.91239, 75.78729), "same rounded cell")
	assert.Equal(t, int32(1), ok.calls.Load())
	assert.Equal(t, 1, r.CacheSize())

	failing := &fakeProvider{err: geocode.ErrNoResults}
	r = geocode.NewResolver(geocode.ResolverConfig{Provider: failing})

	r.Resolve(context.Background(), 1, 1)
	r.Resolve(context.Background(), 1, 1)
	assert.Equal(t, int32(2), failing.calls.Load())
	assert.Equal(t, 0, r.CacheSize())
}

func TestResolver_InvalidCoordinatesOrNoProvider(t *testing.T) {
	p := &fakeProvider{addr: &geocode.Address{City: "X"}}
	r := geocode.NewResolver(geocode.ResolverConfig{Provider: p})

	assert.Equal(t, geocode.UnknownCity, r.Resolve(context.Background(), 120, 0))
	assert.Equal(t, int32(0), p.calls.Load())

	bare := geocode.NewResolver(geocode.ResolverConfig{})
	assert.Equal(t, geocode.UnknownCity, bare.Resolve(context.Background(), 10, 10))
}

func TestError(t *testing.T) {
	err := &geocode.Error{Provider: "fake", Message: "boom", Err: geocode.ErrRateLimitExceeded}

	assert.Equal(t, "boom: geocoding rate limit exceeded", err.Error())
	assert.ErrorIs(t, err, geocode.ErrRateLimitExceeded)
	assert.True(t, err.IsRetryable())
	assert.False(t, (&geocode.Error{Message: "x", Err: geocode.ErrRequestDenied}).IsRetryable())
}
