package geocode

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

// ResolverConfig holds configuration for the city resolver.
type ResolverConfig struct {
	// Provider performs the lookup. A nil provider resolves everything to UnknownCity.
	Provider Provider

	// Logger for resolver operations.
	Logger zerolog.Logger

	// CacheTTL is how long resolved names are kept (default: 24 hours).
	CacheTTL time.Duration

	// Precision is the number of decimals coordinates are rounded to for the
	// cache key (default: 3, roughly 100m).
	Precision int
}

// Resolver maps coordinates to a city name and never fails.
type Resolver struct {
	provider  Provider
	logger    zerolog.Logger
	cache     *cache.Cache
	precision int
}

// NewResolver creates a new city resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	precision := cfg.Precision
	if precision <= 0 {
		precision = 3
	}

	return &Resolver{
		provider:  cfg.Provider,
		logger:    cfg.Logger,
		cache:     cache.New(ttl, 2*ttl),
		precision: precision,
	}
}

// Resolve returns the city containing the point, or UnknownCity if the
// provider errors, returns nothing, or returns an empty city.
func (r *Resolver) Resolve(ctx context.Context, lat, lng float64) string {
	if err := ValidateCoordinates(lat, lng); err != nil {
		return UnknownCity
	}
	if r.provider == nil {
		return UnknownCity
	}

	key := r.cacheKey(lat, lng)
	if name, ok := r.cache.Get(key); ok {
		return name.(string)
	}

	addr, err := r.provider.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("provider", r.provider.Name()).
			Float64("lat", lat).
			Float64("lng", lng).
			Msg("reverse geocode failed")
		return UnknownCity
	}
	if addr == nil || strings.TrimSpace(addr.City) == "" {
		return UnknownCity
	}

	name := strings.TrimSpace(addr.City)
	r.cache.SetDefault(key, name)
	return name
}

// CacheSize returns the number of cached names.
func (r *Resolver) CacheSize() int {
	return r.cache.ItemCount()
}

func (r *Resolver) cacheKey(lat, lng float64) string {
	scale := math.Pow(10, float64(r.precision))
	return fmt.Sprintf("%.*f,%.*f",
		r.precision, math.Round(lat*scale)/scale,
		r.precision, math.Round(lng*scale)/scale)
}
