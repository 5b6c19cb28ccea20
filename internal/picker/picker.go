// Package picker models the map viewport used to choose a city or a place and
// what happens when the user confirms it.
package picker

import (
	"context"
	"errors"
	"fmt"

	"github.com/tripvibe/tripvibe/internal/navigation"
)

// Viewport defaults.
const (
	DefaultLatitude  = 28.6139
	DefaultLongitude = 77.2090
	DefaultDelta     = 0.05
	PlaceDelta       = 0.02
	ZoomFactor       = 0.7
)

// ErrPermissionDenied is returned by a LocationSource when the user refused
// location access.
var ErrPermissionDenied = errors.New("location permission denied")

// Region is a map viewport: a center and the visible span in degrees.
type Region struct {
	Latitude       float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude      float64 `json:"longitude" validate:"gte=-180,lte=180"`
	LatitudeDelta  float64 `json:"latitudeDelta" validate:"gt=0,lte=180"`
	LongitudeDelta float64 `json:"longitudeDelta" validate:"gt=0,lte=360"`
}

// DefaultRegion is the viewport shown before the user moves the map.
func DefaultRegion() Region {
	return Region{
		Latitude:       DefaultLatitude,
		Longitude:      DefaultLongitude,
		LatitudeDelta:  DefaultDelta,
		LongitudeDelta: DefaultDelta,
	}
}

// Position is a device location fix.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationSource supplies the device position.
type LocationSource interface {
	// LastKnownPosition returns a cached fix, or nil if none is available.
	LastKnownPosition(ctx context.Context) (*Position, error)

	// CurrentPosition obtains a fresh fix.
	CurrentPosition(ctx context.Context) (*Position, error)
}

// Picker holds the viewport for one picking session.
type Picker struct {
	region   Region
	mode     navigation.Mode
	returnTo string
}

// New creates a picker in pick mode at the default region.
// An empty returnTo navigates back to the frequent-places form.
func New(returnTo string) *Picker {
	if returnTo == "" {
		returnTo = navigation.RouteFrequentPlaces
	}
	return &Picker{
		region:   DefaultRegion(),
		mode:     navigation.ModePick,
		returnTo: returnTo,
	}
}

// NewPlaceView creates a read-only picker centered on an existing place.
func NewPlaceView(lat, lng float64, returnTo string) *Picker {
	p := New(returnTo)
	p.mode = navigation.ModePlace
	p.region = Region{
		Latitude:       lat,
		Longitude:      lng,
		LatitudeDelta:  PlaceDelta,
		LongitudeDelta: PlaceDelta,
	}
	return p
}

// FromParams builds a picker from incoming navigation params. Place mode
// requires coordinates and falls back to pick mode without them.
func FromParams(p navigation.Params) *Picker {
	if p.Mode == navigation.ModePlace {
		if lat, lng, ok := p.Coordinates(); ok {
			return NewPlaceView(lat, lng, p.ReturnTo)
		}
	}
	return New(p.ReturnTo)
}

// Region returns the current viewport.
func (p *Picker) Region() Region {
	return p.region
}

// Mode returns the picker mode.
func (p *Picker) Mode() navigation.Mode {
	return p.mode
}

// ReturnTo returns the route the picker navigates to on confirm.
func (p *Picker) ReturnTo() string {
	return p.returnTo
}

// Pan replaces the viewport after a user gesture. Ignored in place mode.
func (p *Picker) Pan(r Region) {
	if p.mode == navigation.ModePlace {
		return
	}
	p.region = r
}

// JumpTo recenters on a search result, keeping the zoom level.
func (p *Picker) JumpTo(lat, lng float64) {
	if p.mode == navigation.ModePlace {
		return
	}
	p.region.Latitude = lat
	p.region.Longitude = lng
}

// ZoomIn narrows the visible span.
func (p *Picker) ZoomIn() {
	p.region.LatitudeDelta *= ZoomFactor
	p.region.LongitudeDelta *= ZoomFactor
}

// ZoomOut widens the visible span.
func (p *Picker) ZoomOut() {
	p.region.LatitudeDelta /= ZoomFactor
	p.region.LongitudeDelta /= ZoomFactor
}

// UseCurrentLocation centers on the device: first on the last known fix if
// there is one, then on a fresh fix. Permission denial leaves the region
// untouched and is not an error.
func (p *Picker) UseCurrentLocation(ctx context.Context, src LocationSource) error {
	if src == nil {
		return nil
	}

	last, err := src.LastKnownPosition(ctx)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			return nil
		}
		return fmt.Errorf("last known position: %w", err)
	}
	if last != nil {
		p.centerOn(*last)
	}

	fresh, err := src.CurrentPosition(ctx)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			return nil
		}
		return fmt.Errorf("current position: %w", err)
	}
	if fresh != nil {
		p.centerOn(*fresh)
	}
	return nil
}

func (p *Picker) centerOn(pos Position) {
	p.region = Region{
		Latitude:       pos.Latitude,
		Longitude:      pos.Longitude,
		LatitudeDelta:  DefaultDelta,
		LongitudeDelta: DefaultDelta,
	}
}

// Confirm returns the navigation back to the caller. Pick mode carries the
// chosen center as stringified coordinates; place mode carries nothing.
func (p *Picker) Confirm() navigation.Params {
	out := navigation.Params{Route: p.returnTo}
	if p.mode == navigation.ModePlace {
		return out
	}
	return out.WithCoordinates(p.region.Latitude, p.region.Longitude)
}
