// Package navigation defines the parameters passed between the picker, the
// frequent-places form, and the results view.
package navigation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Mode distinguishes picking a new point from viewing an existing one.
type Mode string

// Picker modes.
const (
	ModePick  Mode = "pick"
	ModePlace Mode = "place"
)

// Routes used as navigation targets.
const (
	RouteFrequentPlaces  = "/frequent-places"
	RouteTargetCity      = "/TargetCity"
	RouteRecommendations = "/recommendations"
	RoutePicker          = "/"
)

// Parameter names.
const (
	ParamMode      = "mode"
	ParamReturnTo  = "returnTo"
	ParamLatitude  = "latitude"
	ParamLongitude = "longitude"
	ParamResults   = "results"
)

// ErrInvalidMode is returned when the mode parameter is not pick or place.
var ErrInvalidMode = errors.New("invalid navigation mode")

// Params is the set of values carried by one navigation.
// Coordinates travel as stringified numbers.
type Params struct {
	Route     string `json:"route,omitempty"`
	Mode      Mode   `json:"mode,omitempty"`
	ReturnTo  string `json:"returnTo,omitempty"`
	Latitude  string `json:"latitude,omitempty"`
	Longitude string `json:"longitude,omitempty"`
	Results   string `json:"results,omitempty"`
}

// Encode renders non-empty params as query values.
func (p Params) Encode() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set(ParamMode, string(p.Mode))
	set(ParamReturnTo, p.ReturnTo)
	set(ParamLatitude, p.Latitude)
	set(ParamLongitude, p.Longitude)
	set(ParamResults, p.Results)
	return v
}

// URL returns Route with the encoded params appended.
func (p Params) URL() string {
	q := p.Encode().Encode()
	if q == "" {
		return p.Route
	}
	return p.Route + "?" + q
}

// Decode reads params from query values. An unknown mode is an error; a
// missing mode is left empty.
func Decode(v url.Values) (Params, error) {
	p := Params{
		Mode:      Mode(v.Get(ParamMode)),
		ReturnTo:  v.Get(ParamReturnTo),
		Latitude:  v.Get(ParamLatitude),
		Longitude: v.Get(ParamLongitude),
		Results:   v.Get(ParamResults),
	}
	switch p.Mode {
	case "", ModePick, ModePlace:
	default:
		return Params{}, fmt.Errorf("%w: %q", ErrInvalidMode, p.Mode)
	}
	return p, nil
}

// WithCoordinates returns a copy carrying lat/lng as strings.
func (p Params) WithCoordinates(lat, lng float64) Params {
	p.Latitude = FormatCoordinate(lat)
	p.Longitude = FormatCoordinate(lng)
	return p
}

// Coordinates parses the latitude/longitude pair. ok is false when either
// part is missing or not a finite number.
func (p Params) Coordinates() (lat, lng float64, ok bool) {
	lat, errLat := parseCoordinate(p.Latitude)
	lng, errLng := parseCoordinate(p.Longitude)
	if errLat != nil || errLng != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// FormatCoordinate renders a coordinate with the shortest exact representation.
func FormatCoordinate(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseCoordinate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty coordinate")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("non-finite coordinate")
	}
	return f, nil
}

// EncodeResults serializes v for the results parameter.
func EncodeResults(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode results: %w", err)
	}
	return string(raw), nil
}

// DecodeResults parses the results parameter into dst.
func DecodeResults(s string, dst any) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("decode results: empty payload")
	}
	if err := json.Unmarshal([]byte(s), dst); err != nil {
		return fmt.Errorf("decode results: %w", err)
	}
	return nil
}
