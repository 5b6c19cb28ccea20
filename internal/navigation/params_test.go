package navigation_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripvibe/tripvibe/internal/navigation"
)

func TestParams_EncodeDecode(t *testing.T) {
	p := navigation.Params{
		Route:    navigation.RoutePicker,
		Mode:     navigation.ModePick,
		ReturnTo: navigation.RouteFrequentPlaces,
	}.WithCoordinates(12.9716, 77.5946)

	v := p.Encode()
	assert.Equal(t, "12.9716", v.Get("latitude"))
	assert.Equal(t, "77.5946", v.Get("longitude"))
	assert.Equal(t, "pick", v.Get("mode"))
	assert.Empty(t, v.Get("results"), "empty params are omitted")

	decoded, err := navigation.Decode(v)
	require.NoError(t, err)
	lat, lng, ok := decoded.Coordinates()
	require.True(t, ok)
	assert.InDelta(t, 12.9716, lat, 1e-12)
	assert.InDelta(t, 77.5946, lng, 1e-12)
	assert.Equal(t, navigation.RouteFrequentPlaces, decoded.ReturnTo)
}

func TestParams_URL(t *testing.T) {
	assert.Equal(t, "/frequent-places", navigation.Params{Route: "/frequent-places"}.URL())

	u := navigation.Params{Route: "/frequent-places", Latitude: "1", Longitude: "2"}.URL()
	assert.Equal(t, "/frequent-places?latitude=1&longitude=2", u)
}

func TestDecode_InvalidMode(t *testing.T) {
	_, err := navigation.Decode(url.Values{"mode": {"edit"}})
	assert.ErrorIs(t, err, navigation.ErrInvalidMode)
}

func TestParams_Coordinates(t *testing.T) {
	tests := []struct {
		name   string
		lat    string
		lng    string
		wantOK bool
	}{
		{"both present", "28.6", "77.2", true},
		{"negative", "-33.86", "151.2", true},
		{"missing latitude", "", "77.2", false},
		{"missing longitude", "28.6", "", false},
		{"not a number", "north", "77.2", false},
		{"NaN", "NaN", "77.2", false},
		{"infinite", "28.6", "Inf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ok := navigation.Params{Latitude: tt.lat, Longitude: tt.lng}.Coordinates()
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestResultsRoundTrip(t *testing.T) {
	type item struct {
		Name string `json:"name"`
	}

	s, err := navigation.EncodeResults([]item{{Name: "Cafe X"}})
	require.NoError(t, err)

	var got []item
	require.NoError(t, navigation.DecodeResults(s, &got))
	assert.Equal(t, []item{{Name: "Cafe X"}}, got)

	assert.Error(t, navigation.DecodeResults("", &got))
	assert.Error(t, navigation.DecodeResults("{broken", &got))
}
