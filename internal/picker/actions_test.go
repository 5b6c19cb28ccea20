package picker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripvibe/tripvibe/internal/picker"
)

func TestPicker_Apply(t *testing.T) {
	ctx := context.Background()
	p := picker.New("")

	goa := picker.Region{Latitude: 15.49, Longitude: 73.82, LatitudeDelta: 0.1, LongitudeDelta: 0.1}
	require.NoError(t, p.Apply(ctx, picker.ActionPan, &goa, nil))
	assert.Equal(t, goa, p.Region())

	require.NoError(t, p.Apply(ctx, picker.ActionZoomIn, nil, nil))
	assert.InDelta(t, 0.07, p.Region().LatitudeDelta, 1e-9)

	require.NoError(t, p.Apply(ctx, picker.ActionZoomOut, nil, nil))
	assert.InDelta(t, 0.1, p.Region().LongitudeDelta, 1e-9)

	assert.Error(t, p.Apply(ctx, picker.ActionPan, nil, nil))
	assert.ErrorIs(t, p.Apply(ctx, "rotate", nil, nil), picker.ErrUnknownAction)
}

func TestPicker_ApplyLocate(t *testing.T) {
	ctx := context.Background()

	p := picker.New("")
	src := picker.ReportedLocation{
		LastKnown: &picker.Position{Latitude: 12.97, Longitude: 77.59},
		Current:   &picker.Position{Latitude: 12.98, Longitude: 77.6},
	}
	require.NoError(t, p.Apply(ctx, picker.ActionLocate, nil, src))
	assert.Equal(t, 12.98, p.Region().Latitude)
	assert.Equal(t, picker.DefaultDelta, p.Region().LatitudeDelta)

	p = picker.New("")
	require.NoError(t, p.Apply(ctx, picker.ActionLocate, nil, picker.ReportedLocation{
		LastKnown:        &picker.Position{Latitude: 1, Longitude: 1},
		PermissionDenied: true,
	}))
	assert.Equal(t, picker.DefaultRegion(), p.Region(), "denied leaves the viewport alone")

	p = picker.New("")
	require.NoError(t, p.Apply(ctx, picker.ActionLocate, nil, picker.ReportedLocation{
		LastKnown: &picker.Position{Latitude: 19.07, Longitude: 72.87},
	}))
	assert.Equal(t, 19.07, p.Region().Latitude, "last known fix is kept without a fresh one")
}
