package picker

import (
	"context"
	"errors"
	"fmt"
)

// Action is a viewport gesture sent by the client.
type Action string

// Picker actions.
const (
	ActionPan     Action = "pan"
	ActionZoomIn  Action = "zoomIn"
	ActionZoomOut Action = "zoomOut"
	ActionLocate  Action = "locate"
)

// ErrUnknownAction is returned by Apply for an unrecognised action.
var ErrUnknownAction = errors.New("unknown picker action")

// Apply performs one action. region is the viewport for ActionPan; src
// serves ActionLocate and may be nil.
func (p *Picker) Apply(ctx context.Context, a Action, region *Region, src LocationSource) error {
	switch a {
	case ActionPan:
		if region == nil {
			return fmt.Errorf("%s: region is required", a)
		}
		p.Pan(*region)
	case ActionZoomIn:
		p.ZoomIn()
	case ActionZoomOut:
		p.ZoomOut()
	case ActionLocate:
		return p.UseCurrentLocation(ctx, src)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a)
	}
	return nil
}

// ReportedLocation is a LocationSource over fixes the client already took.
type ReportedLocation struct {
	LastKnown        *Position `json:"lastKnown"`
	Current          *Position `json:"current"`
	PermissionDenied bool      `json:"permissionDenied"`
}

// LastKnownPosition implements LocationSource.
func (l ReportedLocation) LastKnownPosition(context.Context) (*Position, error) {
	if l.PermissionDenied {
		return nil, ErrPermissionDenied
	}
	return l.LastKnown, nil
}

// CurrentPosition implements LocationSource.
func (l ReportedLocation) CurrentPosition(context.Context) (*Position, error) {
	if l.PermissionDenied {
		return nil, ErrPermissionDenied
	}
	return l.Current, nil
}
