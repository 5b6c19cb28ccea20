// Package results turns a recommendation outcome into the state shown on
// the results screen.
package results

import (
	"errors"

	"github.com/tripvibe/tripvibe/internal/navigation"
	"github.com/tripvibe/tripvibe/internal/recommend"
)

// State of the results screen.
type State string

const (
	StateReady  State = "ready"
	StateEmpty  State = "empty"
	StateFailed State = "failed"
)

// User-facing messages.
const (
	MessageEmpty         = "No recommendations yet"
	MessageLoadFailed    = "Failed to load recommendations. Please try again."
	MessageServerFailed  = "Failed to fetch recommendations from server."
	MessageConnectFailed = "Could not connect to the backend."
	MessageNeedPlaces    = "Add at least one frequent place first."
)

// View is what the results screen renders.
type View struct {
	State   State                      `json:"state"`
	Items   []recommend.Recommendation `json:"items"`
	Message string                     `json:"message,omitempty"`
}

// FromOutcome maps the result of a recommendation call to a view.
func FromOutcome(recs []recommend.Recommendation, err error) View {
	var httpErr *recommend.HTTPError

	switch {
	case err == nil && len(recs) > 0:
		return View{State: StateReady, Items: recs}
	case err == nil, errors.Is(err, recommend.ErrNoResults):
		return empty()
	case errors.Is(err, recommend.ErrProfileIncomplete):
		return failed(MessageNeedPlaces)
	case errors.As(err, &httpErr):
		return failed(MessageServerFailed)
	case errors.Is(err, recommend.ErrBackendUnavailable):
		return failed(MessageConnectFailed)
	default:
		return failed(MessageLoadFailed)
	}
}

// FromParams rebuilds the view from the results navigation parameter.
// An undecodable parameter yields the generic failure.
func FromParams(p navigation.Params) View {
	var recs []recommend.Recommendation
	if err := navigation.DecodeResults(p.Results, &recs); err != nil {
		return failed(MessageLoadFailed)
	}
	if len(recs) == 0 {
		return empty()
	}
	return View{State: StateReady, Items: recs}
}

// Params encodes a ready view for navigation to the results screen.
func (v View) Params() (navigation.Params, error) {
	items := v.Items
	if items == nil {
		items = []recommend.Recommendation{}
	}
	encoded, err := navigation.EncodeResults(items)
	if err != nil {
		return navigation.Params{}, err
	}
	return navigation.Params{Route: navigation.RouteRecommendations, Results: encoded}, nil
}

func empty() View {
	return View{State: StateEmpty, Items: []recommend.Recommendation{}, Message: MessageEmpty}
}

func failed(msg string) View {
	return View{State: StateFailed, Items: []recommend.Recommendation{}, Message: msg}
}
