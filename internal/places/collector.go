// Package places manages the bounded list of frequently visited places and the
// entry form used to add to it.
package places

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripvibe/tripvibe/internal/store"
	"github.com/tripvibe/tripvibe/internal/validation"
)

// List bounds. Recommendations need at least MinPlaces entries.
const (
	MinPlaces = 1
	MaxPlaces = 3
)

// Categories is the fixed set a new place can be tagged with, in picker order.
var Categories = []string{"Café", "Restaurant", "Park", "Gym"}

// Collector errors.
var (
	ErrListFull      = errors.New("frequent places list is full")
	ErrPlaceNotFound = errors.New("place not found")
)

// State is the lifecycle of the entry form relative to the committed list.
type State string

const (
	// StateCommitted means there is no pending input; the list is authoritative.
	StateCommitted State = "committed"

	// StateDraft means the form holds input not yet added to the list.
	StateDraft State = "draft"
)

// Store is the persistence the collector needs.
type Store interface {
	Places(ctx context.Context) ([]store.PlaceRecord, error)
	SetPlaces(ctx context.Context, places []store.PlaceRecord) error
	Draft(ctx context.Context) (*store.DraftRecord, error)
	SetDraft(ctx context.Context, draft store.DraftRecord) error
	ClearDraft(ctx context.Context) error
}

// Config holds collector dependencies.
type Config struct {
	Store  Store
	Logger zerolog.Logger

	// Now supplies the clock used for ids (default: time.Now).
	Now func() time.Time
}

// Form is the in-progress entry.
type Form struct {
	Name      string   `json:"placeName"`
	Category  string   `json:"category"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether a point has been picked.
func (f Form) HasCoordinates() bool {
	return f.Latitude != nil && f.Longitude != nil
}

func (f Form) empty() bool {
	return f.Name == "" && f.Category == "" && !f.HasCoordinates()
}

type newPlace struct {
	Name      string   `validate:"required,max=120"`
	Category  string   `validate:"required,oneof=Café Restaurant Park Gym"`
	Latitude  *float64 `validate:"required,gte=-90,lte=90"`
	Longitude *float64 `validate:"required,gte=-180,lte=180"`
}

// Collector is the state of one editing session over the frequent-places list.
// It is not safe for concurrent use; create one per interaction.
type Collector struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time

	loaded bool
	places []store.PlaceRecord
	form   Form
	state  State
}

// NewCollector creates a collector. Call Load before reading state.
func NewCollector(cfg Config) *Collector {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Collector{
		store:  cfg.Store,
		logger: cfg.Logger,
		now:    now,
		places: []store.PlaceRecord{},
		state:  StateCommitted,
	}
}

// Load reads the committed list and restores any saved draft into empty form
// fields. A draft is restored even if it no longer matches the list.
func (c *Collector) Load(ctx context.Context) error {
	list, err := c.store.Places(ctx)
	switch {
	case errors.Is(err, store.ErrCorrupt):
		c.logger.Warn().Err(err).Msg("discarding unreadable places list")
		list = []store.PlaceRecord{}
	case err != nil:
		return fmt.Errorf("load places: %w", err)
	}
	c.places = list
	c.loaded = true

	draft, err := c.store.Draft(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to load places draft")
		return nil
	}
	if draft != nil {
		if draft.PlaceName != "" && c.form.Name == "" {
			c.form.Name = draft.PlaceName
		}
		if draft.Category != "" && c.form.Category == "" {
			c.form.Category = draft.Category
		}
		if !c.form.empty() {
			c.state = StateDraft
		}
	}
	return nil
}

// Places returns a copy of the committed list.
func (c *Collector) Places() []store.PlaceRecord {
	out := make([]store.PlaceRecord, len(c.places))
	copy(out, c.places)
	return out
}

// Form returns the current form input.
func (c *Collector) Form() Form {
	return c.form
}

// State returns the form lifecycle state.
func (c *Collector) State() State {
	return c.state
}

// SetName updates the place name input.
func (c *Collector) SetName(name string) {
	c.form.Name = name
	c.touch()
}

// SetCategory updates the category input. The value is checked on Add.
func (c *Collector) SetCategory(category string) {
	c.form.Category = category
	c.touch()
}

// CycleCategory advances to the next category, wrapping around.
func (c *Collector) CycleCategory() string {
	next := Categories[0]
	for i, cat := range Categories {
		if cat == c.form.Category {
			next = Categories[(i+1)%len(Categories)]
			break
		}
	}
	c.SetCategory(next)
	return next
}

// SetCoordinates records the point chosen on the map.
func (c *Collector) SetCoordinates(lat, lng float64) {
	c.form.Latitude = &lat
	c.form.Longitude = &lng
	c.touch()
}

func (c *Collector) touch() {
	if c.form.empty() {
		c.state = StateCommitted
		return
	}
	c.state = StateDraft
}

// SaveDraft persists the name and category before leaving for the map.
// A failure is logged and returned; callers navigating away may ignore it.
func (c *Collector) SaveDraft(ctx context.Context) (store.DraftRecord, error) {
	draft := store.DraftRecord{
		PlaceName: c.form.Name,
		Category:  c.form.Category,
	}
	if err := c.store.SetDraft(ctx, draft); err != nil {
		c.logger.Warn().Err(err).Msg("failed to save places draft")
		return draft, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

// HasRoom reports whether another place fits in the list.
func (c *Collector) HasRoom() bool {
	return len(c.places) < MaxPlaces
}

// CanAdd reports whether the form is complete and the list has room.
func (c *Collector) CanAdd() bool {
	return strings.TrimSpace(c.form.Name) != "" &&
		c.form.Category != "" &&
		c.form.HasCoordinates() &&
		c.HasRoom()
}

// CanContinue reports whether enough places were added to ask for
// recommendations.
func (c *Collector) CanContinue() bool {
	return len(c.places) >= MinPlaces
}

// Add commits the form as a new place, persists the whole list, and clears
// the form and the saved draft. On rejection nothing changes.
func (c *Collector) Add(ctx context.Context) (*store.PlaceRecord, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	if !c.HasRoom() {
		return nil, ErrListFull
	}

	input := newPlace{
		Name:      strings.TrimSpace(c.form.Name),
		Category:  c.form.Category,
		Latitude:  c.form.Latitude,
		Longitude: c.form.Longitude,
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	place := store.PlaceRecord{
		ID:        c.nextID(),
		Name:      input.Name,
		Category:  input.Category,
		Latitude:  *input.Latitude,
		Longitude: *input.Longitude,
	}

	next := append(c.Places(), place)
	if err := c.store.SetPlaces(ctx, next); err != nil {
		return nil, fmt.Errorf("save places: %w", err)
	}
	c.places = next

	c.form = Form{}
	c.state = StateCommitted
	if err := c.store.ClearDraft(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("failed to clear places draft")
	}

	c.logger.Info().
		Str("place_id", place.ID).
		Str("category", place.Category).
		Int("count", len(c.places)).
		Msg("place added")

	return &place, nil
}

// Remove deletes the place with id and persists the list.
func (c *Collector) Remove(ctx context.Context, id string) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}

	next := make([]store.PlaceRecord, 0, len(c.places))
	for _, p := range c.places {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(c.places) {
		return ErrPlaceNotFound
	}

	if err := c.store.SetPlaces(ctx, next); err != nil {
		return fmt.Errorf("save places: %w", err)
	}
	c.places = next
	return nil
}

func (c *Collector) ensureLoaded(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	return c.Load(ctx)
}

// nextID derives an id from the clock in milliseconds, bumping it until it
// is unique within the list.
func (c *Collector) nextID() string {
	taken := make(map[string]struct{}, len(c.places))
	for _, p := range c.places {
		taken[p.ID] = struct{}{}
	}
	ms := c.now().UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if _, ok := taken[id]; !ok {
			return id
		}
		ms++
	}
}
