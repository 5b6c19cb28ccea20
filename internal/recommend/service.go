package recommend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tripvibe/tripvibe/internal/places"
	"github.com/tripvibe/tripvibe/internal/profile"
)

// Assembler builds the request payload from stored profile data.
type Assembler interface {
	Assemble(ctx context.Context) (*profile.Payload, error)
}

// Fetcher calls the recommendation backend.
type Fetcher interface {
	FetchRecommendations(ctx context.Context, payload *profile.Payload) (*Response, error)
}

// PlacesClearer removes the collected places and their draft.
type PlacesClearer interface {
	ClearPlaces(ctx context.Context) error
}

// ServiceConfig holds service dependencies.
type ServiceConfig struct {
	Assembler Assembler
	Fetcher   Fetcher

	// Weights for the similarity percentage. Zero value uses DefaultWeights.
	Weights Weights

	// Clearer, when set, removes the collected places after the backend
	// accepted a request.
	Clearer PlacesClearer

	Logger zerolog.Logger
}

// Service runs one recommendation round trip.
type Service struct {
	assembler Assembler
	fetcher   Fetcher
	weights   Weights
	clearer   PlacesClearer
	logger    zerolog.Logger
}

// NewService creates a Service.
func NewService(cfg ServiceConfig) *Service {
	w := cfg.Weights
	if w == (Weights{}) {
		w = DefaultWeights
	}
	return &Service{
		assembler: cfg.Assembler,
		fetcher:   cfg.Fetcher,
		weights:   w,
		clearer:   cfg.Clearer,
		logger:    cfg.Logger,
	}
}

// Weights returns the weights in use.
func (s *Service) Weights() Weights {
	return s.weights
}

// Recommend assembles the payload, calls the backend once, and returns the
// flattened recommendations. A profile with fewer than places.MinPlaces
// source places is refused with ErrProfileIncomplete before any request.
// It returns ErrNoResults when the backend answered with nothing to show.
func (s *Service) Recommend(ctx context.Context) ([]Recommendation, error) {
	payload, err := s.assembler.Assemble(ctx)
	if err != nil {
		return nil, fmt.Errorf("assembling profile: %w", err)
	}
	if payload == nil {
		return nil, ErrProfileIncomplete
	}
	if n := len(payload.SourcePlaces); n < places.MinPlaces {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrProfileIncomplete, n, places.MinPlaces)
	}

	resp, err := s.fetcher.FetchRecommendations(ctx, payload)
	if err != nil {
		return nil, err
	}

	if s.clearer != nil {
		if err := s.clearer.ClearPlaces(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to clear frequent places after submit")
		}
	}

	recs := Normalize(resp, s.weights)
	if len(recs) == 0 {
		return nil, ErrNoResults
	}

	s.logger.Info().
		Int("count", len(recs)).
		Str("current_city", payload.CurrentCity.Name).
		Msg("recommendations fetched")

	return recs, nil
}
