// Package recommend fetches recommendations for the stored trip profile and
// normalizes them into a flat list.
package recommend

import (
	"errors"
	"fmt"
)

// Recommendation errors.
var (
	// ErrNoResults means the backend answered but suggested nothing.
	ErrNoResults = errors.New("no recommendations")

	// ErrMalformedResponse means the response body was not valid JSON of the expected shape.
	ErrMalformedResponse = errors.New("malformed recommendation response")

	// ErrBackendUnavailable means the backend could not be reached.
	ErrBackendUnavailable = errors.New("recommendation backend unavailable")

	// ErrProfileIncomplete means too few frequent places were collected to
	// submit. Nothing is sent.
	ErrProfileIncomplete = errors.New("trip profile has too few frequent places")
)

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// Recommendation is one normalized suggestion.
type Recommendation struct {
	Name              string   `json:"name"`
	Rating            float64  `json:"rating"`
	Address           string   `json:"address"`
	DrivingDistanceKm float64  `json:"drivingDistanceKm"`
	GeminiSimilarity  float64  `json:"geminiSimilarity"`
	SimilarityScore   float64  `json:"similarity_score"`
	DistanceScore     float64  `json:"distance_score"`
	DensityScore      float64  `json:"density_score"`
	Pros              []string `json:"pros"`
	Cons              []string `json:"cons"`
	Reasoning         string   `json:"reasoning"`
	Latitude          float64  `json:"latitude"`
	Longitude         float64  `json:"longitude"`
	SimilarityPercent int      `json:"similarityPercent"`
}

// Response is the raw backend response. Every field is optional.
type Response struct {
	Success *bool        `json:"success,omitempty"`
	Results []ResultItem `json:"results"`
}

// ResultItem is either a group of places near the current city or, in the
// older flat shape, a single place.
type ResultItem struct {
	RecommendedPlaces []PlaceItem `json:"recommended_places_near_current_city"`

	Name       *string  `json:"name"`
	DistanceKm *float64 `json:"distanceKm"`
	UserRating *float64 `json:"userRating"`
	Score      *float64 `json:"score"`
	Pros       []string `json:"pros"`
	Cons       []string `json:"cons"`
}

// PlaceItem is one place inside a result group.
type PlaceItem struct {
	Name              *string          `json:"name"`
	Rating            *float64         `json:"rating"`
	Address           *string          `json:"address"`
	DrivingDistanceKm *float64         `json:"driving_distance_from_current_city_km"`
	Coordinates       *CoordinatesItem `json:"coordinates"`
	Similarity        *SimilarityItem  `json:"similarity"`
	Pros              []string         `json:"pros"`
	Cons              []string         `json:"cons"`
}

// CoordinatesItem is a lat/lng pair in the response.
type CoordinatesItem struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// SimilarityItem holds the backend scores for a place.
type SimilarityItem struct {
	GeminiSimilarity *float64 `json:"gemini_similarity"`
	SimilarityScore  *float64 `json:"similarity_score"`
	DistanceScore    *float64 `json:"distance_score"`
	DensityScore     *float64 `json:"density_score"`
	Reasoning        *string  `json:"reasoning"`
	Pros             []string `json:"pros"`
	Cons             []string `json:"cons"`
}
