package recommend

import (
	"errors"
	"math"
)

// Weights blend the backend scores into a single display percentage.
// GeminiSimilarity is on a 0..1 scale; the other scores are on 0..100.
type Weights struct {
	Gemini     float64
	Similarity float64
	Distance   float64
	Density    float64
}

// DefaultWeights is the blend used by the results view.
var DefaultWeights = Weights{
	Gemini:     0.5,
	Similarity: 0.2,
	Distance:   0.2,
	Density:    0.1,
}

// Validate rejects negative weights, which would break monotonicity.
func (w Weights) Validate() error {
	if w.Gemini < 0 || w.Similarity < 0 || w.Distance < 0 || w.Density < 0 {
		return errors.New("similarity weights must be non-negative")
	}
	return nil
}

// Percent returns the blended similarity on 0..100, rounded to the nearest
// integer. Distance is inverted so closer places score higher.
func (w Weights) Percent(gemini, similarity, distance, density float64) int {
	blend := w.Gemini*gemini +
		w.Similarity*(similarity/100) +
		w.Distance*(1-distance/100) +
		w.Density*(density/100)

	return clampPercent(blend * 100)
}

func clampPercent(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}
