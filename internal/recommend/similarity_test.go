package recommend_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripvibe/tripvibe/internal/recommend"
)

func TestWeights_Percent(t *testing.T) {
	tests := []struct {
		name                           string
		gemini, sim, distance, density float64
		want                           int
	}{
		{"typical", 0.8, 70, 20, 50, 75},
		{"all zero keeps distance credit", 0, 0, 0, 0, 20},
		{"perfect", 1, 100, 0, 100, 100},
		{"clamped high", 5, 100, 0, 100, 100},
		{"clamped low", -3, 0, 100, 0, 0},
		{"far away", 0, 0, 300, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recommend.DefaultWeights.Percent(tt.gemini, tt.sim, tt.distance, tt.density)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeights_PercentIsMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	w := recommend.DefaultWeights

	for i := 0; i < 500; i++ {
		g, s, d, n := rng.Float64(), rng.Float64()*100, rng.Float64()*100, rng.Float64()*100
		base := w.Percent(g, s, d, n)

		assert.GreaterOrEqual(t, w.Percent(g+0.1, s, d, n), base)
		assert.GreaterOrEqual(t, w.Percent(g, s+10, d, n), base)
		assert.GreaterOrEqual(t, w.Percent(g, s, d, n+10), base)
		assert.LessOrEqual(t, w.Percent(g, s, d+10, n), base)
		assert.GreaterOrEqual(t, base, 0)
		assert.LessOrEqual(t, base, 100)
	}
}

func TestWeights_Custom(t *testing.T) {
	w := recommend.Weights{Gemini: 1}
	assert.Equal(t, 42, w.Percent(0.42, 0, 0, 0))
	assert.NoError(t, w.Validate())
	assert.Error(t, recommend.Weights{Density: -0.1}.Validate())
}
