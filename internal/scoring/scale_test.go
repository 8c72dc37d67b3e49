package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearScale_HigherIsBetter(t *testing.T) {
	worst, best := 0.08, 0.25

	assert.Equal(t, 0.0, LinearScale(worst, worst, best))
	assert.Equal(t, 5.0, LinearScale(best, worst, best))
	assert.InDelta(t, 2.5, LinearScale(0.165, worst, best), 1e-9)

	// clamping
	assert.Equal(t, 0.0, LinearScale(0.01, worst, best))
	assert.Equal(t, 5.0, LinearScale(0.90, worst, best))
}

func TestLinearScale_LowerIsBetter(t *testing.T) {
	worst, best := 0.35, 0.10 // best < worst reverses the scale

	assert.Equal(t, 0.0, LinearScale(worst, worst, best))
	assert.Equal(t, 5.0, LinearScale(best, worst, best))
	assert.InDelta(t, 2.5, LinearScale(0.225, worst, best), 1e-9)

	// clamping
	assert.Equal(t, 0.0, LinearScale(0.80, worst, best))
	assert.Equal(t, 5.0, LinearScale(0.01, worst, best))
}

func TestLinearScale_DegenerateRange(t *testing.T) {
	assert.Equal(t, 0.0, LinearScale(1, 2, 2))
}

func TestLinearScale_AlwaysBounded(t *testing.T) {
	for _, v := range []float64{-1e9, -1, 0, 0.5, 1, 1e9} {
		s := LinearScale(v, 0.08, 0.25)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 5.0)

		s = LinearScale(v, 65, 35)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 5.0)
	}
}
