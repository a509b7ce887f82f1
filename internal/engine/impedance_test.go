package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfkit/sparam/internal/testutil"
)

func TestImpedanceProfileMatchedLine(t *testing.T) {
	// Zero reflection maps to the 100 ohm differential reference.
	mu := make([]float64, 32)
	z := ImpedanceProfile(mu)

	require.Len(t, z, len(mu))
	for i, v := range z {
		assert.InDelta(t, 100.0, v, 1e-9, "sample %d", i)
	}
}

func TestImpedanceProfileConstantReflection(t *testing.T) {
	// A steady 0.1 reflection (100 mU) corresponds to 100·1.1/0.9 ohms.
	// Smoothing a constant series with a normalized kernel and reflecting
	// boundaries leaves it unchanged.
	mu := make([]float64, 64)
	for i := range mu {
		mu[i] = 100
	}

	z := ImpedanceProfile(mu)
	want := 100.0 * 1.1 / 0.9
	for i, v := range z {
		assert.InDelta(t, want, v, 1e-9, "sample %d", i)
	}
}

func TestImpedanceProfileClipping(t *testing.T) {
	// Extreme reflections saturate at the clip limits and the displayable
	// impedance range.
	mu := []float64{5000, 5000, 5000, 5000, -5000, -5000, -5000, -5000}
	z := ImpedanceProfile(mu)

	testutil.AssertAllInRange(t, z, 20, 150)
	assert.InDelta(t, 150.0, z[0], 1e-9, "positive saturation")
	assert.InDelta(t, 20.0, z[len(z)-1], 1e-9, "negative saturation")
}

func TestImpedanceProfileEmpty(t *testing.T) {
	assert.Nil(t, ImpedanceProfile(nil))
}

func TestGaussianSmoothAttenuatesPeak(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 4, 3, 2, 1}
	y := gaussianSmooth(x, smoothingSigma)

	require.Len(t, y, len(x))

	// Peak is attenuated, never amplified.
	assert.LessOrEqual(t, y[4], x[4])
	assert.Greater(t, y[4], y[3])
}

func TestReflectIndex(t *testing.T) {
	n := 4
	assert.Equal(t, 0, reflectIndex(-1, n))
	assert.Equal(t, 1, reflectIndex(-2, n))
	assert.Equal(t, 3, reflectIndex(4, n))
	assert.Equal(t, 2, reflectIndex(5, n))
	assert.Equal(t, 2, reflectIndex(2, n))
}
