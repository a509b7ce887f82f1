package sparam

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfkit/sparam/internal/testutil"
)

func defaultTDRConfig() TDRConfig {
	return TDRConfig{
		Window: WindowSpec{
			Type:          WindowNone,
			PaddingFactor: 4,
		},
		VelocityFactor: 0.5,
	}
}

// reflectionDelay keeps the synthetic mismatch away from the t=0 plane so
// its impulse energy is causal.
const reflectionDelay = 0.2e-9

// reflectiveTwoPort builds a two-port with a flat reflection magnitude and
// a linear phase delay over a uniform sweep.
func reflectiveTwoPort(t *testing.T, points int, refl float64) *Network {
	t.Helper()
	return twoPortNetwork(t, points, func(k int) [][]complex128 {
		f := 50e6 * float64(k+1)
		phase := -2 * math.Pi * f * reflectionDelay

		m := constantMatrix(2, 0)
		m[0][0] = complex(refl*math.Cos(phase), refl*math.Sin(phase))
		m[1][0] = 0.9
		m[0][1] = 0.9
		return m
	})
}

func TestComputeTDRAllZero(t *testing.T) {
	nw := twoPortNetwork(t, 64, func(k int) [][]complex128 {
		return constantMatrix(2, 0)
	})

	res, err := ComputeTDR(nw, defaultTDRConfig())
	require.NoError(t, err)

	for i, v := range res.ReflectionMU {
		assert.Equal(t, 0.0, v, "sample %d", i)
	}
}

func TestComputeTDRConstantReflectionSettles(t *testing.T) {
	// A frequency-flat 0.1 reflection is a lumped mismatch at the
	// reference plane: the step response settles near 100 mU.
	nw := reflectiveTwoPort(t, 100, 0.1)

	res, err := ComputeTDR(nw, defaultTDRConfig())
	require.NoError(t, err)

	last := res.ReflectionMU[len(res.ReflectionMU)-1]
	assert.InDelta(t, 100.0, last, 5.0)

	testutil.AssertNoNaNOrInf(t, res.ReflectionMU)
	assert.Equal(t, 0.0, res.TimeNS[0])
	testutil.AssertMonotonic(t, res.TimeNS)
	testutil.AssertMonotonic(t, res.DistanceInches)
}

func TestComputeTDRImpedanceScenario(t *testing.T) {
	// End-to-end: a steady 0.1 reflection corresponds to roughly 122 ohm
	// differential impedance.
	nw := reflectiveTwoPort(t, 100, 0.1)

	res, err := ComputeTDR(nw, defaultTDRConfig())
	require.NoError(t, err)

	z := ImpedanceProfile(res.ReflectionMU)
	require.Len(t, z, len(res.ReflectionMU))
	testutil.AssertAllInRange(t, z, 20, 150)

	assert.InDelta(t, 100.0*1.1/0.9, z[len(z)-1], 2.0)
}

func TestComputeTDRFreqLimit(t *testing.T) {
	nw := reflectiveTwoPort(t, 100, 0.1)

	cfg := defaultTDRConfig()
	cfg.FreqLimitHz = nw.Freqs[49]

	res, err := ComputeTDR(nw, cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, res.ReflectionMU)

	// Below the sweep start the limit is unusable.
	cfg.FreqLimitHz = nw.Freqs[0] / 2
	_, err = ComputeTDR(nw, cfg)
	assert.ErrorIs(t, err, ErrRange)
}

func TestComputeTDRInvalidPadding(t *testing.T) {
	nw := reflectiveTwoPort(t, 16, 0.1)

	cfg := defaultTDRConfig()
	cfg.Window.PaddingFactor = 1
	_, err := ComputeTDR(nw, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg.Window.PaddingFactor = 256
	_, err = ComputeTDR(nw, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestComputeTDRFourPortDifferential(t *testing.T) {
	// A four-port whose differential reflection is flat behaves like the
	// equivalent two-port.
	nw := fourPortNetwork(t, 100, func(k int) [][]complex128 {
		f := 100e6 * float64(k+1)
		phase := -2 * math.Pi * f * reflectionDelay
		refl := complex(0.1*math.Cos(phase), 0.1*math.Sin(phase))

		m := constantMatrix(4, 0)
		m[0][0] = refl
		m[2][2] = refl
		m[1][0] = 0.9
		m[3][2] = 0.9
		return m
	})

	res, err := ComputeTDR(nw, defaultTDRConfig())
	require.NoError(t, err)

	last := res.ReflectionMU[len(res.ReflectionMU)-1]
	assert.InDelta(t, 100.0, last, 5.0)
}

func TestComputeTDRWindowedVariants(t *testing.T) {
	nw := reflectiveTwoPort(t, 64, 0.2)

	for _, wt := range []WindowType{WindowHamming, WindowHanning, WindowBlackman, WindowKaiser, WindowFlattop, WindowExponential} {
		cfg := defaultTDRConfig()
		cfg.Window.Type = wt

		res, err := ComputeTDR(nw, cfg)
		require.NoError(t, err, "window %s", wt)
		testutil.AssertNoNaNOrInf(t, res.ReflectionMU, "window %s", wt)
	}
}
