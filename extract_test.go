package sparam

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfkit/sparam/internal/testutil"
	"github.com/rfkit/sparam/internal/twoport"
)

// symmetricDevice builds the per-point S matrix of a symmetric reciprocal
// device with the given reflection and transmission.
func symmetricDevice(s11, s21 complex128) twoport.Mat2 {
	return twoport.Mat2{
		{s11, s21},
		{s21, s11},
	}
}

// cascadeWithItself combines a device with an identical copy of itself in
// transfer-parameter space.
func cascadeWithItself(t *testing.T, dev twoport.Mat2) twoport.Mat2 {
	t.Helper()
	tm, err := twoport.SToT(dev)
	require.NoError(t, err)
	combined, err := twoport.TToS(tm.Mul(tm))
	require.NoError(t, err)
	return combined
}

// doubledNetwork builds the 2x measurement of a per-point device series.
func doubledNetwork(t *testing.T, points int, dev func(k int) twoport.Mat2) (*Network, []twoport.Mat2) {
	t.Helper()
	freqs := make([]float64, points)
	s := make([][][]complex128, points)
	devices := make([]twoport.Mat2, points)

	for k := range freqs {
		freqs[k] = 100e6 * float64(k+1)
		devices[k] = dev(k)
		combined := cascadeWithItself(t, devices[k])
		s[k] = [][]complex128{
			{combined[0][0], combined[0][1]},
			{combined[1][0], combined[1][1]},
		}
	}

	nw, err := NewNetwork(freqs, s, 50, "doubled")
	require.NoError(t, err)
	return nw, devices
}

func smoothDevice(k int) twoport.Mat2 {
	phase := 0.1 + 0.02*float64(k)
	s21 := complex(0.8*math.Cos(phase), -0.8*math.Sin(phase))
	s11 := complex(0.1, 0.02+0.001*float64(k))
	return symmetricDevice(s11, s21)
}

func TestExtractABCDRecoversDevice(t *testing.T) {
	nw, devices := doubledNetwork(t, 24, smoothDevice)

	out, report, err := ExtractSingleDevice(nw, ExtractABCD)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, ExtractABCD, report.Method)
	assert.Equal(t, 0, report.FallbackCount, "clean data must not fall back: %v", report.FallbackReasons)

	require.Equal(t, 2, out.NumPorts)
	require.Equal(t, nw.NumPoints(), out.NumPoints())
	assert.Equal(t, nw.Freqs, out.Freqs)

	for k, dev := range devices {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				testutil.AssertComplexClose(t, dev[i][j], out.S[k][i][j], 1e-9,
					"point %d entry (%d,%d)", k, i, j)
			}
		}
	}
}

func TestExtractSymmetricMatchedDevice(t *testing.T) {
	// With zero reflection the symmetric split is exact: the combined
	// transmission is s21² and its principal root recovers s21.
	nw, devices := doubledNetwork(t, 16, func(k int) twoport.Mat2 {
		phase := 0.05 + 0.03*float64(k)
		s21 := complex(0.9*math.Cos(phase), -0.9*math.Sin(phase))
		return symmetricDevice(0, s21)
	})

	out, report, err := ExtractSingleDevice(nw, ExtractSymmetric)
	require.NoError(t, err)
	assert.Equal(t, ExtractSymmetric, report.Method)
	assert.Equal(t, 0, report.FallbackCount)

	for k, dev := range devices {
		testutil.AssertComplexClose(t, dev[1][0], out.S[k][1][0], 1e-9, "s21 at point %d", k)
		assert.LessOrEqual(t, cmplx.Abs(out.S[k][0][0]), 1e-9, "s11 at point %d", k)

		// The symmetric assumption forces a symmetric result.
		assert.Equal(t, out.S[k][0][1], out.S[k][1][0])
		assert.Equal(t, out.S[k][0][0], out.S[k][1][1])
	}
}

func TestExtractFourPortReducesToDifferential(t *testing.T) {
	// A four-port measurement is reduced to differential form before the
	// split, so the output is always two-port.
	nw := fourPortNetwork(t, 8, func(k int) [][]complex128 {
		m := constantMatrix(4, 0)
		phase := 0.1 * float64(k+1)
		s21 := complex(0.8*math.Cos(phase), -0.8*math.Sin(phase))
		m[0][0], m[2][2] = 0.1, 0.1
		m[1][0], m[3][2] = s21, s21
		m[0][1], m[2][3] = s21, s21
		return m
	})

	out, _, err := ExtractSingleDevice(nw, ExtractABCD)
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumPorts)
	assert.Equal(t, nw.NumPoints(), out.NumPoints())
	assert.Equal(t, nw.Freqs, out.Freqs)
}

func TestExtractFallbackAggregation(t *testing.T) {
	// One point with zero transmission has no transfer representation and
	// must fall back without failing the whole extraction.
	nw, _ := doubledNetwork(t, 12, smoothDevice)
	nw.S[5][1][0] = 0

	out, report, err := ExtractSingleDevice(nw, ExtractABCD)
	require.NoError(t, err)

	assert.Equal(t, 1, report.FallbackCount)
	assert.Contains(t, report.FallbackReasons, reasonNoTransfer)

	// The fallback point still produces a finite symmetric matrix.
	assert.True(t, finiteMatrix(out.S[5]))
	assert.Equal(t, out.S[5][0][1], out.S[5][1][0])
}

func TestExtractDistinctReasonsNotDuplicated(t *testing.T) {
	nw, _ := doubledNetwork(t, 12, smoothDevice)
	nw.S[3][1][0] = 0
	nw.S[7][1][0] = 0

	_, report, err := ExtractSingleDevice(nw, ExtractABCD)
	require.NoError(t, err)

	assert.Equal(t, 2, report.FallbackCount)
	assert.Len(t, report.FallbackReasons, 1, "same reason must be aggregated once")
}

func TestExtractUnknownMethod(t *testing.T) {
	nw, _ := doubledNetwork(t, 4, smoothDevice)
	_, _, err := ExtractSingleDevice(nw, ExtractMethod(42))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestExtractNamesResult(t *testing.T) {
	nw, _ := doubledNetwork(t, 4, smoothDevice)
	out, _, err := ExtractSingleDevice(nw, ExtractABCD)
	require.NoError(t, err)
	assert.Equal(t, "doubled_1x", out.Name)
}
