package twoport

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roundTripTol = 1e-9

func assertMat2Close(t *testing.T, expected, actual Mat2, tol float64) {
	t.Helper()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			diff := cmplx.Abs(expected[i][j] - actual[i][j])
			assert.LessOrEqual(t, diff, tol,
				"entry (%d,%d): |%v - %v| = %e", i, j, expected[i][j], actual[i][j], diff)
		}
	}
}

func TestSToTRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		s    Mat2
	}{
		{
			name: "matched transmission line",
			s: Mat2{
				{0.05 + 0.02i, 0.9 - 0.3i},
				{0.9 - 0.3i, 0.05 + 0.02i},
			},
		},
		{
			name: "lossy asymmetric device",
			s: Mat2{
				{0.2 - 0.1i, 0.6 + 0.1i},
				{0.55 + 0.15i, 0.1 + 0.3i},
			},
		},
		{
			name: "near unity transmission",
			s: Mat2{
				{0.01 + 0.005i, 0.99},
				{0.99, 0.01 - 0.005i},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, err := SToT(tt.s)
			require.NoError(t, err)

			back, err := TToS(tm)
			require.NoError(t, err)

			assertMat2Close(t, tt.s, back, roundTripTol)
		})
	}
}

func TestSToTZeroTransmission(t *testing.T) {
	s := Mat2{
		{0.5, 0.1},
		{0, 0.5},
	}
	_, err := SToT(s)
	assert.ErrorIs(t, err, ErrSingular)
}

func TestTToSZeroDeterminantBlock(t *testing.T) {
	tm := Mat2{
		{1, 0.5},
		{0.2, 0},
	}
	_, err := TToS(tm)
	assert.ErrorIs(t, err, ErrSingular)
}

func TestCascadeViaTransferProduct(t *testing.T) {
	// The transfer matrix of two devices in cascade is the product of
	// the individual transfer matrices.
	a := Mat2{
		{0.1, 0.8 - 0.2i},
		{0.8 - 0.2i, 0.1},
	}
	b := Mat2{
		{0.05 + 0.05i, 0.7 + 0.1i},
		{0.7 + 0.1i, 0.05 + 0.05i},
	}

	ta, err := SToT(a)
	require.NoError(t, err)
	tb, err := SToT(b)
	require.NoError(t, err)

	combined, err := TToS(ta.Mul(tb))
	require.NoError(t, err)

	// The combined S21 of a cascade a->b satisfies
	// S21 = b21·a21 / (1 - a22·b11).
	want := b[1][0] * a[1][0] / (1 - a[1][1]*b[0][0])
	assert.LessOrEqual(t, cmplx.Abs(combined[1][0]-want), roundTripTol)
}

func TestBlockRoundTrip(t *testing.T) {
	s := BlockMatrix{
		A11: Mat2{{0.1, 0.02}, {0.03, 0.12}},
		A12: Mat2{{0.8, 0.01}, {0.02, 0.75}},
		A21: Mat2{{0.78, 0.015}, {0.01, 0.8}},
		A22: Mat2{{0.05, 0.01}, {0.02, 0.08}},
	}

	tm, err := SToTBlock(s)
	require.NoError(t, err)

	back, err := TToSBlock(tm)
	require.NoError(t, err)

	assertMat2Close(t, s.A11, back.A11, roundTripTol)
	assertMat2Close(t, s.A12, back.A12, roundTripTol)
	assertMat2Close(t, s.A21, back.A21, roundTripTol)
	assertMat2Close(t, s.A22, back.A22, roundTripTol)
}

func TestInvBlock(t *testing.T) {
	m := BlockMatrix{
		A11: Mat2{{2, 0.1}, {0.2, 3}},
		A12: Mat2{{0.5, 0}, {0, 0.4}},
		A21: Mat2{{0.3, 0}, {0, 0.2}},
		A22: Mat2{{1.5, 0.1}, {0.1, 2.5}},
	}

	inv, err := InvBlock(m)
	require.NoError(t, err)

	prod := MulBlock(m, inv)
	assertMat2Close(t, Identity2(), prod.A11, roundTripTol)
	assertMat2Close(t, Mat2{}, prod.A12, roundTripTol)
	assertMat2Close(t, Mat2{}, prod.A21, roundTripTol)
	assertMat2Close(t, Identity2(), prod.A22, roundTripTol)
}
