package sparam

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfkit/sparam/internal/testutil"
)

const twoPortRI = `! two-port test data
# GHZ S RI R 50
1.0  0.1 0.0  0.8 -0.1  0.8 -0.1  0.05 0.0
2.0  0.12 0.01  0.75 -0.2  0.75 -0.2  0.06 0.01
3.0  0.15 0.02  0.7 -0.3  0.7 -0.3  0.07 0.01
`

func TestParseTouchstoneTwoPort(t *testing.T) {
	nw, err := ParseTouchstone(twoPortRI, "twoport")
	require.NoError(t, err)

	assert.Equal(t, 2, nw.NumPorts)
	assert.Equal(t, 3, nw.NumPoints())
	assert.Equal(t, 50.0, nw.Z0)
	assert.Equal(t, []float64{1e9, 2e9, 3e9}, nw.Freqs)

	// Row order is S11, S21, S12, S22.
	testutil.AssertComplexClose(t, complex(0.1, 0), nw.S[0][0][0], 1e-12)
	testutil.AssertComplexClose(t, complex(0.8, -0.1), nw.S[0][1][0], 1e-12)
	testutil.AssertComplexClose(t, complex(0.8, -0.1), nw.S[0][0][1], 1e-12)
	testutil.AssertComplexClose(t, complex(0.05, 0), nw.S[0][1][1], 1e-12)
}

func TestParseTouchstoneHeaderDefaults(t *testing.T) {
	// A bare # line keeps Hz, RI and 50 ohms.
	text := "#\n1000000 0.1 0 0.5 0 0.5 0 0.1 0\n2000000 0.1 0 0.5 0 0.5 0 0.1 0\n"
	nw, err := ParseTouchstone(text, "defaults")
	require.NoError(t, err)

	assert.Equal(t, 50.0, nw.Z0)
	assert.Equal(t, []float64{1e6, 2e6}, nw.Freqs)
}

func TestParseTouchstoneMagnitudeAngle(t *testing.T) {
	text := "# MHZ S MA R 75\n100 1.0 90.0 0.5 0.0 0.5 0.0 1.0 -90.0\n200 1.0 90.0 0.5 0.0 0.5 0.0 1.0 -90.0\n"
	nw, err := ParseTouchstone(text, "ma")
	require.NoError(t, err)

	assert.Equal(t, 75.0, nw.Z0)
	assert.Equal(t, 100e6, nw.Freqs[0])
	testutil.AssertComplexClose(t, complex(0, 1), nw.S[0][0][0], 1e-12)
	testutil.AssertComplexClose(t, complex(0, -1), nw.S[0][1][1], 1e-12)
}

func TestParseTouchstoneDecibel(t *testing.T) {
	text := "# HZ S DB\n1e9 0.0 0.0 -20.0 0.0 -20.0 0.0 0.0 180.0\n2e9 0.0 0.0 -20.0 0.0 -20.0 0.0 0.0 180.0\n"
	nw, err := ParseTouchstone(text, "db")
	require.NoError(t, err)

	testutil.AssertComplexClose(t, complex(1, 0), nw.S[0][0][0], 1e-12)
	testutil.AssertComplexClose(t, complex(0.1, 0), nw.S[0][1][0], 1e-12)
	testutil.AssertComplexClose(t, complex(-1, 0), nw.S[0][1][1], 1e-9)
}

func TestParseTouchstoneFourPort(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("# GHZ S RI R 50\n")
	for k := 0; k < 2; k++ {
		sb.WriteString(fmt.Sprintf("%g", float64(k+1)))
		// Column-major pair order: for each column j, all rows i.
		for j := 0; j < 4; j++ {
			for i := 0; i < 4; i++ {
				sb.WriteString(fmt.Sprintf(" %g %g", 0.01*float64(i+1), 0.001*float64(j+1)))
			}
		}
		sb.WriteString("\n")
	}

	nw, err := ParseTouchstone(sb.String(), "fourport")
	require.NoError(t, err)

	assert.Equal(t, 4, nw.NumPorts)
	assert.Equal(t, 2, nw.NumPoints())
	testutil.AssertComplexClose(t, complex(0.02, 0.003), nw.S[0][1][2], 1e-12)
	testutil.AssertComplexClose(t, complex(0.04, 0.001), nw.S[1][3][0], 1e-12)
}

func TestParseTouchstoneDiscardsMinorityRows(t *testing.T) {
	text := twoPortRI + "4.0 0.1 0.0 0.5 0.0\n"
	nw, err := ParseTouchstone(text, "mixed")
	require.NoError(t, err)

	// The 5-column row is discarded; the 9-column majority wins.
	assert.Equal(t, 3, nw.NumPoints())
	assert.Equal(t, 2, nw.NumPorts)
}

func TestParseTouchstoneCommentsIgnored(t *testing.T) {
	text := "! leading comment\n# GHZ S RI\n1.0 0.1 0 0.5 0 0.5 0 0.1 0 ! trailing comment\n! between rows\n2.0 0.1 0 0.5 0 0.5 0 0.1 0\n"
	nw, err := ParseTouchstone(text, "comments")
	require.NoError(t, err)
	assert.Equal(t, 2, nw.NumPoints())
}

func TestParseTouchstoneErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "no header", text: "1.0 0.1 0 0.5 0 0.5 0 0.1 0\n"},
		{name: "no data", text: "# GHZ S RI R 50\n! only comments\n"},
		{name: "unsupported width", text: "# GHZ S RI\n1.0 0.1 0\n2.0 0.1 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTouchstone(tt.text, tt.name)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestPortsForWidthFallback(t *testing.T) {
	// Canonical widths.
	p, err := portsForWidth(9)
	require.NoError(t, err)
	assert.Equal(t, 2, p)

	p, err = portsForWidth(33)
	require.NoError(t, err)
	assert.Equal(t, 4, p)

	// Square-root fallback accepts only 2- and 4-port pair counts.
	_, err = portsForWidth(5)
	assert.ErrorIs(t, err, ErrParse)
	_, err = portsForWidth(19)
	assert.ErrorIs(t, err, ErrParse)
}

func TestIsqrt(t *testing.T) {
	for n := 0; n < 100; n++ {
		r := isqrt(n)
		assert.LessOrEqual(t, r*r, n)
		assert.Greater(t, (r+1)*(r+1), n)
	}
	assert.Equal(t, 4, isqrt(16))
	assert.Equal(t, int(math.Sqrt(1 << 20)), isqrt(1<<20))
}
