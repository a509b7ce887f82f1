package sparam

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// Supported port counts. The algebra in this package is specialized for
// single-ended two-ports and differential four-ports.
const (
	portsTwo  = 2
	portsFour = 4
)

// DefaultReferenceImpedance is the reference impedance assumed when a
// Touchstone header carries no R token, in ohms.
const DefaultReferenceImpedance = 50.0

// Common errors returned by the library.
var (
	// ErrParse indicates malformed measurement text or an unsupported
	// port count.
	ErrParse = errors.New("touchstone parse error")

	// ErrRange indicates a frequency limit outside the sweep or two
	// networks whose frequency ranges do not overlap.
	ErrRange = errors.New("frequency range error")

	// ErrSingularMatrix indicates a T-parameter matrix that cannot be
	// inverted during de-embedding.
	ErrSingularMatrix = errors.New("singular matrix")

	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Network is one multiport S-parameter measurement: a frequency sweep and
// one complex n×n scattering matrix per sweep point.
//
// Networks are immutable once produced. Every operation in this package
// returns a new Network and leaves its inputs untouched.
type Network struct {
	// Freqs is the frequency sweep in Hz, strictly increasing.
	// FFT-based transforms additionally assume uniform spacing.
	Freqs []float64

	// S holds one NumPorts×NumPorts matrix per frequency sample.
	S [][][]complex128

	// NumPorts is 2 or 4 and constant across all samples.
	NumPorts int

	// Z0 is the reference impedance in ohms.
	Z0 float64

	// Name is an optional label, typically derived from the source file.
	Name string
}

// NewNetwork constructs a Network after validating the sweep/matrix shape.
// The slices are retained, not copied; callers hand over ownership.
func NewNetwork(freqs []float64, s [][][]complex128, z0 float64, name string) (*Network, error) {
	if len(freqs) == 0 {
		return nil, fmt.Errorf("%w: empty frequency sweep", ErrInvalidConfig)
	}
	if len(s) != len(freqs) {
		return nil, fmt.Errorf("%w: %d matrices for %d frequencies", ErrInvalidConfig, len(s), len(freqs))
	}

	ports := len(s[0])
	if ports != portsTwo && ports != portsFour {
		return nil, fmt.Errorf("%w: unsupported port count %d", ErrInvalidConfig, ports)
	}

	for k, m := range s {
		if len(m) != ports {
			return nil, fmt.Errorf("%w: matrix %d has %d rows, want %d", ErrInvalidConfig, k, len(m), ports)
		}
		for i, row := range m {
			if len(row) != ports {
				return nil, fmt.Errorf("%w: matrix %d row %d has %d columns, want %d", ErrInvalidConfig, k, i, len(row), ports)
			}
		}
	}

	for k := 1; k < len(freqs); k++ {
		if freqs[k] <= freqs[k-1] {
			return nil, fmt.Errorf("%w: frequencies not strictly increasing at index %d", ErrInvalidConfig, k)
		}
	}

	if z0 <= 0 {
		z0 = DefaultReferenceImpedance
	}

	return &Network{
		Freqs:    freqs,
		S:        s,
		NumPorts: ports,
		Z0:       z0,
		Name:     name,
	}, nil
}

// NumPoints returns the number of frequency samples.
func (n *Network) NumPoints() int {
	return len(n.Freqs)
}

// Param returns the S(i+1)(j+1) series across the sweep, e.g. Param(1, 0)
// is S21. Indices are zero-based.
func (n *Network) Param(i, j int) []complex128 {
	out := make([]complex128, len(n.S))
	for k, m := range n.S {
		out[k] = m[i][j]
	}
	return out
}

// ReflectionSeries returns the input reflection coefficient across the
// sweep: S11 for a two-port, or the differential-mode SDD11 for a
// four-port pair wired [P1+, P2+, P3-, P4-].
func (n *Network) ReflectionSeries() []complex128 {
	if n.NumPorts == portsTwo {
		return n.Param(0, 0)
	}

	// Sdd11 = (S11 - S13 - S31 + S33) / 2 for the P1/P3 input pair.
	out := make([]complex128, len(n.S))
	for k, m := range n.S {
		out[k] = (m[0][0] - m[0][2] - m[2][0] + m[2][2]) / 2
	}
	return out
}

// TransmissionSeries returns the forward transmission coefficient across
// the sweep: S21 for a two-port, or SDD21 for a four-port pair.
func (n *Network) TransmissionSeries() []complex128 {
	if n.NumPorts == portsTwo {
		return n.Param(1, 0)
	}

	// Sdd21 over the P1/P3 -> P2/P4 pairs.
	out := make([]complex128, len(n.S))
	for k, m := range n.S {
		out[k] = ((m[1][0] - m[1][2]) - (m[3][0] - m[3][2])) / 2
	}
	return out
}

// cloneMatrix deep-copies one n×n matrix.
func cloneMatrix(m [][]complex128) [][]complex128 {
	out := make([][]complex128, len(m))
	for i, row := range m {
		out[i] = make([]complex128, len(row))
		copy(out[i], row)
	}
	return out
}

// restrict returns the slice of sweep indices with lo <= f <= hi.
func (n *Network) restrict(lo, hi float64) []int {
	idx := make([]int, 0, len(n.Freqs))
	for k, f := range n.Freqs {
		if f >= lo && f <= hi {
			idx = append(idx, k)
		}
	}
	return idx
}

// interpolate resamples the network onto the target frequency grid using
// piecewise-linear interpolation of each S entry (real and imaginary parts
// independently). Target frequencies must lie within the sweep.
func (n *Network) interpolate(target []float64) (*Network, error) {
	if len(target) == 0 {
		return nil, fmt.Errorf("%w: empty interpolation target", ErrRange)
	}
	if target[0] < n.Freqs[0] || target[len(target)-1] > n.Freqs[len(n.Freqs)-1] {
		return nil, fmt.Errorf("%w: interpolation target [%g, %g] Hz outside sweep [%g, %g] Hz",
			ErrRange, target[0], target[len(target)-1], n.Freqs[0], n.Freqs[len(n.Freqs)-1])
	}

	s := make([][][]complex128, len(target))
	hi := 1
	for k, f := range target {
		for hi < len(n.Freqs)-1 && n.Freqs[hi] < f {
			hi++
		}
		lo := hi - 1

		span := n.Freqs[hi] - n.Freqs[lo]
		t := 0.0
		if span > 0 {
			t = (f - n.Freqs[lo]) / span
		}

		m := make([][]complex128, n.NumPorts)
		for i := 0; i < n.NumPorts; i++ {
			m[i] = make([]complex128, n.NumPorts)
			for j := 0; j < n.NumPorts; j++ {
				a := n.S[lo][i][j]
				b := n.S[hi][i][j]
				m[i][j] = a + complex(t, 0)*(b-a)
			}
		}
		s[k] = m
	}

	freqs := make([]float64, len(target))
	copy(freqs, target)

	return &Network{
		Freqs:    freqs,
		S:        s,
		NumPorts: n.NumPorts,
		Z0:       n.Z0,
		Name:     n.Name,
	}, nil
}

// maxAbsEntry returns the largest entry magnitude of one S matrix.
func maxAbsEntry(m [][]complex128) float64 {
	peak := 0.0
	for _, row := range m {
		for _, v := range row {
			if a := cmplx.Abs(v); a > peak {
				peak = a
			}
		}
	}
	return peak
}

// finiteMatrix reports whether every entry of m is finite.
func finiteMatrix(m [][]complex128) bool {
	for _, row := range m {
		for _, v := range row {
			if math.IsNaN(real(v)) || math.IsNaN(imag(v)) ||
				math.IsInf(real(v), 0) || math.IsInf(imag(v), 0) {
				return false
			}
		}
	}
	return true
}
