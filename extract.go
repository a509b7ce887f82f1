package sparam

import (
	"fmt"
	"math/cmplx"

	"github.com/rfkit/sparam/internal/twoport"
)

// ExtractMethod selects how a cascaded 2x measurement is split into a
// single device.
type ExtractMethod int

const (
	// ExtractABCD takes the principal square root of the transfer matrix
	// per frequency point, with per-point validation and fallback.
	ExtractABCD ExtractMethod = iota

	// ExtractSymmetric assumes a symmetric, reciprocal device and splits
	// the reflection and transmission terms in closed form.
	ExtractSymmetric
)

// Extraction quality thresholds for the ABCD method.
const (
	// maxEigenvectorCond rejects eigendecompositions whose vector matrix
	// is too ill-conditioned for a trustworthy square root.
	maxEigenvectorCond = 1e12

	// maxMagnitudeJump rejects points whose peak S magnitude exceeds this
	// multiple of the previous validated point.
	maxMagnitudeJump = 10.0
)

// symmetricEpsilon regularizes the square roots of the symmetric split.
const symmetricEpsilon = 1e-20

// Fallback reasons reported by the ABCD method.
const (
	reasonNoTransfer     = "no transfer-matrix representation"
	reasonDefective      = "defective transfer matrix"
	reasonIllConditioned = "ill-conditioned eigenvectors"
	reasonNegativeEigen  = "eigenvalue on negative real axis"
	reasonNonFinite      = "non-finite square root"
	reasonDiscontinuity  = "magnitude discontinuity"
)

// ExtractReport summarizes per-point fallbacks during an ABCD extraction.
// Numeric trouble at individual frequency points is recovered locally and
// only aggregated here, never raised as an error.
type ExtractReport struct {
	// Method is the method that was requested.
	Method ExtractMethod

	// FallbackCount is the number of frequency points where the ABCD
	// result was rejected and the symmetric split used instead.
	FallbackCount int

	// FallbackReasons lists the distinct rejection reasons in first-seen
	// order.
	FallbackReasons []string
}

// ExtractSingleDevice splits a measurement of two identical cascaded
// devices into the S-parameters of one device, a matrix square root in
// cascade space. Four-port inputs are first reduced to their
// differential-mode form, so the result is always a two-port Network on
// the same frequency grid.
func ExtractSingleDevice(n *Network, method ExtractMethod) (*Network, *ExtractReport, error) {
	if method != ExtractABCD && method != ExtractSymmetric {
		return nil, nil, fmt.Errorf("%w: unknown extraction method %d", ErrInvalidConfig, method)
	}

	work := n.Differential()

	report := &ExtractReport{Method: method}
	s := make([][][]complex128, work.NumPoints())

	seen := make(map[string]bool)
	prevMag := -1.0

	for k := range work.S {
		point := mat2Of(work.S[k])

		if method == ExtractSymmetric {
			s[k] = matrixOfMat2(symmetricSplit(point))
			continue
		}

		half, reason := abcdSqrt(point, prevMag)
		if reason == "" {
			prevMag = half.MaxAbs()
		} else {
			report.FallbackCount++
			if !seen[reason] {
				seen[reason] = true
				report.FallbackReasons = append(report.FallbackReasons, reason)
			}
			half = symmetricSplit(point)
		}
		s[k] = matrixOfMat2(half)
	}

	if report.FallbackCount > 0 {
		logger.Warn().
			Int("fallback_points", report.FallbackCount).
			Strs("reasons", report.FallbackReasons).
			Msg("extraction fell back to symmetric split at some points")
	}

	freqs := make([]float64, len(work.Freqs))
	copy(freqs, work.Freqs)

	out := &Network{
		Freqs:    freqs,
		S:        s,
		NumPorts: portsTwo,
		Z0:       work.Z0,
		Name:     work.Name + "_1x",
	}
	return out, report, nil
}

// abcdSqrt computes the single-device matrix for one frequency point via
// the transfer-matrix square root. It returns an empty reason on success
// or the rejection reason when the point must fall back.
func abcdSqrt(s twoport.Mat2, prevMag float64) (twoport.Mat2, string) {
	t, err := twoport.SToT(s)
	if err != nil {
		return twoport.Mat2{}, reasonNoTransfer
	}

	root, diag, err := twoport.Sqrt(t)
	if err != nil {
		return twoport.Mat2{}, reasonDefective
	}
	if diag.VectorCond > maxEigenvectorCond {
		return twoport.Mat2{}, reasonIllConditioned
	}
	for _, l := range diag.Eigenvalues {
		if twoport.OnNegativeRealAxis(l) {
			return twoport.Mat2{}, reasonNegativeEigen
		}
	}

	half, err := twoport.TToS(root)
	if err != nil {
		return twoport.Mat2{}, reasonNoTransfer
	}
	if !half.IsFinite() {
		return twoport.Mat2{}, reasonNonFinite
	}
	if prevMag > 0 && half.MaxAbs() > maxMagnitudeJump*prevMag {
		return twoport.Mat2{}, reasonDiscontinuity
	}
	return half, ""
}

// symmetricSplit derives single-device parameters from the combined
// reflection and transmission under a symmetric-network assumption:
// s11 = 1 - √(1 - s11c + ε), s21 = √(s21c + ε).
func symmetricSplit(combined twoport.Mat2) twoport.Mat2 {
	s11 := 1 - cmplx.Sqrt(1-combined[0][0]+complex(symmetricEpsilon, 0))
	s21 := cmplx.Sqrt(combined[1][0] + complex(symmetricEpsilon, 0))
	return twoport.Mat2{
		{s11, s21},
		{s21, s11},
	}
}

// mat2Of copies one 2x2 S matrix into the twoport working form.
func mat2Of(m [][]complex128) twoport.Mat2 {
	return twoport.Mat2{
		{m[0][0], m[0][1]},
		{m[1][0], m[1][1]},
	}
}

// matrixOfMat2 copies a twoport matrix back to the network layout.
func matrixOfMat2(m twoport.Mat2) [][]complex128 {
	return [][]complex128{
		{m[0][0], m[0][1]},
		{m[1][0], m[1][1]},
	}
}
