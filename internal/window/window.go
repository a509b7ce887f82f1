// Package window generates and applies spectral windows for frequency-domain
// series prior to time-domain conversion.
package window

import (
	"math"

	"github.com/rfkit/sparam/internal/mathutil"
)

// Kind enumerates the supported base window functions.
type Kind int

const (
	// None keeps the series unchanged.
	None Kind = iota

	// Hamming is the standard raised-cosine-plus-pedestal window.
	Hamming

	// Hanning is the standard raised-cosine window.
	Hanning

	// Blackman adds a second cosine harmonic for deeper sidelobes.
	Blackman

	// Kaiser uses the fixed shape parameter kaiserBeta.
	Kaiser

	// Flattop is a 5-term cosine-sum window.
	Flattop

	// Exponential is the PLTS-style exp(-c·f²) taper over the normalized
	// band [0, 1].
	Exponential
)

const (
	// kaiserBeta balances main-lobe width against sidelobe level for
	// reflectometry spectra.
	kaiserBeta = 8.0

	// exponentialCoeff is the c in w(f) = exp(-c·f²).
	exponentialCoeff = 1.0

	// lowPassNumerator/lowPassDenominator place the low-pass taper start
	// at ⌊2n/3⌋ of the series.
	lowPassNumerator   = 2
	lowPassDenominator = 3
)

// flattopCoeffs are the 5-term cosine-sum coefficients. All terms enter
// with positive sign.
var flattopCoeffs = [5]float64{
	0.21557895,
	0.41663158,
	0.277263158,
	0.083578947,
	0.006947368,
}

// Values returns the window coefficients for a series of length n. The
// lowPass flag multiplies the base window by a half-cosine taper that is
// unity up to ⌊2n/3⌋ and eases toward zero at the end of the band.
//
// For Kind None without low-pass filtering the result is all ones.
func Values(kind Kind, n int, lowPass bool) []float64 {
	if n <= 0 {
		return nil
	}

	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0
	}

	switch kind {
	case Hamming:
		fillCosineSum(w, 0.54, 0.46)
	case Hanning:
		fillCosineSum(w, 0.5, 0.5)
	case Blackman:
		fillBlackman(w)
	case Kaiser:
		fillKaiser(w, kaiserBeta)
	case Flattop:
		fillFlattop(w)
	case Exponential:
		fillExponential(w, exponentialCoeff)
	}

	if lowPass {
		applyLowPassTaper(w)
	}

	return w
}

// Apply multiplies a complex frequency series by the window elementwise,
// returning a new slice. The input is never modified. When the window is a
// no-op (None, no low-pass) the series is still copied so callers can rely
// on ownership of the result.
func Apply(series []complex128, kind Kind, lowPass bool) []complex128 {
	out := make([]complex128, len(series))

	if kind == None && !lowPass {
		copy(out, series)
		return out
	}

	w := Values(kind, len(series), lowPass)
	for i, v := range series {
		out[i] = v * complex(w[i], 0)
	}
	return out
}

// fillCosineSum fills w[i] = a - b·cos(2πi/(n-1)).
func fillCosineSum(w []float64, a, b float64) {
	n := len(w)
	if n == 1 {
		w[0] = 1.0
		return
	}
	for i := range w {
		w[i] = a - b*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
}

// fillBlackman fills the standard Blackman window.
func fillBlackman(w []float64) {
	n := len(w)
	if n == 1 {
		w[0] = 1.0
		return
	}
	for i := range w {
		x := float64(i) / float64(n-1)
		w[i] = 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	}
}

// fillKaiser fills a Kaiser window with the given β via the I₀ kernel:
// w[i] = I₀(β·√(1-x²)) / I₀(β) with x spanning [-1, 1].
func fillKaiser(w []float64, beta float64) {
	n := len(w)
	if n == 1 {
		w[0] = 1.0
		return
	}

	alpha := float64(n-1) / 2.0
	i0Beta := mathutil.BesselI0(beta)

	for i := range w {
		x := (float64(i) - alpha) / alpha
		w[i] = mathutil.BesselI0(beta*math.Sqrt(1.0-x*x)) / i0Beta
	}
}

// fillFlattop fills the 5-term cosine-sum flattop window:
// w[i] = Σⱼ aⱼ·cos(2πji/(n-1)).
func fillFlattop(w []float64) {
	n := len(w)
	if n == 1 {
		w[0] = 1.0
		return
	}
	for i := range w {
		v := flattopCoeffs[0]
		for j := 1; j < len(flattopCoeffs); j++ {
			v += flattopCoeffs[j] * math.Cos(2*math.Pi*float64(j)*float64(i)/float64(n-1))
		}
		w[i] = v
	}
}

// fillExponential fills w(f) = exp(-c·f²) with f linear over [0, 1].
func fillExponential(w []float64, c float64) {
	n := len(w)
	if n == 1 {
		w[0] = 1.0
		return
	}
	for i := range w {
		f := float64(i) / float64(n-1)
		w[i] = math.Exp(-c * f * f)
	}
}

// applyLowPassTaper multiplies w by a half-cosine roll-off that is unity
// up to ⌊2n/3⌋ and eases toward zero over the remaining band.
func applyLowPassTaper(w []float64) {
	n := len(w)
	cutoff := n * lowPassNumerator / lowPassDenominator
	if cutoff >= n {
		return
	}
	span := n - cutoff
	for i := cutoff; i < n; i++ {
		w[i] *= 0.5 * (1 + math.Cos(math.Pi*float64(i-cutoff)/float64(span)))
	}
}
