package engine

import (
	"math"

	"github.com/tphakala/simd/f64"
)

// ImpedanceProfile converts a TDR step response in milli-units into a
// smoothed differential impedance profile in ohms.
//
// Each reflection sample is clipped, mapped through the bilinear transform
// Z = Z0·(1+Γ)/(1-Γ) against the 100 Ω differential reference, bounded to
// the displayable range, and finally smoothed with a narrow Gaussian
// kernel using reflecting boundaries.
func ImpedanceProfile(reflectionMU []float64) []float64 {
	if len(reflectionMU) == 0 {
		return nil
	}

	refl := make([]float64, len(reflectionMU))
	f64.Scale(refl, reflectionMU, 1.0/milliUnits)

	z := make([]float64, len(refl))
	for i, r := range refl {
		r = clamp(r, -reflectionClip, reflectionClip)
		zi := differentialZ0 * (1 + r) / (1 - r)
		z[i] = clamp(zi, impedanceMin, impedanceMax)
	}

	return gaussianSmooth(z, smoothingSigma)
}

// gaussianSmooth convolves x with a normalized Gaussian kernel truncated
// at smoothingTruncate sigmas, reflecting x about its edges.
func gaussianSmooth(x []float64, sigma float64) []float64 {
	radius := int(smoothingTruncate*sigma + 0.5)
	if radius < 1 {
		out := make([]float64, len(x))
		copy(out, x)
		return out
	}

	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-0.5 * d * d / (sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	n := len(x)
	out := make([]float64, n)
	for i := range x {
		var acc float64
		for k, w := range kernel {
			acc += w * x[reflectIndex(i+k-radius, n)]
		}
		out[i] = acc
	}
	return out
}

// reflectIndex maps an out-of-range index back into [0, n) by mirroring
// about the array edges, edge samples included.
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}
