// Package engine implements the frequency-to-time transforms: the TDR
// step-response pipeline, Gaussian pulse responses via IFFT and ICZT, and
// the impedance profile derived from a TDR trace.
package engine

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/rfkit/sparam/internal/window"
)

// ErrTooFewPoints is returned when a transform needs at least two
// frequency samples to establish a grid spacing.
var ErrTooFewPoints = errors.New("engine: need at least two frequency points")

// TDROptions carries the validated knobs of the step-response pipeline.
// The caller is responsible for range checks; the engine applies the
// values as given.
type TDROptions struct {
	Window         window.Kind
	LowPass        bool
	PaddingFactor  int
	VelocityFactor float64

	// DCRealLimit and DCImagLimit bound the extrapolated DC estimate.
	DCRealLimit float64
	DCImagLimit float64

	// RotationSeconds is the peak-alignment shift target.
	RotationSeconds float64

	// RollOffStart is the fraction of the padded band where the
	// half-cosine roll-off begins.
	RollOffStart float64
}

// TDRResult holds the causal portion of the step response. The three
// slices share one length; TimeNS starts at zero while DistanceInches
// retains the pre-rotation origin of the distance axis.
type TDRResult struct {
	TimeNS         []float64
	DistanceInches []float64
	ReflectionMU   []float64
}

// TDR converts a reflection series into a step response in milli-units.
// freqs must be strictly increasing; series must have the same length.
//
// The pipeline extrapolates a DC point when the sweep does not reach zero,
// windows the spectrum, zero-pads by the padding factor, rolls off the top
// of the padded band, mirrors the spectrum into Hermitian form, inverse
// transforms, enforces causality around a small alignment rotation, and
// integrates the impulse into a step.
func TDR(freqs []float64, series []complex128, opts TDROptions) (TDRResult, error) {
	if len(freqs) < 2 || len(series) < 2 {
		return TDRResult{}, ErrTooFewPoints
	}

	f := append([]float64(nil), freqs...)
	s := append([]complex128(nil), series...)

	// Extrapolate a DC point when the sweep starts above zero.
	if f[0] > 0 {
		dc := extrapolateDC(s[0], s[1], opts.DCRealLimit, opts.DCImagLimit)
		f = append([]float64{0}, f...)
		s = append([]complex128{dc}, s...)

		logger.Debug().
			Float64("dc_real", real(dc)).
			Float64("dc_imag", imag(dc)).
			Msg("extrapolated dc point")
	}

	s = window.Apply(s, opts.Window, opts.LowPass)

	nOrig := len(f)
	nPadded := nOrig * opts.PaddingFactor
	fStep := f[1] - f[0]

	fPadded := make([]float64, nPadded)
	copy(fPadded, f)
	for i := nOrig; i < nPadded; i++ {
		fPadded[i] = f[nOrig-1] + fStep*float64(i-nOrig+1)
	}

	padded := make([]complex128, nPadded)
	copy(padded, s)

	applyRollOff(padded, opts.RollOffStart)

	sym := hermitianSpectrum(padded)
	impulse := inverseTransformReal(sym)

	n := len(sym)
	df := (fPadded[nPadded-1] - fPadded[0]) / float64(nPadded-1)
	dt := 1.0 / (2.0 * float64(n) * df)

	rotate := alignmentShift(dt, n, opts.RotationSeconds)

	rolled := rollRight(impulse, rotate)
	for i := 0; i < rotate; i++ {
		rolled[i] = 0
	}

	step := make([]float64, n)
	floats.CumSum(step, rolled)

	reflMU := make([]float64, n)
	f64.Scale(reflMU, step, milliUnits)

	distStep := speedOfLight * opts.VelocityFactor * dt / roundTripDivisor * inchesPerMeter

	timeNS := make([]float64, n-rotate)
	distance := make([]float64, n-rotate)
	for i := range timeNS {
		timeNS[i] = float64(i) * dt * secondsToNanoseconds
		distance[i] = float64(i+rotate) * distStep
	}

	logger.Debug().
		Int("points", n-rotate).
		Int("rotation_samples", rotate).
		Float64("dt_ns", dt*secondsToNanoseconds).
		Msg("tdr transform complete")

	return TDRResult{
		TimeNS:         timeNS,
		DistanceInches: distance,
		ReflectionMU:   reflMU[rotate:],
	}, nil
}

// extrapolateDC estimates the DC value by linear extrapolation from the
// first two sweep points, bounded to keep the network passive.
func extrapolateDC(s0, s1 complex128, realLimit, imagLimit float64) complex128 {
	dc := 2*s0 - s1

	if mag := cmplx.Abs(dc); mag > realLimit {
		dc *= complex(realLimit/mag, 0)
	}

	re := clamp(real(dc), -realLimit, realLimit)
	im := clamp(imag(dc), -imagLimit, imagLimit)
	return complex(re, im)
}

// applyRollOff tapers the top of the padded band with a half cosine so the
// mirrored spectrum has no discontinuity at the fold.
func applyRollOff(spectrum []complex128, start float64) {
	n := len(spectrum)
	cutoff := int(float64(n) * start)
	if cutoff >= n {
		return
	}
	span := float64(n - cutoff)
	for i := cutoff; i < n; i++ {
		roll := 0.5 * (1 + math.Cos(math.Pi*float64(i-cutoff)/span))
		spectrum[i] *= complex(roll, 0)
	}
}

// hermitianSpectrum mirrors a one-sided spectrum into the conjugate
// symmetric form whose inverse transform is real. The first and last
// samples are not duplicated, giving a length of 2n-2.
func hermitianSpectrum(oneSided []complex128) []complex128 {
	n := len(oneSided)
	sym := make([]complex128, 0, 2*n-2)
	sym = append(sym, oneSided...)
	for i := n - 2; i >= 1; i-- {
		sym = append(sym, cmplx.Conj(oneSided[i]))
	}
	return sym
}

// inverseTransformReal computes the normalized inverse DFT of a spectrum
// and returns the real part.
func inverseTransformReal(spectrum []complex128) []float64 {
	n := len(spectrum)
	fft := fourier.NewCmplxFFT(n)

	seq := fft.Sequence(nil, spectrum)

	out := make([]float64, n)
	scale := 1.0 / float64(n)
	for i, v := range seq {
		out[i] = real(v) * scale
	}
	return out
}

// alignmentShift returns the peak-alignment rotation in samples. The shift
// is clamped to a tenth of the record and disabled entirely when it would
// push energy past a quarter of the time span.
func alignmentShift(dt float64, n int, rotationSeconds float64) int {
	rotate := int(math.Round(rotationSeconds / dt))
	if rotate < 0 {
		rotate = 0
	}
	if limit := n / rotationClampDivisor; rotate > limit {
		rotate = limit
	}

	quarterSpan := float64(n/rotationSpanDivisor) * dt
	if float64(rotate)*dt > quarterSpan {
		logger.Warn().
			Float64("attempted_shift_ns", float64(rotate)*dt*secondsToNanoseconds).
			Msg("alignment rotation disabled to preserve causality")
		return 0
	}
	return rotate
}

// rollRight circularly shifts x right by k samples into a new slice.
func rollRight(x []float64, k int) []float64 {
	n := len(x)
	out := make([]float64, n)
	if k == 0 {
		copy(out, x)
		return out
	}
	for i := range x {
		out[(i+k)%n] = x[i]
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
