package engine

import (
	"math"
	"math/cmplx"

	"github.com/tphakala/simd/c128"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/rfkit/sparam/internal/window"
)

// PulseOptions carries the validated knobs of the pulse-response
// transforms.
type PulseOptions struct {
	Window        window.Kind
	LowPass       bool
	PaddingFactor int
}

// PulseResult holds a unity-normalized complex pulse response.
type PulseResult struct {
	TimeNS []float64
	Pulse  []complex128
}

// PulseIFFT computes the pulse response by shaping the windowed spectrum
// with a frequency-domain Gaussian and inverse transforming the padded
// series. The result is normalized to unity peak magnitude.
func PulseIFFT(freqs []float64, series []complex128, opts PulseOptions) (PulseResult, error) {
	if len(freqs) < 2 || len(series) < 2 {
		return PulseResult{}, ErrTooFewPoints
	}

	windowed := window.Apply(series, opts.Window, opts.LowPass)

	nOrig := len(freqs)
	nPadded := nOrig * opts.PaddingFactor
	fStep := freqs[1] - freqs[0]
	fMax := freqs[0] + fStep*float64(nPadded-1)

	padded := make([]complex128, nPadded)
	copy(padded, windowed)

	// Gaussian pulse shape in the frequency domain.
	sigma := gaussianWidthFactor / (twoPi * fMax)
	gauss := make([]complex128, nPadded)
	for i := range gauss {
		f := freqs[0] + fStep*float64(i)
		gauss[i] = complex(math.Exp(-0.5*(f*sigma)*(f*sigma)), 0)
	}

	shaped := make([]complex128, nPadded)
	c128.Mul(shaped, padded, gauss)

	fft := fourier.NewCmplxFFT(nPadded)
	pulse := fft.Sequence(nil, shaped)
	scale := complex(1.0/float64(nPadded), 0)
	for i := range pulse {
		pulse[i] *= scale
	}

	normalizePeak(pulse)

	dt := 1.0 / (2.0 * fMax)
	timeNS := make([]float64, nPadded)
	for i := range timeNS {
		timeNS[i] = float64(i) * dt * secondsToNanoseconds
	}

	logger.Debug().
		Int("points", nPadded).
		Float64("dt_ns", dt*secondsToNanoseconds).
		Msg("pulse response via ifft")

	return PulseResult{TimeNS: timeNS, Pulse: pulse}, nil
}

// PulseICZT computes the pulse response by direct evaluation of the
// inverse chirp-Z sum over [0, 1/(2Δf)]. It trades O(N·M) work for a time
// grid that is independent of the FFT bin spacing. A Hann window is always
// applied on top of the configured window to suppress ringing.
func PulseICZT(freqs []float64, series []complex128, opts PulseOptions) (PulseResult, error) {
	if len(freqs) < 2 || len(series) < 2 {
		return PulseResult{}, ErrTooFewPoints
	}

	windowed := window.Apply(series, opts.Window, opts.LowPass)
	windowed = window.Apply(windowed, window.Hanning, false)

	tMax := 1.0 / (freqs[1] - freqs[0])
	tStop := tMax / icztSpanDivisor
	numPoints := len(freqs) * opts.PaddingFactor

	timeNS := make([]float64, numPoints)
	pulse := make([]complex128, numPoints)

	invLen := 1.0 / float64(len(freqs))
	for i := 0; i < numPoints; i++ {
		t := tStop * float64(i) / float64(numPoints-1)

		var sum complex128
		for k, s := range windowed {
			phase := twoPi * freqs[k] * t
			sum += s * cmplx.Exp(complex(0, phase))
		}
		pulse[i] = sum * complex(invLen, 0)
		timeNS[i] = t * secondsToNanoseconds
	}

	normalizePeak(pulse)

	logger.Debug().
		Int("points", numPoints).
		Float64("t_stop_ns", tStop*secondsToNanoseconds).
		Msg("pulse response via iczt")

	return PulseResult{TimeNS: timeNS, Pulse: pulse}, nil
}

// normalizePeak scales the pulse to unity peak magnitude in place. An
// all-zero pulse is left unchanged.
func normalizePeak(pulse []complex128) {
	var peak float64
	for _, v := range pulse {
		if m := cmplx.Abs(v); m > peak {
			peak = m
		}
	}
	if peak > 0 && peak != 1.0 {
		inv := complex(1.0/peak, 0)
		for i := range pulse {
			pulse[i] *= inv
		}
	}
}
