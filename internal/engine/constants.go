package engine

import "math"

// Physical constants.
const (
	// speedOfLight is c₀ in m/s.
	speedOfLight = 299792458.0

	// inchesPerMeter converts the distance axis for display.
	inchesPerMeter = 39.3701

	// secondsToNanoseconds scales the time axis for display.
	secondsToNanoseconds = 1e9

	// milliUnits converts reflection coefficients to milli-units.
	milliUnits = 1000.0
)

// TDR pipeline constants.
const (
	// rotationClampDivisor limits the alignment shift to len/10 samples.
	rotationClampDivisor = 10

	// rotationSpanDivisor marks 25% of the time span; a shift beyond it
	// would break causality and is disabled instead.
	rotationSpanDivisor = 4

	// roundTripDivisor halves the distance axis for the two-way travel
	// of a reflected wave.
	roundTripDivisor = 2
)

// Pulse response constants.
const (
	// gaussianWidthFactor sets the frequency-domain pulse width:
	// σ = gaussianWidthFactor / (2π·f_max).
	gaussianWidthFactor = 0.1

	// icztSpanDivisor evaluates the chirp-Z transform over the first
	// half of the unambiguous time range 1/Δf.
	icztSpanDivisor = 2
)

// Impedance profile constants.
const (
	// differentialZ0 is the differential-pair reference impedance in ohms.
	differentialZ0 = 100.0

	// reflectionClip bounds the reflection coefficient before the
	// bilinear impedance transform.
	reflectionClip = 0.8

	// impedanceMin and impedanceMax bound the displayed profile in ohms.
	impedanceMin = 20.0
	impedanceMax = 150.0

	// smoothingSigma is the Gaussian smoothing width in samples.
	smoothingSigma = 0.8

	// smoothingTruncate bounds the Gaussian kernel at this many sigmas.
	smoothingTruncate = 4.0
)

// twoPi is shared by the window/transform phase terms.
const twoPi = 2 * math.Pi
