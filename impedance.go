package sparam

import "github.com/rfkit/sparam/internal/engine"

// ImpedanceProfile converts a TDR step response in milli-units into a
// smoothed differential impedance profile in ohms, one sample per input
// sample. The profile is bounded to the displayable 20..150 Ω range.
func ImpedanceProfile(reflectionMU []float64) []float64 {
	return engine.ImpedanceProfile(reflectionMU)
}
