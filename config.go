package sparam

import (
	"fmt"
	"strings"

	"github.com/rfkit/sparam/internal/window"
)

// Padding factor bounds for zero-padding before the inverse transform.
const (
	MinPaddingFactor = 2
	MaxPaddingFactor = 128
)

// defaultVelocityFactor is the propagation velocity fallback for PCB
// materials, as a fraction of c.
const defaultVelocityFactor = 0.5

// WindowType selects the spectral window applied before time-domain
// conversion.
type WindowType int

const (
	// WindowNone keeps the original spectrum.
	WindowNone WindowType = iota

	// WindowHamming offers good frequency resolution.
	WindowHamming

	// WindowHanning reduces spectral leakage.
	WindowHanning

	// WindowBlackman has the strongest sidelobe suppression.
	WindowBlackman

	// WindowKaiser uses a fixed shape parameter of β=8.
	WindowKaiser

	// WindowFlattop is a 5-term cosine-sum window.
	WindowFlattop

	// WindowExponential is the PLTS-style exp(-f²) taper.
	WindowExponential
)

// String returns the lower-case window name as used in configuration files.
func (w WindowType) String() string {
	switch w {
	case WindowNone:
		return "none"
	case WindowHamming:
		return "hamming"
	case WindowHanning:
		return "hanning"
	case WindowBlackman:
		return "blackman"
	case WindowKaiser:
		return "kaiser"
	case WindowFlattop:
		return "flattop"
	case WindowExponential:
		return "exponential"
	default:
		return "unknown"
	}
}

// ParseWindowType converts a window name to a WindowType. Names are
// case-insensitive.
func ParseWindowType(s string) (WindowType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return WindowNone, nil
	case "hamming":
		return WindowHamming, nil
	case "hanning", "hann":
		return WindowHanning, nil
	case "blackman":
		return WindowBlackman, nil
	case "kaiser":
		return WindowKaiser, nil
	case "flattop":
		return WindowFlattop, nil
	case "exponential":
		return WindowExponential, nil
	default:
		return WindowNone, fmt.Errorf("%w: unknown window type %q", ErrInvalidConfig, s)
	}
}

// WindowSpec configures spectral windowing and zero-padding. It carries no
// state; the same spec may be reused across calls.
type WindowSpec struct {
	// Type selects the base window function.
	Type WindowType

	// PaddingFactor multiplies the series length before the inverse
	// transform. Must be in [MinPaddingFactor, MaxPaddingFactor].
	PaddingFactor int

	// LowPass additionally tapers the top third of the band with a
	// half-cosine roll-off.
	LowPass bool
}

// Validate checks the window specification.
func (w *WindowSpec) Validate() error {
	if w.PaddingFactor < MinPaddingFactor || w.PaddingFactor > MaxPaddingFactor {
		return fmt.Errorf("%w: padding factor %d out of range [%d, %d]",
			ErrInvalidConfig, w.PaddingFactor, MinPaddingFactor, MaxPaddingFactor)
	}
	return nil
}

// kind maps the public window type onto the internal window package.
func (w *WindowSpec) kind() window.Kind {
	switch w.Type {
	case WindowHamming:
		return window.Hamming
	case WindowHanning:
		return window.Hanning
	case WindowBlackman:
		return window.Blackman
	case WindowKaiser:
		return window.Kaiser
	case WindowFlattop:
		return window.Flattop
	case WindowExponential:
		return window.Exponential
	default:
		return window.None
	}
}

// TDRTuning holds the empirical constants of the TDR pipeline. They have
// no documented derivation in measurement practice; they are exposed as
// named, overridable defaults rather than hard invariants. The zero value
// selects the defaults.
type TDRTuning struct {
	// DCRealLimit clips the real part of the extrapolated DC point.
	DCRealLimit float64

	// DCImagLimit clips the imaginary part of the extrapolated DC point.
	// Keeping it small leaves the DC estimate real-dominated for passive
	// differential pairs while retaining slight phase for causality.
	DCImagLimit float64

	// RotationSeconds is the nominal alignment shift applied to the
	// impulse response before causality enforcement.
	RotationSeconds float64

	// RollOffStart is the fraction of the padded bandwidth beyond which
	// a half-cosine roll-off approximates causal band-limiting.
	RollOffStart float64
}

// Default TDR tuning values.
const (
	defaultDCRealLimit     = 0.99
	defaultDCImagLimit     = 0.1
	defaultRotationSeconds = 0.05e-9
	defaultRollOffStart    = 0.8
)

// withDefaults fills zero fields with the default tuning.
func (t TDRTuning) withDefaults() TDRTuning {
	if t.DCRealLimit == 0 {
		t.DCRealLimit = defaultDCRealLimit
	}
	if t.DCImagLimit == 0 {
		t.DCImagLimit = defaultDCImagLimit
	}
	if t.RotationSeconds == 0 {
		t.RotationSeconds = defaultRotationSeconds
	}
	if t.RollOffStart == 0 {
		t.RollOffStart = defaultRollOffStart
	}
	return t
}

// TDRConfig configures a TDR computation.
type TDRConfig struct {
	// Window configures spectral windowing and zero-padding.
	Window WindowSpec

	// VelocityFactor is the signal propagation speed as a fraction of c,
	// in (0, 1]. Out-of-range values fall back to 0.5.
	VelocityFactor float64

	// FreqLimitHz truncates the sweep to frequencies at or below this
	// value. Zero means no limit. A limit below the lowest sweep
	// frequency is a range error.
	FreqLimitHz float64

	// Tuning overrides the empirical pipeline constants. The zero value
	// selects the defaults.
	Tuning TDRTuning
}

// Validate checks the TDR configuration.
func (c *TDRConfig) Validate() error {
	return c.Window.Validate()
}

// velocity returns the velocity factor, falling back to the PCB default
// when the configured value is outside (0, 1].
func (c *TDRConfig) velocity() float64 {
	if c.VelocityFactor <= 0 || c.VelocityFactor > 1 {
		return defaultVelocityFactor
	}
	return c.VelocityFactor
}

// PulsePath selects which series a pulse response is computed from.
type PulsePath int

const (
	// PulseReflection uses the reflection series (S11 / SDD11).
	PulseReflection PulsePath = iota

	// PulseTransmission uses the transmission series (S21 / SDD21).
	PulseTransmission
)

// PulseConfig configures a pulse-response computation.
type PulseConfig struct {
	// Window configures spectral windowing and zero-padding.
	Window WindowSpec

	// Path selects the reflection or transmission series.
	Path PulsePath

	// UseICZT switches from the windowed-IFFT strategy to the
	// higher-resolution inverse chirp-Z transform.
	UseICZT bool
}

// Validate checks the pulse configuration.
func (c *PulseConfig) Validate() error {
	if c.Path != PulseReflection && c.Path != PulseTransmission {
		return fmt.Errorf("%w: unknown pulse path %d", ErrInvalidConfig, c.Path)
	}
	return c.Window.Validate()
}
