package sparam

import (
	"errors"
	"fmt"

	"github.com/rfkit/sparam/internal/engine"
)

// PulseResult is a unity-peak pulse response: time in nanoseconds and the
// complex pulse amplitude.
type PulseResult struct {
	TimeNS []float64
	Pulse  []complex128
}

// ComputePulseResponse computes the time-domain pulse response of the
// configured path. The reflection path uses S11/SDD11, the transmission
// path S21/SDD21.
//
// The default strategy shapes the spectrum with a Gaussian and inverse
// transforms the zero-padded series; UseICZT selects the direct
// chirp-Z evaluation instead, which trades runtime for a finer time grid.
func ComputePulseResponse(n *Network, cfg PulseConfig) (*PulseResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var series []complex128
	switch cfg.Path {
	case PulseTransmission:
		series = n.TransmissionSeries()
	default:
		series = n.ReflectionSeries()
	}

	opts := engine.PulseOptions{
		Window:        cfg.Window.kind(),
		LowPass:       cfg.Window.LowPass,
		PaddingFactor: cfg.Window.PaddingFactor,
	}

	var (
		res engine.PulseResult
		err error
	)
	if cfg.UseICZT {
		res, err = engine.PulseICZT(n.Freqs, series, opts)
	} else {
		res, err = engine.PulseIFFT(n.Freqs, series, opts)
	}
	if err != nil {
		if errors.Is(err, engine.ErrTooFewPoints) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		return nil, err
	}

	return &PulseResult{TimeNS: res.TimeNS, Pulse: res.Pulse}, nil
}
