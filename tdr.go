package sparam

import (
	"errors"
	"fmt"

	"github.com/rfkit/sparam/internal/engine"
)

// TDRResult is a causal step response. The three slices share one length:
// time in nanoseconds starting at zero, one-way distance in inches, and
// the reflection coefficient in milli-units.
type TDRResult struct {
	TimeNS         []float64
	DistanceInches []float64
	ReflectionMU   []float64
}

// ComputeTDR converts a network's reflection response into a time-domain
// step response. Four-port networks use the differential-mode SDD11
// series; two-port networks use S11.
//
// A positive FreqLimitHz truncates the sweep before the transform; a
// limit below the lowest sweep frequency returns ErrRange.
func ComputeTDR(n *Network, cfg TDRConfig) (*TDRResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	freqs, series, err := limitSweep(n.Freqs, n.ReflectionSeries(), cfg.FreqLimitHz)
	if err != nil {
		return nil, err
	}

	tuning := cfg.Tuning.withDefaults()
	res, err := engine.TDR(freqs, series, engine.TDROptions{
		Window:          cfg.Window.kind(),
		LowPass:         cfg.Window.LowPass,
		PaddingFactor:   cfg.Window.PaddingFactor,
		VelocityFactor:  cfg.velocity(),
		DCRealLimit:     tuning.DCRealLimit,
		DCImagLimit:     tuning.DCImagLimit,
		RotationSeconds: tuning.RotationSeconds,
		RollOffStart:    tuning.RollOffStart,
	})
	if err != nil {
		if errors.Is(err, engine.ErrTooFewPoints) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		return nil, err
	}

	return &TDRResult{
		TimeNS:         res.TimeNS,
		DistanceInches: res.DistanceInches,
		ReflectionMU:   res.ReflectionMU,
	}, nil
}

// limitSweep truncates a sweep to frequencies at or below limitHz. A zero
// limit keeps the full sweep; a limit below the lowest frequency is a
// range error.
func limitSweep(freqs []float64, series []complex128, limitHz float64) ([]float64, []complex128, error) {
	if limitHz <= 0 {
		return freqs, series, nil
	}
	if limitHz < freqs[0] {
		return nil, nil, fmt.Errorf("%w: frequency limit %g Hz below sweep start %g Hz",
			ErrRange, limitHz, freqs[0])
	}

	cut := len(freqs)
	for i, f := range freqs {
		if f > limitHz {
			cut = i
			break
		}
	}

	logger.Debug().
		Int("kept", cut).
		Int("total", len(freqs)).
		Float64("limit_hz", limitHz).
		Msg("applied frequency limit")

	return freqs[:cut], series[:cut], nil
}
