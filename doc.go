// Package sparam provides multiport RF network (S-parameter) analysis in pure Go.
//
// The library parses Touchstone-style measurement text into frequency-indexed
// S-matrices and transforms them into the views an RF engineer works with:
// time-domain reflectometry (TDR), pulse responses, characteristic-impedance
// profiles, and algebraically composed or decomposed networks.
//
// # Features
//
//   - Touchstone parsing for 2-port and 4-port measurements (RI/MA/DB formats)
//   - Single-ended to differential-mode (SDD) conversion for 4-port pairs
//   - TDR with DC extrapolation, spectral windowing, zero-padding, causal
//     band-limiting, and a velocity-factor-scaled distance axis
//   - Pulse responses via windowed IFFT or inverse chirp-Z transform
//   - Impedance profiling from TDR step responses
//   - Fixture embedding and de-embedding via block S/T matrix algebra
//   - Single-device extraction from a doubled (2x) cascade measurement
//
// # Quick Start
//
// Parse a measurement and compute its TDR view:
//
//	network, err := sparam.ParseTouchstone(fileText, "board.s4p")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := sparam.ComputeTDR(network, sparam.TDRConfig{
//	    Window:         sparam.WindowSpec{Type: sparam.WindowNone, PaddingFactor: 2},
//	    VelocityFactor: 0.5,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	profile := sparam.ImpedanceProfile(result.ReflectionMU)
//
// Remove a known fixture from a combined measurement:
//
//	dut, err := sparam.DeembedLeft(measured, fixture, sparam.AlgebraOptions{})
//
// # Data Model
//
// A [Network] is immutable once constructed: every operation returns a new
// Network and never mutates its inputs. All transforms are deterministic,
// synchronous, and free of I/O; reading files and rendering results belong
// to the caller.
//
// # Error Handling
//
// Structural failures are reported through sentinel errors ([ErrParse],
// [ErrRange], [ErrSingularMatrix], [ErrInvalidConfig]) wrapped with context.
// Per-frequency numeric instability in [ExtractSingleDevice] is never an
// error: affected points fall back to the symmetric-network method and the
// occurrences are aggregated in an [ExtractReport].
//
// # Diagnostics
//
// The library is silent by default. Call [SetLogger] with a zerolog logger
// to receive the per-stage diagnostics (DC extrapolation estimates, rotation
// decisions, extraction fallback summaries) at debug level.
package sparam
