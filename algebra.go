package sparam

import (
	"fmt"
	"sync"

	"github.com/rfkit/sparam/internal/twoport"
)

// pairOrder groups the differential pairs of a four-port wired
// [P1+, P2+, P3-, P4-] into input/output quadrants. The permutation is
// its own inverse, so it also restores the original order.
var pairOrder = [4]int{0, 2, 1, 3}

// AlgebraOptions configures the cascade operations.
// When EnableParallel is true, independent frequency points are processed
// concurrently. Results are identical either way.
type AlgebraOptions struct {
	EnableParallel bool
}

// EmbedLeft cascades a fixture in front of a device: the resulting network
// behaves as fixture followed by device. Both networks must be four-port
// with overlapping frequency ranges; the lower-resolution network is
// interpolated onto the higher-resolution grid.
//
// A singular interaction term falls back to a pseudo-inverse rather than
// failing, so embedding always produces a result on a valid grid.
func EmbedLeft(device, fixture *Network, opts AlgebraOptions) (*Network, error) {
	return cascade(device, fixture, opts, "embedded_left", embedLeftPoint)
}

// EmbedRight cascades a fixture behind a device: the resulting network
// behaves as device followed by fixture.
func EmbedRight(device, fixture *Network, opts AlgebraOptions) (*Network, error) {
	return cascade(device, fixture, opts, "embedded_right", embedRightPoint)
}

// DeembedLeft removes a fixture preceding the device from a combined
// measurement via T_actual = T_fixture⁻¹ · T_measured.
//
// Unlike embedding, de-embedding requires exact transfer-matrix inverses;
// a fixture that is singular at any frequency point aborts the whole
// operation with ErrSingularMatrix.
func DeembedLeft(measured, fixture *Network, opts AlgebraOptions) (*Network, error) {
	return cascade(measured, fixture, opts, "deembedded_left", deembedLeftPoint)
}

// DeembedRight removes a fixture following the device via
// T_actual = T_measured · T_fixture⁻¹.
func DeembedRight(measured, fixture *Network, opts AlgebraOptions) (*Network, error) {
	return cascade(measured, fixture, opts, "deembedded_right", deembedRightPoint)
}

// cascade aligns two four-port networks onto a common grid and applies a
// per-frequency block operation.
func cascade(device, fixture *Network, opts AlgebraOptions, name string,
	fn func(dev, fix twoport.BlockMatrix) (twoport.BlockMatrix, error)) (*Network, error) {

	if device.NumPorts != portsFour || fixture.NumPorts != portsFour {
		return nil, fmt.Errorf("%w: cascade operations require four-port networks", ErrInvalidConfig)
	}

	dev, fix, err := alignGrids(device, fixture)
	if err != nil {
		return nil, err
	}

	n := dev.NumPoints()
	s := make([][][]complex128, n)

	pointAt := func(k int) error {
		out, err := fn(blocksOf(dev.S[k]), blocksOf(fix.S[k]))
		if err != nil {
			return fmt.Errorf("%w: at %g Hz: %v", ErrSingularMatrix, dev.Freqs[k], err)
		}
		s[k] = matrixFromBlocks(out)
		return nil
	}

	if !opts.EnableParallel || n <= 1 {
		for k := 0; k < n; k++ {
			if err := pointAt(k); err != nil {
				return nil, err
			}
		}
	} else {
		var wg sync.WaitGroup
		errChan := make(chan error, n)

		for k := 0; k < n; k++ {
			wg.Add(1)
			go func(k int) {
				defer wg.Done()
				if err := pointAt(k); err != nil {
					errChan <- err
				}
			}(k)
		}

		wg.Wait()
		close(errChan)

		for err := range errChan {
			if err != nil {
				return nil, err
			}
		}
	}

	freqs := make([]float64, n)
	copy(freqs, dev.Freqs)

	logger.Debug().
		Str("operation", name).
		Int("points", n).
		Bool("parallel", opts.EnableParallel).
		Msg("cascade operation complete")

	return &Network{
		Freqs:    freqs,
		S:        s,
		NumPorts: portsFour,
		Z0:       dev.Z0,
		Name:     name,
	}, nil
}

// alignGrids restricts both networks to their overlapping frequency range
// and interpolates the lower-resolution one onto the other's grid.
func alignGrids(a, b *Network) (*Network, *Network, error) {
	lo := a.Freqs[0]
	if b.Freqs[0] > lo {
		lo = b.Freqs[0]
	}
	hi := a.Freqs[len(a.Freqs)-1]
	if last := b.Freqs[len(b.Freqs)-1]; last < hi {
		hi = last
	}
	if lo > hi {
		return nil, nil, fmt.Errorf("%w: no overlapping frequency range ([%g, %g] vs [%g, %g] Hz)",
			ErrRange, a.Freqs[0], a.Freqs[len(a.Freqs)-1], b.Freqs[0], b.Freqs[len(b.Freqs)-1])
	}

	aIdx := a.restrict(lo, hi)
	bIdx := b.restrict(lo, hi)
	if len(aIdx) == 0 || len(bIdx) == 0 {
		return nil, nil, fmt.Errorf("%w: no frequency samples inside overlap [%g, %g] Hz", ErrRange, lo, hi)
	}

	if len(aIdx) >= len(bIdx) {
		aMasked := a.subset(aIdx)
		bInterp, err := b.interpolate(aMasked.Freqs)
		if err != nil {
			return nil, nil, err
		}
		return aMasked, bInterp, nil
	}

	bMasked := b.subset(bIdx)
	aInterp, err := a.interpolate(bMasked.Freqs)
	if err != nil {
		return nil, nil, err
	}
	return aInterp, bMasked, nil
}

// blocksOf reorders one four-port matrix into differential-pair quadrants
// and extracts the four 2x2 blocks.
func blocksOf(m [][]complex128) twoport.BlockMatrix {
	var r [4][4]complex128
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[pairOrder[i]][pairOrder[j]]
		}
	}
	return twoport.BlockMatrix{
		A11: twoport.Mat2{{r[0][0], r[0][1]}, {r[1][0], r[1][1]}},
		A12: twoport.Mat2{{r[0][2], r[0][3]}, {r[1][2], r[1][3]}},
		A21: twoport.Mat2{{r[2][0], r[2][1]}, {r[3][0], r[3][1]}},
		A22: twoport.Mat2{{r[2][2], r[2][3]}, {r[3][2], r[3][3]}},
	}
}

// matrixFromBlocks reassembles the quadrants and restores the original
// port order.
func matrixFromBlocks(b twoport.BlockMatrix) [][]complex128 {
	var r [4][4]complex128
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			r[i][j] = b.A11[i][j]
			r[i][j+2] = b.A12[i][j]
			r[i+2][j] = b.A21[i][j]
			r[i+2][j+2] = b.A22[i][j]
		}
	}

	m := make([][]complex128, 4)
	for i := 0; i < 4; i++ {
		m[i] = make([]complex128, 4)
		for j := 0; j < 4; j++ {
			m[i][j] = r[pairOrder[i]][pairOrder[j]]
		}
	}
	return m
}

// embedLeftPoint computes the cascade of fixture then device at one
// frequency point using signal-flow composition on the pair quadrants.
func embedLeftPoint(dev, fix twoport.BlockMatrix) (twoport.BlockMatrix, error) {
	inv := twoport.InvOrPseudo(twoport.Identity2().Sub(fix.A22.Mul(dev.A11)))

	return twoport.BlockMatrix{
		A11: fix.A11.Add(fix.A12.Mul(dev.A11).Mul(inv).Mul(fix.A21)),
		A12: fix.A12.Mul(dev.A12.Add(dev.A11.Mul(inv).Mul(fix.A22).Mul(dev.A12))),
		A21: dev.A21.Mul(inv).Mul(fix.A21),
		A22: dev.A22.Add(dev.A21.Mul(inv).Mul(fix.A22).Mul(dev.A12)),
	}, nil
}

// embedRightPoint computes the cascade of device then fixture at one
// frequency point.
func embedRightPoint(dev, fix twoport.BlockMatrix) (twoport.BlockMatrix, error) {
	inv := twoport.InvOrPseudo(twoport.Identity2().Sub(dev.A22.Mul(fix.A11)))

	return twoport.BlockMatrix{
		A11: dev.A11.Add(dev.A12.Mul(fix.A11).Mul(inv).Mul(dev.A21)),
		A12: dev.A12.Mul(fix.A12.Add(fix.A11.Mul(inv).Mul(dev.A22).Mul(fix.A12))),
		A21: dev.A21.Mul(inv).Mul(fix.A21),
		A22: fix.A22.Add(fix.A21.Mul(inv).Mul(dev.A22).Mul(fix.A12)),
	}, nil
}

// deembedLeftPoint removes a preceding fixture at one frequency point in
// transfer-parameter space.
func deembedLeftPoint(measured, fix twoport.BlockMatrix) (twoport.BlockMatrix, error) {
	tMeasured, err := twoport.SToTBlock(measured)
	if err != nil {
		return twoport.BlockMatrix{}, err
	}
	tFix, err := twoport.SToTBlock(fix)
	if err != nil {
		return twoport.BlockMatrix{}, err
	}
	tFixInv, err := twoport.InvBlock(tFix)
	if err != nil {
		return twoport.BlockMatrix{}, err
	}
	return twoport.TToSBlock(twoport.MulBlock(tFixInv, tMeasured))
}

// deembedRightPoint removes a following fixture at one frequency point.
func deembedRightPoint(measured, fix twoport.BlockMatrix) (twoport.BlockMatrix, error) {
	tMeasured, err := twoport.SToTBlock(measured)
	if err != nil {
		return twoport.BlockMatrix{}, err
	}
	tFix, err := twoport.SToTBlock(fix)
	if err != nil {
		return twoport.BlockMatrix{}, err
	}
	tFixInv, err := twoport.InvBlock(tFix)
	if err != nil {
		return twoport.BlockMatrix{}, err
	}
	return twoport.TToSBlock(twoport.MulBlock(tMeasured, tFixInv))
}

// subset returns a view of the network restricted to the given sweep
// indices. Matrices are shared with the receiver; Networks are immutable
// so sharing is safe.
func (n *Network) subset(idx []int) *Network {
	freqs := make([]float64, len(idx))
	s := make([][][]complex128, len(idx))
	for k, i := range idx {
		freqs[k] = n.Freqs[i]
		s[k] = n.S[i]
	}
	return &Network{
		Freqs:    freqs,
		S:        s,
		NumPorts: n.NumPorts,
		Z0:       n.Z0,
		Name:     n.Name,
	}
}
