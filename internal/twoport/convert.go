package twoport

// Scattering/transfer conversions in the wave cascade convention:
//
//	T = | S12 - S11·S21⁻¹·S22   S11·S21⁻¹ |
//	    |       -S21⁻¹·S22        S21⁻¹   |
//
// which makes the transfer matrix of a cascade the product of the
// individual transfer matrices.

// SToT converts a scattering matrix to transfer form. S21 must be
// nonzero; a zero transmission path has no transfer representation and
// yields ErrSingular.
func SToT(s Mat2) (Mat2, error) {
	if s[1][0] == 0 {
		return Mat2{}, ErrSingular
	}
	inv := 1 / s[1][0]
	return Mat2{
		{s[0][1] - s[0][0]*inv*s[1][1], s[0][0] * inv},
		{-inv * s[1][1], inv},
	}, nil
}

// TToS converts a transfer matrix back to scattering form. T22 must be
// nonzero.
func TToS(t Mat2) (Mat2, error) {
	if t[1][1] == 0 {
		return Mat2{}, ErrSingular
	}
	inv := 1 / t[1][1]
	return Mat2{
		{t[0][1] * inv, t[0][0] - t[0][1]*inv*t[1][0]},
		{inv, -inv * t[1][0]},
	}, nil
}

// BlockMatrix is a 4x4 complex matrix expressed as four 2x2 blocks, the
// working form for the cascade algebra on reordered four-port networks.
type BlockMatrix struct {
	A11, A12, A21, A22 Mat2
}

// SToTBlock converts a block scattering matrix to block transfer form.
// The A21 block must be invertible.
func SToTBlock(s BlockMatrix) (BlockMatrix, error) {
	inv21, err := s.A21.Inv()
	if err != nil {
		return BlockMatrix{}, err
	}
	return BlockMatrix{
		A11: s.A12.Sub(s.A11.Mul(inv21).Mul(s.A22)),
		A12: s.A11.Mul(inv21),
		A21: inv21.Mul(s.A22).Scale(-1),
		A22: inv21,
	}, nil
}

// TToSBlock converts a block transfer matrix back to block scattering
// form. The A22 block must be invertible.
func TToSBlock(t BlockMatrix) (BlockMatrix, error) {
	inv22, err := t.A22.Inv()
	if err != nil {
		return BlockMatrix{}, err
	}
	return BlockMatrix{
		A11: t.A12.Mul(inv22),
		A12: t.A11.Sub(t.A12.Mul(inv22).Mul(t.A21)),
		A21: inv22,
		A22: inv22.Mul(t.A21).Scale(-1),
	}, nil
}

// MulBlock returns the block product a·b.
func MulBlock(a, b BlockMatrix) BlockMatrix {
	return BlockMatrix{
		A11: a.A11.Mul(b.A11).Add(a.A12.Mul(b.A21)),
		A12: a.A11.Mul(b.A12).Add(a.A12.Mul(b.A22)),
		A21: a.A21.Mul(b.A11).Add(a.A22.Mul(b.A21)),
		A22: a.A21.Mul(b.A12).Add(a.A22.Mul(b.A22)),
	}
}

// InvBlock inverts a block matrix via the Schur complement of A11. Both
// A11 and its Schur complement must be invertible.
func InvBlock(m BlockMatrix) (BlockMatrix, error) {
	a11Inv, err := m.A11.Inv()
	if err != nil {
		return BlockMatrix{}, err
	}

	// Schur complement S = A22 - A21·A11⁻¹·A12.
	schur := m.A22.Sub(m.A21.Mul(a11Inv).Mul(m.A12))
	schurInv, err := schur.Inv()
	if err != nil {
		return BlockMatrix{}, err
	}

	b12 := a11Inv.Mul(m.A12).Mul(schurInv).Scale(-1)
	b21 := schurInv.Mul(m.A21).Mul(a11Inv).Scale(-1)
	b11 := a11Inv.Add(a11Inv.Mul(m.A12).Mul(schurInv).Mul(m.A21).Mul(a11Inv))

	return BlockMatrix{A11: b11, A12: b12, A21: b21, A22: schurInv}, nil
}
