package twoport

import (
	"math"
	"math/cmplx"
)

// SqrtDiagnostics reports the numeric quality of an eigendecomposition
// square root so callers can judge whether to accept the point.
type SqrtDiagnostics struct {
	// Eigenvalues of the input matrix.
	Eigenvalues [2]complex128

	// VectorCond is the 2-norm condition number of the eigenvector
	// matrix; +Inf for a defective input.
	VectorCond float64
}

// negRealImagRatio bounds how much imaginary part an eigenvalue may carry
// while still counting as lying on the negative real axis, where the
// principal square root branch is discontinuous.
const negRealImagRatio = 1e-12

// Sqrt computes the principal matrix square root of a 2x2 complex matrix
// through the closed-form eigendecomposition A = V·Λ·V⁻¹, giving
// √A = V·√Λ·V⁻¹ with the principal branch of each √λ.
//
// ErrSingular is returned when the eigenvector matrix cannot be inverted.
// All other quality judgements are left to the caller via the returned
// diagnostics.
func Sqrt(a Mat2) (Mat2, SqrtDiagnostics, error) {
	tr := a[0][0] + a[1][1]
	det := a.Det()
	disc := cmplx.Sqrt(tr*tr - 4*det)

	l1 := (tr + disc) / 2
	l2 := (tr - disc) / 2
	diag := SqrtDiagnostics{Eigenvalues: [2]complex128{l1, l2}}

	// Diagonal input needs no eigenvector machinery.
	if a[0][1] == 0 && a[1][0] == 0 {
		diag.VectorCond = 1
		return Mat2{
			{cmplx.Sqrt(a[0][0]), 0},
			{0, cmplx.Sqrt(a[1][1])},
		}, diag, nil
	}

	var v Mat2
	if a[0][1] != 0 {
		v = Mat2{
			{a[0][1], a[0][1]},
			{l1 - a[0][0], l2 - a[0][0]},
		}
	} else {
		v = Mat2{
			{l1 - a[1][1], l2 - a[1][1]},
			{a[1][0], a[1][0]},
		}
	}

	diag.VectorCond = Cond(v)

	vInv, err := v.Inv()
	if err != nil {
		diag.VectorCond = math.Inf(1)
		return Mat2{}, diag, err
	}

	sqrtLambda := Mat2{
		{cmplx.Sqrt(l1), 0},
		{0, cmplx.Sqrt(l2)},
	}

	return v.Mul(sqrtLambda).Mul(vInv), diag, nil
}

// OnNegativeRealAxis reports whether an eigenvalue lies on the negative
// real axis within the branch-cut tolerance.
func OnNegativeRealAxis(l complex128) bool {
	if real(l) >= 0 {
		return false
	}
	return math.Abs(imag(l)) <= negRealImagRatio*cmplx.Abs(l)
}
