// Package twoport provides the small dense complex matrix operations used
// by the cascade algebra: 2x2 arithmetic, conversions between scattering
// and transfer form, pseudo-inverse fallbacks, and the principal matrix
// square root.
package twoport

import (
	"errors"
	"math/cmplx"
)

// ErrSingular is returned when a matrix required to be invertible is
// singular within floating-point precision.
var ErrSingular = errors.New("twoport: singular matrix")

// Mat2 is a dense 2x2 complex matrix in row-major order.
type Mat2 [2][2]complex128

// Identity2 returns the 2x2 identity.
func Identity2() Mat2 {
	return Mat2{{1, 0}, {0, 1}}
}

// Mul returns a·b.
func (a Mat2) Mul(b Mat2) Mat2 {
	return Mat2{
		{a[0][0]*b[0][0] + a[0][1]*b[1][0], a[0][0]*b[0][1] + a[0][1]*b[1][1]},
		{a[1][0]*b[0][0] + a[1][1]*b[1][0], a[1][0]*b[0][1] + a[1][1]*b[1][1]},
	}
}

// Add returns a+b.
func (a Mat2) Add(b Mat2) Mat2 {
	return Mat2{
		{a[0][0] + b[0][0], a[0][1] + b[0][1]},
		{a[1][0] + b[1][0], a[1][1] + b[1][1]},
	}
}

// Sub returns a-b.
func (a Mat2) Sub(b Mat2) Mat2 {
	return Mat2{
		{a[0][0] - b[0][0], a[0][1] - b[0][1]},
		{a[1][0] - b[1][0], a[1][1] - b[1][1]},
	}
}

// Scale returns s·a.
func (a Mat2) Scale(s complex128) Mat2 {
	return Mat2{
		{s * a[0][0], s * a[0][1]},
		{s * a[1][0], s * a[1][1]},
	}
}

// Det returns the determinant of a.
func (a Mat2) Det() complex128 {
	return a[0][0]*a[1][1] - a[0][1]*a[1][0]
}

// Inv returns the exact inverse of a, or ErrSingular when the determinant
// vanishes.
func (a Mat2) Inv() (Mat2, error) {
	det := a.Det()
	if det == 0 || cmplx.IsNaN(det) || cmplx.IsInf(det) {
		return Mat2{}, ErrSingular
	}
	inv := 1 / det
	return Mat2{
		{a[1][1] * inv, -a[0][1] * inv},
		{-a[1][0] * inv, a[0][0] * inv},
	}, nil
}

// IsFinite reports whether every entry of a is finite.
func (a Mat2) IsFinite() bool {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			v := a[i][j]
			if cmplx.IsNaN(v) || cmplx.IsInf(v) {
				return false
			}
		}
	}
	return true
}

// MaxAbs returns the largest entry magnitude of a.
func (a Mat2) MaxAbs() float64 {
	var max float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if m := cmplx.Abs(a[i][j]); m > max {
				max = m
			}
		}
	}
	return max
}
