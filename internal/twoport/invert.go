package twoport

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// realEmbedding maps a complex 2x2 matrix onto the equivalent real 4x4
// block matrix [[Re, -Im], [Im, Re]] so that real-valued factorizations
// apply.
func realEmbedding(a Mat2) *mat.Dense {
	d := mat.NewDense(4, 4, nil)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			re := real(a[i][j])
			im := imag(a[i][j])
			d.Set(i, j, re)
			d.Set(i, j+2, -im)
			d.Set(i+2, j, im)
			d.Set(i+2, j+2, re)
		}
	}
	return d
}

// fromRealEmbedding recovers the complex matrix from its real embedding.
func fromRealEmbedding(d mat.Matrix) Mat2 {
	var a Mat2
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			a[i][j] = complex(d.At(i, j), d.At(i+2, j))
		}
	}
	return a
}

// InvOrPseudo inverts a, falling back to the Moore-Penrose pseudo-inverse
// when a is singular. The fallback keeps a cascade computation alive at
// frequency points where a fixture response is rank deficient.
func InvOrPseudo(a Mat2) Mat2 {
	if inv, err := a.Inv(); err == nil {
		return inv
	}
	return pseudoInverse(a)
}

// pseudoInverse computes the Moore-Penrose pseudo-inverse through an SVD
// of the real embedding.
func pseudoInverse(a Mat2) Mat2 {
	var svd mat.SVD
	if ok := svd.Factorize(realEmbedding(a), mat.SVDFull); !ok {
		return Mat2{}
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	// Reciprocal of the non-negligible singular values.
	tol := 1e-15 * s[0] * 4
	sInv := mat.NewDense(4, 4, nil)
	for i, sv := range s {
		if sv > tol {
			sInv.Set(i, i, 1/sv)
		}
	}

	var tmp, pinv mat.Dense
	tmp.Mul(sInv, u.T())
	pinv.Mul(&v, &tmp)

	return fromRealEmbedding(&pinv)
}

// Cond returns the 2-norm condition number of a, computed from the real
// embedding. Singular input yields +Inf.
func Cond(a Mat2) float64 {
	var svd mat.SVD
	if ok := svd.Factorize(realEmbedding(a), mat.SVDNone); !ok {
		return math.Inf(1)
	}
	s := svd.Values(nil)
	if s[len(s)-1] == 0 {
		return math.Inf(1)
	}
	return s[0] / s[len(s)-1]
}
