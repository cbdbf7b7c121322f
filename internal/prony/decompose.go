package prony

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"go.ngs.io/wavegreen/internal/green"
)

// ErrIllConditioned is returned when the sample does not determine the requested
// number of exponentials.
var ErrIllConditioned = errors.New("ill-conditioned exponential decomposition")

// Decompose fits f(x) ~ sum_j a_j exp(lambda_j x) with n terms to samples ys taken
// at the uniformly spaced points xs.
//
// The linear-prediction coefficients and the amplitudes are least-squares solutions
// obtained by SVD; the exponentials are the roots of the prediction polynomial,
// found as eigenvalues of its companion matrix.
func Decompose(xs, ys []float64, n int) (green.ExpSum, error) {
	if len(xs) != len(ys) {
		return green.ExpSum{}, fmt.Errorf("sample has %d abscissae and %d values", len(xs), len(ys))
	}
	if n < 1 || len(xs) < 2*n+1 {
		return green.ExpSum{}, fmt.Errorf("%d samples cannot determine %d exponentials", len(xs), n)
	}
	dx := xs[1] - xs[0]

	// Linear prediction: y[i+n] + sum_j p_j y[i+j] = 0.
	rows := len(ys) - n
	hankel := mat.NewDense(rows, n, nil)
	rhs := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < n; j++ {
			hankel.Set(i, j, ys[i+j])
		}
		rhs.SetVec(i, -ys[i+n])
	}

	p, err := leastSquares(hankel, rhs)
	if err != nil {
		return green.ExpSum{}, fmt.Errorf("linear prediction: %w", err)
	}

	// Companion matrix of mu^n + p_{n-1} mu^{n-1} + ... + p_0.
	companion := mat.NewDense(n, n, nil)
	for i := 1; i < n; i++ {
		companion.Set(i, i-1, 1)
	}
	for i := 0; i < n; i++ {
		companion.Set(i, n-1, -p.AtVec(i))
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return green.ExpSum{}, fmt.Errorf("prediction polynomial roots: %w", ErrIllConditioned)
	}
	roots := eig.Values(nil)

	lambda := make([]float64, n)
	for j, mu := range roots {
		if cmplx.Abs(mu) == 0 {
			return green.ExpSum{}, fmt.Errorf("zero root of the prediction polynomial: %w", ErrIllConditioned)
		}
		lambda[j] = real(cmplx.Log(mu)) / dx
	}

	// Amplitudes: least-squares fit of the sampled values.
	basis := mat.NewDense(len(xs), n, nil)
	for i, x := range xs {
		for j, l := range lambda {
			basis.Set(i, j, math.Exp(l*x))
		}
	}
	amps, err := leastSquares(basis, mat.NewVecDense(len(ys), append([]float64(nil), ys...)))
	if err != nil {
		return green.ExpSum{}, fmt.Errorf("amplitudes: %w", err)
	}

	a := make([]float64, n)
	for j := range a {
		a[j] = amps.AtVec(j)
	}
	return green.ExpSum{Lambda: lambda, A: a}, nil
}

// leastSquares returns the minimum-norm least-squares solution of a x = b,
// discarding singular values below machine precision relative to the largest.
func leastSquares(a *mat.Dense, b *mat.VecDense) (*mat.VecDense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrIllConditioned
	}
	r, c := a.Dims()
	rank := svd.Rank(float64(max(r, c)) * 0x1p-52)
	if rank == 0 {
		return nil, ErrIllConditioned
	}

	var x mat.VecDense
	svd.SolveVecTo(&x, b, rank)
	return &x, nil
}

// Eval returns sum_j a_j exp(lambda_j x).
func Eval(e green.ExpSum, x float64) float64 {
	var sum float64
	for j := range e.Lambda {
		sum += e.A[j] * math.Exp(e.Lambda[j]*x)
	}
	return sum
}

// MaxError returns the largest absolute deviation of the exponential sum from ys
// at the points xs.
func MaxError(e green.ExpSum, xs, ys []float64) float64 {
	var m float64
	for i, x := range xs {
		m = math.Max(m, math.Abs(Eval(e, x)-ys[i]))
	}
	return m
}
