// Package prony approximates the finite-depth remainder function by a sum of
// exponentials, using Prony's method on a uniform sample.
package prony

import (
	"math"

	"go.ngs.io/wavegreen/internal/adapter/interp"
)

// Residual is the function approximated by the exponential sum, for a given
// dimensionless frequency omega = kh tanh(kh) and dimensionless wavenumber kh:
//
//	f(x) = (x + omega) e^x / (x sinh x - omega cosh x) - c / (x - kh) - 2
//
// where c removes the pole at x = kh. Near the pole the function is replaced by the
// parabola through kh - tol, kh and kh + tol.
//
// The denominator also vanishes at x = -kh. That pole is not removed; the window
// and the sampled interval stay on its right.
type Residual struct {
	omega float64
	kh    float64
	coef  float64
	tol   float64
	start float64
}

// poleClearance is the smallest distance kept between SampleStart and the pole
// at x = -kh. Closer poles move the sampled interval to start at 0.
const poleClearance = 0.1

// NewResidual prepares the residual function for the given dimensionless values.
func NewResidual(omega, kh float64) Residual {
	start := SampleStart
	if -kh > SampleStart-poleClearance {
		start = 0
	}
	return Residual{
		omega: omega,
		kh:    kh,
		coef:  (kh + omega) * (kh + omega) / (kh*kh - omega*omega + omega),
		tol:   math.Min(math.Max(0.1, 0.1*kh), kh),
		start: start,
	}
}

// Window returns the interval on which the residual is sampled and fitted.
func (r Residual) Window() (start, end float64) {
	return r.start, SampleEnd
}

func (r Residual) direct(x float64) float64 {
	return (x+r.omega)*math.Exp(x)/(x*math.Sinh(x)-r.omega*math.Cosh(x)) - r.coef/(x-r.kh) - 2
}

// At evaluates the residual function at x.
func (r Residual) At(x float64) float64 {
	if math.Abs(x-r.kh) > r.tol {
		return r.direct(x)
	}

	a := r.kh - r.tol
	c := r.kh + r.tol
	// The regular value at the removed pole, taken symmetrically.
	d := 1e-3 * r.tol
	b := 0.5 * (r.direct(r.kh-d) + r.direct(r.kh+d))

	w := interp.Weights(a, r.kh, c, x)
	return w[0]*r.direct(a) + w[1]*b + w[2]*r.direct(c)
}

// Sample evaluates the residual function at every x.
func (r Residual) Sample(xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = r.At(x)
	}
	return ys
}
