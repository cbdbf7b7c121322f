package domain

import (
	"math"
	"math/cmplx"
)

// Result is one Green's function contribution: a complex potential and its complex
// gradient with respect to the field point.
type Result struct {
	Potential complex128
	Gradient  CVec3
}

// Add returns the component-wise sum of r and o.
func (r Result) Add(o Result) Result {
	return Result{
		Potential: r.Potential + o.Potential,
		Gradient:  r.Gradient.Add(o.Gradient),
	}
}

// Scale multiplies potential and gradient by c.
func (r Result) Scale(c complex128) Result {
	return Result{
		Potential: r.Potential * c,
		Gradient:  r.Gradient.Scale(c),
	}
}

// FlipVertical negates the vertical gradient component. It is applied to terms
// evaluated at a field point mirrored through a horizontal plane.
func (r Result) FlipVertical() Result {
	r.Gradient[2] = -r.Gradient[2]
	return r
}

// IsFinite reports whether every component of r is finite, with neither NaN nor
// infinite real or imaginary parts.
func (r Result) IsFinite() bool {
	if !finite(r.Potential) {
		return false
	}
	for _, g := range r.Gradient {
		if !finite(g) {
			return false
		}
	}
	return true
}

func finite(c complex128) bool {
	return !cmplx.IsNaN(c) && !cmplx.IsInf(c)
}

// IsZero reports whether r is exactly zero.
func (r Result) IsZero() bool {
	return r == Result{}
}

// MaxAbs returns the largest modulus among the potential and gradient components.
func (r Result) MaxAbs() float64 {
	m := cmplx.Abs(r.Potential)
	for _, g := range r.Gradient {
		m = math.Max(m, cmplx.Abs(g))
	}
	return m
}

// SymmetricResult pairs the contribution of a source with the contribution of its
// mirror image through the plane y = 0. Mirror is zero when symmetry is not used.
type SymmetricResult struct {
	Direct Result
	Mirror Result
}
