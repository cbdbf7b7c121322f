// Package domain holds the geometric and result types shared by the Green's function
// evaluators and their adapters.
package domain

import "math"

// Vec3 is a point or direction in the solver frame: x, y horizontal and z vertical,
// positive upwards, with the undisturbed free surface at z = 0.
type Vec3 [3]float64

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// HorizontalDistance returns the distance between v and w projected on the plane z = 0.
func (v Vec3) HorizontalDistance(w Vec3) float64 {
	return math.Hypot(v[0]-w[0], v[1]-w[1])
}

// WithZ returns a copy of v with its vertical coordinate replaced.
func (v Vec3) WithZ(z float64) Vec3 {
	v[2] = z
	return v
}

// MirrorY returns the image of v through the vertical plane y = 0.
func (v Vec3) MirrorY() Vec3 {
	v[1] = -v[1]
	return v
}

// IsFinite reports whether all components are finite numbers.
func (v Vec3) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// CVec3 is a complex 3-vector, used for gradients of complex potentials.
type CVec3 [3]complex128

// Add returns v + w.
func (v CVec3) Add(w CVec3) CVec3 {
	return CVec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Scale multiplies every component by the complex factor c.
func (v CVec3) Scale(c complex128) CVec3 {
	return CVec3{v[0] * c, v[1] * c, v[2] * c}
}

// ScaleParts multiplies the real parts by re and the imaginary parts by im.
func (v CVec3) ScaleParts(re, im float64) CVec3 {
	return CVec3{
		ScaleParts(v[0], re, im),
		ScaleParts(v[1], re, im),
		ScaleParts(v[2], re, im),
	}
}

// Neg returns -v.
func (v CVec3) Neg() CVec3 {
	return CVec3{-v[0], -v[1], -v[2]}
}

// ScaleParts multiplies the real part of c by re and its imaginary part by im.
func ScaleParts(c complex128, re, im float64) complex128 {
	return complex(real(c)*re, imag(c)*im)
}
