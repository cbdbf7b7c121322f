// Package green evaluates the free-surface Green's function of linear water-wave
// theory and its gradient, for infinite and finite water depth.
//
// The oscillatory part of the infinite-depth function is read from four tabulated
// coefficient tables in the near field and from an asymptotic expansion in the far
// field. The finite-depth function is assembled from infinite-depth evaluations by
// the method of images plus an exponential-sum approximation of the remainder.
package green

import (
	"fmt"

	"go.ngs.io/wavegreen/internal/adapter/interp"
)

// Tables holds the tabulated wave-term coefficients. Every table is sampled on the
// same axes: XR (non-dimensional horizontal distance kR, increasing from 0) and
// XZ (non-dimensional vertical coordinate k(zi+zj), decreasing to -16).
// Tables are read-only once built and may be shared between goroutines.
type Tables struct {
	XR []float64
	XZ []float64

	APD1Z *interp.Grid2D // Principal-value part of the potential.
	APD2Z *interp.Grid2D // Imaginary (radiating) part of the potential.
	APD1X *interp.Grid2D // Principal-value part of the radial derivative.
	APD2X *interp.Grid2D // Imaginary part of the radial derivative.
}

// NewTables allocates zero-valued tables on the given axes.
func NewTables(xr, xz []float64) *Tables {
	return &Tables{
		XR:    xr,
		XZ:    xz,
		APD1Z: interp.NewGrid2D(xr, xz),
		APD2Z: interp.NewGrid2D(xr, xz),
		APD1X: interp.NewGrid2D(xr, xz),
		APD2X: interp.NewGrid2D(xr, xz),
	}
}

// Grids returns the four tables keyed by name.
func (t *Tables) Grids() map[string]*interp.Grid2D {
	return map[string]*interp.Grid2D{
		"APD1Z": t.APD1Z,
		"APD2Z": t.APD2Z,
		"APD1X": t.APD1X,
		"APD2X": t.APD2X,
	}
}

// Validate checks that the tables are sampled on the legacy grid, that they share
// its axes, and that every stored value is finite.
func (t *Tables) Validate() error {
	if len(t.XR) != RadialNodes || len(t.XZ) != VerticalNodes {
		return fmt.Errorf("tables are sampled on %d x %d nodes, expected the %d x %d legacy grid",
			len(t.XR), len(t.XZ), RadialNodes, VerticalNodes)
	}
	if i := matchGrid(t.XR, RadialGrid()); i >= 0 {
		return fmt.Errorf("radial node %d is %v, expected %v", i, t.XR[i], RadialGrid()[i])
	}
	if j := matchGrid(t.XZ, VerticalGrid()); j >= 0 {
		return fmt.Errorf("vertical node %d is %v, expected %v", j, t.XZ[j], VerticalGrid()[j])
	}

	for name, g := range t.Grids() {
		if g == nil {
			return fmt.Errorf("table %s is missing", name)
		}
		if len(g.X) != len(t.XR) || len(g.Y) != len(t.XZ) {
			return fmt.Errorf("table %s is sampled on %d x %d nodes, expected %d x %d",
				name, len(g.X), len(g.Y), len(t.XR), len(t.XZ))
		}
		if err := g.Validate(); err != nil {
			return fmt.Errorf("table %s: %w", name, err)
		}
		if !g.SameAxes(t.APD1Z) {
			return fmt.Errorf("table %s is not sampled on the shared axes", name)
		}
	}

	return nil
}

// ExpSum holds the exponential-sum approximation of the finite-depth remainder:
// sum over i of A[i] * exp(Lambda[i] * x).
type ExpSum struct {
	Lambda []float64
	A      []float64
}

// Validate checks that both coefficient slices have the same length.
func (e ExpSum) Validate() error {
	if len(e.Lambda) != len(e.A) {
		return fmt.Errorf("exponential sum has %d exponents and %d amplitudes", len(e.Lambda), len(e.A))
	}
	return nil
}

// Len returns the number of supplied terms.
func (e ExpSum) Len() int {
	return len(e.Lambda)
}

// Term is one (exponent, amplitude) pair of an exponential sum.
type Term struct {
	Lambda float64
	A      float64
}

// Terms returns the supplied terms followed by the constant boundary term
// (Lambda = 0, A = 2), which is always present.
func (e ExpSum) Terms() []Term {
	n := min(len(e.Lambda), len(e.A))
	terms := make([]Term, 0, n+1)
	for i := 0; i < n; i++ {
		terms = append(terms, Term{Lambda: e.Lambda[i], A: e.A[i]})
	}
	return append(terms, Term{Lambda: 0, A: 2})
}
