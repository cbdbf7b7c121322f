// Package interp provides the tabulated-grid interpolation used by the wave-term
// evaluator: quadratic Lagrange weights and their biquadratic contraction.
package interp

import (
	"fmt"
	"math"
)

// Grid2D represents a 2D table sampled on two monotonic axes.
type Grid2D struct {
	X      []float64   // X coordinates (radial nodes).
	Y      []float64   // Y coordinates (vertical nodes).
	Values [][]float64 // Values[i][j] corresponds to (X[i], Y[j]).
}

// NewGrid2D allocates a zero-valued grid on the given axes.
func NewGrid2D(x, y []float64) *Grid2D {
	values := make([][]float64, len(x))
	flat := make([]float64, len(x)*len(y))
	for i := range values {
		values[i] = flat[i*len(y) : (i+1)*len(y)]
	}
	return &Grid2D{X: x, Y: y, Values: values}
}

// Validate checks if the grid is valid for 3-point stencils.
func (g *Grid2D) Validate() error {
	if len(g.X) < 3 {
		return fmt.Errorf("grid must have at least 3 X coordinates, got %d", len(g.X))
	}
	if len(g.Y) < 3 {
		return fmt.Errorf("grid must have at least 3 Y coordinates, got %d", len(g.Y))
	}
	if len(g.Values) != len(g.X) {
		return fmt.Errorf("number of value rows (%d) must match X coordinates (%d)", len(g.Values), len(g.X))
	}

	for i, row := range g.Values {
		if len(row) != len(g.Y) {
			return fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(g.Y))
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("value at (%d, %d) is not finite", i, j)
			}
		}
	}

	if !strictlyMonotonic(g.X) {
		return fmt.Errorf("X coordinates must be strictly monotonic")
	}
	if !strictlyMonotonic(g.Y) {
		return fmt.Errorf("Y coordinates must be strictly monotonic")
	}

	return nil
}

// SameAxes reports whether g and o are sampled on identical coordinates.
func (g *Grid2D) SameAxes(o *Grid2D) bool {
	if len(g.X) != len(o.X) || len(g.Y) != len(o.Y) {
		return false
	}
	for i := range g.X {
		if g.X[i] != o.X[i] {
			return false
		}
	}
	for j := range g.Y {
		if g.Y[j] != o.Y[j] {
			return false
		}
	}
	return true
}

func strictlyMonotonic(s []float64) bool {
	if len(s) < 2 {
		return true
	}
	increasing := s[1] > s[0]
	for i := 1; i < len(s); i++ {
		if increasing && s[i] <= s[i-1] {
			return false
		}
		if !increasing && s[i] >= s[i-1] {
			return false
		}
	}
	return true
}
