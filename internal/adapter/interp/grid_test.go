package interp

import (
	"math"
	"testing"
)

func TestGrid2DValidate(t *testing.T) {
	tests := []struct {
		name    string
		grid    *Grid2D
		wantErr bool
	}{
		{
			name: "valid increasing and decreasing axes",
			grid: &Grid2D{
				X:      []float64{0, 1, 2},
				Y:      []float64{-0.1, -1, -10},
				Values: [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
			},
		},
		{
			name: "too few X coordinates",
			grid: &Grid2D{
				X:      []float64{0, 1},
				Y:      []float64{0, 1, 2},
				Values: [][]float64{{1, 2, 3}, {4, 5, 6}},
			},
			wantErr: true,
		},
		{
			name: "row length mismatch",
			grid: &Grid2D{
				X:      []float64{0, 1, 2},
				Y:      []float64{0, 1, 2},
				Values: [][]float64{{1, 2, 3}, {4, 5}, {7, 8, 9}},
			},
			wantErr: true,
		},
		{
			name: "non-monotonic X",
			grid: &Grid2D{
				X:      []float64{0, 2, 1},
				Y:      []float64{0, 1, 2},
				Values: [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
			},
			wantErr: true,
		},
		{
			name: "repeated Y node",
			grid: &Grid2D{
				X:      []float64{0, 1, 2},
				Y:      []float64{0, 1, 1},
				Values: [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
			},
			wantErr: true,
		},
		{
			name: "NaN value",
			grid: &Grid2D{
				X:      []float64{0, 1, 2},
				Y:      []float64{0, 1, 2},
				Values: [][]float64{{1, 2, 3}, {4, math.NaN(), 6}, {7, 8, 9}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grid.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSameAxes(t *testing.T) {
	a := NewGrid2D([]float64{0, 1, 2}, []float64{0, -1, -2})
	b := NewGrid2D([]float64{0, 1, 2}, []float64{0, -1, -2})
	c := NewGrid2D([]float64{0, 1, 3}, []float64{0, -1, -2})

	if !a.SameAxes(b) {
		t.Error("expected identical axes to match")
	}
	if a.SameAxes(c) {
		t.Error("expected different X axes not to match")
	}
}
