package interp

import (
	"math"
	"testing"
)

func TestWeights(t *testing.T) {
	tests := []struct {
		name        string
		lo, mid, hi float64
		xu          float64
		expected    [3]float64
	}{
		{name: "at lo node", lo: 0, mid: 1, hi: 2, xu: 0, expected: [3]float64{1, 0, 0}},
		{name: "at mid node", lo: 0, mid: 1, hi: 2, xu: 1, expected: [3]float64{0, 1, 0}},
		{name: "at hi node", lo: 0, mid: 1, hi: 2, xu: 2, expected: [3]float64{0, 0, 1}},
		{name: "midpoint", lo: 0, mid: 1, hi: 2, xu: 0.5, expected: [3]float64{0.375, 0.75, -0.125}},
		{name: "decreasing nodes", lo: -1, mid: -2, hi: -4, xu: -1, expected: [3]float64{1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Weights(tt.lo, tt.mid, tt.hi, tt.xu)
			for i := range w {
				if math.Abs(w[i]-tt.expected[i]) > 1e-12 {
					t.Errorf("weight %d = %v, want %v", i, w[i], tt.expected[i])
				}
			}
		})
	}
}

func TestWeightsPartitionOfUnity(t *testing.T) {
	nodes := [][3]float64{
		{0, 1.58e-6, 2.51e-6},
		{1.0, 4.0 / 3.0, 5.0 / 3.0},
		{-0.01, -0.0133, -0.0178},
		{-10, -13.3, -16},
	}
	for _, n := range nodes {
		for _, xu := range []float64{n[0], (n[0] + n[1]) / 2, n[2], 2*n[2] - n[1]} {
			w := Weights(n[0], n[1], n[2], xu)
			sum := w[0] + w[1] + w[2]
			if math.Abs(sum-1) > 1e-9 {
				t.Errorf("nodes %v at %v: sum of weights = %v", n, xu, sum)
			}
		}
	}
}

func TestContractReproducesBiquadratic(t *testing.T) {
	x := []float64{0, 0.5, 1.5, 3, 5}
	y := []float64{-0.1, -0.4, -1, -2.5}
	f := func(a, b float64) float64 {
		return 1 + 2*a - 3*b + a*a - 0.5*b*b + 0.25*a*b + 0.1*a*a*b*b
	}

	g := NewGrid2D(x, y)
	for i := range x {
		for j := range y {
			g.Values[i][j] = f(x[i], y[j])
		}
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	points := [][2]float64{{0.7, -0.6}, {1.2, -0.9}, {2.2, -1.7}, {0.5, -0.4}}
	for _, p := range points {
		i := 2
		j := 1
		if p[0] > 2 {
			i = 3
		}
		if p[1] < -1.5 {
			j = 2
		}
		xl, yl := g.Stencil(i, j, p[0], p[1])
		got := g.Contract(i, j, xl, yl)
		if want := f(p[0], p[1]); math.Abs(got-want) > 1e-10 {
			t.Errorf("Contract at %v = %v, want %v", p, got, want)
		}
	}
}

func TestContractAtNode(t *testing.T) {
	g := NewGrid2D([]float64{0, 1, 2}, []float64{0, -1, -2})
	for i := range g.Values {
		for j := range g.Values[i] {
			g.Values[i][j] = float64(10*i + j)
		}
	}
	xl, yl := g.Stencil(1, 1, 2, -1)
	if got := g.Contract(1, 1, xl, yl); math.Abs(got-21) > 1e-12 {
		t.Errorf("Contract at node = %v, want 21", got)
	}
}
