package tabulation

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
)

// rule is a Gauss-Legendre rule on [-1, 1] applied panel by panel.
type rule struct {
	x []float64
	w []float64
}

func newRule(n int) *rule {
	r := &rule{x: make([]float64, n), w: make([]float64, n)}
	quad.Legendre{}.FixedLocations(r.x, r.w, -1, 1)
	return r
}

// integrate approximates the integral of f over [a, b] split into equal panels.
func (r *rule) integrate(f func(float64) float64, a, b float64, panels int) float64 {
	if a == b {
		return 0
	}
	panels = max(panels, 1)
	h := (b - a) / float64(panels)
	vals := make([]float64, len(r.x))

	var sum float64
	for p := 0; p < panels; p++ {
		mid := a + (float64(p)+0.5)*h
		for i, x := range r.x {
			vals[i] = f(mid + 0.5*h*x)
		}
		sum += 0.5 * h * floats.Dot(r.w, vals)
	}
	return sum
}

// struve returns the Struve functions H0(x) and H1(x) from their integral
// representations over [0, pi/2].
func (r *rule) struve(x float64) (h0, h1 float64) {
	panels := 1 + int(x/2)
	h0 = 2 / math.Pi * r.integrate(func(t float64) float64 {
		return math.Sin(x * math.Cos(t))
	}, 0, math.Pi/2, panels)
	h1 = 2 * x / math.Pi * r.integrate(func(t float64) float64 {
		s := math.Sin(t)
		return math.Sin(x*math.Cos(t)) * s * s
	}, 0, math.Pi/2, panels)
	return h0, h1
}

// expIntegralEi returns Ei(x) for 0 < x <= 40 from its power series.
func expIntegralEi(x float64) float64 {
	const eulerGamma = 0.57721566490153286
	sum := 0.0
	term := 1.0
	for k := 1; k < 200; k++ {
		term *= x / float64(k)
		add := term / float64(k)
		sum += add
		if add < 1e-17*sum {
			break
		}
	}
	return eulerGamma + math.Log(x) + sum
}
