package tabulation

import "math"

// cell holds the four tabulated coefficients at one (R, Z) node.
type cell struct {
	pd1z, pd2z, pd1x, pd2x float64
}

// rowContext caches what depends on R only.
type rowContext struct {
	r      float64
	h0, h1 float64
	y0, y1 float64
	j0, j1 float64
}

func (q *rule) newRow(r float64) rowContext {
	row := rowContext{r: r, j0: math.J0(r), j1: math.J1(r)}
	if r > 0 {
		row.h0, row.h1 = q.struve(r)
		row.y0, row.y1 = math.Y0(r), math.Y1(r)
	}
	return row
}

// principalValue returns L(R, Z), the principal value of the integral over
// mu in (0, inf) of exp(mu Z) J0(mu R) / (mu - 1), and its derivative in R.
//
// For R > 0 it uses
//
//	L = -(pi/2) e^Z [H0(R) + Y0(R)] - integral_Z^0 e^(Z-t) / sqrt(R^2 + t^2) dt
//
// with t = R sinh(u). At R = 0 it reduces to -e^Z Ei(-Z) and the derivative is 0.
func (q *rule) principalValue(row rowContext, z float64) (l, dldr float64) {
	r := row.r
	ez := math.Exp(z)
	if r == 0 {
		return -ez * expIntegralEi(-z), 0
	}

	u0 := math.Asinh(z / r)
	panels := 1 + int(-u0*math.Max(2, r))

	tail := q.integrate(func(u float64) float64 {
		return math.Exp(z - r*math.Sinh(u))
	}, u0, 0, panels)
	l = -math.Pi/2*ez*(row.h0+row.y0) - tail

	// The 1/R singularities of Y1 and of the vertical integral cancel; both are
	// removed analytically.
	rho := math.Hypot(r, z)
	dtail := q.integrate(func(u float64) float64 {
		c := math.Cosh(u)
		return math.Expm1(-r*math.Sinh(u)) / (c * c)
	}, u0, 0, panels)
	dtail = ez * (dtail - r*r/(rho*(rho-z)))
	dldr = -math.Pi/2*ez*(2/math.Pi-row.h1-(row.y1+2/(math.Pi*r))) + dtail/r

	return l, dldr
}

// evaluate returns the tabulated coefficients at (R, Z).
func (q *rule) evaluate(row rowContext, z float64) cell {
	l, dldr := q.principalValue(row, z)
	ez := math.Exp(z)
	return cell{
		pd1z: math.Pi * (l + 1/math.Hypot(row.r, z)),
		pd2z: math.Pi * ez * row.j0,
		pd1x: -math.Pi * dldr,
		pd2x: math.Pi * ez * row.j1,
	}
}
