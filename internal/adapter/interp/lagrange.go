package interp

// Weight returns the quadratic Lagrange basis value
//
//	((xu-u1)(xu-u2)) / ((u3-u1)(u3-u2))
//
// that is, the weight of node u3 in the parabola through u1, u2, u3 evaluated at xu.
// The nodes must be distinct.
func Weight(u1, u2, u3, xu float64) float64 {
	return ((xu - u1) * (xu - u2)) / ((u3 - u1) * (u3 - u2))
}

// Weights returns the three Lagrange weights of the stencil (lo, mid, hi) at xu,
// ordered as the nodes. The entries sum to 1 and reproduce quadratics exactly.
func Weights(lo, mid, hi, xu float64) [3]float64 {
	return [3]float64{
		Weight(mid, hi, lo, xu),
		Weight(hi, lo, mid, xu),
		Weight(lo, mid, hi, xu),
	}
}

// Stencil returns the weights along both axes of g for the 3x3 neighbourhood
// centred at (i, j). The caller guarantees 1 <= i <= len(X)-2 and 1 <= j <= len(Y)-2.
func (g *Grid2D) Stencil(i, j int, x, y float64) (xl, yl [3]float64) {
	xl = Weights(g.X[i-1], g.X[i], g.X[i+1], x)
	yl = Weights(g.Y[j-1], g.Y[j], g.Y[j+1], y)
	return xl, yl
}

// Contract evaluates the biquadratic reconstruction
//
//	sum_a sum_b xl[a] * Values[i-1+a][j-1+b] * yl[b]
//
// over the 3x3 neighbourhood of g centred at (i, j).
func (g *Grid2D) Contract(i, j int, xl, yl [3]float64) float64 {
	var sum float64
	for a := 0; a < 3; a++ {
		row := g.Values[i-1+a]
		sum += xl[a] * (row[j-1]*yl[0] + row[j]*yl[1] + row[j+1]*yl[2])
	}
	return sum
}
