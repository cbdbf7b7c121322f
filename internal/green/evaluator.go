package green

import (
	"math"

	"go.ngs.io/wavegreen/internal/domain"
)

// Evaluator computes Green's function contributions from a shared set of tables.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	tables    *Tables
	kernel    ResidualKernel
	symmetric bool
}

// NewEvaluator creates an evaluator over validated tables. A nil kernel selects
// PointSource. When symmetric is true the Sym variants also return the contribution
// of the source mirrored through the plane y = 0.
func NewEvaluator(tables *Tables, kernel ResidualKernel, symmetric bool) *Evaluator {
	if kernel == nil {
		kernel = PointSource{}
	}
	return &Evaluator{
		tables:    tables,
		kernel:    kernel,
		symmetric: symmetric,
	}
}

// Tables returns the tables the evaluator reads from.
func (e *Evaluator) Tables() *Tables {
	return e.tables
}

// Symmetric reports whether mirror contributions are computed.
func (e *Evaluator) Symmetric() bool {
	return e.symmetric
}

// InfiniteDepth returns the wave part of the infinite-depth Green's function at
// field point xi for a source panel of area aj centred at xj. k must be positive.
func (e *Evaluator) InfiniteDepth(k float64, xi, xj domain.Vec3, aj float64) domain.Result {
	w := e.WaveTerm(xi, xj, 0, k)

	re := k * aj / (2 * math.Pi * math.Pi)
	im := k * aj / (2 * math.Pi)

	return domain.Result{
		Potential: domain.ScaleParts(w.Potential, re, im),
		Gradient:  w.Gradient.ScaleParts(k*re, k*im),
	}
}

// FiniteDepth returns the wave part of the finite-depth Green's function at field
// point xi for a source panel of area aj centred at xj, in water of depth h.
// exp is the exponential-sum approximation for the same (k, h); its constant
// boundary term is appended here. k and h must be positive.
func (e *Evaluator) FiniteDepth(k float64, xi, xj domain.Vec3, aj, h float64, exp ExpSum) domain.Result {
	res := e.imageSum(k, xi, xj, aj, h)

	for _, term := range exp.Terms() {
		sum := e.residualImages(xi, xj, aj, h, term.Lambda)
		res = res.Add(sum.Scale(complex(-term.A/(8*math.Pi), 0)))
	}

	return res
}

// imageConfig is one member of the four-term image sum: the vertical coordinates
// used for the field point and the source, and whether the field point was
// reflected (which negates the vertical derivative).
type imageConfig struct {
	zi, zj  float64
	flipped bool
}

// imageSum computes the method-of-images part of the finite-depth function.
func (e *Evaluator) imageSum(k float64, xi, xj domain.Vec3, aj, h float64) domain.Result {
	rrr := xi.HorizontalDistance(xj)
	configs := [4]imageConfig{
		{zi: xi[2], zj: xj[2]},
		{zi: -xi[2] - 2*h, zj: xj[2], flipped: true},
		{zi: xi[2], zj: -xj[2] - 2*h},
		{zi: -xi[2] - 2*h, zj: -xj[2] - 2*h, flipped: true},
	}

	var waves domain.Result
	var singular float64
	for _, c := range configs {
		w := e.WaveTerm(xi.WithZ(c.zi), xj.WithZ(c.zj), h, k)
		if c.flipped {
			w = w.FlipVertical()
		}
		waves = waves.Add(w)

		zz := c.zi + c.zj
		singular += math.Pi / (k * math.Sqrt(rrr*rrr+zz*zz))
	}

	sp := -waves.Potential - complex(singular, 0)
	vsp := waves.Gradient.Neg()

	amh := k * h
	akh := amh * math.Tanh(amh)
	a := (amh + akh) * (amh + akh) / (h * (amh*amh - akh*akh + akh))
	cof1 := -a / (8 * math.Pi * math.Pi) * aj
	cof2 := -a / (8 * math.Pi) * aj

	return domain.Result{
		Potential: domain.ScaleParts(sp, cof1, cof2),
		Gradient:  vsp.ScaleParts(k*cof1, k*cof2),
	}
}

// residualImages sums the residual kernel over the four images of the field point
// associated with exponent lambda.
func (e *Evaluator) residualImages(xi, xj domain.Vec3, aj, h, lambda float64) domain.Result {
	images := [4]struct {
		z       float64
		flipped bool
	}{
		{z: xi[2] + h*lambda - 2*h},
		{z: -xi[2] - h*lambda, flipped: true},
		{z: -xi[2] + h*lambda - 4*h, flipped: true},
		{z: xi[2] - h*lambda + 2*h},
	}

	var sum domain.Result
	for _, img := range images {
		r := e.kernel.Evaluate(xi.WithZ(img.z), xj, aj)
		if img.flipped {
			r = r.FlipVertical()
		}
		sum = sum.Add(r)
	}
	return sum
}

// InfiniteDepthSym is InfiniteDepth with the optional mirror contribution of the
// source reflected through y = 0.
func (e *Evaluator) InfiniteDepthSym(k float64, xi, xj domain.Vec3, aj float64) domain.SymmetricResult {
	res := domain.SymmetricResult{Direct: e.InfiniteDepth(k, xi, xj, aj)}
	if e.symmetric {
		res.Mirror = e.InfiniteDepth(k, xi, xj.MirrorY(), aj)
	}
	return res
}

// FiniteDepthSym is FiniteDepth with the optional mirror contribution of the source
// reflected through y = 0.
func (e *Evaluator) FiniteDepthSym(k float64, xi, xj domain.Vec3, aj, h float64, exp ExpSum) domain.SymmetricResult {
	res := domain.SymmetricResult{Direct: e.FiniteDepth(k, xi, xj, aj, h, exp)}
	if e.symmetric {
		res.Mirror = e.FiniteDepth(k, xi, xj.MirrorY(), aj, h, exp)
	}
	return res
}
