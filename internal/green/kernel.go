package green

import (
	"go.ngs.io/wavegreen/internal/domain"
)

// ResidualKernel evaluates the "simpler" kernel that multiplies each term of the
// exponential-sum approximation in the finite-depth function. The gradient is taken
// with respect to the field point; area is the panel area of the source.
type ResidualKernel interface {
	Evaluate(field, source domain.Vec3, area float64) domain.Result
}

// PointSource is the far-field form of the panel integral of 1/r: the whole panel
// area is lumped at its centroid.
type PointSource struct{}

// pointSourceCutoff is the distance below which PointSource returns zero.
const pointSourceCutoff = 1e-7

// Evaluate returns area/r and its gradient -area*(field-source)/r^3.
func (PointSource) Evaluate(field, source domain.Vec3, area float64) domain.Result {
	d := field.Sub(source)
	r := d.Norm()
	if r < pointSourceCutoff {
		return domain.Result{}
	}

	r3 := r * r * r
	return domain.Result{
		Potential: complex(area/r, 0),
		Gradient: domain.CVec3{
			complex(-area*d[0]/r3, 0),
			complex(-area*d[1]/r3, 0),
			complex(-area*d[2]/r3, 0),
		},
	}
}

// KernelFunc adapts an ordinary function to the ResidualKernel interface.
type KernelFunc func(field, source domain.Vec3, area float64) domain.Result

// Evaluate calls f(field, source, area).
func (f KernelFunc) Evaluate(field, source domain.Vec3, area float64) domain.Result {
	return f(field, source, area)
}
