package green

import (
	"math"

	"go.ngs.io/wavegreen/internal/domain"
)

// Thresholds of the wave-term evaluation.
const (
	farFieldAKR  = 99.7  // kR at and above which the asymptotic expansion is used
	deepAKZ      = -16.0 // k(zi+zj) at and below which the wave part vanishes
	minDistance  = 1e-5  // distances below this are treated as zero
	logOffsetAKR = 1e-20 // keeps the radial bucket finite at kR = 0
)

// WaveTerm evaluates the oscillatory part of the infinite-depth Green's function
// between field point xi and source xj at wavenumber k.
//
// The returned potential is -(PD1Z + i PD2Z). The gradient is taken with respect to
// xi. When depth is 0 the singular part subtracted from the tables is added back to
// the gradient, as needed by the infinite-depth driver; for any other depth the
// tabulated values are returned as they are.
func (e *Evaluator) WaveTerm(xi, xj domain.Vec3, depth, k float64) domain.Result {
	rrr := xi.HorizontalDistance(xj)
	zzz := xi[2] + xj[2]
	akr := k * rrr
	akz := k * zzz

	dd := math.Sqrt(rrr*rrr + zzz*zzz)
	var psurr float64
	if dd > minDistance && k > 0 {
		psurr = math.Pi / math.Pow(k*dd, 3)
	}

	if akz <= deepAKZ {
		return domain.Result{Potential: complex(-psurr*akz, 0)}
	}

	var pd1z, pd2z, pd1x, pd2x float64
	withRadial := rrr > minDistance

	if akr < farFieldAKR {
		t := e.tables
		ki := radialBucket(akr, len(t.XR))
		kj := verticalBucket(akz, len(t.XZ))
		xl, zl := t.APD1Z.Stencil(ki, kj, akr, akz)

		pd1z = t.APD1Z.Contract(ki, kj, xl, zl)
		pd2z = t.APD2Z.Contract(ki, kj, xl, zl)
		if withRadial {
			pd1x = t.APD1X.Contract(ki, kj, xl, zl)
			pd2x = t.APD2X.Contract(ki, kj, xl, zl)
		}
	} else {
		epz := math.Exp(akz)
		sq := math.Sqrt(2 * math.Pi / akr)
		csk := math.Cos(akr - math.Pi/4)
		sik := math.Sin(akr - math.Pi/4)

		pd1z = psurr*akz - math.Pi*epz*sq*sik
		pd2z = epz * sq * csk
		if withRadial {
			pd1x = math.Pi*epz*sq*(csk-0.5/akr*sik) - psurr*akr
			pd2x = epz * sq * (sik + 0.5/akr*csk)
		}
	}

	res := domain.Result{Potential: -complex(pd1z, pd2z)}

	if depth == 0 {
		res.Gradient[2] = -complex(pd1z-psurr*akz, pd2z)
	} else {
		res.Gradient[2] = -complex(pd1z, pd2z)
	}

	if withRadial {
		c := complex(pd1x, pd2x)
		if depth == 0 {
			c = complex(pd1x+psurr*akr, pd2x)
		}
		res.Gradient[0] = complex((xi[0]-xj[0])/rrr, 0) * c
		res.Gradient[1] = complex((xi[1]-xj[1])/rrr, 0) * c
	}

	return res
}
