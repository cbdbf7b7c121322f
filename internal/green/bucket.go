package green

import "math"

// verticalBucket returns the 0-based centre of the 3-node vertical stencil for a
// non-dimensional depth akz < 0. The legacy grid is geometric with ratio 10^(1/5)
// near the surface and 10^(1/8) below akz = -1e-2.
func verticalBucket(akz float64, nz int) int {
	var kj int
	switch {
	case akz >= 0:
		kj = 2
	case akz < -1e-2:
		kj = int(8 * (math.Log10(-akz) + 4.5))
	default:
		kj = int(5 * (math.Log10(-akz) + 6))
	}
	return clampBucket(kj, nz) - 1
}

// radialBucket returns the 0-based centre of the 3-node radial stencil for a
// non-dimensional horizontal distance akr >= 0. The legacy grid is geometric below
// akr = 1 and uniform with step 1/3 above.
func radialBucket(akr float64, nr int) int {
	var ki int
	if akr < 1 {
		ki = int(5*(math.Log10(akr+logOffsetAKR)+6) + 1)
	} else {
		ki = int(3*akr + 28)
	}
	return clampBucket(ki, nr) - 1
}

// clampBucket clamps a 1-based stencil centre to [2, n-1].
func clampBucket(k, n int) int {
	if k < 2 {
		return 2
	}
	if k > n-1 {
		return n - 1
	}
	return k
}
