package green

import "math"

// Legacy grid dimensions. radialBucket and verticalBucket assume this layout.
const (
	RadialNodes   = 328
	VerticalNodes = 46
)

// gridTolerance is the relative tolerance when comparing stored nodes with the
// legacy grid.
const gridTolerance = 1e-9

// RadialGrid returns the legacy radial nodes: 0, then geometric with ratio 10^(1/5)
// from 10^-5.8 up to about 1, then uniform with step 1/3 up to 100.
func RadialGrid() []float64 {
	xr := make([]float64, RadialNodes)
	for n := 2; n <= RadialNodes; n++ {
		linear := 4.0/3.0 + math.Abs(float64(n-32))/3.0
		if n < 40 {
			xr[n-1] = math.Min(math.Pow(10, float64(n-1)/5-6), linear)
		} else {
			xr[n-1] = linear
		}
	}
	return xr
}

// VerticalGrid returns the legacy vertical nodes, decreasing from -10^-5.8 to -16.
func VerticalGrid() []float64 {
	xz := make([]float64, VerticalNodes)
	for n := 1; n <= VerticalNodes; n++ {
		fn := float64(n)
		xz[n-1] = -math.Min(math.Min(math.Pow(10, fn/5-6), math.Pow(10, fn/8-4.5)), 16)
	}
	return xz
}

// matchGrid returns the index of the first node of got that differs from want, or
// -1 when the two grids agree.
func matchGrid(got, want []float64) int {
	if len(got) != len(want) {
		return min(len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > gridTolerance*math.Max(math.Abs(want[i]), 1e-6) {
			return i
		}
	}
	return -1
}
