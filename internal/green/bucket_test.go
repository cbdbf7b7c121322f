package green

import "testing"

func TestVerticalBucket(t *testing.T) {
	tests := []struct {
		akz  float64
		want int
	}{
		{0, 1},
		{-1e-3, 14},
		{-1e-2, 19},
		{-1, 35},
		{-15.9, 44},
		{-16, 44},
		{-1e-12, 1},
	}
	for _, tt := range tests {
		if got := verticalBucket(tt.akz, 46); got != tt.want {
			t.Errorf("verticalBucket(%v) = %d, want %d", tt.akz, got, tt.want)
		}
	}
}

func TestRadialBucket(t *testing.T) {
	tests := []struct {
		akr  float64
		want int
	}{
		{0, 1},
		{1e-9, 1},
		{0.5, 28},
		{1, 30},
		{2.5, 34},
		{99.6, 325},
		{1e6, 326},
	}
	for _, tt := range tests {
		if got := radialBucket(tt.akr, 328); got != tt.want {
			t.Errorf("radialBucket(%v) = %d, want %d", tt.akr, got, tt.want)
		}
	}
}
