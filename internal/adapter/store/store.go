// Package store declares the providers the evaluation use case depends on.
package store

import (
	"context"

	"go.ngs.io/wavegreen/internal/green"
	"go.ngs.io/wavegreen/internal/tabulation"
)

// TableProvider is the interface for obtaining tabulated wave-term coefficients.
type TableProvider interface {
	// LoadOrBuild returns the tables for the given settings, computing them if needed.
	LoadOrBuild(ctx context.Context, cfg tabulation.Config) (*green.Tables, error)
}

// ExpSumProvider is the interface for obtaining finite-depth exponential sums.
type ExpSumProvider interface {
	// Find returns the decomposition for omega = kh tanh(kh) and kh.
	Find(omega, kh float64) (green.ExpSum, error)
}

// FixedExpSum returns the same exponential sum for every (omega, kh). It serves
// coefficients loaded from a file for a single depth and frequency.
type FixedExpSum struct {
	Sum green.ExpSum
}

// Find returns the fixed sum.
func (f FixedExpSum) Find(_, _ float64) (green.ExpSum, error) {
	return f.Sum, nil
}
