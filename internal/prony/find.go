package prony

import (
	"fmt"
	"log"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"

	"go.ngs.io/wavegreen/internal/green"
)

// Fit settings. MaxUsableError bounds the error of a fit returned when
// MaxFitError is not met.
const (
	SampleStart    = -0.1
	SampleEnd      = 20.0
	MinTerms       = 4
	MaxTerms       = 30
	TermStep       = 2
	MaxFitError    = 1e-4
	MaxUsableError = 1e-2
	DefaultCache   = 128
)

// Find returns the exponential sum approximating the finite-depth residual for the
// dimensionless frequency omega = kh tanh(kh) and dimensionless wavenumber kh.
//
// The number of terms grows from MinTerms to MaxTerms until the fit, computed on
// 4n+1 samples, stays within MaxFitError on 8n+1 samples. If no size reaches the
// tolerance the most accurate fit is returned with a logged warning, provided its
// error stays within MaxUsableError; otherwise the error wraps ErrIllConditioned.
// Samples span Residual.Window, which starts at SampleStart unless kh is small.
// The constant boundary term is not included; see green.ExpSum.Terms.
func Find(omega, kh float64) (green.ExpSum, error) {
	if !(omega > 0) || !(kh > 0) || math.IsInf(omega, 0) || math.IsInf(kh, 0) {
		return green.ExpSum{}, fmt.Errorf("exponential decomposition needs finite positive omega and kh, got %v and %v", omega, kh)
	}

	f := NewResidual(omega, kh)
	start, end := f.Window()

	var best green.ExpSum
	bestErr := math.Inf(1)
	for n := MinTerms; n <= MaxTerms; n += TermStep {
		xs := floats.Span(make([]float64, 4*n+1), start, end)
		fit, err := Decompose(xs, f.Sample(xs), n)
		if err != nil {
			continue
		}

		fine := floats.Span(make([]float64, 8*n+1), start, end)
		fitErr := MaxError(fit, fine, f.Sample(fine))
		if fitErr < bestErr {
			best, bestErr = fit, fitErr
		}
		if fitErr < MaxFitError {
			return fit, nil
		}
	}

	if math.IsInf(bestErr, 1) {
		return green.ExpSum{}, fmt.Errorf("no exponential decomposition for omega=%.2e, kh=%.2e: %w", omega, kh, ErrIllConditioned)
	}
	if !(bestErr <= MaxUsableError) {
		return green.ExpSum{}, fmt.Errorf("best exponential decomposition for omega=%.2e, kh=%.2e has error %.2e: %w",
			omega, kh, bestErr, ErrIllConditioned)
	}

	log.Printf("Warning: no exponential decomposition within %.0e found for omega=%.2e, kh=%.2e; using %d terms with error %.2e",
		MaxFitError, omega, kh, best.Len(), bestErr)
	return best, nil
}

type cacheKey struct {
	omega, kh float64
}

// Cache memoizes Find by (omega, kh), keeping the most recently used entries.
// It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[cacheKey]green.ExpSum
	order    []cacheKey // least recently used first
}

// NewCache creates a cache holding up to capacity decompositions.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCache
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[cacheKey]green.ExpSum),
	}
}

// Find returns the cached decomposition for (omega, kh), computing it on a miss.
func (c *Cache) Find(omega, kh float64) (green.ExpSum, error) {
	key := cacheKey{omega, kh}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.touch(key)
		c.mu.Unlock()
		return e, nil
	}
	c.mu.Unlock()

	e, err := Find(omega, kh)
	if err != nil {
		return green.ExpSum{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		if len(c.order) >= c.capacity {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
		}
		c.entries[key] = e
		c.order = append(c.order, key)
	}
	return e, nil
}

// Len returns the number of cached decompositions.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) touch(key cacheKey) {
	for i, k := range c.order {
		if k == key {
			c.order = append(append(c.order[:i:i], c.order[i+1:]...), key)
			return
		}
	}
}
