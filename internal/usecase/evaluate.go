package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"go.ngs.io/wavegreen/internal/adapter/store"
	"go.ngs.io/wavegreen/internal/domain"
	"go.ngs.io/wavegreen/internal/green"
)

// ErrNonFinite is returned when an evaluation produces a NaN or infinite component.
var ErrNonFinite = errors.New("green function returned a non-finite value")

// batchChunk is the number of pairs evaluated by one goroutine.
const batchChunk = 256

// EvaluationRequest encapsulates a Green's function evaluation request
type EvaluationRequest struct {
	// Wavenumber k (rad/m). Must be positive for finite depth.
	Wavenumber float64

	// Depth h of the water (m). 0 or +Inf selects infinite depth.
	Depth float64

	// Field/source pairs to evaluate
	Pairs []domain.PointPair
}

// InfiniteDepth reports whether the request is for infinite water depth.
func (r *EvaluationRequest) InfiniteDepth() bool {
	return r.Depth == 0 || math.IsInf(r.Depth, 1)
}

// Validate checks if the request is valid
func (r *EvaluationRequest) Validate(maxBatch int) error {
	// Check physical parameters
	if math.IsNaN(r.Wavenumber) || math.IsInf(r.Wavenumber, 0) || r.Wavenumber < 0 {
		return fmt.Errorf("wavenumber must be a finite non-negative number, got %v", r.Wavenumber)
	}
	if math.IsNaN(r.Depth) || r.Depth < 0 {
		return fmt.Errorf("depth must be positive, or 0/+Inf for infinite depth, got %v", r.Depth)
	}
	if !r.InfiniteDepth() && r.Wavenumber == 0 {
		return fmt.Errorf("zero or infinite frequencies not implemented for finite depth")
	}

	// Check batch size
	if len(r.Pairs) == 0 {
		return fmt.Errorf("at least one field/source pair must be provided")
	}
	if len(r.Pairs) > maxBatch {
		return fmt.Errorf("too many pairs (%d) - at most %d per request", len(r.Pairs), maxBatch)
	}

	// Check points
	for i, p := range r.Pairs {
		if !p.Field.IsFinite() || !p.Source.IsFinite() {
			return fmt.Errorf("pair %d: coordinates must be finite", i)
		}
		if math.IsNaN(p.Area) || math.IsInf(p.Area, 0) || p.Area < 0 {
			return fmt.Errorf("pair %d: area must be a finite non-negative number", i)
		}
		if p.Field[2] > 0 || p.Source[2] > 0 {
			return fmt.Errorf("pair %d: points must not be above the free surface (z <= 0)", i)
		}
		if !r.InfiniteDepth() && (p.Field[2] < -r.Depth || p.Source[2] < -r.Depth) {
			return fmt.Errorf("pair %d: points must not be below the sea bottom (z >= %v)", i, -r.Depth)
		}
		// The free-surface image of a source on the surface coincides with it.
		if !r.InfiniteDepth() && p.Field[2]+p.Source[2] == 0 && p.Field.HorizontalDistance(p.Source) == 0 {
			return fmt.Errorf("pair %d: field and source must not coincide on the free surface in finite depth", i)
		}
	}

	return nil
}

// EvaluationResponse contains the evaluated contributions
type EvaluationResponse struct {
	Wavenumber float64           `json:"wavenumber"`
	Depth      string            `json:"depth"`
	Symmetric  bool              `json:"symmetric"`
	Results    []ResultPoint     `json:"results"`
	Meta       map[string]string `json:"meta"`
}

// ResultPoint is one evaluated contribution in response format
type ResultPoint struct {
	Potential Complex    `json:"potential"`
	Gradient  [3]Complex `json:"gradient"`
	Mirror    *Mirror    `json:"mirror,omitempty"`
}

// Mirror is the contribution of the source reflected through y = 0
type Mirror struct {
	Potential Complex    `json:"potential"`
	Gradient  [3]Complex `json:"gradient"`
}

// Complex is a JSON-friendly complex number
type Complex struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

func toComplex(c complex128) Complex {
	return Complex{Re: real(c), Im: imag(c)}
}

func toGradient(g domain.CVec3) [3]Complex {
	return [3]Complex{toComplex(g[0]), toComplex(g[1]), toComplex(g[2])}
}

// TablesInfo describes the tabulation in use
type TablesInfo struct {
	RadialNodes   int     `json:"radial_nodes"`
	VerticalNodes int     `json:"vertical_nodes"`
	MaxKR         float64 `json:"max_kr"`
	MinKZ         float64 `json:"min_kz"`
	Settings      string  `json:"settings"`
}

// EvaluationUseCase orchestrates Green's function evaluations
type EvaluationUseCase struct {
	evaluator *green.Evaluator
	expSums   store.ExpSumProvider
	settings  string
	workers   int
	maxBatch  int
}

// NewEvaluationUseCase creates a new evaluation use case. settings describes the
// tabulation for reporting. workers bounds concurrent batch evaluation; 0 means
// runtime.NumCPU().
func NewEvaluationUseCase(evaluator *green.Evaluator, expSums store.ExpSumProvider, settings string, workers, maxBatch int) *EvaluationUseCase {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &EvaluationUseCase{
		evaluator: evaluator,
		expSums:   expSums,
		settings:  settings,
		workers:   workers,
		maxBatch:  maxBatch,
	}
}

// Execute validates and evaluates the request and formats the response
func (uc *EvaluationUseCase) Execute(ctx context.Context, req EvaluationRequest) (*EvaluationResponse, error) {
	results, err := uc.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}

	points := make([]ResultPoint, len(results))
	for i, r := range results {
		points[i] = ResultPoint{
			Potential: toComplex(r.Direct.Potential),
			Gradient:  toGradient(r.Direct.Gradient),
		}
		if uc.evaluator.Symmetric() {
			points[i].Mirror = &Mirror{
				Potential: toComplex(r.Mirror.Potential),
				Gradient:  toGradient(r.Mirror.Gradient),
			}
		}
	}

	depth := "infinite"
	if !req.InfiniteDepth() {
		depth = fmt.Sprintf("%g", req.Depth)
	}

	return &EvaluationResponse{
		Wavenumber: req.Wavenumber,
		Depth:      depth,
		Symmetric:  uc.evaluator.Symmetric(),
		Results:    points,
		Meta: map[string]string{
			"model":      "delhommeau",
			"tabulation": uc.settings,
		},
	}, nil
}

// Evaluate validates the request and returns one result per pair, in order
func (uc *EvaluationUseCase) Evaluate(ctx context.Context, req EvaluationRequest) ([]domain.SymmetricResult, error) {
	// Validate request
	if err := req.Validate(uc.maxBatch); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	k := req.Wavenumber
	eval := func(p domain.PointPair) domain.SymmetricResult {
		return uc.evaluator.InfiniteDepthSym(k, p.Field, p.Source, p.Area)
	}

	if !req.InfiniteDepth() {
		h := req.Depth
		kh := k * h
		exp, err := uc.expSums.Find(kh*math.Tanh(kh), kh)
		if err != nil {
			return nil, fmt.Errorf("failed to find exponential decomposition for kh=%g: %w", kh, err)
		}
		if err := exp.Validate(); err != nil {
			return nil, err
		}
		eval = func(p domain.PointPair) domain.SymmetricResult {
			return uc.evaluator.FiniteDepthSym(k, p.Field, p.Source, p.Area, h, exp)
		}
	}

	results := make([]domain.SymmetricResult, len(req.Pairs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)

	for start := 0; start < len(req.Pairs); start += batchChunk {
		end := min(start+batchChunk, len(req.Pairs))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				r := eval(req.Pairs[i])
				if !r.Direct.IsFinite() || !r.Mirror.IsFinite() {
					return fmt.Errorf("pair %d: %w", i, ErrNonFinite)
				}
				results[i] = r
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// GetTablesInfo returns a description of the tabulation in use
func (uc *EvaluationUseCase) GetTablesInfo() TablesInfo {
	t := uc.evaluator.Tables()
	return TablesInfo{
		RadialNodes:   len(t.XR),
		VerticalNodes: len(t.XZ),
		MaxKR:         t.XR[len(t.XR)-1],
		MinKZ:         t.XZ[len(t.XZ)-1],
		Settings:      uc.settings,
	}
}
