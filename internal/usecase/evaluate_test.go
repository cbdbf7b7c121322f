package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"go.ngs.io/wavegreen/internal/adapter/store"
	"go.ngs.io/wavegreen/internal/domain"
	"go.ngs.io/wavegreen/internal/green"
	"go.ngs.io/wavegreen/internal/prony"
	"go.ngs.io/wavegreen/internal/tabulation"
)

var (
	tablesOnce sync.Once
	tables     *green.Tables
	tablesErr  error
)

func testTables(t *testing.T) *green.Tables {
	t.Helper()
	tablesOnce.Do(func() {
		tables, tablesErr = tabulation.Build(context.Background(), tabulation.DefaultConfig())
	})
	if tablesErr != nil {
		t.Fatalf("failed to build tables: %v", tablesErr)
	}
	return tables
}

// recordingProvider records the arguments of Find and returns a fixed sum.
type recordingProvider struct {
	mu    sync.Mutex
	calls [][2]float64
	sum   green.ExpSum
	err   error
}

func (p *recordingProvider) Find(omega, kh float64) (green.ExpSum, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, [2]float64{omega, kh})
	return p.sum, p.err
}

func pair(field, source domain.Vec3, area float64) domain.PointPair {
	return domain.PointPair{Field: field, Source: source, Area: area}
}

func TestEvaluationRequestValidate(t *testing.T) {
	ok := pair(domain.Vec3{1, 0, -1}, domain.Vec3{0, 0, -2}, 1)

	tests := []struct {
		name    string
		req     EvaluationRequest
		wantErr bool
	}{
		{name: "infinite depth", req: EvaluationRequest{Wavenumber: 1, Pairs: []domain.PointPair{ok}}},
		{name: "explicit infinite depth", req: EvaluationRequest{Wavenumber: 1, Depth: math.Inf(1), Pairs: []domain.PointPair{ok}}},
		{name: "finite depth", req: EvaluationRequest{Wavenumber: 1, Depth: 5, Pairs: []domain.PointPair{ok}}},
		{name: "zero wavenumber infinite depth", req: EvaluationRequest{Pairs: []domain.PointPair{ok}}},
		{name: "zero wavenumber finite depth", req: EvaluationRequest{Depth: 5, Pairs: []domain.PointPair{ok}}, wantErr: true},
		{name: "negative wavenumber", req: EvaluationRequest{Wavenumber: -1, Pairs: []domain.PointPair{ok}}, wantErr: true},
		{name: "infinite wavenumber", req: EvaluationRequest{Wavenumber: math.Inf(1), Pairs: []domain.PointPair{ok}}, wantErr: true},
		{name: "negative depth", req: EvaluationRequest{Wavenumber: 1, Depth: -3, Pairs: []domain.PointPair{ok}}, wantErr: true},
		{name: "NaN depth", req: EvaluationRequest{Wavenumber: 1, Depth: math.NaN(), Pairs: []domain.PointPair{ok}}, wantErr: true},
		{name: "no pairs", req: EvaluationRequest{Wavenumber: 1}, wantErr: true},
		{name: "too many pairs", req: EvaluationRequest{Wavenumber: 1, Pairs: []domain.PointPair{ok, ok, ok, ok}}, wantErr: true},
		{name: "point above surface", req: EvaluationRequest{Wavenumber: 1, Pairs: []domain.PointPair{pair(domain.Vec3{0, 0, 0.5}, domain.Vec3{0, 0, -1}, 1)}}, wantErr: true},
		{name: "point below bottom", req: EvaluationRequest{Wavenumber: 1, Depth: 1.5, Pairs: []domain.PointPair{ok}}, wantErr: true},
		{name: "negative area", req: EvaluationRequest{Wavenumber: 1, Pairs: []domain.PointPair{pair(domain.Vec3{0, 0, -1}, domain.Vec3{1, 0, -1}, -1)}}, wantErr: true},
		{name: "coincident on surface finite depth", req: EvaluationRequest{Wavenumber: 1, Depth: 10, Pairs: []domain.PointPair{pair(domain.Vec3{1, 1, 0}, domain.Vec3{1, 1, 0}, 1)}}, wantErr: true},
		{name: "coincident on surface infinite depth", req: EvaluationRequest{Wavenumber: 1, Pairs: []domain.PointPair{pair(domain.Vec3{1, 1, 0}, domain.Vec3{1, 1, 0}, 1)}}},
		{name: "surface points apart finite depth", req: EvaluationRequest{Wavenumber: 1, Depth: 10, Pairs: []domain.PointPair{pair(domain.Vec3{1, 1, 0}, domain.Vec3{2, 1, 0}, 1)}}},
		{name: "NaN coordinate", req: EvaluationRequest{Wavenumber: 1, Pairs: []domain.PointPair{pair(domain.Vec3{math.NaN(), 0, -1}, domain.Vec3{1, 0, -1}, 1)}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(3)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExecuteInfiniteDepth(t *testing.T) {
	e := green.NewEvaluator(testTables(t), nil, false)
	provider := &recordingProvider{}
	uc := NewEvaluationUseCase(e, provider, "Tabulation()", 2, 100)

	pairs := make([]domain.PointPair, 600)
	for i := range pairs {
		pairs[i] = pair(domain.Vec3{float64(i) / 50, 0, -1}, domain.Vec3{0, 0, -0.5}, 1)
	}

	resp, err := uc.Execute(context.Background(), EvaluationRequest{Wavenumber: 1.2, Pairs: pairs[:100]})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.Depth != "infinite" || len(resp.Results) != 100 {
		t.Fatalf("unexpected response: depth %s, %d results", resp.Depth, len(resp.Results))
	}
	if len(provider.calls) != 0 {
		t.Errorf("exponential sums requested for infinite depth")
	}

	want := e.InfiniteDepth(1.2, pairs[42].Field, pairs[42].Source, 1)
	got := resp.Results[42]
	if got.Potential.Re != real(want.Potential) || got.Potential.Im != imag(want.Potential) {
		t.Errorf("result 42 potential = %+v, want %v", got.Potential, want.Potential)
	}
	if got.Mirror != nil {
		t.Errorf("mirror reported with symmetry disabled")
	}

	// Results keep the request order across chunks.
	big := NewEvaluationUseCase(e, provider, "", 3, 1000)
	results, err := big.Evaluate(context.Background(), EvaluationRequest{Wavenumber: 1.2, Pairs: pairs})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	for _, i := range []int{0, 255, 256, 599} {
		if want := e.InfiniteDepth(1.2, pairs[i].Field, pairs[i].Source, 1); results[i].Direct != want {
			t.Errorf("result %d out of order", i)
		}
	}
}

func TestExecuteFiniteDepth(t *testing.T) {
	e := green.NewEvaluator(testTables(t), nil, true)
	exp := green.ExpSum{Lambda: []float64{-0.5, -1.5, -3.0}, A: []float64{0.3, -0.2, 0.1}}
	provider := &recordingProvider{sum: exp}
	uc := NewEvaluationUseCase(e, provider, "", 0, 100)

	p := pair(domain.Vec3{5, 0, -2}, domain.Vec3{0, 0, -3}, 2)
	resp, err := uc.Execute(context.Background(), EvaluationRequest{Wavenumber: 0.5, Depth: 10, Pairs: []domain.PointPair{p}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(provider.calls) != 1 {
		t.Fatalf("provider called %d times, want 1", len(provider.calls))
	}
	if c := provider.calls[0]; c[1] != 5 || math.Abs(c[0]-5*math.Tanh(5)) > 1e-15 {
		t.Errorf("provider called with omega=%v kh=%v", c[0], c[1])
	}

	want := e.FiniteDepth(0.5, p.Field, p.Source, 2, 10, exp)
	if resp.Results[0].Potential.Re != real(want.Potential) {
		t.Errorf("potential = %+v, want %v", resp.Results[0].Potential, want.Potential)
	}
	if resp.Depth != "10" || !resp.Symmetric || resp.Results[0].Mirror == nil {
		t.Errorf("unexpected response metadata: %+v", resp)
	}
}

func TestEvaluateProviderError(t *testing.T) {
	e := green.NewEvaluator(testTables(t), nil, false)
	provider := &recordingProvider{err: errors.New("fit failed")}
	uc := NewEvaluationUseCase(e, provider, "", 1, 10)

	req := EvaluationRequest{Wavenumber: 1, Depth: 10, Pairs: []domain.PointPair{pair(domain.Vec3{1, 0, -1}, domain.Vec3{0, 0, -1}, 1)}}
	if _, err := uc.Evaluate(context.Background(), req); err == nil {
		t.Error("expected provider error")
	}
}

func TestEvaluateDetectsNonFinite(t *testing.T) {
	tests := []struct {
		name  string
		value complex128
	}{
		{name: "NaN", value: complex(math.NaN(), 0)},
		{name: "infinity", value: complex(math.Inf(1), 0)},
		{name: "imaginary infinity", value: complex(0, math.Inf(-1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kernel := green.KernelFunc(func(_, _ domain.Vec3, _ float64) domain.Result {
				return domain.Result{Potential: tt.value}
			})
			e := green.NewEvaluator(testTables(t), kernel, false)
			exp := store.FixedExpSum{Sum: green.ExpSum{Lambda: []float64{-1}, A: []float64{0.5}}}
			uc := NewEvaluationUseCase(e, exp, "", 1, 10)

			req := EvaluationRequest{Wavenumber: 1, Depth: 10, Pairs: []domain.PointPair{pair(domain.Vec3{1, 0, -1}, domain.Vec3{0, 0, -1}, 1)}}
			if _, err := uc.Evaluate(context.Background(), req); !errors.Is(err, ErrNonFinite) {
				t.Errorf("Evaluate() error = %v, want ErrNonFinite", err)
			}
		})
	}
}

func TestExecuteRejectsCoincidentSurfacePoints(t *testing.T) {
	e := green.NewEvaluator(testTables(t), nil, false)
	uc := NewEvaluationUseCase(e, store.FixedExpSum{}, "", 1, 10)

	p := pair(domain.Vec3{1, 1, 0}, domain.Vec3{1, 1, 0}, 1)
	if resp, err := uc.Execute(context.Background(), EvaluationRequest{Wavenumber: 1, Depth: 10, Pairs: []domain.PointPair{p}}); err == nil {
		t.Errorf("Execute() = %+v, want error", resp.Results[0])
	}

	// Infinite depth has no singular image and stays finite.
	results, err := uc.Evaluate(context.Background(), EvaluationRequest{Wavenumber: 1, Pairs: []domain.PointPair{p}})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !results[0].Direct.IsFinite() {
		t.Errorf("result = %+v", results[0].Direct)
	}
}

func TestEvaluateShallowWater(t *testing.T) {
	e := green.NewEvaluator(testTables(t), nil, false)
	uc := NewEvaluationUseCase(e, prony.NewCache(4), "", 1, 10)

	p := pair(domain.Vec3{5, 0, -2}, domain.Vec3{0, 0, -3}, 1)
	for _, k := range []float64{0.01, 0.05} {
		results, err := uc.Evaluate(context.Background(), EvaluationRequest{Wavenumber: k, Depth: 10, Pairs: []domain.PointPair{p}})
		if err != nil {
			if !errors.Is(err, prony.ErrIllConditioned) {
				t.Errorf("k=%v: Evaluate() error = %v, want ErrIllConditioned", k, err)
			}
			continue
		}
		if m := results[0].Direct.MaxAbs(); m > 1 {
			t.Errorf("k=%v: largest component = %v", k, m)
		}
	}
}

func TestEvaluateCancelled(t *testing.T) {
	e := green.NewEvaluator(testTables(t), nil, false)
	uc := NewEvaluationUseCase(e, store.FixedExpSum{}, "", 1, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := EvaluationRequest{Wavenumber: 1, Pairs: []domain.PointPair{pair(domain.Vec3{1, 0, -1}, domain.Vec3{0, 0, -1}, 1)}}
	if _, err := uc.Evaluate(ctx, req); !errors.Is(err, context.Canceled) {
		t.Errorf("Evaluate() error = %v, want context.Canceled", err)
	}
}

func TestGetTablesInfo(t *testing.T) {
	e := green.NewEvaluator(testTables(t), nil, false)
	uc := NewEvaluationUseCase(e, store.FixedExpSum{}, "Tabulation()", 1, 10)

	info := uc.GetTablesInfo()
	if info.RadialNodes != green.RadialNodes || info.VerticalNodes != green.VerticalNodes {
		t.Errorf("info = %+v", info)
	}
	if info.MaxKR != 100 || info.MinKZ != -16 || info.Settings != "Tabulation()" {
		t.Errorf("info = %+v", info)
	}
}
