// Command evaluate reads field/source pairs from CSV, evaluates the wave part of
// the Green's function for one wavenumber and depth, and writes the results as
// CSV, reporting the largest contribution.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"

	"go.ngs.io/wavegreen/internal/adapter/store"
	"go.ngs.io/wavegreen/internal/adapter/store/csv"
	"go.ngs.io/wavegreen/internal/adapter/store/tablecache"
	"go.ngs.io/wavegreen/internal/config"
	"go.ngs.io/wavegreen/internal/domain"
	"go.ngs.io/wavegreen/internal/green"
	"go.ngs.io/wavegreen/internal/prony"
	"go.ngs.io/wavegreen/internal/usecase"
)

func main() {
	var (
		configPath string
		pairsPath  string
		expSumPath string
		outPath    string
		k          float64
		depth      float64
	)
	flag.StringVar(&configPath, "config", os.Getenv("WAVEGREEN_CONFIG"), "Path to a JSON5 configuration file")
	flag.StringVar(&pairsPath, "pairs", "", "CSV of field/source pairs (field_x,...,source_z,area)")
	flag.StringVar(&expSumPath, "expsum", "", "CSV of exponential-sum coefficients (lambda,a); fitted when empty")
	flag.StringVar(&outPath, "out", "-", "Output CSV path (- for stdout)")
	flag.Float64Var(&k, "k", 1, "Wavenumber (rad/m)")
	flag.Float64Var(&depth, "depth", 0, "Water depth (m); 0 for infinite depth")
	flag.Parse()

	if pairsPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: evaluate -pairs <csv> -k 1.0 [-depth 10] [-expsum <csv>] [-out results.csv]")
		os.Exit(2)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Load pairs.
	pairs, err := csv.LoadPairs(pairsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	// Exponential sums come from a file or from the fitting cache.
	var expSums store.ExpSumProvider = prony.NewCache(cfg.ExpSumCacheSize)
	if expSumPath != "" {
		exp, err := csv.LoadExpSum(expSumPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		expSums = store.FixedExpSum{Sum: exp}
	}

	tables, err := tablecache.NewStore(cfg.DataDir).LoadOrBuild(ctx, cfg.Tabulation())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to prepare tabulation: %v\n", err)
		os.Exit(1)
	}

	// Evaluate.
	evaluator := green.NewEvaluator(tables, green.PointSource{}, false)
	uc := usecase.NewEvaluationUseCase(evaluator, expSums, cfg.Tabulation().String(), cfg.Workers, len(pairs))
	results, err := uc.Evaluate(ctx, usecase.EvaluationRequest{Wavenumber: k, Depth: depth, Pairs: pairs})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	direct := make([]domain.Result, len(results))
	for i, r := range results {
		direct[i] = r.Direct
	}

	// Write results.
	if err := writeResults(outPath, pairs, direct); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write results: %v\n", err)
		os.Exit(1)
	}

	idx, largest := maxContribution(direct)
	fmt.Fprintf(os.Stderr, "Evaluated pairs: %d\n", len(direct))
	fmt.Fprintf(os.Stderr, "Largest contribution: %.6g (pair %d)\n", largest, idx)
}

// writeResults writes the CSV to path, or to stdout when path is "-".
func writeResults(path string, pairs []domain.PointPair, results []domain.Result) error {
	if path == "-" {
		return csv.WriteResults(os.Stdout, pairs, results)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := csv.WriteResults(f, pairs, results); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// maxContribution returns the index and modulus of the largest component.
func maxContribution(results []domain.Result) (int, float64) {
	idx, largest := -1, math.Inf(-1)
	for i, r := range results {
		if m := r.MaxAbs(); m > largest {
			idx, largest = i, m
		}
	}
	return idx, largest
}
