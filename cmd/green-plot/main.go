// Command green-plot draws profiles of the wave term along kR at a fixed kz, and
// the finite-depth residual next to its exponential fit.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"go.ngs.io/wavegreen/internal/adapter/store/tablecache"
	"go.ngs.io/wavegreen/internal/config"
	"go.ngs.io/wavegreen/internal/domain"
	"go.ngs.io/wavegreen/internal/green"
	"go.ngs.io/wavegreen/internal/prony"
)

var (
	blue  = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	red   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

func main() {
	configPath := flag.String("config", os.Getenv("WAVEGREEN_CONFIG"), "Path to a JSON5 configuration file")
	outDir := flag.String("out", ".", "Output directory for PNG files")
	kz := flag.Float64("kz", -1, "Dimensionless depth k(z+zeta) of the profile (negative)")
	maxKR := flag.Float64("max-kr", 110, "Largest kR of the profile")
	samples := flag.Int("samples", 2000, "Number of points along the profile")
	kh := flag.Float64("kh", 2, "Dimensionless depth kh of the residual fit")
	flag.Parse()

	if *kz >= 0 || *maxKR <= 0 || *samples < 2 || *kh <= 0 {
		log.Fatalf("Invalid arguments: kz must be negative, max-kr and kh positive, samples at least 2")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	tables, err := tablecache.NewStore(cfg.DataDir).LoadOrBuild(context.Background(), cfg.Tabulation())
	if err != nil {
		log.Fatalf("Failed to prepare tabulation: %v", err)
	}

	evaluator := green.NewEvaluator(tables, nil, false)

	path := filepath.Join(*outDir, "wave_term.png")
	if err := plotWaveTerm(evaluator, *kz, *maxKR, *samples, path); err != nil {
		log.Fatalf("Failed to plot wave term: %v", err)
	}
	log.Printf("Wrote %s", path)

	path = filepath.Join(*outDir, "residual_fit.png")
	if err := plotResidualFit(*kh, *samples, path); err != nil {
		log.Fatalf("Failed to plot residual fit: %v", err)
	}
	log.Printf("Wrote %s", path)
}

// plotWaveTerm plots the potential of the infinite-depth wave term with k = 1,
// both points at depth kz/2.
func plotWaveTerm(e *green.Evaluator, kz, maxKR float64, n int, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Wave term at kz = %g", kz)
	p.X.Label.Text = "kR"
	p.Y.Label.Text = "potential"
	p.Add(plotter.NewGrid())

	krs := floats.Span(make([]float64, n), 0, maxKR)
	re := make(plotter.XYs, n)
	im := make(plotter.XYs, n)
	for i, kr := range krs {
		r := e.WaveTerm(domain.Vec3{kr, 0, kz / 2}, domain.Vec3{0, 0, kz / 2}, 0, 1)
		re[i] = plotter.XY{X: kr, Y: real(r.Potential)}
		im[i] = plotter.XY{X: kr, Y: imag(r.Potential)}
	}

	reLine, err := plotter.NewLine(re)
	if err != nil {
		return err
	}
	reLine.Color = blue

	imLine, err := plotter.NewLine(im)
	if err != nil {
		return err
	}
	imLine.Color = red

	p.Add(reLine, imLine)
	p.Legend.Add("real", reLine)
	p.Legend.Add("imaginary", imLine)

	// Switch to the asymptotic expansion.
	switchLine, err := plotter.NewLine(plotter.XYs{{X: 99.7, Y: p.Y.Min}, {X: 99.7, Y: p.Y.Max}})
	if err != nil {
		return err
	}
	switchLine.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	switchLine.Color = black
	p.Add(switchLine)

	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}

// plotResidualFit plots the finite-depth residual and its exponential sum.
func plotResidualFit(kh float64, n int, path string) error {
	omega := kh * math.Tanh(kh)
	exp, err := prony.Find(omega, kh)
	if err != nil {
		return err
	}
	residual := prony.NewResidual(omega, kh)

	start, end := residual.Window()
	xs := floats.Span(make([]float64, n), start, end)
	ys := residual.Sample(xs)

	exact := make(plotter.XYs, n)
	fit := make(plotter.XYs, n)
	for i, x := range xs {
		exact[i] = plotter.XY{X: x, Y: ys[i]}
		fit[i] = plotter.XY{X: x, Y: prony.Eval(exp, x)}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Residual at kh = %g (%d terms, max error %.2g)", kh, exp.Len(), prony.MaxError(exp, xs, ys))
	p.X.Label.Text = "x"
	p.Y.Label.Text = "f(x)"
	p.Add(plotter.NewGrid())

	exactLine, err := plotter.NewLine(exact)
	if err != nil {
		return err
	}
	exactLine.Color = blue

	fitLine, err := plotter.NewLine(fit)
	if err != nil {
		return err
	}
	fitLine.Color = red
	fitLine.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}

	p.Add(exactLine, fitLine)
	p.Legend.Add("residual", exactLine)
	p.Legend.Add("exponential sum", fitLine)

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
