package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"go.ngs.io/wavegreen/internal/domain"
)

var resultHeaders = []string{
	"field_x", "field_y", "field_z", "source_x", "source_y", "source_z", "area",
	"potential_re", "potential_im",
	"grad_x_re", "grad_x_im", "grad_y_re", "grad_y_im", "grad_z_re", "grad_z_im",
}

// WriteResults writes one row per pair with its evaluated contribution.
func WriteResults(w io.Writer, pairs []domain.PointPair, results []domain.Result) error {
	if len(pairs) != len(results) {
		return fmt.Errorf("got %d pairs and %d results", len(pairs), len(results))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeaders); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, p := range pairs {
		r := results[i]
		row := []float64{
			p.Field[0], p.Field[1], p.Field[2],
			p.Source[0], p.Source[1], p.Source[2], p.Area,
			real(r.Potential), imag(r.Potential),
			real(r.Gradient[0]), imag(r.Gradient[0]),
			real(r.Gradient[1]), imag(r.Gradient[1]),
			real(r.Gradient[2]), imag(r.Gradient[2]),
		}
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
