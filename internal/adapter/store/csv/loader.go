// Package csv provides CSV-based loading of exponential-sum coefficients and
// point-pair batches, and CSV output of evaluation results.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.ngs.io/wavegreen/internal/domain"
	"go.ngs.io/wavegreen/internal/green"
)

var (
	expSumHeaders = []string{"lambda", "a"}
	pairHeaders   = []string{"field_x", "field_y", "field_z", "source_x", "source_y", "source_z", "area"}
)

// LoadExpSum reads exponential-sum coefficients from a CSV file with the columns
// lambda, a. The constant boundary term must not be listed; it is always added
// by the finite-depth evaluation.
func LoadExpSum(path string) (green.ExpSum, error) {
	records, err := readRecords(path, expSumHeaders)
	if err != nil {
		return green.ExpSum{}, err
	}

	var exp green.ExpSum
	for n, record := range records {
		values, err := parseFloats(record)
		if err != nil {
			return green.ExpSum{}, fmt.Errorf("invalid exponential term on row %d: %w", n+1, err)
		}
		exp.Lambda = append(exp.Lambda, values[0])
		exp.A = append(exp.A, values[1])
	}

	if exp.Len() == 0 {
		return green.ExpSum{}, fmt.Errorf("no exponential terms found in %s", path)
	}

	return exp, nil
}

// LoadPairs reads field/source pairs from a CSV file with the columns
// field_x, field_y, field_z, source_x, source_y, source_z, area.
func LoadPairs(path string) ([]domain.PointPair, error) {
	records, err := readRecords(path, pairHeaders)
	if err != nil {
		return nil, err
	}

	pairs := make([]domain.PointPair, 0, len(records))
	for n, record := range records {
		v, err := parseFloats(record)
		if err != nil {
			return nil, fmt.Errorf("invalid point pair on row %d: %w", n+1, err)
		}
		pairs = append(pairs, domain.PointPair{
			Field:  domain.Vec3{v[0], v[1], v[2]},
			Source: domain.Vec3{v[3], v[4], v[5]},
			Area:   v[6],
		})
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("no point pairs found in %s", path)
	}

	return pairs, nil
}

// readRecords opens a CSV file, checks its header and returns the data rows.
func readRecords(path string, expectedHeaders []string) ([][]string, error) {
	//nolint:gosec // G304: File path comes from command flags or configuration.
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	// Read header.
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	// Validate header.
	if len(header) != len(expectedHeaders) {
		return nil, fmt.Errorf("invalid CSV header: expected %v, got %v", expectedHeaders, header)
	}
	for i, h := range header {
		if strings.TrimSpace(h) != expectedHeaders[i] {
			return nil, fmt.Errorf("invalid CSV header: expected column %d to be %s, got %s", i, expectedHeaders[i], h)
		}
	}

	// Read data rows.
	var records [][]string
	for {
		record, err := reader.Read()
		if err != nil {
			// EOF is expected.
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

func parseFloats(record []string) ([]float64, error) {
	values := make([]float64, len(record))
	for i, field := range record {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		values[i] = v
	}
	return values, nil
}
