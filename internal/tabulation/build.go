package tabulation

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"go.ngs.io/wavegreen/internal/green"
)

// Default tabulation settings.
const (
	DefaultQuadratureNodes = 16
)

// Config controls how the tables are computed.
type Config struct {
	// QuadratureNodes is the number of Gauss-Legendre nodes per panel.
	QuadratureNodes int
	// Workers bounds the number of table rows computed concurrently.
	// Zero means runtime.NumCPU().
	Workers int
}

// DefaultConfig returns the default tabulation settings.
func DefaultConfig() Config {
	return Config{QuadratureNodes: DefaultQuadratureNodes}
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.QuadratureNodes < 4 || c.QuadratureNodes > 128 {
		return fmt.Errorf("quadrature nodes must be between 4 and 128, got %d", c.QuadratureNodes)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// String describes the settings that affect the table contents, listing only
// those that differ from the defaults.
func (c Config) String() string {
	var parts []string
	if c.QuadratureNodes != DefaultQuadratureNodes {
		parts = append(parts, fmt.Sprintf("quadrature_nodes=%d", c.QuadratureNodes))
	}
	return fmt.Sprintf("Tabulation(%s)", strings.Join(parts, ", "))
}

// Key returns a short identifier of the table contents, suitable for file names.
func (c Config) Key() string {
	return fmt.Sprintf("nr%d_nz%d_q%d", green.RadialNodes, green.VerticalNodes, c.QuadratureNodes)
}

// Build computes the four coefficient tables on the legacy grid. Rows are computed
// concurrently; the context cancels outstanding rows.
func Build(ctx context.Context, cfg Config) (*green.Tables, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tabulation config: %w", err)
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	xr := green.RadialGrid()
	xz := green.VerticalGrid()
	tables := green.NewTables(xr, xz)
	q := newRule(cfg.QuadratureNodes)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range xr {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := q.newRow(xr[i])
			for j, z := range xz {
				c := q.evaluate(row, z)
				tables.APD1Z.Values[i][j] = c.pd1z
				tables.APD2Z.Values[i][j] = c.pd2z
				tables.APD1X.Values[i][j] = c.pd1x
				tables.APD2X.Values[i][j] = c.pd2x
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("tabulation interrupted: %w", err)
	}

	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("tabulation produced invalid tables: %w", err)
	}

	return tables, nil
}
