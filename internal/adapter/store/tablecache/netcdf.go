// Package tablecache persists tabulated Green's function coefficients as NetCDF
// files, so that the tabulation is computed once per set of settings.
package tablecache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/wavegreen/internal/green"
	"go.ngs.io/wavegreen/internal/tabulation"
)

// ErrNotFound is returned by Load when no cached file exists for the settings.
var ErrNotFound = errors.New("tabulation file not found")

const (
	radialDimName      = "r"
	verticalDimName    = "z"
	quadratureAttrName = "quadrature_nodes"
)

// tableNames lists the coefficient variables in file order.
var tableNames = []string{"APD1Z", "APD2Z", "APD1X", "APD2X"}

// Store loads and saves coefficient tables under a data directory.
type Store struct {
	dataDir string
	cache   map[string]*green.Tables // Cache loaded tables by settings key.
	mu      sync.RWMutex             // Protect cache.
}

// NewStore creates a new table store rooted at dataDir.
func NewStore(dataDir string) *Store {
	return &Store{
		dataDir: dataDir,
		cache:   make(map[string]*green.Tables),
	}
}

// Path returns the file used for the given settings.
func (s *Store) Path(cfg tabulation.Config) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("tabulation_%s.nc", cfg.Key()))
}

// LoadOrBuild returns the tables for cfg from memory, from disk, or by computing
// and saving them, in that order. A failure to save is logged and not returned.
func (s *Store) LoadOrBuild(ctx context.Context, cfg tabulation.Config) (*green.Tables, error) {
	key := cfg.Key()

	// Check cache first.
	s.mu.RLock()
	if t, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return t, nil
	}
	s.mu.RUnlock()

	t, err := s.Load(cfg)
	switch {
	case err == nil:
		log.Printf("Loaded tabulation from %s", s.Path(cfg))
	case errors.Is(err, ErrNotFound):
		log.Printf("Precomputing tabulation %s, it may take a few seconds", cfg)
		t, err = tabulation.Build(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := s.Save(cfg, t); err != nil {
			log.Printf("Warning: failed to save tabulation: %v", err)
		}
	default:
		return nil, err
	}

	s.mu.Lock()
	s.cache[key] = t
	s.mu.Unlock()

	return t, nil
}

// Load reads the tables for cfg from disk.
func (s *Store) Load(cfg tabulation.Config) (*green.Tables, error) {
	path := s.Path(cfg)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	t, nodes, err := ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tabulation %s: %w", path, err)
	}
	if nodes != cfg.QuadratureNodes {
		return nil, fmt.Errorf("tabulation %s was computed with %d quadrature nodes, expected %d",
			path, nodes, cfg.QuadratureNodes)
	}
	return t, nil
}

// Save writes the tables for cfg to disk, replacing any previous file.
func (s *Store) Save(cfg tabulation.Config, t *green.Tables) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	path := s.Path(cfg)
	tmp := path + ".tmp"
	if err := WriteFile(tmp, t, cfg.QuadratureNodes); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move tabulation into place: %w", err)
	}
	return nil
}

// WriteFile writes the axes and the four coefficient tables to a NetCDF file.
// The file is complete only when WriteFile returns nil.
func WriteFile(path string, t *green.Tables, quadratureNodes int) (err error) {
	ds, err := netcdf.CreateFile(path, netcdf.CLOBBER|netcdf.NETCDF4)
	if err != nil {
		return fmt.Errorf("failed to create NetCDF file: %w", err)
	}
	defer func() {
		if cerr := ds.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close NetCDF file: %w", cerr)
		}
	}()

	rDim, err := ds.AddDim(radialDimName, uint64(len(t.XR)))
	if err != nil {
		return fmt.Errorf("failed to add radial dimension: %w", err)
	}
	zDim, err := ds.AddDim(verticalDimName, uint64(len(t.XZ)))
	if err != nil {
		return fmt.Errorf("failed to add vertical dimension: %w", err)
	}

	rVar, err := ds.AddVar(radialDimName, netcdf.DOUBLE, []netcdf.Dim{rDim})
	if err != nil {
		return fmt.Errorf("failed to add radial variable: %w", err)
	}
	zVar, err := ds.AddVar(verticalDimName, netcdf.DOUBLE, []netcdf.Dim{zDim})
	if err != nil {
		return fmt.Errorf("failed to add vertical variable: %w", err)
	}

	grids := t.Grids()
	vars := make([]netcdf.Var, len(tableNames))
	for i, name := range tableNames {
		vars[i], err = ds.AddVar(name, netcdf.DOUBLE, []netcdf.Dim{rDim, zDim})
		if err != nil {
			return fmt.Errorf("failed to add variable %s: %w", name, err)
		}
		if err := vars[i].Attr(quadratureAttrName).WriteInt32s([]int32{int32(quadratureNodes)}); err != nil {
			return fmt.Errorf("failed to write attribute on %s: %w", name, err)
		}
	}

	if err := ds.EndDef(); err != nil {
		return fmt.Errorf("failed to end define mode: %w", err)
	}

	if err := rVar.WriteFloat64s(t.XR); err != nil {
		return fmt.Errorf("failed to write radial nodes: %w", err)
	}
	if err := zVar.WriteFloat64s(t.XZ); err != nil {
		return fmt.Errorf("failed to write vertical nodes: %w", err)
	}

	for i, name := range tableNames {
		g := grids[name]
		flat := make([]float64, 0, len(t.XR)*len(t.XZ))
		for _, row := range g.Values {
			flat = append(flat, row...)
		}
		if err := vars[i].WriteFloat64s(flat); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	return nil
}

// ReadFile reads tables written by WriteFile and returns them with the number of
// quadrature nodes recorded in the file.
func ReadFile(path string) (*green.Tables, int, error) {
	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open NetCDF file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	xr, err := readAxis(nc, radialDimName)
	if err != nil {
		return nil, 0, err
	}
	xz, err := readAxis(nc, verticalDimName)
	if err != nil {
		return nil, 0, err
	}

	t := green.NewTables(xr, xz)
	grids := t.Grids()
	var nodes int

	for _, name := range tableNames {
		v, err := nc.Var(name)
		if err != nil {
			return nil, 0, fmt.Errorf("variable %s not found: %w", name, err)
		}

		dims, err := v.Dims()
		if err != nil {
			return nil, 0, fmt.Errorf("failed to get dimensions of %s: %w", name, err)
		}
		if len(dims) != 2 {
			return nil, 0, fmt.Errorf("expected 2D variable %s, got %dD", name, len(dims))
		}
		nr, err := dims[0].Len()
		if err != nil {
			return nil, 0, err
		}
		nz, err := dims[1].Len()
		if err != nil {
			return nil, 0, err
		}
		if int(nr) != len(xr) || int(nz) != len(xz) {
			return nil, 0, fmt.Errorf("variable %s has shape %d x %d, expected %d x %d", name, nr, nz, len(xr), len(xz))
		}

		flat := make([]float64, nr*nz)
		if err := v.ReadFloat64s(flat); err != nil {
			return nil, 0, fmt.Errorf("failed to read %s: %w", name, err)
		}
		g := grids[name]
		for i := range g.Values {
			copy(g.Values[i], flat[i*len(xz):(i+1)*len(xz)])
		}

		if n, ok := readIntAttr(v, quadratureAttrName); ok {
			nodes = n
		}
	}

	if err := t.Validate(); err != nil {
		return nil, 0, fmt.Errorf("invalid tables in %s: %w", path, err)
	}

	return t, nodes, nil
}

// readAxis reads a 1D coordinate variable.
func readAxis(nc netcdf.Dataset, name string) ([]float64, error) {
	v, err := nc.Var(name)
	if err != nil {
		return nil, fmt.Errorf("coordinate variable %s not found: %w", name, err)
	}
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("expected 1D variable %s, got %dD", name, len(dims))
	}
	length, err := dims[0].Len()
	if err != nil {
		return nil, err
	}

	data := make([]float64, length)
	if err := v.ReadFloat64s(data); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// readIntAttr returns a scalar integer attribute if present.
func readIntAttr(v netcdf.Var, name string) (int, bool) {
	a := v.Attr(name)
	if n, err := a.Len(); err != nil || n == 0 {
		return 0, false
	}
	buf := make([]int32, 1)
	if err := a.ReadInt32s(buf); err != nil {
		return 0, false
	}
	return int(buf[0]), true
}
