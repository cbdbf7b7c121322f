package tablecache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.ngs.io/wavegreen/internal/green"
	"go.ngs.io/wavegreen/internal/tabulation"
)

// helper to create tables on the legacy grid with distinct values in every cell
func sampleTables() *green.Tables {
	t := green.NewTables(green.RadialGrid(), green.VerticalGrid())
	for name, g := range t.Grids() {
		offset := float64(len(name)) + float64(name[len(name)-1])
		for i := range g.Values {
			for j := range g.Values[i] {
				g.Values[i][j] = offset + float64(10*i+j)/7
			}
		}
	}
	return t
}

func TestWriteReadFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.nc")
	want := sampleTables()

	if err := WriteFile(path, want, 24); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, nodes, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if nodes != 24 {
		t.Errorf("quadrature nodes = %d, want 24", nodes)
	}

	for i := range want.XR {
		if got.XR[i] != want.XR[i] {
			t.Fatalf("XR[%d] = %v, want %v", i, got.XR[i], want.XR[i])
		}
	}
	for j := range want.XZ {
		if got.XZ[j] != want.XZ[j] {
			t.Fatalf("XZ[%d] = %v, want %v", j, got.XZ[j], want.XZ[j])
		}
	}

	wantGrids := want.Grids()
	for name, g := range got.Grids() {
		for i := range g.Values {
			for j := range g.Values[i] {
				if g.Values[i][j] != wantGrids[name].Values[i][j] {
					t.Fatalf("%s[%d][%d] = %v, want %v", name, i, j, g.Values[i][j], wantGrids[name].Values[i][j])
				}
			}
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Load(tabulation.DefaultConfig())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load error = %v, want ErrNotFound", err)
	}
}

func TestSaveLoadOrBuildUsesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := tabulation.DefaultConfig()
	s := NewStore(dir)

	if err := s.Save(cfg, sampleTables()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A fresh store must read the saved file rather than tabulate.
	fresh := NewStore(dir)
	first, err := fresh.LoadOrBuild(context.Background(), cfg)
	if err != nil {
		t.Fatalf("LoadOrBuild: %v", err)
	}
	if len(first.XR) != green.RadialNodes || len(first.XZ) != green.VerticalNodes {
		t.Fatalf("loaded tables of shape %d x %d, want %d x %d", len(first.XR), len(first.XZ), green.RadialNodes, green.VerticalNodes)
	}

	second, err := fresh.LoadOrBuild(context.Background(), cfg)
	if err != nil {
		t.Fatalf("LoadOrBuild: %v", err)
	}
	if first != second {
		t.Error("expected cached tables on second call")
	}
}

func TestLoadRejectsOtherSettings(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	cfg := tabulation.DefaultConfig()

	// Write a file under the default name but record different settings.
	if err := WriteFile(s.Path(cfg), sampleTables(), cfg.QuadratureNodes+8); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := s.Load(cfg); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("Load error = %v, want settings mismatch", err)
	}
}

func TestReadFileRejectsOtherGrid(t *testing.T) {
	shifted := green.VerticalGrid()
	shifted[10] *= 1.5

	tests := []struct {
		name   string
		tables *green.Tables
	}{
		{name: "small grid", tables: green.NewTables([]float64{0, 0.5, 1, 2}, []float64{-0.1, -1, -4})},
		{name: "truncated radial axis", tables: green.NewTables(green.RadialGrid()[:200], green.VerticalGrid())},
		{name: "moved vertical node", tables: green.NewTables(green.RadialGrid(), shifted)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tables.nc")
			if err := WriteFile(path, tt.tables, 24); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, _, err := ReadFile(path); err == nil {
				t.Error("ReadFile error = nil, want grid mismatch")
			}
		})
	}
}

func TestSaveFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the data directory should be.
	blocker := filepath.Join(dir, "data")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(filepath.Join(blocker, "tables"))
	cfg := tabulation.DefaultConfig()
	if err := s.Save(cfg, sampleTables()); err == nil {
		t.Fatal("Save error = nil, want error")
	}
	if err := WriteFile(filepath.Join(dir, "missing", "tables.nc"), sampleTables(), 24); err == nil {
		t.Error("WriteFile into a missing directory: error = nil, want error")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the blocking file", len(entries))
	}
}
