// Command tabulate computes the wave-term tables and writes them to the NetCDF
// cache directory read by the server and the evaluate command.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"go.ngs.io/wavegreen/internal/adapter/store/tablecache"
	"go.ngs.io/wavegreen/internal/green"
	"go.ngs.io/wavegreen/internal/tabulation"
)

func main() {
	// Command line flags
	outDir := flag.String("out", "./data", "Output directory for NetCDF files")
	nodes := flag.Int("nodes", tabulation.DefaultQuadratureNodes, "Gauss-Legendre nodes per quadrature panel")
	workers := flag.Int("workers", 0, "Rows computed concurrently (0: number of CPUs)")

	flag.Parse()

	cfg := tabulation.Config{
		QuadratureNodes: *nodes,
		Workers:         *workers,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("Computing %s on a %d × %d grid", cfg, green.RadialNodes, green.VerticalNodes)

	// Create output directory
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	started := time.Now()
	tables, err := tabulation.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to compute tables: %v", err)
	}

	store := tablecache.NewStore(*outDir)
	if err := store.Save(cfg, tables); err != nil {
		log.Fatalf("Failed to write tables: %v", err)
	}

	// Print summary
	log.Printf("\n=== Tabulation Complete ===")
	log.Printf("File: %s", store.Path(cfg))
	log.Printf("Elapsed: %s", time.Since(started).Round(time.Millisecond))
	log.Printf("kR range: [%g, %g], kz range: [%g, %g]",
		tables.XR[0], tables.XR[len(tables.XR)-1], tables.XZ[len(tables.XZ)-1], tables.XZ[0])
	bytesPerTable := len(tables.XR) * len(tables.XZ) * 8 // 8 bytes per float64
	log.Printf("Total size: ~%.1f KB (4 tables)", float64(bytesPerTable*4)/1024)
}
