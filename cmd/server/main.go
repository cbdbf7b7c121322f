// Package main provides the Green's function HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.ngs.io/wavegreen/internal/adapter/store"
	"go.ngs.io/wavegreen/internal/adapter/store/tablecache"
	"go.ngs.io/wavegreen/internal/config"
	"go.ngs.io/wavegreen/internal/green"
	httpHandler "go.ngs.io/wavegreen/internal/http"
	"go.ngs.io/wavegreen/internal/prony"
	"go.ngs.io/wavegreen/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", os.Getenv("WAVEGREEN_CONFIG"), "Path to a JSON5 configuration file")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("wavegreen version %s\n", version)
		return
	}

	// Load configuration from file and environment.
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting wavegreen server...")
	log.Printf("Port: %s", cfg.Port)
	log.Printf("Data directory: %s", cfg.DataDir)
	log.Printf("Tabulation: %s", cfg.Tabulation())

	// Initialize stores.
	tableStore := tablecache.NewStore(cfg.DataDir)
	expSumCache := prony.NewCache(cfg.ExpSumCacheSize)

	// Cast to interface.
	var tableProvider store.TableProvider = tableStore
	var expSumProvider store.ExpSumProvider = expSumCache

	tables, err := tableProvider.LoadOrBuild(context.Background(), cfg.Tabulation())
	if err != nil {
		log.Fatalf("Failed to prepare tabulation: %v", err)
	}

	if cfg.Symmetric {
		log.Printf("Symmetry about y = 0 enabled (mirror contributions will be returned)")
	}

	// Initialize use case.
	evaluator := green.NewEvaluator(tables, green.PointSource{}, cfg.Symmetric)
	evaluationUC := usecase.NewEvaluationUseCase(evaluator, expSumProvider, cfg.Tabulation().String(), cfg.Workers, cfg.MaxBatch)

	// Setup router.
	router := httpHandler.SetupRouter(evaluationUC, cfg.CORSAllowedOrigins)

	// Start server.
	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Server listening on %s", addr)
	log.Printf("Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("API endpoints:")
	log.Printf("  - GET /v1/green/evaluate")
	log.Printf("  - POST /v1/green/batch")
	log.Printf("  - GET /v1/tabulation")

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("wavegreen server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  server [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println("  -config PATH   JSON5 configuration file (default: $WAVEGREEN_CONFIG)")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                          Server port (default: 8080)")
	fmt.Println("  DATA_DIR                      Tabulation cache directory (default: ./data)")
	fmt.Println("  TABULATION_QUADRATURE_NODES   Gauss-Legendre nodes per panel (default: 16)")
	fmt.Println("  WORKERS                       Concurrent workers (default: number of CPUs)")
	fmt.Println("  GREEN_SYMMETRIC               Also return mirror contributions about y = 0 (default: false)")
	fmt.Println("  EXPSUM_CACHE_SIZE             Cached finite-depth decompositions (default: 128)")
	fmt.Println("  MAX_BATCH                     Maximum pairs per request (default: 10000)")
	fmt.Println("  CORS_ALLOWED_ORIGINS          Comma-separated list of allowed origins (default: all origins)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  server")
	fmt.Println()
	fmt.Println("  # Start server on custom port with a config file")
	fmt.Println("  PORT=3000 server -config wavegreen.json5")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET  /health                Health check")
	fmt.Println("  GET  /v1/tabulation         Describe the tabulation in use")
	fmt.Println("  GET  /v1/green/evaluate     Evaluate one field/source pair")
	fmt.Println("  POST /v1/green/batch        Evaluate a batch of pairs")
	fmt.Println()
}
