// Package config assembles service settings from defaults, an optional JSON5 file
// and environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	json "github.com/KevinWang15/go-json5"

	"go.ngs.io/wavegreen/internal/prony"
	"go.ngs.io/wavegreen/internal/tabulation"
)

// Config holds the settings shared by the server and the command-line tools.
type Config struct {
	Port               string
	DataDir            string // Directory of cached tabulation files.
	QuadratureNodes    int
	Workers            int // Bound on concurrent rows and batch evaluations; 0 means NumCPU.
	Symmetric          bool
	ExpSumCacheSize    int
	MaxBatch           int
	CORSAllowedOrigins []string // Empty means all origins.
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:            "8080",
		DataDir:         "./data",
		QuadratureNodes: tabulation.DefaultQuadratureNodes,
		ExpSumCacheSize: prony.DefaultCache,
		MaxBatch:        10000,
	}
}

// Load returns the default settings overridden by the JSON5 file at path (if path
// is not empty) and then by environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		//nolint:gosec // G304: Path comes from a command flag or environment variable.
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cfg.applyJSON5(data); err != nil {
			return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Tabulation returns the tabulation settings.
func (c Config) Tabulation() tabulation.Config {
	return tabulation.Config{
		QuadratureNodes: c.QuadratureNodes,
		Workers:         c.Workers,
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory must not be empty")
	}
	if c.MaxBatch < 1 {
		return fmt.Errorf("max batch must be positive, got %d", c.MaxBatch)
	}
	if c.ExpSumCacheSize < 1 {
		return fmt.Errorf("exponential-sum cache size must be positive, got %d", c.ExpSumCacheSize)
	}
	if err := c.Tabulation().Validate(); err != nil {
		return fmt.Errorf("invalid tabulation settings: %w", err)
	}
	return nil
}

// applyJSON5 overrides fields present in a JSON5 document.
func (c *Config) applyJSON5(data []byte) error {
	var table map[string]interface{}
	if err := json.Unmarshal(data, &table); err != nil {
		return err
	}

	if err := setString(table, "port", &c.Port); err != nil {
		return err
	}
	if err := setString(table, "data_dir", &c.DataDir); err != nil {
		return err
	}
	if err := setInt(table, "quadrature_nodes", &c.QuadratureNodes); err != nil {
		return err
	}
	if err := setInt(table, "workers", &c.Workers); err != nil {
		return err
	}
	if err := setBool(table, "symmetric", &c.Symmetric); err != nil {
		return err
	}
	if err := setInt(table, "expsum_cache_size", &c.ExpSumCacheSize); err != nil {
		return err
	}
	if err := setInt(table, "max_batch", &c.MaxBatch); err != nil {
		return err
	}

	if v, ok := table["cors_allowed_origins"]; ok {
		list, ok := v.([]interface{})
		if !ok {
			return fmt.Errorf("cors_allowed_origins: is not a list")
		}
		origins := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("cors_allowed_origins: contains a non-string entry")
			}
			origins = append(origins, s)
		}
		c.CORSAllowedOrigins = origins
	}

	return nil
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.DataDir = getEnv("DATA_DIR", c.DataDir)

	ints := []struct {
		key string
		dst *int
	}{
		{"TABULATION_QUADRATURE_NODES", &c.QuadratureNodes},
		{"WORKERS", &c.Workers},
		{"EXPSUM_CACHE_SIZE", &c.ExpSumCacheSize},
		{"MAX_BATCH", &c.MaxBatch},
	}
	for _, e := range ints {
		if v := os.Getenv(e.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", e.key, err)
			}
			*e.dst = n
		}
	}

	if v := os.Getenv("GREEN_SYMMETRIC"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid GREEN_SYMMETRIC: %w", err)
		}
		c.Symmetric = b
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.CORSAllowedOrigins = strings.Split(v, ",")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func setString(table map[string]interface{}, key string, dst *string) error {
	v, ok := table[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%s: is not a string", key)
	}
	*dst = s
	return nil
}

func setInt(table map[string]interface{}, key string, dst *int) error {
	v, ok := table[key]
	if !ok {
		return nil
	}
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return fmt.Errorf("%s: is not an integer", key)
	}
	*dst = int(f)
	return nil
}

func setBool(table map[string]interface{}, key string, dst *bool) error {
	v, ok := table[key]
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return fmt.Errorf("%s: is not a bool", key)
	}
	*dst = b
	return nil
}
