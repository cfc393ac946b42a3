// Package config loads the born-norm runtime configuration.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/born-ml/born-norm/internal/parallel"
)

// Accelerator names.
const (
	AcceleratorCPU    = "cpu"
	AcceleratorWebGPU = "webgpu"
)

// Config holds the configuration for a born-norm process.
type Config struct {
	Parallel    ParallelConfig `json:"parallel"`
	Accelerator string         `json:"accelerator"` // "cpu" or "webgpu"
	LogLevel    string         `json:"log_level"`   // debug, info, warn, error
}

// ParallelConfig configures the row fan-out used by the kernels.
type ParallelConfig struct {
	Enabled      bool `json:"enabled"`
	NumWorkers   int  `json:"num_workers"` // 0 selects runtime.NumCPU
	MinChunkSize int  `json:"min_chunk_size"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	p := parallel.DefaultConfig()
	return &Config{
		Parallel: ParallelConfig{
			Enabled:      p.Enabled,
			NumWorkers:   0,
			MinChunkSize: p.MinChunkSize,
		},
		Accelerator: AcceleratorCPU,
		LogLevel:    "info",
	}
}

// Load reads a JSON config file on top of DefaultConfig. Unknown fields are
// rejected. The result is validated.
func Load(path string) (*Config, error) {
	//nolint:gosec // G304: config path comes from the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges and names.
func (c *Config) Validate() error {
	if c.Parallel.NumWorkers < 0 {
		return fmt.Errorf("parallel.num_workers must be >= 0, got %d", c.Parallel.NumWorkers)
	}
	if c.Parallel.MinChunkSize < 1 {
		return fmt.Errorf("parallel.min_chunk_size must be >= 1, got %d", c.Parallel.MinChunkSize)
	}
	switch c.Accelerator {
	case AcceleratorCPU, AcceleratorWebGPU:
	default:
		return fmt.Errorf("unknown accelerator %q (want %q or %q)", c.Accelerator, AcceleratorCPU, AcceleratorWebGPU)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// ParallelSettings converts the parallel section into a parallel.Config.
func (c *Config) ParallelSettings() parallel.Config {
	p := parallel.DefaultConfig()
	p.Enabled = c.Parallel.Enabled
	if c.Parallel.NumWorkers > 0 {
		p.NumWorkers = c.Parallel.NumWorkers
	}
	p.MinChunkSize = c.Parallel.MinChunkSize
	return p
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
