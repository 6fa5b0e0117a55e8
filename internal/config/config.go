package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

// Default analysis thresholds. A unit passes a metric iff value <= threshold.
const (
	DefaultCyclomaticThreshold = 10
	DefaultCognitiveThreshold  = 15
	DefaultMaxDepth            = 3
)

// Config holds every tunable for the analysis engine. Values come from
// defaults, then an optional .scry.toml, then CLI flag overrides.
type Config struct {
	Project    Project    `toml:"project"`
	Analysis   Analysis   `toml:"analysis"`
	Thresholds Thresholds `toml:"thresholds"`
}

type Project struct {
	Root    string   `toml:"root"`
	Exclude []string `toml:"exclude"` // doublestar globs, relative to root
}

type Analysis struct {
	Workers     int   `toml:"workers"`       // 0 = NumCPU
	MaxFileSize int64 `toml:"max_file_size"` // bytes; larger files are skipped
}

type Thresholds struct {
	Cyclomatic int `toml:"cyclomatic"`
	Cognitive  int `toml:"cognitive"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Project: Project{
			Root: ".",
		},
		Analysis: Analysis{
			Workers:     runtime.NumCPU(),
			MaxFileSize: 2 * 1024 * 1024,
		},
		Thresholds: Thresholds{
			Cyclomatic: DefaultCyclomaticThreshold,
			Cognitive:  DefaultCognitiveThreshold,
		},
	}
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist. A present-but-invalid file is an error: silently
// ignoring a broken config hides misconfiguration.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that configured values are usable.
func (c *Config) Validate() error {
	if c.Thresholds.Cyclomatic < 1 {
		return fmt.Errorf("thresholds.cyclomatic must be >= 1, got %d", c.Thresholds.Cyclomatic)
	}
	if c.Thresholds.Cognitive < 1 {
		return fmt.Errorf("thresholds.cognitive must be >= 1, got %d", c.Thresholds.Cognitive)
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must be >= 0, got %d", c.Analysis.Workers)
	}
	if c.Analysis.MaxFileSize < 0 {
		return fmt.Errorf("analysis.max_file_size must be >= 0, got %d", c.Analysis.MaxFileSize)
	}
	return nil
}

// WorkerCount resolves the effective parallelism for cache population.
func (c *Config) WorkerCount() int {
	if c.Analysis.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Analysis.Workers
}
