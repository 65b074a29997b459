package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds the world and engine configuration.
type Config struct {
	Seed        int64 `yaml:"seed"`
	Workers     int   `yaml:"workers"`
	QueueSize   int   `yaml:"queue_size"`
	LoadRadius  int   `yaml:"load_radius"`  // in chunks
	EvictRadius int   `yaml:"evict_radius"` // in chunks, 0 = twice the load radius

	Noise          string  `yaml:"noise"` // "simplex" or "value"
	NoiseFrequency float64 `yaml:"noise_frequency"`
	HeightScale    float64 `yaml:"height_scale"`
	BaseHeight     float64 `yaml:"base_height"`

	GreedyMeshing bool   `yaml:"greedy_meshing"`
	AutoMesh      bool   `yaml:"auto_mesh"`
	LogLevel      string `yaml:"log_level"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Seed:           1,
		Workers:        max(runtime.NumCPU(), 1),
		QueueSize:      4096,
		LoadRadius:     4,
		Noise:          "simplex",
		NoiseFrequency: 0.1,
		HeightScale:    20,
		BaseHeight:     16,
		AutoMesh:       true,
		LogLevel:       "info",
	}
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, c.Workers)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalid, c.QueueSize)
	case c.LoadRadius < 0:
		return fmt.Errorf("%w: load_radius must not be negative, got %d", ErrInvalid, c.LoadRadius)
	case c.EvictRadius < 0:
		return fmt.Errorf("%w: evict_radius must not be negative, got %d", ErrInvalid, c.EvictRadius)
	case c.NoiseFrequency <= 0:
		return fmt.Errorf("%w: noise_frequency must be positive, got %g", ErrInvalid, c.NoiseFrequency)
	}
	switch c.Noise {
	case "simplex", "value":
	default:
		return fmt.Errorf("%w: unknown noise %q", ErrInvalid, c.Noise)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}
