// Package config provides the configuration system for Magnetar. A single
// Config structure covers the toolkit's surfaces, organized into logical
// sections:
//   - Log: level, encoding, and output of the structured logger
//   - Image: dimensions, output path, and compression of the image command
//   - Bench: capacity and iteration counts of the bench scenarios
//   - Metrics: prometheus collector registration
//
// Configurations load from YAML files with ${ENV_VAR} substitution:
//
//	cfg := config.Default()
//	if err := config.Load("magnetar.yaml", cfg); err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"runtime"

	"github.com/magnetar-io/magnetar/pkg/errors"
)

// Config is the root configuration for the magnetar CLI and its packages.
type Config struct {
	// Log configures the structured logger
	Log LogConfig `yaml:"log" json:"log"`

	// Image configures the PPM image writer command
	Image ImageConfig `yaml:"image" json:"image"`

	// Bench configures the pool bench scenarios
	Bench BenchConfig `yaml:"bench" json:"bench"`

	// Metrics configures prometheus collection
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level" json:"level"`
	// Encoding selects json or console output
	Encoding string `yaml:"encoding" json:"encoding"`
	// Development enables colored, stacktrace-heavy output
	Development bool `yaml:"development" json:"development"`
	// OutputPaths lists zap output sinks; defaults to stdout
	OutputPaths []string `yaml:"output_paths" json:"output_paths"`
}

// ImageConfig controls the image command.
type ImageConfig struct {
	// Width and Height are the generated image dimensions in pixels
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
	// Output is the file path the image is written to
	Output string `yaml:"output" json:"output"`
	// Compression names the codec wrapped around the PPM stream
	// (none, gzip, snappy, lz4, zstd)
	Compression string `yaml:"compression" json:"compression"`
	// Level names the compression level (fastest, default, better, best)
	Level string `yaml:"level" json:"level"`
}

// BenchConfig controls the bench command.
type BenchConfig struct {
	// Capacity is the slot count of the pools under test
	Capacity int `yaml:"capacity" json:"capacity"`
	// Iterations is the operation count per scenario
	Iterations int `yaml:"iterations" json:"iterations"`
	// Workers bounds scenario parallelism; each worker owns its pool
	Workers int `yaml:"workers" json:"workers"`
}

// MetricsConfig controls prometheus collection.
type MetricsConfig struct {
	// Enabled registers the pool collectors with the default registry
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Namespace prefixes every exported metric name
	Namespace string `yaml:"namespace" json:"namespace"`
}

// Default returns a configuration with sensible defaults for every
// section.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
		},
		Image: ImageConfig{
			Width:       256,
			Height:      256,
			Output:      "image.ppm",
			Compression: "none",
			Level:       "default",
		},
		Bench: BenchConfig{
			Capacity:   4096,
			Iterations: 1_000_000,
			Workers:    runtime.NumCPU(),
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "magnetar",
		},
	}
}

// Validate checks the configuration for values the toolkit cannot run
// with. It returns a structured validation error naming the offending
// field.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrorTypeConfig, "invalid log level").
			WithDetail("level", c.Log.Level)
	}

	switch c.Log.Encoding {
	case "json", "console":
	default:
		return errors.New(errors.ErrorTypeConfig, "invalid log encoding").
			WithDetail("encoding", c.Log.Encoding)
	}

	if c.Image.Width < 1 || c.Image.Height < 1 {
		return errors.New(errors.ErrorTypeConfig, "image dimensions must be positive").
			WithDetail("width", c.Image.Width).
			WithDetail("height", c.Image.Height)
	}
	if c.Image.Output == "" {
		return errors.New(errors.ErrorTypeConfig, "image output path must not be empty")
	}

	if c.Bench.Capacity < 1 {
		return errors.New(errors.ErrorTypeConfig, "bench capacity must be at least 1").
			WithDetail("capacity", c.Bench.Capacity)
	}
	if c.Bench.Iterations < 1 {
		return errors.New(errors.ErrorTypeConfig, "bench iterations must be at least 1").
			WithDetail("iterations", c.Bench.Iterations)
	}
	if c.Bench.Workers < 1 {
		return errors.New(errors.ErrorTypeConfig, "bench workers must be at least 1").
			WithDetail("workers", c.Bench.Workers)
	}

	return nil
}
