package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/magnetar-io/magnetar/internal/bench"
	"github.com/magnetar-io/magnetar/pkg/compression"
	"github.com/magnetar-io/magnetar/pkg/config"
	"github.com/magnetar-io/magnetar/pkg/json"
	"github.com/magnetar-io/magnetar/pkg/logger"
	"github.com/magnetar-io/magnetar/pkg/ppm"
	"github.com/magnetar-io/magnetar/pkg/stopwatch"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg := config.Default()
	var configFile string
	var logLevel string

	root := &cobra.Command{
		Use:   "magnetar",
		Short: "Magnetar - allocation-free primitives for real-time programs",
		Long: `Magnetar is a toolkit of allocation-free primitives for real-time Go
programs: fixed-capacity object pools, a monotonic stopwatch, and a PPM
image writer with optional compression.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				if err := config.Load(configFile, cfg); err != nil {
					return err
				}
			}
			// Flags set explicitly on the command line win over the file.
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return logger.Init(logger.Config{
				Level:       cfg.Log.Level,
				Development: cfg.Log.Development,
				Encoding:    cfg.Log.Encoding,
				OutputPaths: cfg.Log.OutputPaths,
			})
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", cfg.Log.Level, "Log level (debug, info, warn, error)")

	root.AddCommand(versionCmd())
	root.AddCommand(imageCmd(cfg))
	root.AddCommand(benchCmd(cfg))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Magnetar v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func imageCmd(cfg *config.Config) *cobra.Command {
	flags := config.Default().Image

	cmd := &cobra.Command{
		Use:   "image",
		Short: "Generate the gradient test image as a PPM file",
		Long: `Generate the gradient test pattern and write it in the plain P3 PPM
format, optionally wrapping the output stream in a compression codec.

Example:
  magnetar image --width 512 --height 512 --output gradient.ppm.zst --compression zstd`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("width") {
				cfg.Image.Width = flags.Width
			}
			if cmd.Flags().Changed("height") {
				cfg.Image.Height = flags.Height
			}
			if cmd.Flags().Changed("output") {
				cfg.Image.Output = flags.Output
			}
			if cmd.Flags().Changed("compression") {
				cfg.Image.Compression = flags.Compression
			}
			if cmd.Flags().Changed("level") {
				cfg.Image.Level = flags.Level
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runImage(cfg)
		},
	}

	cmd.Flags().IntVar(&flags.Width, "width", flags.Width, "Image width in pixels")
	cmd.Flags().IntVar(&flags.Height, "height", flags.Height, "Image height in pixels")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", flags.Output, "Output file path")
	cmd.Flags().StringVar(&flags.Compression, "compression", flags.Compression, "Compression algorithm (none, gzip, snappy, lz4, zstd)")
	cmd.Flags().StringVar(&flags.Level, "level", flags.Level, "Compression level (fastest, default, better, best)")

	return cmd
}

func runImage(cfg *config.Config) error {
	algorithm, err := compression.ParseAlgorithm(cfg.Image.Compression)
	if err != nil {
		return err
	}
	level, err := compression.ParseLevel(cfg.Image.Level)
	if err != nil {
		return err
	}

	log := logger.With(
		zap.String("component", "magnetar-cli"),
		zap.String("command", "image"),
	)
	log.Info("generating image",
		zap.Int("width", cfg.Image.Width),
		zap.Int("height", cfg.Image.Height),
		zap.String("output", cfg.Image.Output),
		zap.String("compression", string(algorithm)))

	img, err := ppm.NewImage(cfg.Image.Width, cfg.Image.Height)
	if err != nil {
		return err
	}
	ppm.Gradient(img)

	sw := stopwatch.NewStarted()
	err = ppm.WriteFile(cfg.Image.Output, img, ppm.Options{
		Compression: &compression.Config{Algorithm: algorithm, Level: level},
		Progress: func(percent int) {
			if percent%10 == 0 {
				log.Debug("writing image", zap.Int("percent", percent))
			}
		},
	})
	if err != nil {
		return err
	}

	log.Info("image written",
		zap.String("output", cfg.Image.Output),
		zap.Duration("elapsed", sw.Elapsed()))
	return nil
}

func benchCmd(cfg *config.Config) *cobra.Command {
	flags := config.Default().Bench
	var jsonOutput string
	var cpuProfile string

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the pool bench scenarios",
		Long: `Run the pool exercise scenarios (steady churn, burst exhaustion,
indexed sweep) and report their timings, pool counters, and resource
usage.

Example:
  magnetar bench --capacity 8192 --iterations 5000000 --json report.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("capacity") {
				cfg.Bench.Capacity = flags.Capacity
			}
			if cmd.Flags().Changed("iterations") {
				cfg.Bench.Iterations = flags.Iterations
			}
			if cmd.Flags().Changed("workers") {
				cfg.Bench.Workers = flags.Workers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runBench(cmd.Context(), cfg, jsonOutput, cpuProfile)
		},
	}

	cmd.Flags().IntVar(&flags.Capacity, "capacity", flags.Capacity, "Slot count of the pools under test")
	cmd.Flags().IntVar(&flags.Iterations, "iterations", flags.Iterations, "Operation count per scenario")
	cmd.Flags().IntVar(&flags.Workers, "workers", flags.Workers, "Concurrent workers, each owning its own pool")
	cmd.Flags().StringVar(&jsonOutput, "json", "", "Write the scenario reports as JSON to this path ('-' for stdout)")
	cmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "Write a CPU profile to this path")

	return cmd
}

func runBench(ctx context.Context, cfg *config.Config, jsonOutput, cpuProfile string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log := logger.With(
		zap.String("component", "magnetar-cli"),
		zap.String("command", "bench"),
	)

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return fmt.Errorf("failed to create cpu profile %s: %w", cpuProfile, err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("failed to start cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	runner := bench.NewRunner(cfg.Bench, log)
	if cfg.Metrics.Enabled {
		runner.AttachRegistry(prometheus.DefaultRegisterer)
	}

	log.Info("running bench scenarios",
		zap.Int("capacity", cfg.Bench.Capacity),
		zap.Int("iterations", cfg.Bench.Iterations),
		zap.Int("workers", cfg.Bench.Workers))

	reports, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	for _, r := range reports {
		log.Info("scenario result",
			zap.String("scenario", r.Scenario),
			zap.Uint64("operations", r.Operations),
			zap.Duration("duration", r.Duration),
			zap.Float64("ops_per_second", r.OpsPerSecond))
	}

	if jsonOutput != "" {
		out := os.Stdout
		if jsonOutput != "-" {
			f, err := os.Create(jsonOutput)
			if err != nil {
				return fmt.Errorf("failed to create report file %s: %w", jsonOutput, err)
			}
			defer f.Close()
			out = f
		}
		if err := json.MarshalToWriter(out, reports); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	}

	_ = logger.Sync() // stdout sync is not supported everywhere
	return nil
}
