// Package bench exercises the object pools under repeatable workloads and
// produces timed, resource-monitored reports for the bench command.
package bench

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/magnetar-io/magnetar/pkg/config"
	"github.com/magnetar-io/magnetar/pkg/metrics"
	"github.com/magnetar-io/magnetar/pkg/performance"
	"github.com/magnetar-io/magnetar/pkg/stopwatch"
)

// particle is the payload the scenarios allocate. Its shape mirrors the
// per-frame entity data fixed-capacity pools exist to serve.
type particle struct {
	X, Y   float64
	VX, VY float64
	Life   float64
}

// Report is the outcome of one scenario run.
type Report struct {
	Scenario     string        `json:"scenario"`
	Capacity     int           `json:"capacity"`
	Workers      int           `json:"workers"`
	Operations   uint64        `json:"operations"`
	Duration     time.Duration `json:"duration_ns"`
	OpsPerSecond float64       `json:"ops_per_second"`

	// Pool counters summed across all workers' pools
	Activations   uint64 `json:"activations"`
	Deactivations uint64 `json:"deactivations"`
	Exhaustions   uint64 `json:"exhaustions"`

	// HighWater is the final high-water index of worker 0's pool.
	// Meaningful only for the indexed scenario, where HighWaterValid
	// reports whether any slot remained active.
	HighWater      int  `json:"high_water,omitempty"`
	HighWaterValid bool `json:"high_water_valid,omitempty"`

	Resources performance.Snapshot `json:"resources"`
}

// Runner executes the pool scenarios described by a BenchConfig.
type Runner struct {
	cfg      config.BenchConfig
	monitor  *performance.ResourceMonitor
	log      *zap.Logger
	registry prometheus.Registerer

	// lastPool is worker 0's pool from the most recent scenario, idle by
	// the time Run reads it.
	lastPool metrics.StatsSource
}

// NewRunner creates a runner. The logger may be nil, in which case
// scenario completions are not logged.
func NewRunner(cfg config.BenchConfig, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		cfg:     cfg,
		monitor: performance.NewResourceMonitor(),
		log:     log,
	}
}

// AttachRegistry registers a PoolCollector for each scenario's final pool
// state with reg as the scenarios complete. The collectors observe idle
// pools, so later scrapes are safe.
func (r *Runner) AttachRegistry(reg prometheus.Registerer) {
	r.registry = reg
}

// scenario is one named workload. run returns the operation count and the
// summed pool counters.
type scenario struct {
	name string
	run  func(r *Runner) (Report, error)
}

var scenarios = []scenario{
	{name: "steady_churn", run: (*Runner).steadyChurn},
	{name: "burst_exhaustion", run: (*Runner).burstExhaustion},
	{name: "indexed_sweep", run: (*Runner).indexedSweep},
}

// Run executes every scenario in order and returns their reports. The
// context is consulted between scenarios; a single scenario is a bounded
// synchronous computation and is never interrupted mid-run.
func (r *Runner) Run(ctx context.Context) ([]Report, error) {
	reports := make([]Report, 0, len(scenarios))

	for _, s := range scenarios {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		sw := stopwatch.NewStarted()
		report, err := s.run(r)
		if err != nil {
			return reports, err
		}
		report.Scenario = s.name
		report.Capacity = r.cfg.Capacity
		report.Workers = r.cfg.Workers
		report.Duration = sw.Elapsed()
		if secs := report.Duration.Seconds(); secs > 0 {
			report.OpsPerSecond = float64(report.Operations) / secs
		}
		report.Resources = r.monitor.Snapshot()

		metrics.ScenarioDuration.WithLabelValues(s.name).Observe(report.Duration.Seconds())
		metrics.ScenarioThroughput.WithLabelValues(s.name).Set(report.OpsPerSecond)

		if r.registry != nil && r.lastPool != nil {
			if err := r.registry.Register(metrics.NewPoolCollector(s.name, r.lastPool)); err != nil {
				r.log.Warn("pool collector registration failed",
					zap.String("scenario", s.name), zap.Error(err))
			}
		}

		r.log.Info("scenario complete",
			zap.String("scenario", s.name),
			zap.Uint64("operations", report.Operations),
			zap.Duration("duration", report.Duration),
			zap.Float64("ops_per_second", report.OpsPerSecond),
			zap.Uint64("exhaustions", report.Exhaustions))

		reports = append(reports, report)
	}

	return reports, nil
}
