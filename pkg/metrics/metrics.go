// Package metrics exposes Magnetar pool statistics and bench results as
// Prometheus metrics.
//
// # Overview
//
// The metrics package provides:
//   - PoolCollector, a prometheus.Collector that reads any pool's Stats()
//     snapshot on scrape
//   - Pre-registered histograms and gauges for bench scenario results
//
// # Basic Usage
//
//	p, _ := pool.NewIndexed[particle](4096)
//	collector := metrics.NewPoolCollector("particles", p)
//	prometheus.MustRegister(collector)
//
//	// After a bench scenario completes:
//	metrics.ScenarioDuration.WithLabelValues("steady_churn").Observe(elapsed.Seconds())
//	metrics.ScenarioThroughput.WithLabelValues("steady_churn").Set(opsPerSec)
//
// # Scrape Discipline
//
// Pools perform no internal synchronization, so a PoolCollector must not
// be scraped while another goroutine operates on the pool. The bench
// command gathers metrics between scenario runs, never during them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magnetar-io/magnetar/pkg/pool"
)

// StatsSource is the part of a pool the collector reads. Both pool.Pool
// and pool.IndexedPool satisfy it.
type StatsSource interface {
	Stats() pool.Stats
}

// HighWaterSource is the optional indexed-pool surface. When the observed
// pool provides it, the collector also exports the high-water index.
type HighWaterSource interface {
	HighestActiveIndex() (int, bool)
}

// PoolCollector exports one pool's statistics as const metrics, reading a
// fresh Stats snapshot on every scrape.
type PoolCollector struct {
	source StatsSource

	capacity      *prometheus.Desc
	active        *prometheus.Desc
	activations   *prometheus.Desc
	deactivations *prometheus.Desc
	exhaustions   *prometheus.Desc
	highWater     *prometheus.Desc
}

// NewPoolCollector creates a collector for the given pool. The name
// parameter labels every exported metric, so several pools can share one
// registry.
func NewPoolCollector(name string, source StatsSource) *PoolCollector {
	labels := prometheus.Labels{"pool": name}
	return &PoolCollector{
		source: source,
		capacity: prometheus.NewDesc(
			"magnetar_pool_capacity_slots",
			"Fixed slot count chosen at pool construction",
			nil, labels,
		),
		active: prometheus.NewDesc(
			"magnetar_pool_active_slots",
			"Number of currently active slots",
			nil, labels,
		),
		activations: prometheus.NewDesc(
			"magnetar_pool_activations_total",
			"Cumulative successful activations since the last Clear",
			nil, labels,
		),
		deactivations: prometheus.NewDesc(
			"magnetar_pool_deactivations_total",
			"Cumulative successful deactivations since the last Clear",
			nil, labels,
		),
		exhaustions: prometheus.NewDesc(
			"magnetar_pool_exhaustions_total",
			"Cumulative activation attempts that found the pool full",
			nil, labels,
		),
		highWater: prometheus.NewDesc(
			"magnetar_pool_high_water_index",
			"Highest active slot index; -1 when no slot is active",
			nil, labels,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.active
	ch <- c.activations
	ch <- c.deactivations
	ch <- c.exhaustions
	if _, ok := c.source.(HighWaterSource); ok {
		ch <- c.highWater
	}
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.source.Stats()

	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(stats.Capacity))
	ch <- prometheus.MustNewConstMetric(c.active, prometheus.GaugeValue, float64(stats.Active))
	ch <- prometheus.MustNewConstMetric(c.activations, prometheus.CounterValue, float64(stats.Activations))
	ch <- prometheus.MustNewConstMetric(c.deactivations, prometheus.CounterValue, float64(stats.Deactivations))
	ch <- prometheus.MustNewConstMetric(c.exhaustions, prometheus.CounterValue, float64(stats.Exhaustions))

	if hw, ok := c.source.(HighWaterSource); ok {
		index, any := hw.HighestActiveIndex()
		value := float64(index)
		if !any {
			value = -1
		}
		ch <- prometheus.MustNewConstMetric(c.highWater, prometheus.GaugeValue, value)
	}
}

var (
	// ScenarioDuration tracks the wall-clock duration of bench scenario
	// runs in seconds.
	// Labels: scenario (steady_churn/burst_exhaustion/indexed_sweep)
	ScenarioDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "magnetar_bench_scenario_duration_seconds",
			Help: "Wall-clock duration of bench scenario runs",
			Buckets: []float64{
				0.001, // 1ms - tiny capacities
				0.01,  // 10ms
				0.1,   // 100ms
				0.5,   // 500ms
				1,     // 1s - default iteration counts
				5,     // 5s
				30,    // 30s - large sweeps
			},
		},
		[]string{"scenario"},
	)

	// ScenarioThroughput tracks pool operations per second achieved by
	// the most recent run of each scenario.
	ScenarioThroughput = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "magnetar_bench_scenario_ops_per_second",
			Help: "Pool operations per second in the most recent scenario run",
		},
		[]string{"scenario"},
	)
)
