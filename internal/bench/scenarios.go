package bench

import (
	"sync"

	"github.com/magnetar-io/magnetar/pkg/metrics"
	"github.com/magnetar-io/magnetar/pkg/pool"
)

// iterationsPerWorker splits the configured iteration budget evenly,
// giving every worker at least one iteration.
func (r *Runner) iterationsPerWorker() int {
	n := r.cfg.Iterations / r.cfg.Workers
	if n < 1 {
		n = 1
	}
	return n
}

// workerResult carries one worker's contribution back to the scenario.
type workerResult struct {
	ops   uint64
	stats pool.Stats

	// pool is the worker's pool, idle once the worker returns. Worker 0's
	// is kept for metric registration.
	pool metrics.StatsSource

	highWater      int
	highWaterValid bool
}

// runWorkers starts one goroutine per configured worker, each owning its
// own pool so the pools' single-owner contract holds, and sums their
// results. Worker 0's pool is retained in lastPool for the collector.
func (r *Runner) runWorkers(work func(worker int) (workerResult, error)) (Report, error) {
	results := make([]workerResult, r.cfg.Workers)
	errs := make([]error, r.cfg.Workers)

	var wg sync.WaitGroup
	for w := 0; w < r.cfg.Workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			results[w], errs[w] = work(w)
		}(w)
	}
	wg.Wait()

	var report Report
	for w, res := range results {
		if errs[w] != nil {
			return Report{}, errs[w]
		}
		report.Operations += res.ops
		report.Activations += res.stats.Activations
		report.Deactivations += res.stats.Deactivations
		report.Exhaustions += res.stats.Exhaustions
		if w == 0 {
			r.lastPool = res.pool
			report.HighWater = res.highWater
			report.HighWaterValid = res.highWaterValid
		}
	}
	return report, nil
}

// steadyChurn holds the pool at half occupancy and swaps one slot per
// iteration: the hot path of a frame loop that retires and spawns a
// handful of entities per tick.
func (r *Runner) steadyChurn() (Report, error) {
	iterations := r.iterationsPerWorker()

	return r.runWorkers(func(int) (workerResult, error) {
		p, err := pool.New[particle](r.cfg.Capacity)
		if err != nil {
			return workerResult{}, err
		}

		live := make([]int, 0, r.cfg.Capacity)
		for len(live) < r.cfg.Capacity/2 {
			ref, ok := p.Activate()
			if !ok {
				break
			}
			live = append(live, ref.Index)
		}

		var ops uint64
		oldest := 0
		for i := 0; i < iterations; i++ {
			if len(live) > 0 {
				p.Deactivate(live[oldest%len(live)])
				ops++
			}
			if ref, ok := p.Activate(); ok {
				if len(live) > 0 {
					live[oldest%len(live)] = ref.Index
				} else {
					live = append(live, ref.Index)
				}
				ref.Value.Life = 1
				ops++
			}
			oldest++
		}

		return workerResult{ops: ops, stats: p.Stats(), pool: p}, nil
	})
}

// burstExhaustion fills the pool completely, keeps attempting past
// capacity, then drains it, exercising the exhaustion path and full
// free-list rebuilds.
func (r *Runner) burstExhaustion() (Report, error) {
	iterations := r.iterationsPerWorker()

	return r.runWorkers(func(int) (workerResult, error) {
		p, err := pool.New[particle](r.cfg.Capacity)
		if err != nil {
			return workerResult{}, err
		}

		// One burst is a fill, a bounded overflow, and a drain.
		burstOps := 2*r.cfg.Capacity + 8
		bursts := iterations / burstOps
		if bursts < 1 {
			bursts = 1
		}

		var ops uint64
		for b := 0; b < bursts; b++ {
			for {
				if _, ok := p.Activate(); !ok {
					break
				}
				ops++
			}
			for i := 0; i < 8; i++ {
				p.Activate() // counted by the pool as exhaustions
				ops++
			}
			for i := 0; i < p.Capacity(); i++ {
				if p.Deactivate(i) {
					ops++
				}
			}
		}

		return workerResult{ops: ops, stats: p.Stats(), pool: p}, nil
	})
}

// indexedSweep drives an IndexedPool through the pattern its high-water
// tracking exists for: a live prefix that grows and shrinks at the top,
// iterated with Range each round.
func (r *Runner) indexedSweep() (Report, error) {
	iterations := r.iterationsPerWorker()

	return r.runWorkers(func(int) (workerResult, error) {
		p, err := pool.NewIndexed[particle](r.cfg.Capacity)
		if err != nil {
			return workerResult{}, err
		}

		prefix := r.cfg.Capacity / 2
		if prefix < 1 {
			prefix = 1
		}
		for i := 0; i < prefix; i++ {
			p.Activate()
		}

		var ops uint64
		for i := 0; i < iterations; i++ {
			// Releasing the high-water slot forces the downward rescan.
			if top, ok := p.HighestActiveIndex(); ok {
				p.Deactivate(top)
				ops++
			}
			if ref, ok := p.Activate(); ok {
				ref.Value.Life = 1
				ops++
			}

			if i%64 == 0 {
				p.Range(func(_ int, v *particle) bool {
					v.Life -= 0.01
					return true
				})
				ops++
			}
		}

		hw, valid := p.HighestActiveIndex()
		return workerResult{
			ops:            ops,
			stats:          p.Stats(),
			pool:           p,
			highWater:      hw,
			highWaterValid: valid,
		}, nil
	})
}
