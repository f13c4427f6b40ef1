// Package magnetar provides allocation-free primitives for real-time Go
// programs: fixed-capacity object pools, a monotonic stopwatch, an RGBA
// color value type, and a PPM image writer.
//
// # Architecture
//
// The toolkit is organized around a small set of principles:
//
// 1. Allocate Once: the pools in pkg/pool own a slab of values allocated
// at construction and recycle slots in O(1) without touching the heap;
// pkg/strings and pkg/json recycle builders and codecs the same way.
//
// 2. Single Owner: hot-path types carry no locks. Each pool, stopwatch,
// and builder belongs to one goroutine; callers that share them serialize
// access themselves.
//
// 3. Checked Boundaries: constructors reject configurations whose first
// use would be undefined (zero-capacity pools, empty images), and index
// accessors are bounds-checked with comma-ok results rather than panics.
//
// # Packages
//
//   - pkg/pool: fixed-capacity slab pools, basic and index-tracking
//   - pkg/stopwatch: monotonic stopwatch with pause and resume
//   - pkg/color: RGBA color values with 8-bit conversion
//   - pkg/ppm: plain P3 PPM encoding and file writing
//   - pkg/compression: gzip, zstd, lz4, and snappy behind one interface
//   - pkg/logger, pkg/errors, pkg/config: the supporting stack
//   - pkg/metrics, pkg/performance: prometheus collectors and resource
//     monitoring for the bench command
//
// # Quick Start
//
// Pool a particle system's storage:
//
//	particles, err := pool.NewIndexed[Particle](4096)
//	if err != nil {
//	    return err
//	}
//	ref, ok := particles.Activate()
//	if ok {
//	    ref.Value.Spawn(x, y)
//	}
//	particles.Range(func(i int, p *Particle) bool {
//	    p.Tick(dt)
//	    return true
//	})
//	particles.Deactivate(ref.Index)
//
// The magnetar CLI under cmd/magnetar exposes the image writer and the
// pool bench scenarios.
package magnetar
