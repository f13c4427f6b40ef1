// Package pool provides fixed-capacity object pools for real-time code
// paths that cannot afford allocation, garbage collection, or pointer
// invalidation once running.
//
// Unlike sync.Pool, which is a GC-assisted cache of interchangeable
// scratch objects, these pools own a slab of N values allocated once at
// construction. Slots are checked out with Activate and returned with
// Deactivate; both are O(1) operations on an intrusive, index-linked free
// list and never touch the heap. A slot's value lives at a fixed address
// for the pool's entire lifetime, so pointers obtained from Activate stay
// valid until the pool itself is released.
//
// Two variants are provided:
//
//   - Pool[T]: the basic slab pool with LIFO slot reuse.
//   - IndexedPool[T]: additionally tracks the highest active slot index
//     and prefers low indexes on reuse, keeping the live set clustered
//     near the front of the slab. Iteration over active slots then stops
//     at the high-water mark instead of scanning the full capacity, which
//     suits entity tables and render lists that sweep the live set every
//     tick.
//
// Pools perform no synchronization: each pool belongs to a single
// goroutine or an externally serialized caller. Deactivation does not
// clear the slot's value, and Activate hands back whatever state the
// previous occupant left behind; callers reset reused values as needed.
//
// Example:
//
//	bullets, err := pool.NewIndexed[Bullet](512)
//	if err != nil {
//	    return err
//	}
//
//	ref, ok := bullets.Activate()
//	if !ok {
//	    return nil // all 512 slots in flight, drop the shot
//	}
//	ref.Value.Reset(x, y, vx, vy)
//
//	// ... later, when the bullet expires:
//	bullets.Deactivate(ref.Index)
package pool
