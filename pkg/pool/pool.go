package pool

import (
	"errors"
	"math"
)

// noSlot terminates the intrusive free list.
const noSlot int32 = -1

// Construction errors returned by New and NewIndexed.
var (
	// ErrInvalidCapacity reports a requested capacity below one slot.
	ErrInvalidCapacity = errors.New("pool: capacity must be at least 1")

	// ErrCapacityTooLarge reports a capacity that cannot be addressed by
	// the pool's 32-bit slot links.
	ErrCapacityTooLarge = errors.New("pool: capacity exceeds 2147483647 slots")
)

func checkCapacity(capacity int) error {
	if capacity < 1 {
		return ErrInvalidCapacity
	}
	if capacity > math.MaxInt32 {
		return ErrCapacityTooLarge
	}
	return nil
}

// Slot is a single cell of a pool's backing slab. The stored Value is
// allocated once at construction and persists across activation cycles;
// deactivating a slot does not reset it.
type Slot[T any] struct {
	// Value is the pooled payload. On reuse it retains whatever state the
	// previous occupant left behind.
	Value T

	next   int32 // following free slot; meaningful only while inactive
	active bool
}

// Active reports whether the slot currently holds a live object.
func (s *Slot[T]) Active() bool { return s.active }

// Ref is the handle returned by Activate. Index addresses the slot in
// Deactivate and the query methods; Value points directly into the slab
// and remains valid until the pool itself is released.
type Ref[T any] struct {
	Index int
	Value *T
}

// Stats is a point-in-time snapshot of a pool's usage counters. The
// cumulative counters reset on Clear.
type Stats struct {
	Capacity      int    `json:"capacity"`
	Active        int    `json:"active"`
	Activations   uint64 `json:"activations"`
	Deactivations uint64 `json:"deactivations"`
	Exhaustions   uint64 `json:"exhaustions"`
}

// Pool is a fixed-capacity object pool backed by a single contiguous slab.
// All storage is allocated up front; Activate and Deactivate move slots
// between the active set and an intrusive free list in O(1) without
// touching the allocator. The slab is never grown, shrunk, or relocated.
//
// A Pool performs no synchronization and is intended for a single
// goroutine or externally serialized callers. It must not be copied after
// first use.
type Pool[T any] struct {
	slots    []Slot[T]
	freeHead int32

	activeCount   int
	activations   uint64
	deactivations uint64
	exhaustions   uint64
}

// New allocates a pool holding exactly capacity values of type T. Every
// value is zero-initialized once and reused in place thereafter.
//
// New returns ErrInvalidCapacity when capacity is less than one and
// ErrCapacityTooLarge when it cannot be represented by the pool's 32-bit
// slot links.
func New[T any](capacity int) (*Pool[T], error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	p := &Pool[T]{slots: make([]Slot[T], capacity)}
	p.Clear()
	return p, nil
}

// Activate takes the first free slot, marks it active, and returns a
// handle to it. The second return value is false when every slot is in
// use.
//
// The slot's value is not reset: it retains the state left by its
// previous occupant, and preparing it for reuse is the caller's job.
func (p *Pool[T]) Activate() (Ref[T], bool) {
	if p.freeHead == noSlot {
		p.exhaustions++
		return Ref[T]{}, false
	}
	i := p.freeHead
	s := &p.slots[i]
	p.freeHead = s.next
	s.active = true
	p.activeCount++
	p.activations++
	return Ref[T]{Index: int(i), Value: &s.Value}, true
}

// Deactivate returns the slot at index to the free list and reports
// whether a release actually happened. Out-of-range indexes and slots
// that are already inactive are tolerated no-ops returning false, so a
// double release can never corrupt the free list.
func (p *Pool[T]) Deactivate(index int) bool {
	if index < 0 || index >= len(p.slots) {
		return false
	}
	s := &p.slots[index]
	if !s.active {
		return false
	}
	s.active = false
	s.next = p.freeHead
	p.freeHead = int32(index)
	p.activeCount--
	p.deactivations++
	return true
}

// At returns the slot at index, or false when index is out of range. The
// slot is reachable regardless of its activation state; use Slot.Active
// to distinguish live objects from free ones.
func (p *Pool[T]) At(index int) (*Slot[T], bool) {
	if index < 0 || index >= len(p.slots) {
		return nil, false
	}
	return &p.slots[index], true
}

// Value returns a pointer to the value stored at index, or false when
// index is out of range. Like At, it does not require the slot to be
// active.
func (p *Pool[T]) Value(index int) (*T, bool) {
	if index < 0 || index >= len(p.slots) {
		return nil, false
	}
	return &p.slots[index].Value, true
}

// Active reports whether the slot at index currently holds a live object.
// Out-of-range indexes report false.
func (p *Pool[T]) Active(index int) bool {
	return index >= 0 && index < len(p.slots) && p.slots[index].active
}

// ActiveCount returns the number of live slots.
func (p *Pool[T]) ActiveCount() int { return p.activeCount }

// Capacity returns the fixed slot count chosen at construction.
func (p *Pool[T]) Capacity() int { return len(p.slots) }

// Clear deactivates every slot and relinks the free list in ascending
// index order, so a fresh sequence of Activate calls yields indexes
// 0, 1, 2, ... again. Stored values are left untouched. Aside from those
// values, the pool is back in its as-constructed state, counters
// included. O(capacity).
func (p *Pool[T]) Clear() {
	last := len(p.slots) - 1
	for i := range p.slots {
		p.slots[i].active = false
		if i == last {
			p.slots[i].next = noSlot
		} else {
			p.slots[i].next = int32(i + 1)
		}
	}
	p.freeHead = 0
	p.activeCount = 0
	p.activations = 0
	p.deactivations = 0
	p.exhaustions = 0
}

// Stats returns a snapshot of the pool's capacity, live-slot count, and
// cumulative operation counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Capacity:      len(p.slots),
		Active:        p.activeCount,
		Activations:   p.activations,
		Deactivations: p.deactivations,
		Exhaustions:   p.exhaustions,
	}
}

// Range calls fn for each active slot in ascending index order, stopping
// early if fn returns false.
func (p *Pool[T]) Range(fn func(index int, value *T) bool) {
	for i := range p.slots {
		if !p.slots[i].active {
			continue
		}
		if !fn(i, &p.slots[i].Value) {
			return
		}
	}
}
