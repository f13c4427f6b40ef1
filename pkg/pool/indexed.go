package pool

// IndexedPool is a Pool variant that tracks the highest active slot index
// and biases slot reuse toward low indexes. Together the two policies keep
// the live set clustered near the front of the slab, so iteration can stop
// at the high-water mark instead of visiting every slot.
//
// Like Pool, an IndexedPool performs no synchronization and must not be
// copied after first use.
type IndexedPool[T any] struct {
	slots    []Slot[T]
	freeHead int32

	highestActive int32
	activeCount   int
	activations   uint64
	deactivations uint64
	exhaustions   uint64
}

// NewIndexed allocates an indexed pool holding exactly capacity values of
// type T. It returns ErrInvalidCapacity when capacity is less than one and
// ErrCapacityTooLarge when it cannot be represented by the pool's 32-bit
// slot links.
func NewIndexed[T any](capacity int) (*IndexedPool[T], error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	p := &IndexedPool[T]{slots: make([]Slot[T], capacity)}
	p.Clear()
	return p, nil
}

// Activate takes the first free slot, marks it active, and returns a
// handle to it, raising the high-water mark when the slot's index exceeds
// it. The second return value is false when every slot is in use.
//
// As with Pool.Activate, the slot's value is not reset on reuse.
func (p *IndexedPool[T]) Activate() (Ref[T], bool) {
	if p.freeHead == noSlot {
		p.exhaustions++
		return Ref[T]{}, false
	}
	i := p.freeHead
	s := &p.slots[i]
	p.freeHead = s.next
	s.active = true
	if i > p.highestActive {
		p.highestActive = i
	}
	p.activeCount++
	p.activations++
	return Ref[T]{Index: int(i), Value: &s.Value}, true
}

// Deactivate returns the slot at index to the free list and reports
// whether a release actually happened. Out-of-range indexes and slots that
// are already inactive are tolerated no-ops returning false.
//
// The freed slot becomes the new free-list head when its index is lower
// than the head's; otherwise it is threaded in immediately after the head.
// The single comparison steers future Activate calls toward low indexes
// without the cost of keeping the list sorted.
//
// When the released slot carried the high-water mark, the mark is
// rescanned downward to the next active slot.
func (p *IndexedPool[T]) Deactivate(index int) bool {
	if index < 0 || index >= len(p.slots) {
		return false
	}
	s := &p.slots[index]
	if !s.active {
		return false
	}
	s.active = false
	i := int32(index)
	if p.freeHead == noSlot || i < p.freeHead {
		s.next = p.freeHead
		p.freeHead = i
	} else {
		head := &p.slots[p.freeHead]
		s.next = head.next
		head.next = i
	}
	p.activeCount--
	p.deactivations++
	if i == p.highestActive {
		p.rescanHighest(index - 1)
	}
	return true
}

// rescanHighest walks downward from the given index to the nearest active
// slot, resetting the mark to zero when none remains.
func (p *IndexedPool[T]) rescanHighest(from int) {
	for i := from; i >= 0; i-- {
		if p.slots[i].active {
			p.highestActive = int32(i)
			return
		}
	}
	p.highestActive = 0
}

// HighestActiveIndex returns the index of the highest active slot. The
// second return value is false when no slot is active, which disambiguates
// an idle pool from one whose only live slot is index 0.
func (p *IndexedPool[T]) HighestActiveIndex() (int, bool) {
	return int(p.highestActive), p.activeCount > 0
}

// At returns the slot at index, or false when index is out of range. The
// slot is reachable regardless of its activation state.
func (p *IndexedPool[T]) At(index int) (*Slot[T], bool) {
	if index < 0 || index >= len(p.slots) {
		return nil, false
	}
	return &p.slots[index], true
}

// Value returns a pointer to the value stored at index, or false when
// index is out of range.
func (p *IndexedPool[T]) Value(index int) (*T, bool) {
	if index < 0 || index >= len(p.slots) {
		return nil, false
	}
	return &p.slots[index].Value, true
}

// Active reports whether the slot at index currently holds a live object.
// Out-of-range indexes report false.
func (p *IndexedPool[T]) Active(index int) bool {
	return index >= 0 && index < len(p.slots) && p.slots[index].active
}

// ActiveCount returns the number of live slots.
func (p *IndexedPool[T]) ActiveCount() int { return p.activeCount }

// Capacity returns the fixed slot count chosen at construction.
func (p *IndexedPool[T]) Capacity() int { return len(p.slots) }

// Clear deactivates every slot, relinks the free list in ascending index
// order, and resets the high-water mark and counters. Stored values are
// left untouched. O(capacity).
func (p *IndexedPool[T]) Clear() {
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
	p.highestActive = 0
	p.activeCount = 0
	p.activations = 0
	p.deactivations = 0
	p.exhaustions = 0
}

// Stats returns a snapshot of the pool's capacity, live-slot count, and
// cumulative operation counters. The high-water mark is available from
// HighestActiveIndex.
func (p *IndexedPool[T]) Stats() Stats {
	return Stats{
		Capacity:      len(p.slots),
		Active:        p.activeCount,
		Activations:   p.activations,
		Deactivations: p.deactivations,
		Exhaustions:   p.exhaustions,
	}
}

// Range calls fn for each active slot in ascending index order, stopping
// early if fn returns false. The scan is bounded by the high-water mark,
// so a mostly idle pool pays for its live prefix rather than its full
// capacity.
func (p *IndexedPool[T]) Range(fn func(index int, value *T) bool) {
	if p.activeCount == 0 {
		return
	}
	top := int(p.highestActive)
	for i := 0; i <= top; i++ {
		if !p.slots[i].active {
			continue
		}
		if !fn(i, &p.slots[i].Value) {
			return
		}
	}
}
