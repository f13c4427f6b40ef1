package pool

import (
	"errors"
	"math/rand"
	"testing"
)

type particle struct {
	x, y float64
	ttl  int
}

// freeList walks the intrusive free list and returns the slot indexes in
// traversal order, failing the test on a cycle or an overlong list.
func freeList[T any](t *testing.T, slots []Slot[T], head int32) []int {
	t.Helper()
	var order []int
	seen := make(map[int32]bool, len(slots))
	for i := head; i != noSlot; i = slots[i].next {
		if seen[i] {
			t.Fatalf("free list cycles at slot %d after %v", i, order)
		}
		seen[i] = true
		order = append(order, int(i))
		if len(order) > len(slots) {
			t.Fatalf("free list longer than capacity: %v", order)
		}
	}
	return order
}

func TestNewRejectsInvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -100} {
		if _, err := New[particle](capacity); !errors.Is(err, ErrInvalidCapacity) {
			t.Errorf("New(%d) error = %v, want ErrInvalidCapacity", capacity, err)
		}
	}
	if _, err := New[particle](1); err != nil {
		t.Fatalf("New(1) error = %v", err)
	}
}

func TestActivateYieldsAscendingIndexesThenFails(t *testing.T) {
	p, err := New[particle](3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for want := 0; want < 3; want++ {
		ref, ok := p.Activate()
		if !ok {
			t.Fatalf("Activate %d failed with %d slots free", want, 3-want)
		}
		if ref.Index != want {
			t.Fatalf("Activate returned index %d, want %d", ref.Index, want)
		}
		if ref.Value == nil {
			t.Fatalf("Activate returned nil value pointer for slot %d", ref.Index)
		}
	}

	if _, ok := p.Activate(); ok {
		t.Fatal("Activate succeeded on a full pool")
	}
	if got := p.Stats().Exhaustions; got != 1 {
		t.Fatalf("Exhaustions = %d, want 1", got)
	}

	if !p.Deactivate(1) {
		t.Fatal("Deactivate(1) reported no release")
	}
	ref, ok := p.Activate()
	if !ok {
		t.Fatal("Activate failed after a release")
	}
	if ref.Index != 1 {
		t.Fatalf("Activate reused index %d, want 1", ref.Index)
	}
}

func TestExhaustionAtCapacity(t *testing.T) {
	const capacity = 16
	p, err := New[int](capacity)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < capacity; i++ {
		if _, ok := p.Activate(); !ok {
			t.Fatalf("Activate %d failed before capacity", i)
		}
	}
	if _, ok := p.Activate(); ok {
		t.Fatalf("Activate %d succeeded past capacity", capacity)
	}
	if got := p.ActiveCount(); got != capacity {
		t.Fatalf("ActiveCount = %d, want %d", got, capacity)
	}
}

func TestDeactivateGuards(t *testing.T) {
	p, err := New[particle](4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ref, _ := p.Activate()

	t.Run("out of range", func(t *testing.T) {
		if p.Deactivate(-1) {
			t.Error("Deactivate(-1) reported a release")
		}
		if p.Deactivate(4) {
			t.Error("Deactivate(capacity) reported a release")
		}
	})

	t.Run("inactive slot", func(t *testing.T) {
		if p.Deactivate(2) {
			t.Error("Deactivate of a never-activated slot reported a release")
		}
	})

	t.Run("double release", func(t *testing.T) {
		if !p.Deactivate(ref.Index) {
			t.Fatal("first Deactivate reported no release")
		}
		if p.Deactivate(ref.Index) {
			t.Error("second Deactivate reported a release")
		}
		if got := p.ActiveCount(); got != 0 {
			t.Fatalf("ActiveCount = %d after double release, want 0", got)
		}
		free := freeList(t, p.slots, p.freeHead)
		if len(free) != p.Capacity() {
			t.Fatalf("free list holds %d slots after double release, want %d", len(free), p.Capacity())
		}
	})
}

func TestValuePersistsAcrossReuse(t *testing.T) {
	p, err := New[particle](2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ref, _ := p.Activate()
	ref.Value.x, ref.Value.ttl = 42.5, 7

	p.Deactivate(ref.Index)
	again, _ := p.Activate()
	if again.Index != ref.Index {
		t.Fatalf("reuse picked index %d, want %d", again.Index, ref.Index)
	}
	if again.Value.x != 42.5 || again.Value.ttl != 7 {
		t.Fatalf("reused value = %+v, want prior state preserved", *again.Value)
	}
}

func TestPointerStability(t *testing.T) {
	const capacity = 8
	p, err := New[particle](capacity)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ptrs := make([]*particle, capacity)
	for i := 0; i < capacity; i++ {
		ref, _ := p.Activate()
		ptrs[ref.Index] = ref.Value
	}

	rng := rand.New(rand.NewSource(1))
	for n := 0; n < 1000; n++ {
		i := rng.Intn(capacity)
		if p.Active(i) {
			p.Deactivate(i)
		} else {
			p.Activate()
		}
	}

	for i := 0; i < capacity; i++ {
		v, ok := p.Value(i)
		if !ok {
			t.Fatalf("Value(%d) out of range", i)
		}
		if v != ptrs[i] {
			t.Fatalf("slot %d moved: %p != %p", i, v, ptrs[i])
		}
	}
}

func TestFreeListMatchesInactiveSet(t *testing.T) {
	const capacity = 32
	p, err := New[int](capacity)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rng := rand.New(rand.NewSource(2))
	for n := 0; n < 5000; n++ {
		if rng.Intn(2) == 0 {
			p.Activate()
		} else {
			p.Deactivate(rng.Intn(capacity))
		}
	}

	free := freeList(t, p.slots, p.freeHead)
	if want := capacity - p.ActiveCount(); len(free) != want {
		t.Fatalf("free list holds %d slots, want %d", len(free), want)
	}
	onList := make(map[int]bool, len(free))
	for _, i := range free {
		if p.slots[i].active {
			t.Fatalf("active slot %d found on the free list", i)
		}
		onList[i] = true
	}
	for i := range p.slots {
		if !p.slots[i].active && !onList[i] {
			t.Fatalf("inactive slot %d missing from the free list", i)
		}
	}
}

func TestClearRestoresConstructionState(t *testing.T) {
	p, err := New[particle](5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 5; i++ {
		p.Activate()
	}
	p.Deactivate(3)
	p.Deactivate(0)

	p.Clear()

	if got := p.ActiveCount(); got != 0 {
		t.Fatalf("ActiveCount = %d after Clear, want 0", got)
	}
	if got := p.Stats(); got.Activations != 0 || got.Deactivations != 0 || got.Exhaustions != 0 {
		t.Fatalf("Stats not reset by Clear: %+v", got)
	}
	if got := freeList(t, p.slots, p.freeHead); len(got) != 5 {
		t.Fatalf("free list holds %d slots after Clear, want 5", len(got))
	}
	for want := 0; want < 5; want++ {
		ref, ok := p.Activate()
		if !ok || ref.Index != want {
			t.Fatalf("post-Clear Activate = (%d, %t), want (%d, true)", ref.Index, ok, want)
		}
	}
}

func TestCheckedAccessors(t *testing.T) {
	p, err := New[particle](3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ref, _ := p.Activate()

	s, ok := p.At(ref.Index)
	if !ok || !s.Active() {
		t.Fatalf("At(%d) = (%v, %t), want active slot", ref.Index, s, ok)
	}
	if &s.Value != ref.Value {
		t.Fatal("At and Activate disagree on the slot's value address")
	}

	if s, ok := p.At(1); !ok || s.Active() {
		t.Fatalf("At(1) = (%v, %t), want inactive slot", s, ok)
	}
	if _, ok := p.At(-1); ok {
		t.Error("At(-1) reported ok")
	}
	if _, ok := p.At(3); ok {
		t.Error("At(capacity) reported ok")
	}
	if _, ok := p.Value(3); ok {
		t.Error("Value(capacity) reported ok")
	}
	if p.Active(-1) || p.Active(3) {
		t.Error("Active out of range reported true")
	}
}

func TestRangeVisitsActiveAscending(t *testing.T) {
	p, err := New[int](6)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 5; i++ {
		ref, _ := p.Activate()
		*ref.Value = ref.Index * 10
	}
	p.Deactivate(1)
	p.Deactivate(3)

	var visited []int
	p.Range(func(i int, v *int) bool {
		if *v != i*10 {
			t.Fatalf("slot %d holds %d, want %d", i, *v, i*10)
		}
		visited = append(visited, i)
		return true
	})
	want := []int{0, 2, 4}
	if len(visited) != len(want) {
		t.Fatalf("Range visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("Range visited %v, want %v", visited, want)
		}
	}

	var stopped []int
	p.Range(func(i int, _ *int) bool {
		stopped = append(stopped, i)
		return false
	})
	if len(stopped) != 1 || stopped[0] != 0 {
		t.Fatalf("early-exit Range visited %v, want [0]", stopped)
	}
}

func TestStatsCounters(t *testing.T) {
	p, err := New[int](2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Activate()
	p.Activate()
	p.Activate() // exhausted
	p.Deactivate(0)
	p.Activate()

	got := p.Stats()
	want := Stats{Capacity: 2, Active: 2, Activations: 3, Deactivations: 1, Exhaustions: 1}
	if got != want {
		t.Fatalf("Stats = %+v, want %+v", got, want)
	}
}

func BenchmarkActivateDeactivate(b *testing.B) {
	p, err := New[particle](1024)
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ref, _ := p.Activate()
		p.Deactivate(ref.Index)
	}
}

func BenchmarkChurnHalfFull(b *testing.B) {
	const capacity = 1024
	p, err := New[particle](capacity)
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	for i := 0; i < capacity/2; i++ {
		p.Activate()
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ref, ok := p.Activate()
		if ok {
			p.Deactivate(ref.Index)
		}
	}
}
