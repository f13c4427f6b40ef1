package performance

import (
	"testing"
	"time"
)

func TestSnapshotReportsRuntimeFigures(t *testing.T) {
	rm := NewResourceMonitor()

	snap := rm.Snapshot()

	if snap.Timestamp.IsZero() {
		t.Error("snapshot timestamp not set")
	}
	if snap.HeapAlloc == 0 {
		t.Error("heap alloc should never be zero in a running test")
	}
	if snap.Goroutines < 1 {
		t.Errorf("goroutine count = %d, want at least 1", snap.Goroutines)
	}
}

func TestElapsedAdvances(t *testing.T) {
	rm := NewResourceMonitor()
	time.Sleep(10 * time.Millisecond)

	if rm.Elapsed() < 10*time.Millisecond {
		t.Errorf("elapsed = %v, want >= 10ms", rm.Elapsed())
	}
}
