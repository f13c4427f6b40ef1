// Package performance provides process resource monitoring for Magnetar
// bench runs.
package performance

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Snapshot captures process and runtime resource usage at one moment.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	// Process-level figures from the OS
	CPUPercent float64 `json:"cpu_percent"`
	MemoryRSS  uint64  `json:"memory_rss_bytes"`
	MemoryVMS  uint64  `json:"memory_vms_bytes"`
	Threads    int32   `json:"threads"`

	// System memory pressure
	SystemMemoryPercent float64 `json:"system_memory_percent"`

	// Go runtime figures
	HeapAlloc  uint64 `json:"heap_alloc_bytes"`
	HeapSys    uint64 `json:"heap_sys_bytes"`
	Goroutines int    `json:"goroutines"`
	GCCount    uint32 `json:"gc_count"`
}

// ResourceMonitor samples resource usage of the current process. CPU
// percentages are computed against the time elapsed since the monitor was
// created, so a monitor should live for the duration of the run it
// measures.
type ResourceMonitor struct {
	process      *process.Process
	startCPUTime float64
	startTime    time.Time
	mu           sync.RWMutex
}

// NewResourceMonitor creates a monitor anchored at the current process
// and instant.
func NewResourceMonitor() *ResourceMonitor {
	proc, _ := process.NewProcess(int32(os.Getpid()))

	rm := &ResourceMonitor{
		process:   proc,
		startTime: time.Now(),
	}
	if proc != nil {
		if cpuTime, err := proc.Times(); err == nil {
			rm.startCPUTime = cpuTime.Total()
		}
	}
	return rm
}

// Snapshot returns current resource usage. Figures the OS declines to
// report are left at zero rather than failing the snapshot; the Go
// runtime figures are always present.
func (rm *ResourceMonitor) Snapshot() Snapshot {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	snap := Snapshot{Timestamp: time.Now()}

	if rm.process != nil {
		if cpuTime, err := rm.process.Times(); err == nil {
			elapsed := time.Since(rm.startTime).Seconds()
			if elapsed > 0 {
				snap.CPUPercent = ((cpuTime.Total() - rm.startCPUTime) / elapsed) * 100
			}
		}
		if memInfo, err := rm.process.MemoryInfo(); err == nil {
			snap.MemoryRSS = memInfo.RSS
			snap.MemoryVMS = memInfo.VMS
		}
		snap.Threads, _ = rm.process.NumThreads()
	}

	if vmStat, err := mem.VirtualMemory(); err == nil {
		snap.SystemMemoryPercent = vmStat.UsedPercent
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	snap.HeapAlloc = memStats.HeapAlloc
	snap.HeapSys = memStats.HeapSys
	snap.GCCount = memStats.NumGC
	snap.Goroutines = runtime.NumGoroutine()

	return snap
}

// Elapsed returns the time since the monitor was created.
func (rm *ResourceMonitor) Elapsed() time.Duration {
	return time.Since(rm.startTime)
}
