// Package stopwatch provides a monotonic stopwatch with pause and resume
// support, suited to frame timing and benchmark measurement.
package stopwatch

import "time"

// initTime anchors Uptime at package initialization.
var initTime = time.Now()

// Uptime returns the time elapsed since package initialization.
func Uptime() time.Duration {
	return time.Since(initTime)
}

// Stopwatch measures elapsed time. It relies on the monotonic clock
// reading carried by time.Time, so wall-clock adjustments do not affect
// measurements.
//
// The zero value is a stopped stopwatch ready to use. A Stopwatch is not
// safe for concurrent use.
type Stopwatch struct {
	startedAt time.Time
	pausedAt  time.Time
	started   bool
	paused    bool
}

// New returns a stopped stopwatch.
func New() *Stopwatch {
	return &Stopwatch{}
}

// NewStarted returns a stopwatch that is already running.
func NewStarted() *Stopwatch {
	s := &Stopwatch{}
	s.Start()
	return s
}

// Start begins counting from zero, clearing any paused state.
func (s *Stopwatch) Start() {
	s.startedAt = time.Now()
	s.pausedAt = time.Time{}
	s.started = true
	s.paused = false
}

// Stop halts the stopwatch and resets the elapsed time to zero.
func (s *Stopwatch) Stop() {
	s.startedAt = time.Time{}
	s.pausedAt = time.Time{}
	s.started = false
	s.paused = false
}

// Pause freezes the elapsed time. Pausing a stopped or already paused
// stopwatch has no effect.
func (s *Stopwatch) Pause() {
	if s.started && !s.paused {
		s.pausedAt = time.Now()
		s.paused = true
	}
}

// Resume continues counting after a pause, excluding the pause gap from
// the elapsed time. Resuming a stopwatch that is not paused has no effect.
func (s *Stopwatch) Resume() {
	if s.started && s.paused {
		// Shift the start forward by the length of the pause.
		s.startedAt = time.Now().Add(-s.pausedAt.Sub(s.startedAt))
		s.paused = false
	}
}

// Restart begins a fresh measurement and returns the elapsed time it
// discarded.
func (s *Stopwatch) Restart() time.Duration {
	prior := s.Elapsed()
	s.Start()
	return prior
}

// Elapsed returns the measured time: zero when stopped, the frozen
// duration while paused, and the live duration otherwise.
func (s *Stopwatch) Elapsed() time.Duration {
	if !s.started {
		return 0
	}
	if s.paused {
		return s.pausedAt.Sub(s.startedAt)
	}
	return time.Since(s.startedAt)
}

// Started reports whether the stopwatch is counting or paused.
func (s *Stopwatch) Started() bool {
	return s.started
}

// Paused reports whether the stopwatch is paused.
func (s *Stopwatch) Paused() bool {
	return s.paused
}

// Stopped reports whether the stopwatch is stopped.
func (s *Stopwatch) Stopped() bool {
	return !s.started
}
