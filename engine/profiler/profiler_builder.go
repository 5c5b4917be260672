package profiler

import (
	"log"
	"time"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often statistics are logged.
//
// Parameters:
//   - d: the interval (values <= 0 are ignored)
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithMismatchCounter reports, per interval, how much a cumulative counter grew.
// Pass a camera controller's Mismatches method.
//
// Parameters:
//   - counter: returns the cumulative mismatch count
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithMismatchCounter(counter func() uint64) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.mismatches = counter
	}
}

// WithLogger sets the logger statistics are written to.
//
// Parameters:
//   - logger: the logger (nil keeps the default)
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithLogger(logger *log.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// withClock replaces time.Now in tests.
func withClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}
