package tracker

import "log"

// TrackerBuilderOption is a functional option for configuring a Tracker.
type TrackerBuilderOption func(*trackerImpl)

// WithDecodeWorkers sets how many goroutines decode incoming datagrams.
//
// Parameters:
//   - n: number of decode workers (values below 1 are ignored)
//
// Returns:
//   - TrackerBuilderOption: option function to apply
func WithDecodeWorkers(n int) TrackerBuilderOption {
	return func(t *trackerImpl) {
		if n > 0 {
			t.workers = n
		}
	}
}

// WithLogger sets the logger used for tracker diagnostics.
//
// Parameters:
//   - logger: the logger (nil keeps the default)
//
// Returns:
//   - TrackerBuilderOption: option function to apply
func WithLogger(logger *log.Logger) TrackerBuilderOption {
	return func(t *trackerImpl) {
		if logger != nil {
			t.logger = logger
		}
	}
}
