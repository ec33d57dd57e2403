package sepconv

import "log/slog"

// Option configures a Convolver during creation.
// Use functional options to customize Convolver behavior.
//
// Example:
//
//	// Sequential, like ConvolveSeparable
//	cv := sepconv.NewConvolver()
//
//	// One worker per channel for RGB input
//	cv := sepconv.NewConvolver(sepconv.WithWorkers(3))
//	defer cv.Close()
type Option func(*convolverOptions)

// convolverOptions holds optional configuration for Convolver creation.
type convolverOptions struct {
	workers int
	logger  *slog.Logger
}

// defaultOptions returns the default convolver options.
func defaultOptions() convolverOptions {
	return convolverOptions{
		workers: 1,
		logger:  nil, // falls back to Logger() at call time
	}
}

// WithWorkers sets the number of goroutines that process channels.
// Values below 2 keep the convolver sequential. Output does not depend on
// the worker count.
func WithWorkers(n int) Option {
	return func(o *convolverOptions) {
		o.workers = n
	}
}

// WithLogger sets a logger for this convolver instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *convolverOptions) {
		o.logger = l
	}
}
