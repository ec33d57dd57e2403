package sepconv

import "errors"

// Errors returned by the convolution kernel, the expression evaluator and
// the benchmark harness. Call sites wrap them with detail; test with errors.Is.
var (
	// ErrConfiguration is returned when groups does not divide the channel
	// count, a boundary policy is unknown, or an expression is malformed.
	ErrConfiguration = errors.New("sepconv: invalid configuration")

	// ErrShape is returned when an array dimension is not positive, or when
	// the output would be empty under the Valid boundary.
	ErrShape = errors.New("sepconv: invalid shape")

	// ErrInvalidArgument is returned for an empty tap, a nil input or
	// callable, or a non-positive trial count.
	ErrInvalidArgument = errors.New("sepconv: invalid argument")
)
