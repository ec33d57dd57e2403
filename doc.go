// Package sepconv provides a separable 2D convolution kernel for dense
// float32 image arrays.
//
// # Overview
//
// A separable filter is a 2D kernel that factors into the outer product of
// a horizontal and a vertical 1D tap. Convolving every row with the first
// and then every column with the second gives the same result as the 2D
// kernel at O(Kh+Kv) instead of O(Kh*Kv) work per sample.
//
// # Quick Start
//
//	import "github.com/gogpu/sepconv"
//
//	// 2560x1536 RGB of ones, [1 1 1] box sum in both directions
//	in := sepconv.Ones(2560, 1536, 3)
//	tap := sepconv.OnesTap(3)
//	out, err := sepconv.ConvolveSeparable(in, tap, tap, 3, sepconv.Same)
//
// # Data Layout
//
// An Array is width x height x channels, stored channel-planar: x varies
// fastest, then y, then c. Each channel is a contiguous plane.
//
// # Boundaries
//
//   - Same: zero padding, output keeps the input shape (default)
//   - Valid: no padding, output shrinks by tap length - 1 per axis
//   - Reflect: mirror without repeating the edge sample
//   - Replicate: repeat the edge sample
//
// # Architecture
//
// The library is organized into:
//   - Public API: Array, Tap, Boundary, ConvolveSeparable, Convolver
//   - bench: timing harness for repeated kernel calls
//   - pipeline: expression-tree evaluator for per-pixel pipelines
//   - Internal: filter (1D passes and tap generators), parallel (worker
//     pool), image (file codecs), config (CLI configuration)
package sepconv
