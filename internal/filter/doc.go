// Package filter holds the one-dimensional convolution passes behind
// sepconv.
//
// Planes are row-major float32 slices. Horizontal filters each row and
// Vertical each column; both accumulate taps in order and resolve
// out-of-range reads through an Edge. Interior samples take a branch-free
// path; only the border samples of each line consult the edge policy.
//
// Kernels:
//   - GaussianKernel / CachedGaussianKernel (normalized, 2*ceil(3σ)+1 taps)
//   - BoxKernel (normalized, 2r+1 taps)
//   - OnesKernel (unit weights, sums)
package filter
