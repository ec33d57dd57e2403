package filter

import (
	"math"
	"sync"
)

// GaussianKernel generates a 1D Gaussian kernel for the given sigma.
// The kernel is normalized so all values sum to 1.0.
//
// The kernel size is computed as 2 * ceil(sigma * 3) + 1, which covers
// 99.7% of the Gaussian distribution (3 standard deviations).
//
// For sigma <= 0, returns a single-element kernel [1.0] (identity).
func GaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1.0}
	}

	halfSize := int(math.Ceil(sigma * 3))
	size := halfSize*2 + 1

	kernel := make([]float32, size)

	// G(x) = exp(-x²/(2σ²)); the constant factor cancels in normalization
	twoSigmaSq := 2 * sigma * sigma
	sum := float64(0)

	for i := 0; i < size; i++ {
		x := float64(i - halfSize)
		val := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(val)
		sum += val
	}

	if sum > 0 {
		invSum := float32(1.0 / sum)
		for i := range kernel {
			kernel[i] *= invSum
		}
	}

	return kernel
}

// BoxKernel generates a 1D box (uniform) kernel for the given radius.
// All values are equal: 1/(2*radius+1).
func BoxKernel(radius int) []float32 {
	if radius <= 0 {
		return []float32{1.0}
	}

	size := radius*2 + 1
	kernel := make([]float32, size)
	val := float32(1.0) / float32(size)

	for i := range kernel {
		kernel[i] = val
	}

	return kernel
}

// OnesKernel generates an unnormalized kernel of n ones.
// Summing rather than averaging matches the reference blur benchmark.
func OnesKernel(n int) []float32 {
	if n <= 0 {
		n = 1
	}
	kernel := make([]float32, n)
	for i := range kernel {
		kernel[i] = 1
	}
	return kernel
}

// kernelCache memoizes Gaussian kernels keyed by sigma quantized to 0.01.
// Cached slices are shared and must not be modified by callers.
type kernelCache struct {
	mu     sync.RWMutex
	cache  map[int][]float32
	maxLen int
}

var defaultKernelCache = newKernelCache(64)

func newKernelCache(maxLen int) *kernelCache {
	return &kernelCache{
		cache:  make(map[int][]float32),
		maxLen: maxLen,
	}
}

func (c *kernelCache) get(sigma float64) []float32 {
	key := int(math.Round(sigma * 100))

	c.mu.RLock()
	if kernel, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return kernel
	}
	c.mu.RUnlock()

	kernel := GaussianKernel(float64(key) / 100)

	c.mu.Lock()
	if len(c.cache) >= c.maxLen {
		// Evict half; map order makes the victims arbitrary.
		count := 0
		for k := range c.cache {
			delete(c.cache, k)
			count++
			if count >= c.maxLen/2 {
				break
			}
		}
	}
	c.cache[key] = kernel
	c.mu.Unlock()

	return kernel
}

func (c *kernelCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// CachedGaussianKernel returns a shared Gaussian kernel for sigma.
// The returned slice must be treated as read-only.
func CachedGaussianKernel(sigma float64) []float32 {
	return defaultKernelCache.get(sigma)
}

// KernelCenter returns the center index of a kernel of the given size.
func KernelCenter(kernelSize int) int {
	return kernelSize / 2
}
