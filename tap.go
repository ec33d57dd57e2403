package sepconv

import (
	"fmt"

	"github.com/gogpu/sepconv/internal/filter"
)

// Tap is an immutable 1D sequence of filter weights.
// The zero Tap is empty and rejected by the kernel.
type Tap struct {
	weights []float32
}

// NewTap returns a tap holding a copy of weights.
// Returns ErrInvalidArgument if weights is empty.
func NewTap(weights ...float32) (Tap, error) {
	if len(weights) == 0 {
		return Tap{}, fmt.Errorf("%w: empty tap", ErrInvalidArgument)
	}
	w := make([]float32, len(weights))
	copy(w, weights)
	return Tap{weights: w}, nil
}

// MustTap is like NewTap but panics on an empty tap.
func MustTap(weights ...float32) Tap {
	t, err := NewTap(weights...)
	if err != nil {
		panic(err)
	}
	return t
}

// IdentityTap returns the single-weight tap [1].
func IdentityTap() Tap {
	return Tap{weights: []float32{1}}
}

// OnesTap returns n unit weights. The result sums instead of averaging,
// as in the reference box-blur benchmark. n < 1 is treated as 1.
func OnesTap(n int) Tap {
	return Tap{weights: filter.OnesKernel(n)}
}

// BoxTap returns 2*radius+1 uniform weights summing to 1.
func BoxTap(radius int) Tap {
	return Tap{weights: filter.BoxKernel(radius)}
}

// GaussianTap returns a normalized Gaussian of 2*ceil(3*sigma)+1 weights.
// Taps are memoized per sigma (quantized to 0.01).
func GaussianTap(sigma float64) Tap {
	return Tap{weights: filter.CachedGaussianKernel(sigma)}
}

// Len returns the number of weights.
func (t Tap) Len() int { return len(t.weights) }

// Weight returns weight k.
func (t Tap) Weight(k int) float32 { return t.weights[k] }

// Weights returns a copy of the weights.
func (t Tap) Weights() []float32 {
	w := make([]float32, len(t.weights))
	copy(w, t.weights)
	return w
}

// Center returns the index of the weight aligned with the output sample
// under centered boundaries.
func (t Tap) Center() int {
	return filter.KernelCenter(len(t.weights))
}

// String formats the weights.
func (t Tap) String() string {
	return fmt.Sprint(t.weights)
}

// OuterProduct returns the 2D kernel k[j][i] = v[j]*h[i] that the separable
// pair (h, v) is equivalent to.
func OuterProduct(h, v Tap) [][]float32 {
	k := make([][]float32, v.Len())
	for j := range k {
		row := make([]float32, h.Len())
		for i := range row {
			row[i] = v.weights[j] * h.weights[i]
		}
		k[j] = row
	}
	return k
}
