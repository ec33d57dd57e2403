package filter

import (
	"fmt"
	"math/rand/v2"
)

// Test helper functions shared across filter tests.

// rampPlane returns a width×height plane with distinct, deterministic values.
func rampPlane(width, height int) []float32 {
	p := make([]float32, width*height)
	for i := range p {
		p[i] = float32(i%17) - 8
	}
	return p
}

// randomPlane returns a width×height plane of values in [-1, 1).
func randomPlane(width, height int, seed uint64) []float32 {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	p := make([]float32, width*height)
	for i := range p {
		p[i] = r.Float32()*2 - 1
	}
	return p
}

// transpose returns the height×width transpose of a width×height plane.
func transpose(p []float32, width, height int) []float32 {
	t := make([]float32, len(p))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t[x*height+y] = p[y*width+x]
		}
	}
	return t
}

// naiveHorizontal is the textbook row convolution, used as a reference.
func naiveHorizontal(src []float32, width, height int, kernel []float32, edge Edge) ([]float32, int) {
	half := KernelCenter(len(kernel))
	outWidth := width
	if edge == EdgeNone {
		half = 0
		outWidth = width - len(kernel) + 1
	}
	dst := make([]float32, outWidth*height)
	for y := 0; y < height; y++ {
		for x := 0; x < outWidth; x++ {
			var sum float32
			for k, w := range kernel {
				i, ok := Resolve(edge, x+k-half, width)
				if !ok {
					continue
				}
				sum += src[y*width+i] * w
			}
			dst[y*outWidth+x] = sum
		}
	}
	return dst, outWidth
}

// absf32 returns the absolute value of a float32.
func absf32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// planesApproxEqual reports the first index where a and b differ by more
// than tolerance, or -1.
func planesApproxEqual(a, b []float32, tolerance float32) int {
	if len(a) != len(b) {
		return 0
	}
	for i := range a {
		if absf32(a[i]-b[i]) > tolerance {
			return i
		}
	}
	return -1
}

func edgeName(e Edge) string {
	switch e {
	case EdgeZero:
		return "zero"
	case EdgeNone:
		return "none"
	case EdgeReflect:
		return "reflect"
	case EdgeClamp:
		return "clamp"
	}
	return fmt.Sprintf("edge(%d)", e)
}
