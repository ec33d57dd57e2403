package sepconv

import (
	"fmt"
	"math"
)

// Shape is the extent of an Array.
type Shape struct {
	Width    int
	Height   int
	Channels int
}

// String returns the shape as WxHxC.
func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Width, s.Height, s.Channels)
}

// Len returns the number of samples in the shape.
func (s Shape) Len() int {
	return s.Width * s.Height * s.Channels
}

func (s Shape) validate() error {
	if s.Width < 1 || s.Height < 1 || s.Channels < 1 {
		return fmt.Errorf("%w: %s has a non-positive dimension", ErrShape, s)
	}
	return nil
}

// Array is a dense width×height×channels buffer of float32 samples.
//
// Samples are stored in Fortran order over (x, y, c): x varies fastest,
// then y, then c. Each channel is therefore one contiguous width×height
// plane, and sample (x, y, c) lives at index (c*height+y)*width+x.
//
// Thread safety: Array is safe for concurrent reads. Writes (Set, Plane,
// Data) require external synchronization.
type Array struct {
	data   []float32
	width  int
	height int
	chans  int
}

// NewArray allocates a zero-filled array.
// Returns ErrShape if any dimension is less than 1.
func NewArray(width, height, channels int) (*Array, error) {
	s := Shape{Width: width, Height: height, Channels: channels}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return newArray(s), nil
}

// NewArrayFrom allocates an array holding a copy of data, which must be
// laid out as described on Array.
func NewArrayFrom(width, height, channels int, data []float32) (*Array, error) {
	a, err := NewArray(width, height, channels)
	if err != nil {
		return nil, err
	}
	if len(data) != len(a.data) {
		return nil, fmt.Errorf("%w: %d samples for shape %s", ErrShape, len(data), a.Shape())
	}
	copy(a.data, data)
	return a, nil
}

// Full allocates an array with every sample set to v.
// It panics if any dimension is less than 1.
func Full(width, height, channels int, v float32) *Array {
	a, err := NewArray(width, height, channels)
	if err != nil {
		panic(err)
	}
	if math.Float32bits(v) != 0 {
		for i := range a.data {
			a.data[i] = v
		}
	}
	return a
}

// Ones allocates an array of ones.
// It panics if any dimension is less than 1.
func Ones(width, height, channels int) *Array {
	return Full(width, height, channels, 1)
}

func newArray(s Shape) *Array {
	return &Array{
		data:   make([]float32, s.Len()),
		width:  s.Width,
		height: s.Height,
		chans:  s.Channels,
	}
}

// Width returns the extent of the x axis.
func (a *Array) Width() int { return a.width }

// Height returns the extent of the y axis.
func (a *Array) Height() int { return a.height }

// Channels returns the extent of the channel axis.
func (a *Array) Channels() int { return a.chans }

// Shape returns the array extent.
func (a *Array) Shape() Shape {
	return Shape{Width: a.width, Height: a.height, Channels: a.chans}
}

// Len returns the number of samples.
func (a *Array) Len() int { return len(a.data) }

func (a *Array) index(x, y, c int) int {
	return (c*a.height+y)*a.width + x
}

func (a *Array) inBounds(x, y, c int) bool {
	return x >= 0 && x < a.width && y >= 0 && y < a.height && c >= 0 && c < a.chans
}

// At returns the sample at (x, y, c), or 0 outside the array.
func (a *Array) At(x, y, c int) float32 {
	if !a.inBounds(x, y, c) {
		return 0
	}
	return a.data[a.index(x, y, c)]
}

// Set stores v at (x, y, c). Out-of-range coordinates are ignored.
func (a *Array) Set(x, y, c int, v float32) {
	if !a.inBounds(x, y, c) {
		return
	}
	a.data[a.index(x, y, c)] = v
}

// Plane returns the samples of channel c as a width*height slice that
// aliases the array. Returns nil if c is out of range.
func (a *Array) Plane(c int) []float32 {
	if c < 0 || c >= a.chans {
		return nil
	}
	size := a.width * a.height
	return a.data[c*size : (c+1)*size : (c+1)*size]
}

// Data returns the underlying samples. The slice aliases the array.
func (a *Array) Data() []float32 {
	return a.data
}

// Clone returns a deep copy of the array.
func (a *Array) Clone() *Array {
	clone := newArray(a.Shape())
	copy(clone.data, a.data)
	return clone
}

// Equal reports whether a and b have the same shape and bit-identical
// samples. NaNs compare equal when their bits match.
func (a *Array) Equal(b *Array) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Shape() != b.Shape() {
		return false
	}
	for i, v := range a.data {
		if math.Float32bits(v) != math.Float32bits(b.data[i]) {
			return false
		}
	}
	return true
}
