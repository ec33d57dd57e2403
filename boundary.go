package sepconv

import (
	"fmt"
	"strings"

	"github.com/gogpu/sepconv/internal/filter"
)

// Boundary is the rule for samples a convolution window reads past an edge.
type Boundary uint8

const (
	// Same pads with zeros; the output has the input's shape.
	// It is the zero value and the default.
	Same Boundary = iota

	// Valid does not pad; each axis shrinks by its tap length minus one.
	Valid

	// Reflect mirrors about the edge sample without repeating it,
	// so -1 reads 1 and width reads width-2.
	Reflect

	// Replicate repeats the nearest edge sample.
	Replicate
)

var boundaryNames = [...]string{
	Same:      "same",
	Valid:     "valid",
	Reflect:   "reflect",
	Replicate: "replicate",
}

// String returns the lower-case policy name.
func (b Boundary) String() string {
	if int(b) < len(boundaryNames) {
		return boundaryNames[b]
	}
	return fmt.Sprintf("boundary(%d)", uint8(b))
}

// IsValid reports whether b is one of the defined policies.
func (b Boundary) IsValid() bool {
	return int(b) < len(boundaryNames)
}

// ParseBoundary maps a policy name (case insensitive) to a Boundary.
func ParseBoundary(name string) (Boundary, error) {
	for b, n := range boundaryNames {
		if strings.EqualFold(name, n) {
			return Boundary(b), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown boundary %q", ErrConfiguration, name)
}

// Resolve maps index onto an axis of length n. The boolean is false when
// the sample lies outside the axis and reads as zero (Same and Valid).
func (b Boundary) Resolve(index, n int) (int, bool) {
	return filter.Resolve(b.edge(), index, n)
}

func (b Boundary) edge() filter.Edge {
	switch b {
	case Valid:
		return filter.EdgeNone
	case Reflect:
		return filter.EdgeReflect
	case Replicate:
		return filter.EdgeClamp
	default:
		return filter.EdgeZero
	}
}

// outputExtent returns the length of an axis of length n after a pass with
// a tap of length k.
func (b Boundary) outputExtent(n, k int) int {
	if b == Valid {
		return n - k + 1
	}
	return n
}

// origin returns the offset of tap weight 0 relative to the output sample.
func (b Boundary) origin(k int) int {
	if b == Valid {
		return 0
	}
	return -filter.KernelCenter(k)
}
