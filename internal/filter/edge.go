package filter

// Edge selects how sample indices outside [0, n) are resolved.
type Edge uint8

const (
	// EdgeZero treats samples outside the axis as 0.
	EdgeZero Edge = iota
	// EdgeNone means the window never leaves the axis; the output shrinks.
	EdgeNone
	// EdgeReflect mirrors about the edge sample without repeating it.
	EdgeReflect
	// EdgeClamp repeats the nearest edge sample.
	EdgeClamp
)

// Resolve maps index onto [0, n) under edge. The boolean is false when the
// sample is outside the axis and contributes zero.
func Resolve(edge Edge, index, n int) (int, bool) {
	if index >= 0 && index < n {
		return index, true
	}
	switch edge {
	case EdgeReflect:
		return Reflect(index, n), true
	case EdgeClamp:
		return Clamp(index, n), true
	default:
		return 0, false
	}
}

// Reflect returns the mirrored index for out-of-bounds coordinates, with
// the edge sample not repeated: -1 maps to 1 and n maps to n-2.
// The mirror is periodic with period 2(n-1), so any index resolves.
func Reflect(index, n int) int {
	if n <= 1 {
		return 0
	}
	period := 2 * (n - 1)
	index %= period
	if index < 0 {
		index += period
	}
	if index >= n {
		index = period - index
	}
	return index
}

// Clamp returns index clamped to [0, n-1].
func Clamp(index, n int) int {
	if index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}
