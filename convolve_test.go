package sepconv

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allBoundaries = []Boundary{Same, Valid, Reflect, Replicate}

func randomArray(w, h, c int, seed uint64) *Array {
	r := rand.New(rand.NewPCG(seed, 7))
	a := Full(w, h, c, 0)
	for i := range a.data {
		a.data[i] = r.Float32()*2 - 1
	}
	return a
}

// requireClose checks a and b sample by sample within a relative tolerance.
func requireClose(t *testing.T, want, got *Array, rel float64) {
	t.Helper()
	require.Equal(t, want.Shape(), got.Shape())
	for i := range want.data {
		w, g := float64(want.data[i]), float64(got.data[i])
		tol := rel * math.Max(1, math.Abs(w))
		require.InDeltaf(t, w, g, tol, "sample %d", i)
	}
}

func TestConvolveSeparableShapeLaw(t *testing.T) {
	shapes := []Shape{{1, 1, 1}, {5, 3, 1}, {8, 8, 3}, {17, 4, 4}}
	taps := []Tap{IdentityTap(), OnesTap(3), BoxTap(2), MustTap(1, -1)}

	for _, s := range shapes {
		for _, tap := range taps {
			for _, b := range []Boundary{Same, Reflect, Replicate} {
				name := fmt.Sprintf("%s/k=%d/%s", s, tap.Len(), b)
				t.Run(name, func(t *testing.T) {
					in := randomArray(s.Width, s.Height, s.Channels, 1)
					out, err := ConvolveSeparable(in, tap, tap, s.Channels, b)
					require.NoError(t, err)
					assert.Equal(t, s, out.Shape())
				})
			}
		}
	}
}

func TestConvolveSeparableValidShrink(t *testing.T) {
	in := randomArray(10, 7, 2, 2)

	out, err := ConvolveSeparable(in, OnesTap(3), OnesTap(5), 2, Valid)
	require.NoError(t, err)
	assert.Equal(t, Shape{Width: 8, Height: 3, Channels: 2}, out.Shape())

	out, err = ConvolveSeparable(in, OnesTap(10), OnesTap(7), 2, Valid)
	require.NoError(t, err)
	assert.Equal(t, Shape{Width: 1, Height: 1, Channels: 2}, out.Shape())
}

func TestConvolveSeparableValidTooSmall(t *testing.T) {
	in := randomArray(4, 6, 1, 3)

	tests := []struct {
		name string
		h, v Tap
	}{
		{"narrow", OnesTap(5), OnesTap(3)},
		{"short", OnesTap(3), OnesTap(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ConvolveSeparable(in, tt.h, tt.v, 1, Valid)
			require.ErrorIs(t, err, ErrShape)
			assert.Nil(t, out)
		})
	}
}

func TestConvolveSeparableValidValues(t *testing.T) {
	// 4x1 row [1 2 3 4] with [1 1 1] horizontally -> [6 9].
	in, err := NewArrayFrom(4, 1, 1, []float32{1, 2, 3, 4})
	require.NoError(t, err)

	out, err := ConvolveSeparable(in, OnesTap(3), IdentityTap(), 1, Valid)
	require.NoError(t, err)
	assert.Equal(t, []float32{6, 9}, out.Data())
}

func TestConvolveSeparableIdentityTap(t *testing.T) {
	in := randomArray(13, 9, 3, 4)
	in.Set(0, 0, 0, float32(math.Copysign(0, -1)))

	for _, b := range allBoundaries {
		t.Run(b.String(), func(t *testing.T) {
			out, err := ConvolveSeparable(in, IdentityTap(), IdentityTap(), 3, b)
			require.NoError(t, err)
			assert.True(t, in.Equal(out), "identity tap must return the input bit for bit")
		})
	}
}

func TestConvolveSeparableChannelIndependence(t *testing.T) {
	const c = 3
	base := randomArray(11, 8, c, 5)
	h, v := MustTap(0.25, 0.5, 0.25), MustTap(1, 2, 1)

	want, err := ConvolveSeparable(base, h, v, c, Replicate)
	require.NoError(t, err)

	for changed := range c {
		t.Run(fmt.Sprintf("channel=%d", changed), func(t *testing.T) {
			in := base.Clone()
			for i := range in.Plane(changed) {
				in.Plane(changed)[i] += 3
			}

			got, err := ConvolveSeparable(in, h, v, c, Replicate)
			require.NoError(t, err)

			for ch := range c {
				same := planesBitEqual(want.Plane(ch), got.Plane(ch))
				if ch == changed {
					assert.False(t, same, "channel %d should change", ch)
				} else {
					assert.True(t, same, "channel %d should be untouched", ch)
				}
			}
		})
	}
}

func planesBitEqual(a, b []float32) bool {
	for i := range a {
		if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
			return false
		}
	}
	return true
}

func TestConvolveSeparableMatchesDirect2D(t *testing.T) {
	pairs := []struct {
		name string
		h, v Tap
	}{
		{"ones3", OnesTap(3), OnesTap(3)},
		{"binomial", MustTap(0.25, 0.5, 0.25), MustTap(0.25, 0.5, 0.25)},
		{"mixed lengths", BoxTap(2), MustTap(1, 2, 1)},
		{"gaussian", GaussianTap(1), GaussianTap(1)},
	}

	for _, p := range pairs {
		for _, b := range allBoundaries {
			t.Run(p.name+"/"+b.String(), func(t *testing.T) {
				in := randomArray(16, 12, 3, 6)

				got, err := ConvolveSeparable(in, p.h, p.v, 3, b)
				require.NoError(t, err)

				want, err := Convolve2D(in, OuterProduct(p.h, p.v), 3, b)
				require.NoError(t, err)

				requireClose(t, want, got, 1e-5)
			})
		}
	}
}

func TestConvolveSeparableOnesScenarioSmall(t *testing.T) {
	// Scaled-down reference benchmark: ones input, [1 1 1] both ways,
	// zero padding. Interior sums 9, edges 6, corners 4.
	in := Ones(6, 5, 3)

	out, err := ConvolveSeparable(in, OnesTap(3), OnesTap(3), 3, Same)
	require.NoError(t, err)

	for c := range 3 {
		assert.Equal(t, float32(4), out.At(0, 0, c))
		assert.Equal(t, float32(6), out.At(3, 0, c))
		assert.Equal(t, float32(6), out.At(0, 2, c))
		assert.Equal(t, float32(9), out.At(2, 2, c))
		assert.Equal(t, float32(4), out.At(5, 4, c))
	}
}

func TestConvolveSeparableGroupedMixing(t *testing.T) {
	in := Ones(8, 8, 3)

	independent, err := ConvolveSeparable(in, OnesTap(3), OnesTap(3), 3, Same)
	require.NoError(t, err)

	mixed, err := ConvolveSeparable(in, OnesTap(3), OnesTap(3), 1, Same)
	require.NoError(t, err)

	// Group of three channels mixed after each of the two passes.
	for c := range 3 {
		assert.Equal(t, 9*independent.At(4, 4, c), mixed.At(4, 4, c))
	}
}

func TestConvolveSeparableGroupsOfTwo(t *testing.T) {
	in := randomArray(5, 5, 4, 8)

	out, err := ConvolveSeparable(in, IdentityTap(), IdentityTap(), 2, Same)
	require.NoError(t, err)

	// Identity passes leave only the mixing: each group becomes 2*(a+b).
	for y := range 5 {
		for x := range 5 {
			for g := range 2 {
				sum := in.At(x, y, 2*g) + in.At(x, y, 2*g+1)
				want := sum + sum
				assert.InDelta(t, want, out.At(x, y, 2*g), 1e-6)
				assert.Equal(t, out.At(x, y, 2*g), out.At(x, y, 2*g+1))
			}
		}
	}
}

func TestConvolveSeparableErrors(t *testing.T) {
	rgb := Ones(4, 4, 3)

	tests := []struct {
		name    string
		input   *Array
		h, v    Tap
		groups  int
		b       Boundary
		wantErr error
	}{
		{"groups does not divide", rgb, OnesTap(3), OnesTap(3), 2, Same, ErrConfiguration},
		{"zero groups", rgb, OnesTap(3), OnesTap(3), 0, Same, ErrConfiguration},
		{"negative groups", rgb, OnesTap(3), OnesTap(3), -3, Same, ErrConfiguration},
		{"unknown boundary", rgb, OnesTap(3), OnesTap(3), 3, Boundary(42), ErrConfiguration},
		{"empty horizontal", rgb, Tap{}, OnesTap(3), 3, Same, ErrInvalidArgument},
		{"empty vertical", rgb, OnesTap(3), Tap{}, 3, Same, ErrInvalidArgument},
		{"nil input", nil, OnesTap(3), OnesTap(3), 1, Same, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ConvolveSeparable(tt.input, tt.h, tt.v, tt.groups, tt.b)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, out)
		})
	}
}

func TestConvolveSeparableDoesNotMutateInput(t *testing.T) {
	in := randomArray(9, 9, 2, 9)
	orig := in.Clone()

	out, err := ConvolveSeparable(in, OnesTap(3), OnesTap(3), 2, Reflect)
	require.NoError(t, err)

	assert.True(t, in.Equal(orig), "input must not be modified")
	out.Set(0, 0, 0, 123)
	assert.True(t, in.Equal(orig), "output must not alias the input")
}

func TestConvolveSeparableDeterministic(t *testing.T) {
	in := randomArray(31, 17, 3, 10)
	h := GaussianTap(1.5)

	a, err := ConvolveSeparable(in, h, h, 3, Reflect)
	require.NoError(t, err)
	b, err := ConvolveSeparable(in, h, h, 3, Reflect)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
}

func TestConvolverParallelMatchesSequential(t *testing.T) {
	cv := NewConvolver(WithWorkers(4))
	defer cv.Close()

	require.Equal(t, 4, cv.Workers())

	in := randomArray(40, 30, 6, 11)
	h, v := GaussianTap(1), BoxTap(1)

	for _, groups := range []int{6, 3, 1} {
		for _, b := range allBoundaries {
			t.Run(fmt.Sprintf("groups=%d/%s", groups, b), func(t *testing.T) {
				want, err := ConvolveSeparable(in, h, v, groups, b)
				require.NoError(t, err)

				got, err := cv.Convolve(in, h, v, groups, b)
				require.NoError(t, err)

				assert.True(t, want.Equal(got), "parallel output must be bit-identical")
			})
		}
	}
}

func TestConvolverAfterClose(t *testing.T) {
	cv := NewConvolver(WithWorkers(2))
	cv.Close()
	cv.Close()

	in := randomArray(6, 6, 2, 12)
	want, err := ConvolveSeparable(in, OnesTap(3), OnesTap(3), 2, Same)
	require.NoError(t, err)

	got, err := cv.Convolve(in, OnesTap(3), OnesTap(3), 2, Same)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestNewConvolverSequentialByDefault(t *testing.T) {
	cv := NewConvolver()
	defer cv.Close()

	assert.Equal(t, 1, cv.Workers())
	assert.Equal(t, 1, NewConvolver(WithWorkers(1)).Workers())
}

func TestConvolve2DErrors(t *testing.T) {
	in := Ones(4, 4, 1)

	_, err := Convolve2D(in, nil, 1, Same)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Convolve2D(in, [][]float32{{1, 2}, {1}}, 1, Same)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Convolve2D(in, [][]float32{{1, 1, 1, 1, 1}}, 1, Valid)
	require.ErrorIs(t, err, ErrShape)

	_, err = Convolve2D(Ones(4, 4, 3), [][]float32{{1}}, 2, Same)
	require.ErrorIs(t, err, ErrConfiguration)
}
