package sepconv

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/sepconv/internal/filter"
	"github.com/gogpu/sepconv/internal/parallel"
)

// Convolver applies separable convolutions with a fixed execution setup.
//
// A Convolver created with WithWorkers(n), n > 1, owns a persistent worker
// pool and processes channels concurrently; Close releases it. The output
// is identical for every worker count.
//
// Thread safety: Convolve is safe for concurrent use. Close must not be
// called while a Convolve is in flight.
type Convolver struct {
	pool   *parallel.WorkerPool
	logger *slog.Logger
}

// NewConvolver creates a Convolver. Without options it is sequential.
func NewConvolver(opts ...Option) *Convolver {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cv := &Convolver{logger: o.logger}
	if o.workers > 1 {
		cv.pool = parallel.NewWorkerPool(o.workers)
	}
	return cv
}

// Workers returns the number of goroutines used per call (1 if sequential).
func (cv *Convolver) Workers() int {
	if cv.pool == nil {
		return 1
	}
	return cv.pool.Workers()
}

// Close stops the worker pool, if any. Subsequent calls run sequentially.
// Close is safe to call multiple times.
func (cv *Convolver) Close() {
	if cv.pool != nil {
		cv.pool.Close()
	}
}

func (cv *Convolver) log() *slog.Logger {
	if cv.logger != nil {
		return cv.logger
	}
	return Logger()
}

// forEachChannel runs fn for every channel, on the pool when there is one.
func (cv *Convolver) forEachChannel(channels int, fn func(c int)) {
	if cv.pool == nil {
		for c := range channels {
			fn(c)
		}
		return
	}
	if !cv.pool.IsRunning() {
		cv.log().Warn("sepconv: worker pool closed, running sequentially")
	}
	cv.pool.ForEach(channels, fn)
}

var sequential = &Convolver{}

// ConvolveSeparable convolves every row of input with horizontal and then
// every column of the result with vertical.
//
// groups partitions the channels: groups == channels filters each channel
// on its own. With fewer groups, each pass replaces every channel of a
// group with the sum of that pass over all channels in the group, as a
// grouped 2D convolution with all-equal weights across a group does.
//
// The result is freshly allocated. Its shape equals the input's except
// under Valid, where width shrinks by horizontal.Len()-1 and height by
// vertical.Len()-1.
//
// Errors:
//   - ErrInvalidArgument: nil input or empty tap
//   - ErrConfiguration: groups < 1, groups does not divide the channel
//     count, or boundary is unknown
//   - ErrShape: under Valid, input narrower or shorter than its tap
func ConvolveSeparable(input *Array, horizontal, vertical Tap, groups int, boundary Boundary) (*Array, error) {
	return sequential.Convolve(input, horizontal, vertical, groups, boundary)
}

// Convolve is ConvolveSeparable using the Convolver's worker setup.
func (cv *Convolver) Convolve(input *Array, horizontal, vertical Tap, groups int, boundary Boundary) (*Array, error) {
	if err := validateCall(input, groups, boundary); err != nil {
		return nil, err
	}
	if horizontal.Len() == 0 || vertical.Len() == 0 {
		return nil, fmt.Errorf("%w: empty tap", ErrInvalidArgument)
	}

	inShape := input.Shape()
	outShape := Shape{
		Width:    boundary.outputExtent(inShape.Width, horizontal.Len()),
		Height:   boundary.outputExtent(inShape.Height, vertical.Len()),
		Channels: inShape.Channels,
	}
	if outShape.Width < 1 || outShape.Height < 1 {
		return nil, fmt.Errorf("%w: %s is smaller than %dx%d taps under %s",
			ErrShape, inShape, horizontal.Len(), vertical.Len(), boundary)
	}

	cv.log().Debug("sepconv: convolve",
		"shape", inShape,
		"out", outShape,
		"htap", horizontal.Len(),
		"vtap", vertical.Len(),
		"groups", groups,
		"boundary", boundary,
		"workers", cv.Workers())

	edge := boundary.edge()
	hk, vk := horizontal.weights, vertical.weights
	tmpPlane := outShape.Width * inShape.Height
	outPlane := outShape.Width * outShape.Height
	out := newArray(outShape)

	if groups == inShape.Channels {
		// Independent channels: both passes in one work item per channel.
		cv.forEachChannel(inShape.Channels, func(c int) {
			tmp := make([]float32, tmpPlane)
			filter.Horizontal(tmp, input.Plane(c), inShape.Width, inShape.Height, hk, edge)
			filter.Vertical(out.Plane(c), tmp, outShape.Width, inShape.Height, vk, edge)
		})
		return out, nil
	}

	tmp := make([]float32, tmpPlane*inShape.Channels)
	cv.forEachChannel(inShape.Channels, func(c int) {
		filter.Horizontal(tmp[c*tmpPlane:(c+1)*tmpPlane], input.Plane(c), inShape.Width, inShape.Height, hk, edge)
	})
	mixGroups(tmp, tmpPlane, inShape.Channels, groups)

	cv.forEachChannel(inShape.Channels, func(c int) {
		filter.Vertical(out.Plane(c), tmp[c*tmpPlane:(c+1)*tmpPlane], outShape.Width, inShape.Height, vk, edge)
	})
	mixGroups(out.data, outPlane, inShape.Channels, groups)

	return out, nil
}

func validateCall(input *Array, groups int, boundary Boundary) error {
	if input == nil {
		return fmt.Errorf("%w: nil input", ErrInvalidArgument)
	}
	if !boundary.IsValid() {
		return fmt.Errorf("%w: unknown %s", ErrConfiguration, boundary)
	}
	if groups < 1 || input.Channels()%groups != 0 {
		return fmt.Errorf("%w: groups=%d does not divide %d channels",
			ErrConfiguration, groups, input.Channels())
	}
	return nil
}

// mixGroups replaces every plane in a group with the sum of the group's
// planes, added in channel order.
func mixGroups(data []float32, planeSize, channels, groups int) {
	size := channels / groups
	if size == 1 {
		return
	}
	for g := range groups {
		first := g * size
		sum := data[first*planeSize : (first+1)*planeSize]
		for m := first + 1; m < first+size; m++ {
			member := data[m*planeSize : (m+1)*planeSize]
			for i, v := range member {
				sum[i] += v
			}
		}
		for m := first + 1; m < first+size; m++ {
			copy(data[m*planeSize:(m+1)*planeSize], sum)
		}
	}
}

// Convolve2D is the direct, non-separable 2D convolution with kernel[j][i]
// weighting the sample at column offset i and row offset j. It shares
// boundary and groups semantics with ConvolveSeparable, except that a group
// is mixed once rather than once per pass. It costs O(len(kernel) *
// len(kernel[0])) per sample and serves as a reference.
func Convolve2D(input *Array, kernel [][]float32, groups int, boundary Boundary) (*Array, error) {
	if err := validateCall(input, groups, boundary); err != nil {
		return nil, err
	}
	kh := len(kernel)
	if kh == 0 || len(kernel[0]) == 0 {
		return nil, fmt.Errorf("%w: empty kernel", ErrInvalidArgument)
	}
	kw := len(kernel[0])
	for _, row := range kernel {
		if len(row) != kw {
			return nil, fmt.Errorf("%w: ragged kernel", ErrInvalidArgument)
		}
	}

	in := input.Shape()
	outShape := Shape{
		Width:    boundary.outputExtent(in.Width, kw),
		Height:   boundary.outputExtent(in.Height, kh),
		Channels: in.Channels,
	}
	if outShape.Width < 1 || outShape.Height < 1 {
		return nil, fmt.Errorf("%w: %s is smaller than %dx%d kernel under %s",
			ErrShape, in, kw, kh, boundary)
	}

	ox, oy := boundary.origin(kw), boundary.origin(kh)
	out := newArray(outShape)

	for c := range in.Channels {
		src := input.Plane(c)
		dst := out.Plane(c)
		for y := range outShape.Height {
			for x := range outShape.Width {
				var sum float32
				for j, row := range kernel {
					sy, ok := boundary.Resolve(y+oy+j, in.Height)
					if !ok {
						continue
					}
					for i, w := range row {
						sx, ok := boundary.Resolve(x+ox+i, in.Width)
						if !ok {
							continue
						}
						sum += src[sy*in.Width+sx] * w
					}
				}
				dst[y*outShape.Width+x] = sum
			}
		}
	}

	mixGroups(out.data, outShape.Width*outShape.Height, in.Channels, groups)
	return out, nil
}
