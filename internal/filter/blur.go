package filter

// Horizontal applies a 1D convolution along each row of a width×height plane.
// Reads from src, writes to dst.
//
// For EdgeNone dst is (width-len(kernel)+1)×height and window k of output
// column x starts at x. Otherwise dst is width×height and the window is
// centered at KernelCenter, with out-of-range columns resolved by edge.
// Each output sample accumulates in kernel order.
func Horizontal(dst, src []float32, width, height int, kernel []float32, edge Edge) {
	kernelSize := len(kernel)

	if edge == EdgeNone {
		outWidth := width - kernelSize + 1
		for y := 0; y < height; y++ {
			row := src[y*width : (y+1)*width]
			out := dst[y*outWidth : (y+1)*outWidth]
			for x := range out {
				out[x] = dotForward(row[x:x+kernelSize], kernel)
			}
		}
		return
	}

	halfKernel := KernelCenter(kernelSize)
	lo, hi := interior(width, kernelSize)

	for y := 0; y < height; y++ {
		row := src[y*width : (y+1)*width]
		out := dst[y*width : (y+1)*width]

		for x := 0; x < lo; x++ {
			out[x] = edgeSum(row, 1, width, x-halfKernel, kernel, edge)
		}
		for x := lo; x < hi; x++ {
			start := x - halfKernel
			out[x] = dotForward(row[start:start+kernelSize], kernel)
		}
		for x := max(hi, lo); x < width; x++ {
			out[x] = edgeSum(row, 1, width, x-halfKernel, kernel, edge)
		}
	}
}

// Vertical applies a 1D convolution along each column of a width×height
// plane. Reads from src, writes to dst.
//
// Output rows are built as weighted sums of whole source rows, which keeps
// memory access sequential; each output sample still accumulates in kernel
// order. Shapes follow the same rules as Horizontal with rows in place of
// columns.
func Vertical(dst, src []float32, width, height int, kernel []float32, edge Edge) {
	kernelSize := len(kernel)

	if edge == EdgeNone {
		outHeight := height - kernelSize + 1
		for y := 0; y < outHeight; y++ {
			accumulateRows(dst[y*width:(y+1)*width], src, width, y, kernel)
		}
		return
	}

	halfKernel := KernelCenter(kernelSize)
	lo, hi := interior(height, kernelSize)

	for y := 0; y < height; y++ {
		out := dst[y*width : (y+1)*width]

		if y >= lo && y < hi {
			accumulateRows(out, src, width, y-halfKernel, kernel)
			continue
		}

		for x := range out {
			out[x] = edgeSum(src[x:], width, height, y-halfKernel, kernel, edge)
		}
	}
}

// interior returns the range [lo, hi) of output positions whose whole
// window lies inside an axis of length n. hi may be less than lo when the
// kernel is longer than the axis.
func interior(n, kernelSize int) (lo, hi int) {
	halfKernel := KernelCenter(kernelSize)
	lo = min(halfKernel, n)
	hi = n - (kernelSize - 1 - halfKernel)
	return lo, hi
}

// dotForward sums window[k]*kernel[k] for k = 0..len(kernel)-1 in order.
func dotForward(window, kernel []float32) float32 {
	sum := window[0] * kernel[0]
	for k := 1; k < len(kernel); k++ {
		sum += window[k] * kernel[k]
	}
	return sum
}

// accumulateRows writes into out the weighted sum of the kernel-length run
// of rows starting at row first.
func accumulateRows(out, src []float32, width, first int, kernel []float32) {
	row := src[first*width : (first+1)*width]
	weight := kernel[0]
	for x := range out {
		out[x] = row[x] * weight
	}
	for k := 1; k < len(kernel); k++ {
		row = src[(first+k)*width : (first+k+1)*width]
		weight = kernel[k]
		for x := range out {
			out[x] += row[x] * weight
		}
	}
}

// edgeSum convolves one output sample whose window starts at start and may
// leave the axis. line[i*stride] is sample i of an axis of length n.
func edgeSum(line []float32, stride, n, start int, kernel []float32, edge Edge) float32 {
	var sum float32
	for k, weight := range kernel {
		i, ok := Resolve(edge, start+k, n)
		if !ok {
			continue
		}
		sum += line[i*stride] * weight
	}
	return sum
}
