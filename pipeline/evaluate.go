package pipeline

import (
	"fmt"

	"github.com/gogpu/sepconv"
)

// step is one node of a compiled tree; args index earlier steps.
type step struct {
	expr *Expr
	args []int
}

// Evaluate computes root at every sample of input and returns a fresh array
// of the same shape. Shift nodes resolve out-of-range coordinates through
// boundary; Same reads them as zero. Valid is rejected because the output
// extent of an arbitrary tree is not defined.
//
// Errors:
//   - sepconv.ErrInvalidArgument: nil input
//   - sepconv.ErrConfiguration: nil or malformed node, Valid or unknown boundary
func Evaluate(root *Expr, input *sepconv.Array, boundary sepconv.Boundary) (*sepconv.Array, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: nil input", sepconv.ErrInvalidArgument)
	}
	if !boundary.IsValid() || boundary == sepconv.Valid {
		return nil, fmt.Errorf("%w: cannot evaluate under %s", sepconv.ErrConfiguration, boundary)
	}

	steps, err := compile(root)
	if err != nil {
		return nil, err
	}

	shape := input.Shape()
	out, err := sepconv.NewArray(shape.Width, shape.Height, shape.Channels)
	if err != nil {
		return nil, err
	}

	sepconv.Logger().Debug("pipeline: evaluate",
		"shape", shape,
		"nodes", len(steps),
		"root", root.kind,
		"boundary", boundary)

	size := shape.Width * shape.Height
	bufs := make([][]float32, len(steps))
	for i, s := range steps {
		if s.expr.kind != KindInput {
			bufs[i] = planes.get(size)
		}
	}
	defer func() {
		for i, s := range steps {
			if s.expr.kind != KindInput {
				planes.put(bufs[i])
			}
		}
	}()

	for c := range shape.Channels {
		in := input.Plane(c)
		for i, s := range steps {
			if s.expr.kind == KindInput {
				bufs[i] = in
				continue
			}
			evalStep(bufs[i], s, bufs, shape.Width, shape.Height, boundary)
		}
		copy(out.Plane(c), bufs[len(bufs)-1])
	}

	return out, nil
}

// compile flattens the tree into post-order, visiting shared subtrees once.
func compile(root *Expr) ([]step, error) {
	type frame struct {
		expr     *Expr
		expanded bool
	}

	index := make(map[*Expr]int)
	var steps []step
	stack := []frame{{expr: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.expr == nil {
			return nil, fmt.Errorf("%w: nil expression node", sepconv.ErrConfiguration)
		}
		if _, done := index[f.expr]; done {
			continue
		}

		if !f.expanded {
			if err := checkArity(f.expr); err != nil {
				return nil, err
			}
			stack = append(stack, frame{expr: f.expr, expanded: true})
			for i := len(f.expr.args) - 1; i >= 0; i-- {
				stack = append(stack, frame{expr: f.expr.args[i]})
			}
			continue
		}

		args := make([]int, len(f.expr.args))
		for i, a := range f.expr.args {
			args[i] = index[a]
		}
		index[f.expr] = len(steps)
		steps = append(steps, step{expr: f.expr, args: args})
	}

	return steps, nil
}

func checkArity(e *Expr) error {
	n := len(e.args)
	ok := false
	switch e.kind {
	case KindInput, KindConst:
		ok = n == 0
	case KindShift:
		ok = n == 1
	case KindAdd, KindMul:
		ok = n >= 1
	case KindMin, KindMax:
		ok = n == 2
	}
	if !ok {
		return fmt.Errorf("%w: %s node with %d operands", sepconv.ErrConfiguration, e.kind, n)
	}
	return nil
}

func evalStep(dst []float32, s step, bufs [][]float32, width, height int, boundary sepconv.Boundary) {
	e := s.expr
	switch e.kind {
	case KindConst:
		for i := range dst {
			dst[i] = e.value
		}

	case KindShift:
		shift(dst, bufs[s.args[0]], width, height, e.dx, e.dy, boundary)

	case KindAdd:
		copy(dst, bufs[s.args[0]])
		for _, a := range s.args[1:] {
			for i, v := range bufs[a] {
				dst[i] += v
			}
		}

	case KindMul:
		copy(dst, bufs[s.args[0]])
		for _, a := range s.args[1:] {
			for i, v := range bufs[a] {
				dst[i] *= v
			}
		}

	case KindMin:
		a, b := bufs[s.args[0]], bufs[s.args[1]]
		for i := range dst {
			dst[i] = min(a[i], b[i])
		}

	case KindMax:
		a, b := bufs[s.args[0]], bufs[s.args[1]]
		for i := range dst {
			dst[i] = max(a[i], b[i])
		}
	}
}

// shift writes src read at (x+dx, y+dy) into dst.
func shift(dst, src []float32, width, height, dx, dy int, boundary sepconv.Boundary) {
	for y := range height {
		row := dst[y*width : (y+1)*width]
		sy, ok := boundary.Resolve(y+dy, height)
		if !ok {
			clear(row)
			continue
		}
		srcRow := src[sy*width : (sy+1)*width]
		for x := range row {
			sx, ok := boundary.Resolve(x+dx, width)
			if !ok {
				row[x] = 0
				continue
			}
			row[x] = srcRow[sx]
		}
	}
}
