// Package pipeline evaluates per-sample image expressions.
//
// An expression is a tree of Input, Const, Shift, Add, Mul, Min and Max
// nodes describing one output sample in terms of input samples at the same
// channel. Evaluate interprets the tree over the whole input, one plane per
// node, so a separable blur or a point transform can be written once and
// run against any array.
//
//	// f(x, y, c) = min(2 * in(x, y, c), 1)
//	f := pipeline.Min(pipeline.Mul(pipeline.Const(2), pipeline.Input()), pipeline.Const(1))
//	out, err := pipeline.Evaluate(f, in, sepconv.Same)
package pipeline

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gogpu/sepconv"
)

// Kind tags the variant an Expr holds.
type Kind uint8

const (
	kindInvalid Kind = iota
	// KindInput reads the input sample.
	KindInput
	// KindConst is a scalar.
	KindConst
	// KindShift reads its operand at (x+DX, y+DY).
	KindShift
	// KindAdd sums its operands left to right.
	KindAdd
	// KindMul multiplies its operands left to right.
	KindMul
	// KindMin is the smaller of two operands.
	KindMin
	// KindMax is the larger of two operands.
	KindMax
)

var kindNames = [...]string{
	kindInvalid: "invalid",
	KindInput:   "in",
	KindConst:   "const",
	KindShift:   "shift",
	KindAdd:     "add",
	KindMul:     "mul",
	KindMin:     "min",
	KindMax:     "max",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Expr is an immutable expression node. Subtrees may be shared; Evaluate
// computes a shared subtree once.
type Expr struct {
	kind   Kind
	value  float32
	dx, dy int
	args   []*Expr
}

// Input returns the input sample.
func Input() *Expr { return &Expr{kind: KindInput} }

// Const returns a constant.
func Const(v float32) *Expr { return &Expr{kind: KindConst, value: v} }

// Shift reads e at (x+dx, y+dy). Coordinates outside the array resolve
// through the boundary policy given to Evaluate.
func Shift(e *Expr, dx, dy int) *Expr {
	return &Expr{kind: KindShift, dx: dx, dy: dy, args: []*Expr{e}}
}

// Add sums its operands in order.
func Add(a *Expr, rest ...*Expr) *Expr {
	return &Expr{kind: KindAdd, args: append([]*Expr{a}, rest...)}
}

// Mul multiplies its operands in order.
func Mul(a *Expr, rest ...*Expr) *Expr {
	return &Expr{kind: KindMul, args: append([]*Expr{a}, rest...)}
}

// Min returns the smaller operand.
func Min(a, b *Expr) *Expr { return &Expr{kind: KindMin, args: []*Expr{a, b}} }

// Max returns the larger operand.
func Max(a, b *Expr) *Expr { return &Expr{kind: KindMax, args: []*Expr{a, b}} }

// Kind returns the node variant.
func (e *Expr) Kind() Kind { return e.kind }

// Value returns the scalar of a Const node.
func (e *Expr) Value() float32 { return e.value }

// Offset returns the displacement of a Shift node.
func (e *Expr) Offset() (dx, dy int) { return e.dx, e.dy }

// Args returns a copy of the operands.
func (e *Expr) Args() []*Expr { return slices.Clone(e.args) }

// String renders the tree, e.g. "min(mul(2, in), 1)".
func (e *Expr) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Expr) write(sb *strings.Builder) {
	if e == nil {
		sb.WriteString("<nil>")
		return
	}
	switch e.kind {
	case KindInput:
		sb.WriteString("in")
		return
	case KindConst:
		sb.WriteString(strconv.FormatFloat(float64(e.value), 'g', -1, 32))
		return
	}
	sb.WriteString(e.kind.String())
	sb.WriteByte('(')
	for i, a := range e.args {
		if i > 0 {
			sb.WriteString(", ")
		}
		a.write(sb)
	}
	if e.kind == KindShift {
		fmt.Fprintf(sb, ", %d, %d", e.dx, e.dy)
	}
	sb.WriteByte(')')
}

// ScaleClamp is min(scale*in, limit), the per-sample brighten-and-clip
// transform.
func ScaleClamp(scale, limit float32) *Expr {
	return Min(Mul(Const(scale), Input()), Const(limit))
}

// SeparableBlur builds the tree for convolving rows with h and then columns
// with v, centered at each tap's Center. Evaluated under Same, Reflect or
// Replicate it matches sepconv.ConvolveSeparable with one group per channel.
func SeparableBlur(h, v sepconv.Tap) *Expr {
	return weightedShifts(weightedShifts(Input(), h, true), v, false)
}

func weightedShifts(e *Expr, tap sepconv.Tap, horizontal bool) *Expr {
	terms := make([]*Expr, tap.Len())
	for k := range terms {
		off := k - tap.Center()
		s := Shift(e, 0, off)
		if horizontal {
			s = Shift(e, off, 0)
		}
		terms[k] = Mul(Const(tap.Weight(k)), s)
	}
	return Add(terms[0], terms[1:]...)
}
