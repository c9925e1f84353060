package expr

import (
	"math"
	"strconv"
	"strings"
)

// Op is an arithmetic operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpNeg
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub, OpNeg:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "^"
	}
	return "?"
}

// Binding strengths, loosest first. Unary minus binds tighter than every
// binary operator, so -2^2 is (-2)^2.
const (
	PrecAdd = iota + 1
	PrecMul
	PrecPow
	PrecUnary
	PrecAtom
)

// Precedence returns the binding strength of a binary or unary operator.
func (o Op) Precedence() int {
	switch o {
	case OpAdd, OpSub:
		return PrecAdd
	case OpMul, OpDiv:
		return PrecMul
	case OpPow:
		return PrecPow
	}
	return PrecUnary
}

// Node is an immutable expression tree node. String returns the node in
// template syntax; parsing that text yields an equal tree, except for
// literals holding NaN or an infinity, which print as NaN, +Inf or -Inf and
// have no template spelling.
type Node interface {
	String() string
	exprNode()
}

// Literal is a numeric constant.
type Literal struct {
	Value float64
}

// Variable is a reference to a named symbol or an external input.
type Variable struct {
	Name string
}

// ParamRef is a 1-indexed reference into a parameter vector, as in p[3].
type ParamRef struct {
	Group string
	Index int
}

// Placeholder is a 1-indexed positional argument, as in #2.
type Placeholder struct {
	Index int
}

// Unary is a prefix operation. OpNeg is the only unary operator.
type Unary struct {
	Op Op
	X  Node
}

// Binary is an infix operation.
type Binary struct {
	Op          Op
	Left, Right Node
}

// Call applies a built-in function or a sub-expression slot to arguments.
type Call struct {
	Func string
	Args []Node
}

func (*Literal) exprNode()     {}
func (*Variable) exprNode()    {}
func (*ParamRef) exprNode()    {}
func (*Placeholder) exprNode() {}
func (*Unary) exprNode()       {}
func (*Binary) exprNode()      {}
func (*Call) exprNode()        {}

// Num, Var, Neg and Bin are shorthand constructors.
func Num(v float64) *Literal { return &Literal{Value: v} }

func Var(name string) *Variable { return &Variable{Name: name} }

func Neg(x Node) *Unary { return &Unary{Op: OpNeg, X: x} }

func Bin(op Op, left, right Node) *Binary { return &Binary{Op: op, Left: left, Right: right} }

func (n *Literal) String() string { return FormatNumber(n.Value) }

func (n *Variable) String() string { return n.Name }

func (n *ParamRef) String() string { return n.Group + "[" + strconv.Itoa(n.Index) + "]" }

func (n *Placeholder) String() string { return "#" + strconv.Itoa(n.Index) }

func (n *Unary) String() string {
	return n.Op.String() + operand(n.X, PrecUnary, true)
}

func (n *Binary) String() string {
	p := n.Op.Precedence()
	// '^' is right-associative, the others associate to the left.
	leftStrict := n.Op == OpPow
	rightStrict := n.Op != OpPow
	return operand(n.Left, p, leftStrict) + " " + n.Op.String() + " " + operand(n.Right, p, rightStrict)
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Func + "(" + strings.Join(args, ", ") + ")"
}

// operand prints a child of an operator, adding parentheses when its own
// binding is looser than the parent's.
func operand(n Node, parent int, strict bool) string {
	p := Precedence(n)
	if p < parent || (strict && p == parent) {
		return "(" + n.String() + ")"
	}
	return n.String()
}

// Precedence reports how tightly a node binds when printed. Negative
// literals print with a leading minus and so bind like a unary negation.
func Precedence(n Node) int {
	switch n := n.(type) {
	case *Binary:
		return n.Op.Precedence()
	case *Unary:
		return PrecUnary
	case *Literal:
		if math.Signbit(n.Value) {
			return PrecUnary
		}
	}
	return PrecAtom
}

// Equal reports whether two trees are structurally identical.
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case *Literal:
		b, ok := b.(*Literal)
		return ok && (a.Value == b.Value || (math.IsNaN(a.Value) && math.IsNaN(b.Value)))
	case *Variable:
		b, ok := b.(*Variable)
		return ok && a.Name == b.Name
	case *ParamRef:
		b, ok := b.(*ParamRef)
		return ok && *a == *b
	case *Placeholder:
		b, ok := b.(*Placeholder)
		return ok && a.Index == b.Index
	case *Unary:
		b, ok := b.(*Unary)
		return ok && a.Op == b.Op && Equal(a.X, b.X)
	case *Binary:
		b, ok := b.(*Binary)
		return ok && a.Op == b.Op && Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
	case *Call:
		b, ok := b.(*Call)
		if !ok || a.Func != b.Func || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	}
	return a == nil && b == nil
}
