package eval

import (
	"fmt"
	"math"

	"github.com/vk/symcreep/internal/expr"
)

// A vector holds either one value per row or a single value broadcast to
// every row.
type vector []float64

func (v vector) at(i int) float64 {
	if len(v) == 1 {
		return v[0]
	}
	return v[i]
}

func unary(x vector, f func(float64) float64) vector {
	out := make(vector, len(x))
	for i, v := range x {
		out[i] = f(v)
	}
	return out
}

func binary(a, b vector, f func(x, y float64) float64) vector {
	n := max(len(a), len(b))
	out := make(vector, n)
	for i := range out {
		out[i] = f(a.at(i), b.at(i))
	}
	return out
}

// broadcast returns a new slice of rows values. It never aliases v, which
// may be a caller's input.
func (v vector) broadcast(rows int) []float64 {
	out := make([]float64, rows)
	if len(v) == rows {
		copy(out, v)
		return out
	}
	for i := range out {
		out[i] = v[0]
	}
	return out
}

var operators = map[expr.Op]func(x, y float64) float64{
	expr.OpAdd: func(x, y float64) float64 { return x + y },
	expr.OpSub: func(x, y float64) float64 { return x - y },
	expr.OpMul: func(x, y float64) float64 { return x * y },
	expr.OpDiv: func(x, y float64) float64 { return x / y },
	expr.OpPow: math.Pow,
}

var functions = map[string]func(float64) float64{
	"log":    math.Log,
	"log10":  math.Log10,
	"log2":   math.Log2,
	"exp":    math.Exp,
	"abs":    math.Abs,
	"sqrt":   math.Sqrt,
	"sin":    math.Sin,
	"cos":    math.Cos,
	"tan":    math.Tan,
	"sinh":   math.Sinh,
	"cosh":   math.Cosh,
	"tanh":   math.Tanh,
	"square": func(x float64) float64 { return x * x },
	"cube":   func(x float64) float64 { return x * x * x },
	"inv":    func(x float64) float64 { return 1 / x },
	"sign": func(x float64) float64 {
		if x == 0 || math.IsNaN(x) {
			return x
		}
		return math.Copysign(1, x)
	},
}

// computer evaluates the tree of one symbol against values, which must
// already hold every name the tree references. In strict mode every
// intermediate result is checked, so an invalid value cannot be hidden by
// a later operation such as 1/(1/x).
type computer struct {
	values map[string]vector
	symbol string
	strict bool
}

func (c *computer) compute(n expr.Node) (vector, error) {
	v, err := c.node(n)
	if err != nil {
		return nil, err
	}
	if c.strict {
		if err := checkDomain(c.symbol, v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (c *computer) node(n expr.Node) (vector, error) {
	switch n := n.(type) {
	case *expr.Literal:
		return vector{n.Value}, nil
	case *expr.Variable:
		v, ok := c.values[n.Name]
		if !ok {
			return nil, &MissingInputError{Name: n.Name}
		}
		return v, nil
	case *expr.Unary:
		x, err := c.compute(n.X)
		if err != nil {
			return nil, err
		}
		return unary(x, func(v float64) float64 { return -v }), nil
	case *expr.Binary:
		l, err := c.compute(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := c.compute(n.Right)
		if err != nil {
			return nil, err
		}
		return binary(l, r, operators[n.Op]), nil
	case *expr.Call:
		f, ok := functions[n.Func]
		if !ok || len(n.Args) != 1 {
			return nil, &expr.UnresolvedError{Node: n.Func + "(...)", Reason: "not a built-in function"}
		}
		x, err := c.compute(n.Args[0])
		if err != nil {
			return nil, err
		}
		return unary(x, f), nil
	}
	if err := expr.Unresolved(n); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("cannot evaluate %T", n)
}
