// Package latex typesets named symbols of a SymbolTable as LaTeX.
//
// Referenced intermediate symbols are inlined unless the caller keeps them
// opaque, free variables are renamed through a caller-supplied map, and
// literals can be rounded to a number of significant figures. Rounding only
// affects the text; evaluation always uses the full-precision tree.
package latex

import (
	"strconv"
	"strings"

	"github.com/vk/symcreep/internal/expr"
	"github.com/vk/symcreep/internal/resolve"
)

// Option configures rendering.
type Option func(*options)

type options struct {
	sigFigs int
	keep    map[string]bool
	keepAll bool
}

// SignificantFigures rounds every displayed literal to n significant
// figures. Zero or less prints literals in full.
func SignificantFigures(n int) Option {
	return func(o *options) { o.sigFigs = n }
}

// KeepSymbols leaves the named intermediate symbols as opaque names
// instead of inlining their definitions.
func KeepSymbols(names ...string) Option {
	return func(o *options) {
		for _, n := range names {
			o.keep[n] = true
		}
	}
}

// KeepAllSymbols leaves every referenced intermediate symbol opaque.
func KeepAllSymbols() Option {
	return func(o *options) { o.keepAll = true }
}

func newOptions(opts []Option) *options {
	o := &options{keep: make(map[string]bool)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Render typesets target. Names in rename replace free variables; names
// not in the map are printed unchanged.
func Render(st *expr.SymbolTable, target string, rename map[string]string, opts ...Option) (string, error) {
	o := newOptions(opts)
	tree, err := Inline(st, target, opts...)
	if err != nil {
		return "", err
	}
	w := &writer{rename: rename, sigFigs: o.sigFigs}
	return w.node(tree), nil
}

// Equation typesets target as "lhs = rhs" where lhs is the renamed target.
func Equation(st *expr.SymbolTable, target string, rename map[string]string, opts ...Option) (string, error) {
	rhs, err := Render(st, target, rename, opts...)
	if err != nil {
		return "", err
	}
	lhs := target
	if r, ok := rename[target]; ok {
		lhs = r
	}
	return lhs + " = " + rhs, nil
}

// Inline returns the tree of target with referenced intermediate symbols
// substituted by their own trees, honouring KeepSymbols and KeepAllSymbols.
func Inline(st *expr.SymbolTable, target string, opts ...Option) (expr.Node, error) {
	o := newOptions(opts)
	order, err := resolve.Closure(st, target)
	if err != nil {
		return nil, err
	}

	inlined := make(map[string]expr.Node, len(order))
	for _, name := range order {
		n, _ := st.Lookup(name)
		out, err := expr.Rewrite(n, func(n expr.Node) (expr.Node, error) {
			v, ok := n.(*expr.Variable)
			if !ok || o.keepAll || o.keep[v.Name] {
				return n, nil
			}
			if body, ok := inlined[v.Name]; ok {
				return body, nil
			}
			return n, nil
		})
		if err != nil {
			return nil, err
		}
		if err := expr.Unresolved(out); err != nil {
			return nil, err
		}
		inlined[name] = out
	}
	return inlined[target], nil
}

type writer struct {
	rename  map[string]string
	sigFigs int
}

func (w *writer) node(n expr.Node) string {
	switch n := n.(type) {
	case *expr.Literal:
		return w.number(n.Value)
	case *expr.Variable:
		if r, ok := w.rename[n.Name]; ok {
			return r
		}
		return n.Name
	case *expr.Unary:
		return "-" + w.wrapIf(n.X, expr.Precedence(n.X) < expr.PrecMul || negative(n.X))
	case *expr.Binary:
		return w.binary(n)
	case *expr.Call:
		return w.call(n)
	}
	return n.String()
}

func (w *writer) binary(n *expr.Binary) string {
	switch n.Op {
	case expr.OpAdd:
		// a + -b prints as a - b.
		switch r := n.Right.(type) {
		case *expr.Literal:
			if negative(r) {
				return w.node(n.Left) + " - " + w.number(-r.Value)
			}
		case *expr.Unary:
			return w.node(n.Left) + " - " + w.wrapIf(r.X, expr.Precedence(r.X) <= expr.PrecAdd || negative(r.X))
		}
		return w.node(n.Left) + " + " + w.node(n.Right)

	case expr.OpSub:
		return w.node(n.Left) + " - " + w.wrapIf(n.Right, expr.Precedence(n.Right) <= expr.PrecAdd || negative(n.Right))

	case expr.OpMul:
		left := w.wrapIf(n.Left, expr.Precedence(n.Left) <= expr.PrecAdd)
		right := w.wrapIf(n.Right, expr.Precedence(n.Right) <= expr.PrecAdd || negative(n.Right))
		if startsWithDigit(right) {
			return left + " \\cdot " + right
		}
		return left + " " + right

	case expr.OpDiv:
		return "\\frac{" + w.node(n.Left) + "}{" + w.node(n.Right) + "}"

	case expr.OpPow:
		return w.base(n.Left) + "^{" + w.node(n.Right) + "}"
	}
	return n.String()
}

func (w *writer) call(n *expr.Call) string {
	arg := ""
	if len(n.Args) == 1 {
		arg = w.node(n.Args[0])
	}
	switch n.Func {
	case "log":
		return "\\log\\left(" + arg + "\\right)"
	case "log10":
		return "\\log_{10}\\left(" + arg + "\\right)"
	case "log2":
		return "\\log_{2}\\left(" + arg + "\\right)"
	case "exp":
		return "e^{" + arg + "}"
	case "abs":
		return "\\left|" + arg + "\\right|"
	case "sqrt":
		return "\\sqrt{" + arg + "}"
	case "sin", "cos", "tan", "sinh", "cosh", "tanh":
		return "\\" + n.Func + "\\left(" + arg + "\\right)"
	case "square":
		return w.base(n.Args[0]) + "^{2}"
	case "cube":
		return w.base(n.Args[0]) + "^{3}"
	case "inv":
		return "\\frac{1}{" + arg + "}"
	}
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = w.node(a)
	}
	return "\\operatorname{" + n.Func + "}\\left(" + strings.Join(args, ", ") + "\\right)"
}

// base prints the base of a power, bracketing anything that is not a
// plain name or non-negative number.
func (w *writer) base(n expr.Node) string {
	s := w.node(n)
	switch n.(type) {
	case *expr.Variable:
		return s
	case *expr.Literal:
		if !negative(n) && !strings.Contains(s, "\\cdot") {
			return s
		}
	}
	return "\\left(" + s + "\\right)"
}

func (w *writer) wrapIf(n expr.Node, cond bool) string {
	if cond {
		return "\\left(" + w.node(n) + "\\right)"
	}
	return w.node(n)
}

// number prints v, rounded when significant figures are set. Exponents
// outside [-4, 6) are printed as m \cdot 10^{e}.
func (w *writer) number(v float64) string {
	v = expr.RoundSignificant(v, w.sigFigs)
	s := expr.FormatNumber(v)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	e, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	pow := "10^{" + strconv.Itoa(e) + "}"
	switch mant {
	case "1":
		return pow
	case "-1":
		return "-" + pow
	}
	return mant + " \\cdot " + pow
}

func negative(n expr.Node) bool {
	switch n := n.(type) {
	case *expr.Literal:
		return n.Value < 0
	case *expr.Unary:
		return true
	}
	return false
}

func startsWithDigit(s string) bool {
	return s != "" && (s[0] >= '0' && s[0] <= '9' || s[0] == '.')
}
