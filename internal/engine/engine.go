package engine

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/vk/symcreep/internal/ctxlog"
	"github.com/vk/symcreep/internal/eval"
	"github.com/vk/symcreep/internal/expr"
	"github.com/vk/symcreep/internal/latex"
	"github.com/vk/symcreep/internal/resolve"
)

// Spec is the static shape of a model's expressions.
type Spec struct {
	// Inputs are the free input variables, addressed by #1..#len(Inputs).
	Inputs []string
	// Slots are the sub-expressions the solver fits, addressed by the
	// placeholders after the inputs and callable from the template.
	Slots []string
	// Parameters declares the expected size of each parameter group.
	Parameters map[string]int
	// OutputName names a bare expression. Defaults to expr.DefaultOutputName.
	OutputName string
}

// Placeholders returns the names #1, #2, ... map to.
func (s Spec) Placeholders() []string {
	out := make([]string, 0, len(s.Inputs)+len(s.Slots))
	out = append(out, s.Inputs...)
	return append(out, s.Slots...)
}

func (s Spec) parseOptions() []expr.ParseOption {
	opts := []expr.ParseOption{expr.WithSlots(s.Slots...)}
	if s.OutputName != "" {
		opts = append(opts, expr.WithOutputName(s.OutputName))
	}
	return opts
}

// Option configures Compile.
type Option func(*options)

type options struct {
	groups map[string][]float64
}

// WithParameters supplies parameter groups that take precedence over the
// groups declared in the template and in the solver output.
func WithParameters(groups map[string][]float64) Option {
	return func(o *options) {
		for name, vals := range groups {
			o.groups[name] = slices.Clone(vals)
		}
	}
}

// Compile builds the expressions of one fit. An empty template means the
// solver output is the model itself; otherwise the solver output supplies
// slot bodies and parameter groups for the template.
func Compile(ctx context.Context, template, solverOutput string, spec Spec, opts ...Option) (*Expressions, error) {
	o := &options{groups: make(map[string][]float64)}
	for _, opt := range opts {
		opt(o)
	}
	logger := ctxlog.FromContext(ctx)

	solved, err := expr.Parse(solverOutput, spec.parseOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse solver output: %w", err)
	}

	table := solved
	groups := make(map[string][]float64)
	if template != "" {
		table, err = expr.Parse(template, spec.parseOptions()...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template: %w", err)
		}
		maps.Copy(groups, table.Parameters())
		for _, name := range solved.Names() {
			if !slices.Contains(spec.Slots, name) {
				logger.Warn("Ignoring solver symbol that is not a slot.", "symbol", name)
			}
		}
	}
	maps.Copy(groups, solved.Parameters())
	maps.Copy(groups, o.groups)

	for name, size := range spec.Parameters {
		if got, ok := groups[name]; !ok || len(got) != size {
			logger.Warn("Parameter group size differs from declaration.", "group", name, "declared", size, "got", len(got))
		}
	}

	bodies := make(map[string]expr.Node, len(spec.Slots))
	for _, slot := range spec.Slots {
		body, ok := solved.Lookup(slot)
		if !ok {
			logger.Warn("Slot has no fitted body.", "slot", slot)
			continue
		}
		bodies[slot] = body
	}

	names := spec.Placeholders()
	logger.Debug("Mapping placeholders.", "names", names)

	table, err = table.Transform(func(_ string, n expr.Node) (expr.Node, error) {
		n, err := expr.InlineSlots(n, bodies)
		if err != nil {
			return nil, err
		}
		n, err = expr.InlinePlaceholders(n, names)
		if err != nil {
			return nil, err
		}
		n, err = expr.InlineParameters(n, groups)
		if err != nil {
			return nil, err
		}
		if err := expr.MissingParameters(n); err != nil {
			return nil, err
		}
		return n, nil
	})
	if err != nil {
		return nil, err
	}

	order, err := resolve.TopoOrder(table)
	if err != nil {
		return nil, err
	}

	logger.Debug("Compiled expressions.", "symbols", table.Len(), "groups", len(groups), "templated", template != "")
	return &Expressions{spec: spec, table: table, order: order, groups: groups}, nil
}

// Expressions is the compiled, immutable result of one fit.
type Expressions struct {
	spec   Spec
	table  *expr.SymbolTable
	order  []string
	groups map[string][]float64
}

// Spec returns the shape the expressions were compiled against.
func (e *Expressions) Spec() Spec { return e.spec }

// Table returns the fully substituted symbol table.
func (e *Expressions) Table() *expr.SymbolTable { return e.table }

// Names returns the assigned symbols in declaration order.
func (e *Expressions) Names() []string { return e.table.Names() }

// Order returns the assigned symbols in evaluation order.
func (e *Expressions) Order() []string { return slices.Clone(e.order) }

// Has reports whether name is an assigned symbol.
func (e *Expressions) Has(name string) bool { return e.table.Has(name) }

// Output returns the name of the bare expression, if any.
func (e *Expressions) Output() string { return e.table.Output() }

// Parameters returns a copy of the parameter groups that were inlined.
func (e *Expressions) Parameters() map[string][]float64 {
	out := make(map[string][]float64, len(e.groups))
	for name, vals := range e.groups {
		out[name] = slices.Clone(vals)
	}
	return out
}

// Evaluate computes target for every input row.
func (e *Expressions) Evaluate(ctx context.Context, target string, inputs map[string][]float64, opts ...eval.Option) ([]float64, error) {
	return eval.Evaluate(ctx, e.table, target, inputs, opts...)
}

// EvaluateMany computes several targets concurrently over the same inputs.
func (e *Expressions) EvaluateMany(ctx context.Context, targets []string, inputs map[string][]float64, opts ...eval.Option) (map[string][]float64, error) {
	return eval.EvaluateMany(ctx, e.table, targets, inputs, opts...)
}

// Inputs returns the unassigned names target depends on, which callers
// must supply when evaluating it.
func (e *Expressions) Inputs(target string) ([]string, error) {
	return resolve.Leaves(e.table, target)
}

// LaTeX typesets target.
func (e *Expressions) LaTeX(target string, rename map[string]string, opts ...latex.Option) (string, error) {
	return latex.Render(e.table, target, rename, opts...)
}

// Equation typesets target as "lhs = rhs".
func (e *Expressions) Equation(target string, rename map[string]string, opts ...latex.Option) (string, error) {
	return latex.Equation(e.table, target, rename, opts...)
}

// String prints every symbol with full-precision literals.
func (e *Expressions) String() string { return e.table.String() }
