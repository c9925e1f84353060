// Package eval computes named symbols of a SymbolTable over a batch of
// input rows. Inputs of length one are broadcast to every row. Results of
// intermediate symbols are memoised for the duration of one call only.
package eval

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vk/symcreep/internal/ctxlog"
	"github.com/vk/symcreep/internal/expr"
	"github.com/vk/symcreep/internal/resolve"
)

// Option configures an evaluation.
type Option func(*options)

type options struct {
	strict bool
}

// Strict makes any NaN or infinite value fail the call with a
// *NumericDomainError, whether it appears in a named result or in an
// intermediate operation such as a division by zero.
func Strict() Option {
	return func(o *options) { o.strict = true }
}

// WithStrict sets strict mode from a flag.
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// Rows returns the common row count of inputs. Every vector must have that
// length or length one. With no inputs, or only scalars, the count is one.
func Rows(inputs map[string][]float64) (int, error) {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	rows, from := 1, ""
	for _, name := range names {
		l := len(inputs[name])
		if l == 1 {
			continue
		}
		if from == "" {
			rows, from = l, name
			continue
		}
		if l != rows {
			return 0, &ShapeMismatchError{Name: name, Length: l, Expected: rows}
		}
	}
	return rows, nil
}

// Evaluate computes target for every input row. Parameter references,
// placeholders and slot calls must have been substituted beforehand.
func Evaluate(ctx context.Context, st *expr.SymbolTable, target string, inputs map[string][]float64, opts ...Option) ([]float64, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := ctxlog.FromContext(ctx)

	rows, err := Rows(inputs)
	if err != nil {
		return nil, err
	}
	order, err := resolve.Closure(st, target)
	if err != nil {
		return nil, err
	}
	logger.Debug("Evaluating symbol.", "target", target, "rows", rows, "symbols", len(order), "strict", o.strict)
	if rows == 0 {
		return []float64{}, nil
	}

	values := make(map[string]vector, len(inputs)+len(order))
	for name, v := range inputs {
		if st.Has(name) {
			logger.Debug("Ignoring input that names an assigned symbol.", "name", name)
			continue
		}
		values[name] = vector(v)
	}

	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, _ := st.Lookup(name)
		if err := expr.Unresolved(n); err != nil {
			return nil, fmt.Errorf("symbol %q: %w", name, err)
		}
		c := computer{values: values, symbol: name, strict: o.strict}
		v, err := c.compute(n)
		if err != nil {
			var de *NumericDomainError
			if errors.As(err, &de) {
				return nil, err
			}
			return nil, fmt.Errorf("symbol %q: %w", name, err)
		}
		values[name] = v
	}

	return values[target].broadcast(rows), nil
}

func checkDomain(name string, v vector) error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return &NumericDomainError{Symbol: name, Row: i, Value: x}
		}
	}
	return nil
}

// EvaluateMany evaluates several targets concurrently over the same inputs.
// Each target gets its own memo; the first failure cancels the rest.
func EvaluateMany(ctx context.Context, st *expr.SymbolTable, targets []string, inputs map[string][]float64, opts ...Option) (map[string][]float64, error) {
	var mu sync.Mutex
	results := make(map[string][]float64, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		g.Go(func() error {
			v, err := Evaluate(gctx, st, target, inputs, opts...)
			if err != nil {
				return fmt.Errorf("evaluating %q: %w", target, err)
			}
			mu.Lock()
			results[target] = v
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
