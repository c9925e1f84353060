// Package solver defines the boundary to the external regression search.
//
// A Solver receives one regression problem and returns the best expression
// it found in the template language, together with any parameter groups
// that were fitted outside the expression text. The search itself is not
// part of this module; Replay serves recorded results so a fit can be
// reproduced without rerunning it.
package solver

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/vk/symcreep/internal/config"
	"github.com/vk/symcreep/internal/ctxlog"
	"github.com/vk/symcreep/internal/engine"
)

// ErrNoSolution is returned when a solver has nothing for a problem.
var ErrNoSolution = errors.New("no solution")

// Problem describes one regression to solve.
type Problem struct {
	// Model is the name of the model definition the problem belongs to.
	Model string
	// Name identifies the problem within the model, e.g. "ttf".
	Name string
	// Template is the combining template, empty for a plain regression.
	Template string
	Spec     engine.Spec
	// Data holds one column per input and output name.
	Data    map[string][]float64
	Weights []float64
}

// Solution is the solver's answer to a Problem.
type Solution struct {
	// Expression is the raw solver output in the template language.
	Expression string
	// Parameters holds groups that override those in Expression.
	Parameters map[string][]float64
}

// Solver finds an expression for a regression problem.
type Solver interface {
	Solve(ctx context.Context, p Problem) (Solution, error)
}

// Func adapts a function to the Solver interface.
type Func func(ctx context.Context, p Problem) (Solution, error)

// Solve calls f.
func (f Func) Solve(ctx context.Context, p Problem) (Solution, error) { return f(ctx, p) }

// Replay answers problems from a recorded fit.
type Replay struct {
	record *config.FitRecord
}

// NewReplay returns a solver that replays rec.
func NewReplay(rec *config.FitRecord) *Replay {
	return &Replay{record: rec}
}

// Solve returns the recorded expression for the problem's name.
func (r *Replay) Solve(ctx context.Context, p Problem) (Solution, error) {
	if err := ctx.Err(); err != nil {
		return Solution{}, err
	}
	if r.record == nil || r.record.Model != p.Model {
		return Solution{}, fmt.Errorf("%w: no fit recorded for model %q", ErrNoSolution, p.Model)
	}
	s, ok := r.record.Expression(p.Name)
	if !ok {
		return Solution{}, fmt.Errorf("%w: fit for model %q has no %q expression (have %v)", ErrNoSolution, p.Model, p.Name, r.record.Problems())
	}
	ctxlog.FromContext(ctx).Debug("Replaying recorded solution.", "model", p.Model, "problem", p.Name)

	sol := Solution{Expression: s}
	if len(r.record.Parameters) > 0 {
		sol.Parameters = make(map[string][]float64, len(r.record.Parameters))
		for name, vals := range r.record.Parameters {
			sol.Parameters[name] = slices.Clone(vals)
		}
	}
	return sol, nil
}

// Record collects the solutions of a fit into a FitRecord.
func Record(model string, solutions map[string]Solution) *config.FitRecord {
	rec := &config.FitRecord{Model: model, Expressions: make(map[string]string, len(solutions))}
	for name, sol := range solutions {
		rec.Expressions[name] = sol.Expression
		if len(sol.Parameters) > 0 {
			if rec.Parameters == nil {
				rec.Parameters = make(map[string][]float64)
			}
			maps.Copy(rec.Parameters, sol.Parameters)
		}
	}
	return rec
}
