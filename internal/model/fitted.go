// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file holds the helpers shared by every strategy for turning solver
// output into compiled expressions and compiled expressions into output.

package model

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/vk/symcreep/internal/config"
	"github.com/vk/symcreep/internal/ctxlog"
	"github.com/vk/symcreep/internal/engine"
	"github.com/vk/symcreep/internal/eval"
	"github.com/vk/symcreep/internal/latex"
	"github.com/vk/symcreep/internal/solver"
)

// Fitted is the immutable set of compiled expressions of one fit.
type Fitted struct {
	problems map[string]*engine.Expressions
}

// NewFitted returns a Fitted holding the given problems.
func NewFitted(problems map[string]*engine.Expressions) *Fitted {
	return &Fitted{problems: problems}
}

// Problem returns the expressions compiled for name.
func (f *Fitted) Problem(name string) (*engine.Expressions, error) {
	if f == nil {
		return nil, ErrNotFitted
	}
	e, ok := f.problems[name]
	if !ok {
		return nil, fmt.Errorf("no fitted problem %q", name)
	}
	return e, nil
}

// Problems returns the problem names in sorted order.
func (f *Fitted) Problems() []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, len(f.problems))
	for name := range f.problems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Find returns the expressions of the first problem, in sorted order, that
// assigns target.
func (f *Fitted) Find(target string) (*engine.Expressions, error) {
	if f == nil {
		return nil, ErrNotFitted
	}
	for _, name := range f.Problems() {
		if e := f.problems[name]; e.Has(target) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("no fitted problem assigns %q", target)
}

// Solve asks s for each problem in turn and compiles the answers. The
// problems are solved sequentially, in the order given.
func Solve(ctx context.Context, s solver.Solver, problems ...solver.Problem) (*FitResult, error) {
	compiled := make(map[string]*engine.Expressions, len(problems))
	solutions := make(map[string]solver.Solution, len(problems))
	model := ""

	for _, p := range problems {
		model = p.Model
		pctx, logger := ctxlog.With(ctx, "model", p.Model, "problem", p.Name)
		logger.Info("Solving regression problem.", "rows", len(p.Weights))
		sol, err := s.Solve(pctx, p)
		if err != nil {
			return nil, fmt.Errorf("problem %q: %w", p.Name, err)
		}
		e, err := engine.Compile(pctx, p.Template, sol.Expression, p.Spec, engine.WithParameters(sol.Parameters))
		if err != nil {
			return nil, fmt.Errorf("problem %q: %w", p.Name, err)
		}
		compiled[p.Name] = e
		solutions[p.Name] = sol
	}

	return &FitResult{
		Record: solver.Record(model, solutions),
		Fitted: NewFitted(compiled),
	}, nil
}

// Equations typesets each target as "lhs = rhs" using the definition's
// display names and significant figures. Each target is looked up in the
// problem that assigns it.
func Equations(f *Fitted, def *config.ModelDefinition, rename map[string]string, targets []string, opts ...latex.Option) ([]string, error) {
	opts = append([]latex.Option{latex.SignificantFigures(def.SignificantFigures)}, opts...)
	out := make([]string, 0, len(targets))
	for _, target := range targets {
		e, err := f.Find(target)
		if err != nil {
			return nil, err
		}
		s, err := e.Equation(target, rename, opts...)
		if err != nil {
			return nil, fmt.Errorf("rendering %q: %w", target, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Evaluate computes target in whichever problem assigns it, honouring the
// definition's strict flag.
func Evaluate(ctx context.Context, f *Fitted, def *config.ModelDefinition, target string, inputs map[string][]float64) ([]float64, error) {
	e, err := f.Find(target)
	if err != nil {
		return nil, err
	}
	v, err := e.Evaluate(ctx, target, inputs, eval.WithStrict(def.Strict))
	if errors.Is(err, eval.ErrMissingInput) {
		if need, lerr := e.Inputs(target); lerr == nil {
			return nil, fmt.Errorf("%w (%q needs %s)", err, target, strings.Join(need, ", "))
		}
	}
	return v, err
}

// DisplayNames merges overrides over defaults into a new map.
func DisplayNames(defaults, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(overrides))
	maps.Copy(out, defaults)
	maps.Copy(out, overrides)
	return out
}
