package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/symcreep/internal/config"
	"github.com/vk/symcreep/internal/engine"
	"github.com/vk/symcreep/internal/eval"
	"github.com/vk/symcreep/internal/solver"
)

func TestSolve(t *testing.T) {
	ctx := context.Background()
	answers := map[string]string{
		"ttf":    "p[1] / x0; p = [100]",
		"strain": "x0 * 0.001",
	}
	s := solver.Func(func(_ context.Context, p solver.Problem) (solver.Solution, error) {
		return solver.Solution{Expression: answers[p.Name]}, nil
	})

	res, err := Solve(ctx, s,
		solver.Problem{Model: "alloy", Name: "ttf", Spec: engine.Spec{Inputs: []string{"x0"}, OutputName: "ttf"}},
		solver.Problem{Model: "alloy", Name: "strain", Spec: engine.Spec{Inputs: []string{"x0"}, OutputName: "strain"}},
	)
	require.NoError(t, err)

	assert.Equal(t, "alloy", res.Record.Model)
	assert.Equal(t, answers, res.Record.Expressions)
	assert.Equal(t, []string{"strain", "ttf"}, res.Fitted.Problems())

	def := &config.ModelDefinition{SignificantFigures: 3}
	got, err := Evaluate(ctx, res.Fitted, def, "ttf", map[string][]float64{"x0": {50, 200}})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0.5}, got)

	eqs, err := Equations(res.Fitted, def, map[string]string{"x0": "\\sigma", "ttf": "t_{f}"}, []string{"ttf", "strain"})
	require.NoError(t, err)
	assert.Equal(t, []string{"t_{f} = \\frac{100}{\\sigma}", "strain = \\sigma \\cdot 0.001"}, eqs)

	_, err = Equations(res.Fitted, def, nil, []string{"nope"})
	assert.Error(t, err)
}

func TestSolve_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("solver error", func(t *testing.T) {
		s := solver.Func(func(context.Context, solver.Problem) (solver.Solution, error) {
			return solver.Solution{}, solver.ErrNoSolution
		})
		_, err := Solve(ctx, s, solver.Problem{Name: "default"})
		assert.True(t, errors.Is(err, solver.ErrNoSolution))
	})

	t.Run("compile error", func(t *testing.T) {
		s := solver.Func(func(context.Context, solver.Problem) (solver.Solution, error) {
			return solver.Solution{Expression: "#5"}, nil
		})
		_, err := Solve(ctx, s, solver.Problem{Name: "default", Spec: engine.Spec{Inputs: []string{"x0"}}})
		assert.ErrorContains(t, err, `problem "default"`)
	})
}

func TestFitted_NotFitted(t *testing.T) {
	var f *Fitted
	_, err := f.Problem("default")
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = f.Find("z0")
	assert.ErrorIs(t, err, ErrNotFitted)
	assert.Nil(t, f.Problems())

	_, err = Evaluate(context.Background(), f, &config.ModelDefinition{}, "z0", nil)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestEvaluate_Strict(t *testing.T) {
	ctx := context.Background()
	e, err := engine.Compile(ctx, "", "log(x0)", engine.Spec{Inputs: []string{"x0"}, OutputName: "y"})
	require.NoError(t, err)
	f := NewFitted(map[string]*engine.Expressions{config.DefaultProblem: e})

	_, err = Evaluate(ctx, f, &config.ModelDefinition{Strict: true}, "y", map[string][]float64{"x0": {-1}})
	assert.ErrorIs(t, err, eval.ErrNumericDomain)

	got, err := Evaluate(ctx, f, &config.ModelDefinition{}, "y", map[string][]float64{"x0": {1}})
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, got)
}

func TestEvaluate_MissingInputsNamed(t *testing.T) {
	ctx := context.Background()
	e, err := engine.Compile(ctx, "", "log(x0) + x1", engine.Spec{Inputs: []string{"x0", "x1"}, OutputName: "y"})
	require.NoError(t, err)
	f := NewFitted(map[string]*engine.Expressions{config.DefaultProblem: e})

	// --- Act ---
	_, err = Evaluate(ctx, f, &config.ModelDefinition{}, "y", map[string][]float64{"x0": {1}})

	// --- Assert ---
	assert.ErrorIs(t, err, eval.ErrMissingInput)
	assert.ErrorContains(t, err, `"y" needs x0, x1`)
}

func TestDisplayNames(t *testing.T) {
	defaults := map[string]string{"x0": "t", "x1": "\\sigma"}
	got := DisplayNames(defaults, map[string]string{"x0": "\\tau"})
	assert.Equal(t, map[string]string{"x0": "\\tau", "x1": "\\sigma"}, got)
	assert.Equal(t, "t", defaults["x0"])
}
