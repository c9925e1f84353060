package basic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/symcreep/internal/config"
	"github.com/vk/symcreep/internal/model"
	"github.com/vk/symcreep/internal/registry"
	"github.com/vk/symcreep/internal/solver"
)

func newModel(t *testing.T, def *config.ModelDefinition) *Model {
	t.Helper()
	m := New()
	require.NoError(t, m.Initialise(context.Background(), def))
	return m
}

func TestModel(t *testing.T) {
	ctx := context.Background()
	def := &config.ModelDefinition{
		Kind:               Kind,
		Name:               "line",
		Inputs:             []string{"x0", "x1"},
		Outputs:            []string{"y0"},
		Columns:            map[string]string{"x0": "time", "x1": "stress", "y0": "strain"},
		Display:            map[string]string{"x0": "t", "x1": "\\sigma", "y0": "\\varepsilon"},
		SignificantFigures: 3,
	}
	data := []*model.Dataset{{Name: "t1", Fields: map[string][]float64{
		"time":   {1, 2, 3},
		"stress": {10},
		"strain": {0.1, 0.2, 0.3},
	}}}

	var seen solver.Problem
	s := solver.Func(func(_ context.Context, p solver.Problem) (solver.Solution, error) {
		seen = p
		return solver.Solution{Expression: "#1 * #2 * 0.0123456; p = [1]"}, nil
	})

	m := newModel(t, def)

	_, err := m.DisplayExpressions(ctx)
	assert.ErrorIs(t, err, model.ErrNotFitted)
	_, err = m.Predict(ctx, data)
	assert.ErrorIs(t, err, model.ErrNotFitted)

	res, err := m.Fit(ctx, s, data)
	require.NoError(t, err)

	t.Run("problem", func(t *testing.T) {
		assert.Equal(t, "line", seen.Model)
		assert.Equal(t, config.DefaultProblem, seen.Name)
		assert.Equal(t, "y0", seen.Spec.OutputName)
		assert.Equal(t, []float64{10, 10, 10}, seen.Data["x1"])
		assert.Equal(t, []float64{0.1, 0.2, 0.3}, seen.Data["y0"])
		assert.Equal(t, []float64{1, 1, 1}, seen.Weights)
		assert.Equal(t, "#1 * #2 * 0.0123456; p = [1]", res.Record.Expressions[config.DefaultProblem])
	})

	t.Run("display", func(t *testing.T) {
		got, err := m.DisplayExpressions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"\\varepsilon = t \\sigma \\cdot 0.0123"}, got)
	})

	t.Run("predict", func(t *testing.T) {
		preds, err := m.Predict(ctx, data)
		require.NoError(t, err)
		require.Len(t, preds, 1)
		assert.InDeltaSlice(t, []float64{0.123456, 0.246912, 0.370368}, preds[0].Fields["strain"], 1e-12)
	})

	t.Run("evaluate", func(t *testing.T) {
		got, err := m.Evaluate(ctx, "y0", map[string][]float64{"x0": {2}, "x1": {5}})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0.123456}, got, 1e-12)
	})
}

func TestModel_Initialise(t *testing.T) {
	ctx := context.Background()

	assert.Error(t, New().Initialise(ctx, &config.ModelDefinition{}))
	assert.Error(t, New().Initialise(ctx, &config.ModelDefinition{Inputs: []string{"x0"}, Template: "z = x0"}))

	m := newModel(t, &config.ModelDefinition{Inputs: []string{"x0"}})
	assert.Equal(t, "f", m.output)
	m = newModel(t, &config.ModelDefinition{Inputs: []string{"x0"}, Outputs: []string{"y0"}, OutputName: "g"})
	assert.Equal(t, "g", m.output)
}

func TestModule_Register(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	m, err := r.New(Kind)
	require.NoError(t, err)
	assert.Equal(t, Kind, m.Kind())
}
