package template

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/symcreep/internal/config"
	"github.com/vk/symcreep/internal/model"
	"github.com/vk/symcreep/internal/solver"
)

func definition() *config.ModelDefinition {
	return &config.ModelDefinition{
		Kind:       Kind,
		Name:       "power",
		Template:   "A = 10^p[1]; z0 = A*x0^abs(p[2]) + f0(x0); ((y0 - z0)/y0)^2",
		Inputs:     []string{"x0", "y0"},
		Outputs:    []string{"y0"},
		Slots:      []string{"f0"},
		Parameters: map[string]int{"p": 2},
		Targets:    []string{"z0", "A"},
		Columns:    map[string]string{"x0": "stress", "y0": "rate", "z0": "rate"},
		Display:    map[string]string{"x0": "\\sigma", "z0": "\\dot{\\varepsilon}"},
	}
}

func data() []*model.Dataset {
	return []*model.Dataset{{Name: "t1", Fields: map[string][]float64{
		"stress": {1, 2, 3},
		"rate":   {0.1, 0.4, 0.9},
	}}}
}

func TestModel(t *testing.T) {
	ctx := context.Background()
	var seen solver.Problem
	s := solver.Func(func(_ context.Context, p solver.Problem) (solver.Solution, error) {
		seen = p
		return solver.Solution{Expression: "f0 = #1 * 0; p = [-1, 2]"}, nil
	})

	m := New()
	require.NoError(t, m.Initialise(ctx, definition()))
	res, err := m.Fit(ctx, s, data())
	require.NoError(t, err)

	t.Run("fit problem", func(t *testing.T) {
		assert.Equal(t, definition().Template, seen.Template)
		assert.Equal(t, []float64{1, 2, 3}, seen.Data["x0"])
		assert.Equal(t, []float64{0.1, 0.4, 0.9}, seen.Data["y0"])
		got, _ := res.Record.Expression(config.DefaultProblem)
		assert.Equal(t, "f0 = #1 * 0; p = [-1, 2]", got)
	})

	t.Run("predict needs no observations", func(t *testing.T) {
		preds, err := m.Predict(ctx, []*model.Dataset{{Name: "p", Fields: map[string][]float64{"stress": {4}}}})
		require.NoError(t, err)
		require.Len(t, preds, 1)
		assert.InDeltaSlice(t, []float64{1.6}, preds[0].Fields["rate"], 1e-12)
		assert.InDeltaSlice(t, []float64{0.1}, preds[0].Fields["A"], 1e-12)
	})

	t.Run("display", func(t *testing.T) {
		got, err := m.DisplayExpressions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"\\dot{\\varepsilon} = 10^{-1} \\sigma^{\\left|2\\right|} + \\sigma \\cdot 0",
			"A = 10^{-1}",
		}, got)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := m.Evaluate(ctx, "missing", nil)
		assert.ErrorContains(t, err, `"missing"`)
	})
}

func TestModel_Initialise(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name   string
		modify func(*config.ModelDefinition)
		want   string
	}{
		{"no template", func(d *config.ModelDefinition) { d.Template = "" }, "template is required"},
		{"no targets", func(d *config.ModelDefinition) { d.Targets = nil }, "target is required"},
		{"no inputs", func(d *config.ModelDefinition) { d.Inputs = nil }, "input is required"},
		{"unknown output", func(d *config.ModelDefinition) { d.Outputs = []string{"y9"} }, `"y9"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := definition()
			tc.modify(def)
			err := New().Initialise(ctx, def)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}
