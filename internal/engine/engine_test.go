package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/symcreep/internal/eval"
	"github.com/vk/symcreep/internal/expr"
	"github.com/vk/symcreep/internal/latex"
	"github.com/vk/symcreep/internal/resolve"
)

const krTemplate = `
	A = 10^p[1]; n = abs(p[2]); M = 10^p[3]; phi = abs(p[4]); chi = abs(p[5]);
	z0 = A*x1^n * ((1-(phi+1)*M*x1^chi*x0)^((phi+1-n)/(phi+1))-1) / (M*x1^chi*(n-phi-1)) + f0(x0,x1,x2);
	z1 = 1/((phi+1)*M*x1^chi) + f1(x1,x2);
	z2 = A*x1^n / (M*x1^chi*(phi+1-n)) + f0(x0,x1,x2);
	((y0-z0)/y0)^2 + ((y1-z1)/y1)^2 + ((y2-z2)/y2)^2
`

var krSpec = Spec{
	Inputs:     []string{"x0", "x1", "x2", "y0", "y1", "y2"},
	Slots:      []string{"f0", "f1"},
	Parameters: map[string]int{"p": 5},
}

func TestCompile_Template(t *testing.T) {
	ctx := context.Background()

	t.Run("solver slot bodies are bound to call arguments", func(t *testing.T) {
		// --- Arrange ---
		solver := "f0 = #1 * 0; f1 = #2 * 0.5; p = [0, 1, -1, 0, 1]"

		// --- Act ---
		e, err := Compile(ctx, krTemplate, solver, krSpec)
		require.NoError(t, err)
		got, err := e.Evaluate(ctx, "z1", map[string][]float64{"x1": {2}, "x2": {4}})

		// --- Assert ---
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.InDelta(t, 7.0, got[0], 1e-12)
		z1, _ := e.Table().Lookup("z1")
		assert.ElementsMatch(t, []string{"M", "chi", "phi", "x1", "x2"}, expr.Variables(z1))
		assert.Empty(t, expr.Calls(z1))
	})

	t.Run("solver output with parameters in scientific notation", func(t *testing.T) {
		solver := "f1 = #2 * 12376.228496393594; p = [12464.824043183033, 1.9615939337418535, -12464.824101263024, 0.8152816667838239, -3.3670639500886685e-8]"

		e, err := Compile(ctx, krTemplate, solver, krSpec)
		require.NoError(t, err)

		assert.Equal(t, []float64{12464.824043183033, 1.9615939337418535, -12464.824101263024, 0.8152816667838239, -3.3670639500886685e-8}, e.Parameters()["p"])

		rename := map[string]string{"x1": "\\sigma", "x2": "T", "phi": "\\phi", "chi": "\\chi", "z1": "t_{f}"}
		got, err := e.Equation("z1", rename, latex.KeepSymbols("M", "phi", "chi"), latex.SignificantFigures(8))
		require.NoError(t, err)
		assert.Equal(t, "t_{f} = \\frac{1}{\\left(\\phi + 1\\right) M \\sigma^{\\chi}} + T \\cdot 12376.228", got)
	})

	t.Run("slot without a fitted body stays unresolved", func(t *testing.T) {
		e, err := Compile(ctx, krTemplate, "f1 = #1; p = [0, 1, -1, 0, 1]", krSpec)
		require.NoError(t, err)

		_, err = e.Evaluate(ctx, "z0", map[string][]float64{"x0": {1}, "x1": {1}, "x2": {1}})
		assert.True(t, errors.Is(err, expr.ErrUnresolved))

		_, err = e.Evaluate(ctx, "z1", map[string][]float64{"x1": {1}, "x2": {1}})
		assert.NoError(t, err)
	})

	t.Run("slot body reaching past its arguments", func(t *testing.T) {
		_, err := Compile(ctx, krTemplate, "f1 = #3; p = [0, 1, -1, 0, 1]", krSpec)
		var pr *expr.PlaceholderRangeError
		require.ErrorAs(t, err, &pr)
		assert.Equal(t, 3, pr.Index)
		assert.Equal(t, 2, pr.Size)
	})

	t.Run("missing parameter group", func(t *testing.T) {
		_, err := Compile(ctx, krTemplate, "f0 = #1; f1 = #1", krSpec)
		assert.True(t, errors.Is(err, expr.ErrMissingParameter))
	})

	t.Run("cyclic template", func(t *testing.T) {
		_, err := Compile(ctx, "a = b + 1; b = a * 2", "", Spec{})
		var ce *resolve.CyclicDependencyError
		require.ErrorAs(t, err, &ce)
		assert.ElementsMatch(t, []string{"a", "b"}, ce.Members)
	})

	t.Run("malformed solver output", func(t *testing.T) {
		_, err := Compile(ctx, krTemplate, "f0 = #1 +", krSpec)
		assert.True(t, errors.Is(err, expr.ErrSyntax))
	})
}

func TestCompile_Parameters(t *testing.T) {
	ctx := context.Background()
	inputs := map[string][]float64{"x1": {1, 2, 4}}

	t.Run("solver groups override template groups", func(t *testing.T) {
		e, err := Compile(ctx, "z = p[1]*x1^p[2]; p = [9, 9]", "p = [2, 3]", Spec{})
		require.NoError(t, err)
		got, err := e.Evaluate(ctx, "z", inputs)
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 16, 128}, got)
	})

	t.Run("explicit groups override solver groups", func(t *testing.T) {
		groups := map[string][]float64{"p": {1, 1}}
		e, err := Compile(ctx, "z = p[1]*x1^p[2]", "p = [2, 3]", Spec{}, WithParameters(groups))
		require.NoError(t, err)
		groups["p"][0] = 100

		got, err := e.Evaluate(ctx, "z", inputs)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 4}, got)
	})

	t.Run("independent groups", func(t *testing.T) {
		e, err := Compile(ctx, "z = p1[1] + p2[1]*x1", "p1 = [1]; p2 = [10]", Spec{})
		require.NoError(t, err)
		got, err := e.Evaluate(ctx, "z", inputs)
		require.NoError(t, err)
		assert.Equal(t, []float64{11, 21, 41}, got)
	})
}

func TestCompile_Placeholders(t *testing.T) {
	ctx := context.Background()
	spec := Spec{Inputs: []string{"x0", "x1"}, Slots: []string{"f0"}, OutputName: "y"}

	t.Run("placeholders after the inputs name slots", func(t *testing.T) {
		e, err := Compile(ctx, "", "#1 + #2 + #3", spec)
		require.NoError(t, err)
		assert.Equal(t, "y", e.Output())
		y, ok := e.Table().Lookup("y")
		require.True(t, ok)
		assert.Equal(t, "x0 + x1 + f0", y.String())
	})

	t.Run("slot definitions are evaluated as symbols", func(t *testing.T) {
		e, err := Compile(ctx, "", "f0 = #1 * 2; #2 + #3", spec)
		require.NoError(t, err)
		got, err := e.Evaluate(ctx, "y", map[string][]float64{"x0": {1, 2}, "x1": {10}})
		require.NoError(t, err)
		assert.Equal(t, []float64{12, 14}, got)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := Compile(ctx, "", "#1 + #4", spec)
		require.Error(t, err)
		assert.True(t, errors.Is(err, expr.ErrPlaceholderRange))

		var pr *expr.PlaceholderRangeError
		require.ErrorAs(t, err, &pr)
		assert.Equal(t, 4, pr.Index)
		assert.Equal(t, 3, pr.Size)
	})

	t.Run("placeholder list", func(t *testing.T) {
		assert.Equal(t, []string{"x0", "x1", "f0"}, spec.Placeholders())
	})
}

func TestExpressions(t *testing.T) {
	ctx := context.Background()
	e, err := Compile(ctx, "z0 = A*x1; A = 10^p[1]; z1 = log(x1)", "p = [1]", Spec{})
	require.NoError(t, err)

	t.Run("evaluation order puts dependencies first", func(t *testing.T) {
		assert.Equal(t, []string{"z0", "A", "z1"}, e.Names())
		order := e.Order()
		assert.Less(t, indexOf(order, "A"), indexOf(order, "z0"))
	})

	t.Run("many targets", func(t *testing.T) {
		got, err := e.EvaluateMany(ctx, []string{"z0", "z1"}, map[string][]float64{"x1": {1, -1}})
		require.NoError(t, err)
		assert.Equal(t, []float64{10, -10}, got["z0"])
		assert.Len(t, got["z1"], 2)

		_, err = e.EvaluateMany(ctx, []string{"z0", "z1"}, map[string][]float64{"x1": {1, -1}}, eval.Strict())
		assert.True(t, errors.Is(err, eval.ErrNumericDomain))
	})

	t.Run("latex", func(t *testing.T) {
		got, err := e.LaTeX("z0", map[string]string{"x1": "\\sigma"})
		require.NoError(t, err)
		assert.Equal(t, "10^{1} \\sigma", got)
	})

	t.Run("parameters are copies", func(t *testing.T) {
		e.Parameters()["p"][0] = 5
		assert.Equal(t, []float64{1}, e.Parameters()["p"])
	})
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
