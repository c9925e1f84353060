package resolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/symcreep/internal/expr"
)

func parse(t *testing.T, text string) *expr.SymbolTable {
	t.Helper()
	st, err := expr.Parse(text)
	require.NoError(t, err)
	return st
}

func TestTopoOrder(t *testing.T) {
	t.Run("forward references are ordered", func(t *testing.T) {
		st := parse(t, "z = A * x1 + n; A = 10 ^ n; n = 2")
		order, err := TopoOrder(st)
		require.NoError(t, err)
		assert.Equal(t, []string{"n", "A", "z"}, order)
	})

	t.Run("two-symbol cycle names both members", func(t *testing.T) {
		st := parse(t, "a = b + 1; b = a * 2")
		_, err := TopoOrder(st)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCyclicDependency))

		var cycle *CyclicDependencyError
		require.ErrorAs(t, err, &cycle)
		assert.ElementsMatch(t, []string{"a", "b"}, cycle.Members)
	})

	t.Run("self reference is a cycle", func(t *testing.T) {
		_, err := TopoOrder(parse(t, "a = a + 1"))
		var cycle *CyclicDependencyError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, []string{"a"}, cycle.Members)
	})

	t.Run("unassigned names are leaves", func(t *testing.T) {
		order, err := TopoOrder(parse(t, "z = x0 * undefined_thing"))
		require.NoError(t, err)
		assert.Equal(t, []string{"z"}, order)
	})
}

func TestClosure(t *testing.T) {
	st := parse(t, "A = 10^p1; n = 2; z0 = A*x1^n; z1 = 1/x1; loss = (y0 - z0)^2")

	got, err := Closure(st, "loss")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "n", "z0", "loss"}, got)

	got, err = Closure(st, "z1")
	require.NoError(t, err)
	assert.Equal(t, []string{"z1"}, got)

	_, err = Closure(st, "nope")
	assert.True(t, errors.Is(err, ErrUndefinedSymbol))
}

func TestLeaves(t *testing.T) {
	st := parse(t, "A = 10^p1; z0 = A*x1^n + x0; loss = (y0 - z0)^2")

	got, err := Leaves(st, "loss")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "x1", "n", "x0", "y0"}, got)
}
