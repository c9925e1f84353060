package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataset(t *testing.T) {
	d := &Dataset{Name: "t1", Fields: map[string][]float64{
		"time":   {0, 5, 10},
		"stress": {80},
		"empty":  {},
	}}

	v, err := d.Max("time")
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)

	v, err = d.First("stress")
	require.NoError(t, err)
	assert.Equal(t, 80.0, v)

	_, err = d.First("empty")
	assert.ErrorContains(t, err, "empty")
	_, err = d.Field("strain")
	assert.ErrorContains(t, err, `no field "strain"`)
	assert.Equal(t, 3, d.Rows())
}

func TestColumns(t *testing.T) {
	data := []*Dataset{
		{Name: "a", Fields: map[string][]float64{"time": {1, 2}, "stress": {80}}},
		{Name: "b", Fields: map[string][]float64{"time": {3}, "stress": {90}}, Weight: 2},
	}

	t.Run("stacks rows and repeats scalars", func(t *testing.T) {
		cols, weights, err := Columns(data, map[string]string{"x0": "time", "x1": "stress"})
		require.NoError(t, err)
		assert.Equal(t, map[string][]float64{
			"x0": {1, 2, 3},
			"x1": {80, 80, 90},
		}, cols)
		assert.Equal(t, []float64{1, 1, 2}, weights)
	})

	t.Run("missing field", func(t *testing.T) {
		_, _, err := Columns(data, map[string]string{"x0": "strain"})
		assert.Error(t, err)
	})

	t.Run("ragged dataset", func(t *testing.T) {
		bad := []*Dataset{{Name: "c", Fields: map[string][]float64{"time": {1, 2}, "strain": {1, 2, 3}}}}
		_, _, err := Columns(bad, map[string]string{"x0": "time", "y0": "strain"})
		assert.ErrorContains(t, err, "rows")
	})
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 2.5, 5, 7.5, 10}, Linspace(0, 10, 5))
	assert.Equal(t, []float64{0.1}, Linspace(0.1, 3, 1))
	assert.Empty(t, Linspace(0, 1, 0))

	got := Linspace(0.1, 1234.5678, 100)
	require.Len(t, got, 100)
	assert.Equal(t, 0.1, got[0])
	assert.Equal(t, 1234.5678, got[99])
}

func TestDataset_Bound(t *testing.T) {
	d := &Dataset{Name: "t1", Weight: 2, Fields: map[string][]float64{
		"time":   {0, 1, 2, 3, 4, 5, 6},
		"strain": {0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6},
		"stress": {80},
	}}

	t.Run("bound keeps rows in range", func(t *testing.T) {
		got, err := d.Bound("time", 1, 3)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3}, got.Fields["time"])
		assert.Equal(t, []float64{0.1, 0.2, 0.3}, got.Fields["strain"])
		assert.Equal(t, []float64{80}, got.Fields["stress"])
		assert.Equal(t, 2.0, got.Weight)
		assert.Len(t, d.Fields["time"], 7, "original is untouched")
	})

	t.Run("bound on a missing field", func(t *testing.T) {
		_, err := d.Bound("temperature", 0, 1)
		assert.Error(t, err)
	})
}
