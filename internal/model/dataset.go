// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"slices"
)

// Dataset is one experiment's data as named columns.
type Dataset struct {
	Name   string
	Fields map[string][]float64
	// Weight scales every row of the dataset when fitting. Zero means one.
	Weight float64
}

// Field returns the column named name.
func (d *Dataset) Field(name string) ([]float64, error) {
	v, ok := d.Fields[name]
	if !ok {
		return nil, fmt.Errorf("dataset %q has no field %q", d.Name, name)
	}
	return v, nil
}

// First returns the first value of a column, used for fields that are
// constant within a test such as stress and temperature.
func (d *Dataset) First(name string) (float64, error) {
	v, err := d.Field(name)
	if err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return 0, fmt.Errorf("dataset %q: field %q is empty", d.Name, name)
	}
	return v[0], nil
}

// Max returns the largest value of a column.
func (d *Dataset) Max(name string) (float64, error) {
	v, err := d.Field(name)
	if err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return 0, fmt.Errorf("dataset %q: field %q is empty", d.Name, name)
	}
	return slices.Max(v), nil
}

// Rows returns the length of the longest column.
func (d *Dataset) Rows() int {
	n := 0
	for _, v := range d.Fields {
		n = max(n, len(v))
	}
	return n
}

// RowWeight returns the weight applied to each of the dataset's rows.
func (d *Dataset) RowWeight() float64 {
	if d.Weight == 0 {
		return 1
	}
	return d.Weight
}

// Bound returns a copy of d keeping only the rows whose field lies within
// [lo, hi]. Columns of length one are kept as they are.
func (d *Dataset) Bound(field string, lo, hi float64) (*Dataset, error) {
	v, err := d.Field(field)
	if err != nil {
		return nil, err
	}
	keep := make([]int, 0, len(v))
	for i, x := range v {
		if x >= lo && x <= hi {
			keep = append(keep, i)
		}
	}
	return d.pick(len(v), keep), nil
}

// pick copies d, selecting the listed rows from every column of length
// rows.
func (d *Dataset) pick(rows int, keep []int) *Dataset {
	c := &Dataset{Name: d.Name, Weight: d.Weight, Fields: make(map[string][]float64, len(d.Fields))}
	for name, v := range d.Fields {
		if len(v) != rows || rows == 1 {
			c.Fields[name] = slices.Clone(v)
			continue
		}
		out := make([]float64, len(keep))
		for j, i := range keep {
			out[j] = v[i]
		}
		c.Fields[name] = out
	}
	return c
}

// Columns maps each name to its dataset field and stacks the rows of every
// dataset. Columns of length one are repeated to the dataset's row count.
// Weights hold one entry per stacked row.
func Columns(data []*Dataset, fields map[string]string) (map[string][]float64, []float64, error) {
	out := make(map[string][]float64, len(fields))
	var weights []float64
	for _, d := range data {
		rows := 0
		for _, field := range fields {
			v, err := d.Field(field)
			if err != nil {
				return nil, nil, err
			}
			if len(v) != 1 {
				if rows != 0 && len(v) != rows {
					return nil, nil, fmt.Errorf("dataset %q: field %q has %d rows, want %d", d.Name, field, len(v), rows)
				}
				rows = len(v)
			}
		}
		if rows == 0 {
			rows = 1
		}
		for name, field := range fields {
			v := d.Fields[field]
			if len(v) == 1 {
				v = repeat(v[0], rows)
			}
			out[name] = append(out[name], v...)
		}
		weights = append(weights, repeat(d.RowWeight(), rows)...)
	}
	return out, weights, nil
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
