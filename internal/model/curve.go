// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file holds the creep-curve helpers shared by the strategies that fit
// time, stress, temperature and strain data.

package model

import (
	"fmt"
	"maps"
	"math"

	"github.com/vk/symcreep/internal/config"
)

// CreepColumns names the dataset fields of a creep test.
type CreepColumns struct {
	Time, Stress, Temperature, Strain string
}

// CreepColumnsFor resolves the creep field names through def.Columns, so a
// definition can bind "stress" to a differently named field.
func CreepColumnsFor(def *config.ModelDefinition) CreepColumns {
	return CreepColumns{
		Time:        def.Column("time"),
		Stress:      def.Column("stress"),
		Temperature: def.Column("temperature"),
		Strain:      def.Column("strain"),
	}
}

// WithDerived returns shallow copies of data with an extra constant field
// computed per dataset. The input datasets are not modified.
func WithDerived(data []*Dataset, field string, fn func(*Dataset) (float64, error)) ([]*Dataset, error) {
	out := make([]*Dataset, len(data))
	for i, d := range data {
		v, err := fn(d)
		if err != nil {
			return nil, fmt.Errorf("deriving %q: %w", field, err)
		}
		c := *d
		c.Fields = maps.Clone(d.Fields)
		c.Fields[field] = repeat(v, max(d.Rows(), 1))
		out[i] = &c
	}
	return out, nil
}

// MinRate returns the smallest finite-difference slope of y against x, the
// minimum creep rate when x is time and y is strain.
func MinRate(d *Dataset, x, y string) (float64, error) {
	xs, err := d.Field(x)
	if err != nil {
		return 0, err
	}
	ys, err := d.Field(y)
	if err != nil {
		return 0, err
	}
	if len(xs) != len(ys) {
		return 0, fmt.Errorf("dataset %q: fields %q and %q differ in length", d.Name, x, y)
	}
	rate := math.Inf(1)
	for i := 1; i < len(xs); i++ {
		dx := xs[i] - xs[i-1]
		if dx == 0 {
			continue
		}
		rate = min(rate, (ys[i]-ys[i-1])/dx)
	}
	if math.IsInf(rate, 1) {
		return 0, fmt.Errorf("dataset %q: need at least two distinct %q values", d.Name, x)
	}
	return rate, nil
}

// SampleCurve predicts a creep curve for one dataset. ttf returns the time
// to failure for the dataset's stress and temperature; strain is then
// sampled at evenly spaced times from p.Start to that time. Both series are
// prefixed with a zero so every curve starts at the origin.
func SampleCurve(
	d *Dataset,
	cols CreepColumns,
	p config.Prediction,
	ttf func(stress, temperature float64) (float64, error),
	strain func(times []float64, stress, temperature float64) ([]float64, error),
) (*Prediction, error) {
	stress, err := d.First(cols.Stress)
	if err != nil {
		return nil, err
	}
	temperature, err := d.First(cols.Temperature)
	if err != nil {
		return nil, err
	}

	tf, err := ttf(stress, temperature)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: time to failure: %w", d.Name, err)
	}
	if math.IsNaN(tf) || tf <= p.Start {
		return nil, fmt.Errorf("dataset %q: predicted time to failure %g is not after %g", d.Name, tf, p.Start)
	}

	times := Linspace(p.Start, tf, p.Points)
	strains, err := strain(times, stress, temperature)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: strain: %w", d.Name, err)
	}

	return &Prediction{
		Dataset: d.Name,
		Fields: map[string][]float64{
			cols.Time:   append([]float64{0}, times...),
			cols.Strain: append([]float64{0}, strains...),
		},
	}, nil
}
