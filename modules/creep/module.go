// Package creep implements the two-stage creep model. A first regression
// predicts time to failure from stress and temperature; a second predicts
// strain from time, stress and temperature. Curves are sampled up to the
// predicted failure time.
package creep

import (
	"context"
	"fmt"

	"github.com/vk/symcreep/internal/config"
	"github.com/vk/symcreep/internal/engine"
	"github.com/vk/symcreep/internal/model"
	"github.com/vk/symcreep/internal/registry"
	"github.com/vk/symcreep/internal/solver"
)

// Kind is the registered name of this model.
const Kind = "creep"

// Problem and symbol names.
const (
	TTF    = "ttf"
	Strain = "strain"
)

var (
	ttfSpec    = engine.Spec{Inputs: []string{"x0", "x1"}, OutputName: TTF}
	strainSpec = engine.Spec{Inputs: []string{"x0", "x1", "x2"}, OutputName: Strain}
)

var ttfDisplay = map[string]string{"x0": "\\sigma", "x1": "T", TTF: "t_{f}"}

var strainDisplay = map[string]string{"x0": "t", "x1": "\\sigma", "x2": "T", Strain: "\\varepsilon"}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the model constructor with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModel(Kind, func() model.Model { return New() })
}

// Model is the two-stage creep model.
type Model struct {
	def        *config.ModelDefinition
	cols       model.CreepColumns
	prediction config.Prediction
	fitted     *model.Fitted
}

// New returns an uninitialised creep model.
func New() *Model { return &Model{} }

// Kind implements model.Model.
func (m *Model) Kind() string { return Kind }

// Initialise implements model.Model.
func (m *Model) Initialise(_ context.Context, def *config.ModelDefinition) error {
	if def.Template != "" {
		return fmt.Errorf("a template is not supported")
	}
	m.def = def
	m.cols = model.CreepColumnsFor(def)
	m.prediction = def.Prediction.OrDefault()
	m.fitted = nil
	return nil
}

// Fit implements model.Model. The failure-time regression gets one row per
// dataset, using its largest time as the time to failure.
func (m *Model) Fit(ctx context.Context, s solver.Solver, data []*model.Dataset) (*model.FitResult, error) {
	ttfCols := make(map[string][]float64, 3)
	ttfWeights := make([]float64, 0, len(data))
	for _, d := range data {
		stress, err := d.First(m.cols.Stress)
		if err != nil {
			return nil, err
		}
		temperature, err := d.First(m.cols.Temperature)
		if err != nil {
			return nil, err
		}
		tf, err := d.Max(m.cols.Time)
		if err != nil {
			return nil, err
		}
		ttfCols["x0"] = append(ttfCols["x0"], stress)
		ttfCols["x1"] = append(ttfCols["x1"], temperature)
		ttfCols[TTF] = append(ttfCols[TTF], tf)
		ttfWeights = append(ttfWeights, d.RowWeight())
	}

	strainCols, strainWeights, err := model.Columns(data, map[string]string{
		"x0":   m.cols.Time,
		"x1":   m.cols.Stress,
		"x2":   m.cols.Temperature,
		Strain: m.cols.Strain,
	})
	if err != nil {
		return nil, err
	}

	res, err := model.Solve(ctx, s,
		solver.Problem{Model: m.def.Name, Name: TTF, Spec: ttfSpec, Data: ttfCols, Weights: ttfWeights},
		solver.Problem{Model: m.def.Name, Name: Strain, Spec: strainSpec, Data: strainCols, Weights: strainWeights},
	)
	if err != nil {
		return nil, err
	}
	m.fitted = res.Fitted
	return res, nil
}

// Predict implements model.Model.
func (m *Model) Predict(ctx context.Context, data []*model.Dataset) ([]*model.Prediction, error) {
	if m.fitted == nil {
		return nil, model.ErrNotFitted
	}
	out := make([]*model.Prediction, 0, len(data))
	for _, d := range data {
		p, err := model.SampleCurve(d, m.cols, m.prediction,
			func(stress, temperature float64) (float64, error) {
				v, err := m.Evaluate(ctx, TTF, map[string][]float64{"x0": {stress}, "x1": {temperature}})
				if err != nil {
					return 0, err
				}
				return v[0], nil
			},
			func(times []float64, stress, temperature float64) ([]float64, error) {
				return m.Evaluate(ctx, Strain, map[string][]float64{"x0": times, "x1": {stress}, "x2": {temperature}})
			})
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// DisplayExpressions implements model.Model. It returns the failure-time
// equation followed by the strain equation.
func (m *Model) DisplayExpressions(_ context.Context) ([]string, error) {
	if m.fitted == nil {
		return nil, model.ErrNotFitted
	}
	ttf, err := model.Equations(m.fitted, m.def, model.DisplayNames(ttfDisplay, m.def.Display), []string{TTF})
	if err != nil {
		return nil, err
	}
	strain, err := model.Equations(m.fitted, m.def, model.DisplayNames(strainDisplay, m.def.Display), []string{Strain})
	if err != nil {
		return nil, err
	}
	return append(ttf, strain...), nil
}

// Evaluate implements model.Model.
func (m *Model) Evaluate(ctx context.Context, target string, inputs map[string][]float64) ([]float64, error) {
	return model.Evaluate(ctx, m.fitted, m.def, target, inputs)
}
