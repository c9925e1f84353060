// Package kr_base implements the Kachanov-Rabotnov creep model with fitted
// discrepancy terms.
//
// The combining template encodes the closed-form Kachanov-Rabotnov strain
// and failure-time equations over five fitted parameters; the solver
// supplies the discrepancy slots f0 and f1 and the parameter vector p.
package kr_base

import (
	"context"
	"fmt"

	"github.com/vk/symcreep/internal/config"
	"github.com/vk/symcreep/internal/engine"
	"github.com/vk/symcreep/internal/latex"
	"github.com/vk/symcreep/internal/model"
	"github.com/vk/symcreep/internal/registry"
	"github.com/vk/symcreep/internal/solver"
)

// Kind is the registered name of this model.
const Kind = "kr_base"

// Template combines the slots into strain (z0), time to failure (z1) and
// strain to failure (z2); its output is the relative squared error.
//
//	x0 = time, x1 = stress, x2 = temperature
//	y0 = strain, y1 = time to failure, y2 = strain to failure
const Template = `
A = 10^p[1]; n = abs(p[2]); M = 10^p[3]; phi = abs(p[4]); chi = abs(p[5]);
z0 = A*x1^n * ((1-(phi+1)*M*x1^chi*x0)^((phi+1-n)/(phi+1))-1) / (M*x1^chi*(n-phi-1)) + f0(x0,x1,x2);
z1 = 1/((phi+1)*M*x1^chi) + f1(x1,x2);
z2 = A*x1^n / (M*x1^chi*(phi+1-n)) + f0(x0,x1,x2);
((y0-z0)/y0)^2 + ((y1-z1)/y1)^2 + ((y2-z2)/y2)^2
`

// Spec is the shape of Template.
var Spec = engine.Spec{
	Inputs:     []string{"x0", "x1", "x2", "y0", "y1", "y2"},
	Slots:      []string{"f0", "f1"},
	Parameters: map[string]int{"p": 5},
}

// Targets are the symbols displayed after a fit.
var Targets = []string{"z0", "z1", "z2", "A", "n", "M", "phi", "chi"}

// Display maps template names to their usual symbols.
var Display = map[string]string{
	"x0": "t",
	"x1": "\\sigma",
	"x2": "T",
	"z0": "\\varepsilon",
	"z1": "t_{f}",
	"z2": "\\varepsilon_{f}",
}

// intermediates stay as named symbols in the displayed equations.
var intermediates = []string{"A", "n", "M", "phi", "chi"}

// Field names of the derived failure columns.
const (
	fieldTTF = "ttf"
	fieldSTF = "stf"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the model constructor with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModel(Kind, func() model.Model { return New() })
}

// Model is the Kachanov-Rabotnov model.
type Model struct {
	def        *config.ModelDefinition
	template   string
	spec       engine.Spec
	cols       model.CreepColumns
	prediction config.Prediction
	fitted     *model.Fitted
}

// New returns an uninitialised model.
func New() *Model { return &Model{} }

// Kind implements model.Model.
func (m *Model) Kind() string { return Kind }

// Initialise implements model.Model. A definition may replace the template
// and its parameter sizes; inputs and slots are fixed.
func (m *Model) Initialise(_ context.Context, def *config.ModelDefinition) error {
	m.def = def
	m.template = Template
	m.spec = Spec
	if def.Template != "" {
		m.template = def.Template
	}
	if len(def.Parameters) > 0 {
		m.spec.Parameters = def.Parameters
	}
	m.prediction = def.Prediction.OrDefault()
	if m.prediction.Points < 1 {
		return fmt.Errorf("prediction points must be positive, got %d", m.prediction.Points)
	}
	m.cols = model.CreepColumnsFor(def)
	m.fitted = nil
	return nil
}

// Fit implements model.Model. Each dataset gains constant time-to-failure
// and strain-to-failure columns taken from its largest time and strain.
func (m *Model) Fit(ctx context.Context, s solver.Solver, data []*model.Dataset) (*model.FitResult, error) {
	data, err := model.WithDerived(data, fieldTTF, func(d *model.Dataset) (float64, error) { return d.Max(m.cols.Time) })
	if err != nil {
		return nil, err
	}
	data, err = model.WithDerived(data, fieldSTF, func(d *model.Dataset) (float64, error) { return d.Max(m.cols.Strain) })
	if err != nil {
		return nil, err
	}

	cols, weights, err := model.Columns(data, map[string]string{
		"x0": m.cols.Time,
		"x1": m.cols.Stress,
		"x2": m.cols.Temperature,
		"y0": m.cols.Strain,
		"y1": fieldTTF,
		"y2": fieldSTF,
	})
	if err != nil {
		return nil, err
	}

	res, err := model.Solve(ctx, s, solver.Problem{
		Model:    m.def.Name,
		Name:     config.DefaultProblem,
		Template: m.template,
		Spec:     m.spec,
		Data:     cols,
		Weights:  weights,
	})
	if err != nil {
		return nil, err
	}
	m.fitted = res.Fitted
	return res, nil
}

// Predict implements model.Model. The failure time comes from z1 and the
// strain curve from z0.
func (m *Model) Predict(ctx context.Context, data []*model.Dataset) ([]*model.Prediction, error) {
	if m.fitted == nil {
		return nil, model.ErrNotFitted
	}
	out := make([]*model.Prediction, 0, len(data))
	for _, d := range data {
		p, err := model.SampleCurve(d, m.cols, m.prediction,
			func(stress, temperature float64) (float64, error) {
				v, err := m.Evaluate(ctx, "z1", map[string][]float64{"x1": {stress}, "x2": {temperature}})
				if err != nil {
					return 0, err
				}
				return v[0], nil
			},
			func(times []float64, stress, temperature float64) ([]float64, error) {
				return m.Evaluate(ctx, "z0", map[string][]float64{"x0": times, "x1": {stress}, "x2": {temperature}})
			})
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// DisplayExpressions implements model.Model.
func (m *Model) DisplayExpressions(_ context.Context) ([]string, error) {
	if m.fitted == nil {
		return nil, model.ErrNotFitted
	}
	targets := m.def.Targets
	if len(targets) == 0 {
		targets = Targets
	}
	return model.Equations(m.fitted, m.def, model.DisplayNames(Display, m.def.Display), targets, latex.KeepSymbols(intermediates...))
}

// Evaluate implements model.Model.
func (m *Model) Evaluate(ctx context.Context, target string, inputs map[string][]float64) ([]float64, error) {
	return model.Evaluate(ctx, m.fitted, m.def, target, inputs)
}
