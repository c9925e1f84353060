// Package kr_t implements the Kachanov-Rabotnov creep model whose material
// constants are fitted functions of temperature instead of parameters.
package kr_t

import (
	"context"
	"fmt"

	"github.com/vk/symcreep/internal/config"
	"github.com/vk/symcreep/internal/ctxlog"
	"github.com/vk/symcreep/internal/engine"
	"github.com/vk/symcreep/internal/latex"
	"github.com/vk/symcreep/internal/model"
	"github.com/vk/symcreep/internal/registry"
	"github.com/vk/symcreep/internal/solver"
)

// Kind is the registered name of this model.
const Kind = "kr_T"

// Template combines the slots into strain (z0), time to failure (z1),
// strain to failure (z2) and minimum creep rate (z3). Its output is the
// mean relative error ef.
//
//	x0 = time, x1 = stress, x2 = temperature
//	y0 = strain, y1 = time to failure, y2 = strain to failure
//	y3 = minimum creep rate
const Template = `
A = 10^fA(x2); n = abs(fn(x2)); M = 10^fM(x2); phi = abs(fphi(x2)); chi = abs(fchi(x2));
z0 = A*x1^n * ((1-(phi+1)*M*x1^chi*x0)^((phi+1-n)/(phi+1))-1) / (M*x1^chi*(n-phi-1)) + f0(x0,x1,x2);
z1 = 1/((phi+1)*M*x1^chi) - abs(f1(x1,x2));
z2 = A*x1^n / (M*x1^chi*(phi+1-n)) + f0(x0,x1,x2);
z3 = A*x1^n;
e0 = abs((y0-z0)/y0);
e1 = abs((y1-z1)/y1);
e2 = abs((y2-z2)/y2);
e3 = abs((y3-z3)/y3);
ef = (e0 + e1 + e2 + e3)/4;
ef
`

// Spec is the shape of Template.
var Spec = engine.Spec{
	Inputs: []string{"x0", "x1", "x2", "y0", "y1", "y2", "y3"},
	Slots:  []string{"f0", "f1", "fA", "fn", "fM", "fphi", "fchi"},
}

// Targets are the symbols displayed after a fit.
var Targets = []string{"z0", "z1", "z2", "z3", "A", "n", "M", "phi", "chi"}

// ErrorNames are the error symbols averaged by Errors.
var ErrorNames = []string{"e0", "e1", "e2", "e3", "ef"}

// Display maps template names to their usual symbols.
var Display = map[string]string{
	"x0": "t",
	"x1": "\\sigma",
	"x2": "T",
	"z0": "\\varepsilon",
	"z1": "t_{f}",
	"z2": "\\varepsilon_{f}",
	"z3": "\\dot{\\varepsilon}_{min}",
}

var intermediates = []string{"A", "n", "M", "phi", "chi"}

// Errors are computed from this time on; earlier rows carry near-zero
// strain and an undefined relative error.
const minTime = 1.0

// Field names of the derived columns.
const (
	fieldTTF = "ttf"
	fieldSTF = "stf"
	fieldMCR = "mcr"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the model constructor with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModel(Kind, func() model.Model { return New() })
}

// Model is the temperature-dependent Kachanov-Rabotnov model.
type Model struct {
	def        *config.ModelDefinition
	template   string
	cols       model.CreepColumns
	prediction config.Prediction
	fitted     *model.Fitted
}

// New returns an uninitialised model.
func New() *Model { return &Model{} }

// Kind implements model.Model.
func (m *Model) Kind() string { return Kind }

// Initialise implements model.Model. A definition may replace the template;
// inputs and slots are fixed.
func (m *Model) Initialise(_ context.Context, def *config.ModelDefinition) error {
	if len(def.Parameters) > 0 {
		return fmt.Errorf("%s takes no parameter groups", Kind)
	}
	m.def = def
	m.template = Template
	if def.Template != "" {
		m.template = def.Template
	}
	m.prediction = def.Prediction.OrDefault()
	if m.prediction.Points < 1 {
		return fmt.Errorf("prediction points must be positive, got %d", m.prediction.Points)
	}
	m.cols = model.CreepColumnsFor(def)
	m.fitted = nil
	return nil
}

// derive adds the constant failure-time, failure-strain and minimum-rate
// columns to a dataset.
func (m *Model) derive(d *model.Dataset) (*model.Dataset, error) {
	derived := []*model.Dataset{d}
	var err error
	for _, f := range []struct {
		name string
		fn   func(*model.Dataset) (float64, error)
	}{
		{fieldTTF, func(d *model.Dataset) (float64, error) { return d.Max(m.cols.Time) }},
		{fieldSTF, func(d *model.Dataset) (float64, error) { return d.Max(m.cols.Strain) }},
		{fieldMCR, func(d *model.Dataset) (float64, error) { return model.MinRate(d, m.cols.Time, m.cols.Strain) }},
	} {
		derived, err = model.WithDerived(derived, f.name, f.fn)
		if err != nil {
			return nil, err
		}
	}
	return derived[0], nil
}

func (m *Model) columns(data []*model.Dataset) (map[string][]float64, []float64, error) {
	return model.Columns(data, map[string]string{
		"x0": m.cols.Time,
		"x1": m.cols.Stress,
		"x2": m.cols.Temperature,
		"y0": m.cols.Strain,
		"y1": fieldTTF,
		"y2": fieldSTF,
		"y3": fieldMCR,
	})
}

// Fit implements model.Model.
func (m *Model) Fit(ctx context.Context, s solver.Solver, data []*model.Dataset) (*model.FitResult, error) {
	prepared := make([]*model.Dataset, len(data))
	for i, d := range data {
		p, err := m.derive(d)
		if err != nil {
			return nil, err
		}
		prepared[i] = p
	}
	cols, weights, err := m.columns(prepared)
	if err != nil {
		return nil, err
	}

	res, err := model.Solve(ctx, s, solver.Problem{
		Model:    m.def.Name,
		Name:     config.DefaultProblem,
		Template: m.template,
		Spec:     Spec,
		Data:     cols,
		Weights:  weights,
	})
	if err != nil {
		return nil, err
	}
	m.fitted = res.Fitted
	return res, nil
}

func (m *Model) ttf(ctx context.Context, stress, temperature float64) (float64, error) {
	v, err := m.Evaluate(ctx, "z1", map[string][]float64{"x1": {stress}, "x2": {temperature}})
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// Predict implements model.Model.
func (m *Model) Predict(ctx context.Context, data []*model.Dataset) ([]*model.Prediction, error) {
	if m.fitted == nil {
		return nil, model.ErrNotFitted
	}
	out := make([]*model.Prediction, 0, len(data))
	for _, d := range data {
		p, err := model.SampleCurve(d, m.cols, m.prediction,
			func(stress, temperature float64) (float64, error) { return m.ttf(ctx, stress, temperature) },
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

// Errors returns the mean of each error symbol over data. Every dataset is
// evaluated from minTime up to the earlier of its last time and the
// predicted failure time.
func (m *Model) Errors(ctx context.Context, data []*model.Dataset) (map[string]float64, error) {
	if m.fitted == nil {
		return nil, model.ErrNotFitted
	}
	logger := ctxlog.FromContext(ctx)

	sums := make(map[string]float64, len(ErrorNames))
	rows := 0
	for _, d := range data {
		stress, err := d.First(m.cols.Stress)
		if err != nil {
			return nil, err
		}
		temperature, err := d.First(m.cols.Temperature)
		if err != nil {
			return nil, err
		}
		upper, err := d.Max(m.cols.Time)
		if err != nil {
			return nil, err
		}
		tf, err := m.ttf(ctx, stress, temperature)
		if err != nil {
			return nil, fmt.Errorf("dataset %q: time to failure: %w", d.Name, err)
		}
		if tf < upper {
			upper = tf
		}

		bounded, err := d.Bound(m.cols.Time, minTime, upper)
		if err != nil {
			return nil, err
		}
		p, err := m.derive(bounded)
		if err != nil {
			return nil, err
		}
		cols, _, err := m.columns([]*model.Dataset{p})
		if err != nil {
			return nil, err
		}
		e, err := m.fitted.Find("ef")
		if err != nil {
			return nil, err
		}
		values, err := e.EvaluateMany(ctx, ErrorNames, cols)
		if err != nil {
			return nil, fmt.Errorf("dataset %q: %w", d.Name, err)
		}
		for _, name := range ErrorNames {
			for _, v := range values[name] {
				sums[name] += v
			}
		}
		rows += len(values["ef"])
		logger.Debug("Evaluated dataset errors.", "dataset", d.Name, "rows", len(values["ef"]))
	}
	if rows == 0 {
		return nil, fmt.Errorf("no rows to evaluate errors over")
	}

	out := make(map[string]float64, len(ErrorNames))
	for _, name := range ErrorNames {
		out[name] = sums[name] / float64(rows)
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

var _ model.Model = (*Model)(nil)
