// Package basic implements the plain regression model: one solver problem
// mapping the declared inputs to a single output, with no combining
// template.
package basic

import (
	"context"
	"fmt"

	"github.com/vk/symcreep/internal/config"
	"github.com/vk/symcreep/internal/engine"
	"github.com/vk/symcreep/internal/expr"
	"github.com/vk/symcreep/internal/model"
	"github.com/vk/symcreep/internal/registry"
	"github.com/vk/symcreep/internal/solver"
)

// Kind is the registered name of this model.
const Kind = "basic"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the model constructor with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModel(Kind, func() model.Model { return New() })
}

// Model fits y = f(x0, x1, ...).
type Model struct {
	def    *config.ModelDefinition
	spec   engine.Spec
	output string
	fitted *model.Fitted
}

// New returns an uninitialised basic model.
func New() *Model { return &Model{} }

// Kind implements model.Model.
func (m *Model) Kind() string { return Kind }

// Initialise implements model.Model.
func (m *Model) Initialise(_ context.Context, def *config.ModelDefinition) error {
	if len(def.Inputs) == 0 {
		return fmt.Errorf("at least one input is required")
	}
	if def.Template != "" {
		return fmt.Errorf("a template is not supported, use the %q model", "template")
	}
	output := def.OutputName
	switch {
	case output != "":
	case len(def.Outputs) > 0:
		output = def.Outputs[0]
	default:
		output = expr.DefaultOutputName
	}

	m.def = def
	m.output = output
	m.spec = engine.Spec{
		Inputs:     def.Inputs,
		Slots:      def.Slots,
		Parameters: def.Parameters,
		OutputName: output,
	}
	m.fitted = nil
	return nil
}

func (m *Model) columns(withOutput bool) map[string]string {
	cols := make(map[string]string, len(m.def.Inputs)+1)
	for _, in := range m.def.Inputs {
		cols[in] = m.def.Column(in)
	}
	if withOutput {
		cols[m.output] = m.def.Column(m.output)
	}
	return cols
}

// Fit implements model.Model.
func (m *Model) Fit(ctx context.Context, s solver.Solver, data []*model.Dataset) (*model.FitResult, error) {
	cols, weights, err := model.Columns(data, m.columns(true))
	if err != nil {
		return nil, err
	}
	res, err := model.Solve(ctx, s, solver.Problem{
		Model:   m.def.Name,
		Name:    config.DefaultProblem,
		Spec:    m.spec,
		Data:    cols,
		Weights: weights,
	})
	if err != nil {
		return nil, err
	}
	m.fitted = res.Fitted
	return res, nil
}

// Predict implements model.Model. The output is evaluated at every row of
// each dataset's input columns.
func (m *Model) Predict(ctx context.Context, data []*model.Dataset) ([]*model.Prediction, error) {
	if m.fitted == nil {
		return nil, model.ErrNotFitted
	}
	out := make([]*model.Prediction, 0, len(data))
	for _, d := range data {
		inputs, _, err := model.Columns([]*model.Dataset{d}, m.columns(false))
		if err != nil {
			return nil, err
		}
		v, err := m.Evaluate(ctx, m.output, inputs)
		if err != nil {
			return nil, fmt.Errorf("dataset %q: %w", d.Name, err)
		}
		out = append(out, &model.Prediction{
			Dataset: d.Name,
			Fields:  map[string][]float64{m.def.Column(m.output): v},
		})
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
		targets = []string{m.output}
	}
	return model.Equations(m.fitted, m.def, m.def.Display, targets)
}

// Evaluate implements model.Model.
func (m *Model) Evaluate(ctx context.Context, target string, inputs map[string][]float64) ([]float64, error) {
	return model.Evaluate(ctx, m.fitted, m.def, target, inputs)
}
