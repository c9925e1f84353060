// Package template implements a fully configured templated model: the
// definition supplies the combining template, its inputs, slots and
// parameter groups, and the symbols to display.
package template

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/symcreep/internal/config"
	"github.com/vk/symcreep/internal/engine"
	"github.com/vk/symcreep/internal/eval"
	"github.com/vk/symcreep/internal/model"
	"github.com/vk/symcreep/internal/registry"
	"github.com/vk/symcreep/internal/solver"
)

// Kind is the registered name of this model.
const Kind = "template"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the model constructor with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterModel(Kind, func() model.Model { return New() })
}

// Model is a templated model built entirely from its definition.
type Model struct {
	def    *config.ModelDefinition
	spec   engine.Spec
	fitted *model.Fitted
}

// New returns an uninitialised model.
func New() *Model { return &Model{} }

// Kind implements model.Model.
func (m *Model) Kind() string { return Kind }

// Initialise implements model.Model. Outputs name the inputs that hold
// observations; they are fed to the solver but not needed to predict.
func (m *Model) Initialise(_ context.Context, def *config.ModelDefinition) error {
	switch {
	case def.Template == "":
		return fmt.Errorf("a template is required")
	case len(def.Targets) == 0:
		return fmt.Errorf("at least one target is required")
	case len(def.Inputs) == 0:
		return fmt.Errorf("at least one input is required")
	}
	for _, out := range def.Outputs {
		if !def.HasInput(out) {
			return fmt.Errorf("output %q is not a declared input", out)
		}
	}
	m.def = def
	m.spec = engine.Spec{
		Inputs:     def.Inputs,
		Slots:      def.Slots,
		Parameters: def.Parameters,
		OutputName: def.OutputName,
	}
	m.fitted = nil
	return nil
}

func (m *Model) columns(observed bool) map[string]string {
	cols := make(map[string]string, len(m.def.Inputs))
	for _, in := range m.def.Inputs {
		if !observed && slices.Contains(m.def.Outputs, in) {
			continue
		}
		cols[in] = m.def.Column(in)
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
		Model:    m.def.Name,
		Name:     config.DefaultProblem,
		Template: m.def.Template,
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

// Predict implements model.Model. Every target is evaluated at each row of
// the dataset's non-observation inputs.
func (m *Model) Predict(ctx context.Context, data []*model.Dataset) ([]*model.Prediction, error) {
	if m.fitted == nil {
		return nil, model.ErrNotFitted
	}
	e, err := m.fitted.Problem(config.DefaultProblem)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Prediction, 0, len(data))
	for _, d := range data {
		inputs, _, err := model.Columns([]*model.Dataset{d}, m.columns(false))
		if err != nil {
			return nil, err
		}
		values, err := e.EvaluateMany(ctx, m.def.Targets, inputs, eval.WithStrict(m.def.Strict))
		if err != nil {
			return nil, fmt.Errorf("dataset %q: %w", d.Name, err)
		}
		fields := make(map[string][]float64, len(values))
		for target, v := range values {
			fields[m.def.Column(target)] = v
		}
		out = append(out, &model.Prediction{Dataset: d.Name, Fields: fields})
	}
	return out, nil
}

// DisplayExpressions implements model.Model.
func (m *Model) DisplayExpressions(_ context.Context) ([]string, error) {
	if m.fitted == nil {
		return nil, model.ErrNotFitted
	}
	return model.Equations(m.fitted, m.def, m.def.Display, m.def.Targets)
}

// Evaluate implements model.Model.
func (m *Model) Evaluate(ctx context.Context, target string, inputs map[string][]float64) ([]float64, error) {
	return model.Evaluate(ctx, m.fitted, m.def, target, inputs)
}
