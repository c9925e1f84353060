package config

import (
	"fmt"
	"slices"
	"sort"
)

// DefaultProblem names the solver output of a model that fits a single
// regression problem.
const DefaultProblem = "default"

// Model is the unified, format-agnostic representation of every model
// definition and recorded fit.
type Model struct {
	Models   map[string]*ModelDefinition
	Fits     map[string]*FitRecord
	Datasets map[string]*Dataset
}

// NewModel returns an empty configuration.
func NewModel() *Model {
	return &Model{
		Models:   make(map[string]*ModelDefinition),
		Fits:     make(map[string]*FitRecord),
		Datasets: make(map[string]*Dataset),
	}
}

// AddModel registers def under its name. Names are unique across files.
func (m *Model) AddModel(def *ModelDefinition) error {
	if _, exists := m.Models[def.Name]; exists {
		return fmt.Errorf("duplicate model definition %q", def.Name)
	}
	m.Models[def.Name] = def
	return nil
}

// AddFit registers rec under its model name.
func (m *Model) AddFit(rec *FitRecord) error {
	if _, exists := m.Fits[rec.Model]; exists {
		return fmt.Errorf("duplicate fit for model %q", rec.Model)
	}
	m.Fits[rec.Model] = rec
	return nil
}

// AddDataset registers d under its name.
func (m *Model) AddDataset(d *Dataset) error {
	if _, exists := m.Datasets[d.Name]; exists {
		return fmt.Errorf("duplicate dataset %q", d.Name)
	}
	m.Datasets[d.Name] = d
	return nil
}

// DatasetNames returns the dataset names in sorted order.
func (m *Model) DatasetNames() []string {
	names := make([]string, 0, len(m.Datasets))
	for name := range m.Datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModelNames returns the defined model names in sorted order.
func (m *Model) ModelNames() []string {
	names := make([]string, 0, len(m.Models))
	for name := range m.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModelDefinition configures one model instance.
type ModelDefinition struct {
	// Kind selects the registered model implementation, e.g. "kr_base".
	Kind        string
	Name        string
	Description string

	Inputs  []string
	Outputs []string
	Slots   []string
	// Parameters declares the size of each parameter group.
	Parameters map[string]int
	OutputName string
	// Template overrides the implementation's built-in template, if any.
	Template string

	// Targets are the symbols displayed after a fit.
	Targets            []string
	SignificantFigures int
	Strict             bool
	// Display maps internal names to LaTeX display names.
	Display map[string]string
	// Columns maps internal names to dataset field names.
	Columns map[string]string

	Prediction Prediction
}

// Column returns the dataset field bound to name, or name itself.
func (d *ModelDefinition) Column(name string) string {
	if c, ok := d.Columns[name]; ok {
		return c
	}
	return name
}

// HasInput reports whether name is a declared input.
func (d *ModelDefinition) HasInput(name string) bool {
	return slices.Contains(d.Inputs, name)
}

// Prediction controls how curves are sampled when predicting.
type Prediction struct {
	Points int
	Start  float64
}

// DefaultPrediction matches the sampling used for creep curves.
var DefaultPrediction = Prediction{Points: 100, Start: 0.1}

// OrDefault returns DefaultPrediction when p is the zero value.
func (p Prediction) OrDefault() Prediction {
	if p == (Prediction{}) {
		return DefaultPrediction
	}
	return p
}

// FitRecord holds the solver output of one fit so it can be replayed.
type FitRecord struct {
	Model string
	// Expressions maps a regression problem name to the solver's raw output.
	Expressions map[string]string
	// Parameters holds extra parameter groups that override those in the
	// expressions.
	Parameters map[string][]float64
}

// Expression returns the solver output recorded for problem.
func (r *FitRecord) Expression(problem string) (string, bool) {
	s, ok := r.Expressions[problem]
	return s, ok
}

// Problems returns the recorded problem names in sorted order.
func (r *FitRecord) Problems() []string {
	names := make([]string, 0, len(r.Expressions))
	for name := range r.Expressions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dataset is one experiment's data as named columns. Columns of length one
// hold values that are constant within the experiment.
type Dataset struct {
	Name   string
	Weight float64
	Fields map[string][]float64
}
