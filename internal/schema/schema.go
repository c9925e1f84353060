// Package schema holds the HCL decoding structures for configuration files.
package schema

import "github.com/hashicorp/hcl/v2"

// File represents the top-level structure of a configuration file. A file
// may hold any mix of model, fit and dataset blocks.
type File struct {
	Models   []*Model   `hcl:"model,block"`
	Fits     []*Fit     `hcl:"fit,block"`
	Datasets []*Dataset `hcl:"dataset,block"`
	Remain   hcl.Body   `hcl:",remain"`
}

// Model represents a `model "<kind>" "<name>"` block.
type Model struct {
	Kind        string `hcl:"kind,label"`
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`

	Inputs  []string `hcl:"inputs,optional"`
	Outputs []string `hcl:"outputs,optional"`
	Slots   []string `hcl:"slots,optional"`
	// Parameters is decoded as map(number) after evaluation.
	Parameters hcl.Expression `hcl:"parameters,optional"`
	OutputName string         `hcl:"output_name,optional"`
	Template   string         `hcl:"template,optional"`

	Targets            []string          `hcl:"targets,optional"`
	SignificantFigures *int              `hcl:"significant_figures,optional"`
	Strict             bool              `hcl:"strict,optional"`
	Display            map[string]string `hcl:"display,optional"`
	Columns            map[string]string `hcl:"columns,optional"`

	Prediction *Prediction `hcl:"prediction,block"`

	DefRange     hcl.Range `hcl:",def_range"`
	SigFigsRange hcl.Range `hcl:"significant_figures,attr_value_range"`
}

// Prediction represents the `prediction` block within a model.
type Prediction struct {
	Points *int     `hcl:"points,optional"`
	Start  *float64 `hcl:"start,optional"`

	PointsRange hcl.Range `hcl:"points,attr_value_range"`
}

// Fit represents a `fit "<model>"` block holding recorded solver output.
type Fit struct {
	Model       string            `hcl:"model,label"`
	Expression  string            `hcl:"expression,optional"`
	Expressions map[string]string `hcl:"expressions,optional"`
	// Parameters is decoded as map(list(number)) after evaluation.
	Parameters hcl.Expression `hcl:"parameters,optional"`

	DefRange hcl.Range `hcl:",def_range"`
}

// Dataset represents a `dataset "<name>"` block of experimental data.
type Dataset struct {
	Name   string   `hcl:"name,label"`
	Weight *float64 `hcl:"weight,optional"`
	// Fields is an object whose attributes are numbers or lists of numbers.
	Fields hcl.Expression `hcl:"fields"`

	DefRange    hcl.Range `hcl:",def_range"`
	WeightRange hcl.Range `hcl:"weight,attr_value_range"`
}
