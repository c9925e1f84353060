// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/symcreep/internal/config"
	"github.com/vk/symcreep/internal/ctxlog"
	"github.com/vk/symcreep/internal/schema"
)

// DefaultSignificantFigures applies when a model omits significant_figures.
const DefaultSignificantFigures = 5

func translateModel(ctx context.Context, m *schema.Model) (*config.ModelDefinition, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx).With("model", m.Name, "kind", m.Kind)
	var diags hcl.Diagnostics

	def := &config.ModelDefinition{
		Kind:               m.Kind,
		Name:               m.Name,
		Description:        m.Description,
		Inputs:             m.Inputs,
		Outputs:            m.Outputs,
		Slots:              m.Slots,
		OutputName:         m.OutputName,
		Template:           m.Template,
		Targets:            m.Targets,
		SignificantFigures: DefaultSignificantFigures,
		Strict:             m.Strict,
		Display:            maps.Clone(m.Display),
		Columns:            maps.Clone(m.Columns),
		Prediction:         config.DefaultPrediction,
	}
	if m.SignificantFigures != nil {
		if *m.SignificantFigures < 0 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid significant_figures",
				Detail:   fmt.Sprintf("Model %q: significant_figures must not be negative, got %d.", m.Name, *m.SignificantFigures),
				Subject:  m.SigFigsRange.Ptr(),
			})
		}
		def.SignificantFigures = *m.SignificantFigures
	}

	if isExprDefined(ctx, m.Parameters, "parameters") {
		if err := decodeExpr(ctx, m.Parameters, cty.Map(cty.Number), &def.Parameters); err != nil {
			diags = append(diags, exprDiagnostics(m.Parameters, "Invalid parameters", fmt.Sprintf("Model %q: invalid parameters", m.Name), err)...)
		}
		for _, group := range slices.Sorted(maps.Keys(def.Parameters)) {
			if size := def.Parameters[group]; size < 1 {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid parameter group size",
					Detail:   fmt.Sprintf("Model %q: parameter group %q must have at least one value, got %d.", m.Name, group, size),
					Subject:  m.Parameters.Range().Ptr(),
				})
			}
		}
	}

	if p := m.Prediction; p != nil {
		if p.Points != nil {
			if *p.Points < 1 {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid prediction points",
					Detail:   fmt.Sprintf("Model %q: prediction points must be positive, got %d.", m.Name, *p.Points),
					Subject:  p.PointsRange.Ptr(),
				})
			}
			def.Prediction.Points = *p.Points
		}
		if p.Start != nil {
			def.Prediction.Start = *p.Start
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}

	logger.Debug("Translated model definition.", "inputs", len(def.Inputs), "slots", len(def.Slots), "templated", def.Template != "")
	return def, diags
}

func translateFit(ctx context.Context, f *schema.Fit) (*config.FitRecord, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	rec := &config.FitRecord{
		Model:       f.Model,
		Expressions: make(map[string]string, len(f.Expressions)+1),
	}
	maps.Copy(rec.Expressions, f.Expressions)
	if f.Expression != "" {
		if _, exists := rec.Expressions[config.DefaultProblem]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Ambiguous fit expression",
				Detail:   fmt.Sprintf("Fit %q: both expression and expressions[%q] are set.", f.Model, config.DefaultProblem),
				Subject:  f.DefRange.Ptr(),
			})
		}
		rec.Expressions[config.DefaultProblem] = f.Expression
	}
	if len(rec.Expressions) == 0 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Empty fit",
			Detail:   fmt.Sprintf("Fit %q: no expression recorded.", f.Model),
			Subject:  f.DefRange.Ptr(),
		})
	}

	if isExprDefined(ctx, f.Parameters, "parameters") {
		if err := decodeExpr(ctx, f.Parameters, cty.Map(cty.List(cty.Number)), &rec.Parameters); err != nil {
			diags = append(diags, exprDiagnostics(f.Parameters, "Invalid parameters", fmt.Sprintf("Fit %q: invalid parameters", f.Model), err)...)
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}

	ctxlog.FromContext(ctx).Debug("Translated fit record.", "model", f.Model, "problems", len(rec.Expressions), "groups", len(rec.Parameters))
	return rec, diags
}

func translateDataset(ctx context.Context, d *schema.Dataset) (*config.Dataset, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	out := &config.Dataset{Name: d.Name, Weight: 1}
	if d.Weight != nil {
		if *d.Weight < 0 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid dataset weight",
				Detail:   fmt.Sprintf("Dataset %q: weight must not be negative, got %g.", d.Name, *d.Weight),
				Subject:  d.WeightRange.Ptr(),
			})
		}
		out.Weight = *d.Weight
	}

	val, valDiags := d.Fields.Value(nil)
	diags = append(diags, valDiags...)
	if valDiags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() || !(val.Type().IsObjectType() || val.Type().IsMapType()) {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid dataset fields",
			Detail:   fmt.Sprintf("Dataset %q: fields must be an object of numbers or lists of numbers.", d.Name),
			Subject:  d.Fields.Range().Ptr(),
		})
		return nil, diags
	}
	out.Fields = make(map[string][]float64, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		name := k.AsString()
		vs, err := decodeNumbers(ctx, v)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid dataset field",
				Detail:   fmt.Sprintf("Dataset %q: field %q: %s.", d.Name, name, err),
				Subject:  d.Fields.Range().Ptr(),
			})
			continue
		}
		out.Fields[name] = vs
	}
	if diags.HasErrors() {
		return nil, diags
	}

	ctxlog.FromContext(ctx).Debug("Translated dataset.", "dataset", d.Name, "fields", len(out.Fields))
	return out, diags
}

// exprDiagnostics turns a decoding failure of expr into diagnostics. HCL
// diagnostics from evaluation are passed through; other errors are reported
// against the expression's range.
func exprDiagnostics(expr hcl.Expression, summary, detail string, err error) hcl.Diagnostics {
	var diags hcl.Diagnostics
	if errors.As(err, &diags) {
		return diags
	}
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   fmt.Sprintf("%s: %s.", detail, err),
		Subject:  expr.Range().Ptr(),
	}}
}

// isExprDefined checks if an HCL expression was actually present in the
// source. The decoder fills omitted optional expressions with zero-width
// placeholders, so a nil check is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	defined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.", "attribute", attrName, "hcl_range", r.String(), "is_defined", defined)
	return defined
}
