package app

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vk/symcreep/internal/config"
	"github.com/vk/symcreep/internal/ctxlog"
	"github.com/vk/symcreep/internal/expr"
	"github.com/vk/symcreep/internal/hcl"
	"github.com/vk/symcreep/internal/model"
	"github.com/vk/symcreep/internal/solver"
)

// Run loads the configuration, replays the selected model's recorded fit
// and prints the requested output.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	cfg, err := a.loader.Load(ctx, a.config.ConfigPaths...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := a.registry.Validate(ctx, cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	def, err := a.definition(cfg)
	if err != nil {
		return err
	}
	rec, ok := cfg.Fits[def.Name]
	if !ok {
		return fmt.Errorf("no fit recorded for model %q", def.Name)
	}
	data, err := a.datasets(cfg)
	if err != nil {
		return err
	}

	m, err := a.registry.Instantiate(ctx, def)
	if err != nil {
		return err
	}
	a.logger.Info("Replaying recorded fit.", "model", def.Name, "kind", def.Kind, "datasets", len(data))
	res, err := m.Fit(ctx, solver.NewReplay(rec), data)
	if err != nil {
		return fmt.Errorf("replaying fit for model %q: %w", def.Name, err)
	}

	switch {
	case len(a.config.Inputs) > 0:
		err = a.evaluate(ctx, m, def)
	case a.config.Predict:
		err = a.predict(ctx, m, data)
	case a.config.Errors:
		err = a.reportErrors(ctx, m, data)
	}
	if err != nil {
		return err
	}
	if a.config.Render || (len(a.config.Inputs) == 0 && !a.config.Predict && !a.config.Errors) {
		if err := a.render(ctx, m); err != nil {
			return err
		}
	}

	if a.config.SaveFit != "" {
		if err := saveFit(a.config.SaveFit, res.Record); err != nil {
			return err
		}
		a.logger.Info("Saved fit.", "path", a.config.SaveFit)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// definition selects the model to run and applies the command-line
// overrides to a copy of its definition.
func (a *App) definition(cfg *config.Model) (*config.ModelDefinition, error) {
	name := a.config.Model
	if name == "" {
		names := cfg.ModelNames()
		if len(names) != 1 {
			return nil, fmt.Errorf("select a model with -model, have %v", names)
		}
		name = names[0]
	}
	orig, ok := cfg.Models[name]
	if !ok {
		return nil, fmt.Errorf("model %q is not defined, have %v", name, cfg.ModelNames())
	}

	def := *orig
	if len(a.config.Targets) > 0 {
		def.Targets = slices.Clone(a.config.Targets)
	}
	if a.config.Strict {
		def.Strict = true
	}
	if a.config.SigFigs >= 0 {
		def.SignificantFigures = a.config.SigFigs
	}
	return &def, nil
}

// datasets returns the selected datasets in name order.
func (a *App) datasets(cfg *config.Model) ([]*model.Dataset, error) {
	names := a.config.Datasets
	if len(names) == 0 {
		names = cfg.DatasetNames()
	}
	out := make([]*model.Dataset, 0, len(names))
	for _, name := range names {
		d, ok := cfg.Datasets[name]
		if !ok {
			return nil, fmt.Errorf("dataset %q is not defined", name)
		}
		out = append(out, &model.Dataset{Name: d.Name, Weight: d.Weight, Fields: d.Fields})
	}
	return out, nil
}

func (a *App) render(ctx context.Context, m model.Model) error {
	lines, err := m.DisplayExpressions(ctx)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	for _, l := range lines {
		fmt.Fprintln(a.outW, l)
	}
	return nil
}

// evaluate computes every target over the command-line inputs. Targets
// are evaluated concurrently and printed in the order given.
func (a *App) evaluate(ctx context.Context, m model.Model, def *config.ModelDefinition) error {
	inputs, err := hcl.ParseInputs(ctx, a.config.Inputs)
	if err != nil {
		return err
	}
	targets := def.Targets
	if len(targets) == 0 {
		return fmt.Errorf("no targets to evaluate, use -target")
	}

	results := make([][]float64, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		g.Go(func() error {
			v, err := m.Evaluate(gctx, target, inputs)
			if err != nil {
				return fmt.Errorf("evaluating %q: %w", target, err)
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, target := range targets {
		fmt.Fprintf(a.outW, "%s = %s\n", target, formatVector(results[i]))
	}
	return nil
}

func (a *App) predict(ctx context.Context, m model.Model, data []*model.Dataset) error {
	if len(data) == 0 {
		return fmt.Errorf("no datasets to predict")
	}
	preds, err := m.Predict(ctx, data)
	if err != nil {
		return fmt.Errorf("predicting: %w", err)
	}
	for _, p := range preds {
		fmt.Fprintf(a.outW, "dataset %q\n", p.Dataset)
		fields := make([]string, 0, len(p.Fields))
		for f := range p.Fields {
			fields = append(fields, f)
		}
		slices.Sort(fields)
		for _, f := range fields {
			fmt.Fprintf(a.outW, "  %s = %s\n", f, formatVector(p.Fields[f]))
		}
	}
	return nil
}

// errorReporter is implemented by models that can summarise their fit
// error over a set of datasets.
type errorReporter interface {
	Errors(ctx context.Context, data []*model.Dataset) (map[string]float64, error)
}

func (a *App) reportErrors(ctx context.Context, m model.Model, data []*model.Dataset) error {
	r, ok := m.(errorReporter)
	if !ok {
		return fmt.Errorf("model kind %q does not report errors", m.Kind())
	}
	if len(data) == 0 {
		return fmt.Errorf("no datasets to compute errors over")
	}
	errs, err := r.Errors(ctx, data)
	if err != nil {
		return fmt.Errorf("computing errors: %w", err)
	}
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(a.outW, "%s = %s\n", name, expr.FormatNumber(errs[name]))
	}
	return nil
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = expr.FormatNumber(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func saveFit(path string, rec *config.FitRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saving fit: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("saving fit: %w", cerr)
		}
	}()
	if err := hcl.WriteFit(f, rec); err != nil {
		return fmt.Errorf("saving fit: %w", err)
	}
	return nil
}
