package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/symcreep/internal/config"
	"github.com/vk/symcreep/internal/ctxlog"
	"github.com/vk/symcreep/internal/fsutil"
	"github.com/vk/symcreep/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load parses every .hcl file found under paths and merges their model, fit
// and dataset blocks into one configuration. Any block may appear in any file.
// Problems inside blocks are collected across all files and returned as
// hcl.Diagnostics carrying source ranges.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindAll(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := config.NewModel()
	parser := hclparse.NewParser()

	var diags hcl.Diagnostics
	seen := make(map[string]hcl.Range)
	declare := func(kind, name string, r hcl.Range) bool {
		key := kind + "." + name
		if prev, exists := seen[key]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate " + kind,
				Detail:   fmt.Sprintf("A %s named %q was already defined at %s.", kind, name, prev),
				Subject:  r.Ptr(),
			})
			return false
		}
		seen[key] = r
		return true
	}

	for _, file := range files {
		hclFile, parseDiags := parser.ParseHCLFile(file)
		if parseDiags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, parseDiags)
		}

		var root schema.File
		if decodeDiags := gohcl.DecodeBody(hclFile.Body, nil, &root); decodeDiags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, decodeDiags)
		}

		for _, m := range root.Models {
			def, defDiags := translateModel(ctx, m)
			diags = append(diags, defDiags...)
			if defDiags.HasErrors() || !declare("model definition", m.Name, m.DefRange) {
				continue
			}
			if err := model.AddModel(def); err != nil {
				return nil, fmt.Errorf("in file %s: %w", file, err)
			}
		}
		for _, f := range root.Fits {
			rec, fitDiags := translateFit(ctx, f)
			diags = append(diags, fitDiags...)
			if fitDiags.HasErrors() || !declare("fit", f.Model, f.DefRange) {
				continue
			}
			if err := model.AddFit(rec); err != nil {
				return nil, fmt.Errorf("in file %s: %w", file, err)
			}
		}
		for _, d := range root.Datasets {
			ds, dsDiags := translateDataset(ctx, d)
			diags = append(diags, dsDiags...)
			if dsDiags.HasErrors() || !declare("dataset", d.Name, d.DefRange) {
				continue
			}
			if err := model.AddDataset(ds); err != nil {
				return nil, fmt.Errorf("in file %s: %w", file, err)
			}
		}
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid configuration blocks: %w", diags)
	}

	logger.Debug("HCL loading complete.", "models", len(model.Models), "fits", len(model.Fits), "datasets", len(model.Datasets))
	return model, nil
}
