package hcl

import (
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/symcreep/internal/config"
)

// WriteFit writes rec as a `fit` block that Loader reads back unchanged.
// Parameter values are written with full precision.
func WriteFit(w io.Writer, rec *config.FitRecord) error {
	if rec == nil || rec.Model == "" {
		return fmt.Errorf("fit record must name a model")
	}
	if len(rec.Expressions) == 0 {
		return fmt.Errorf("fit %q: no expression recorded", rec.Model)
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body().AppendNewBlock("fit", []string{rec.Model}).Body()

	if s, ok := rec.Expressions[config.DefaultProblem]; ok && len(rec.Expressions) == 1 {
		body.SetAttributeValue("expression", cty.StringVal(s))
	} else {
		exprs, err := toCtyValue(rec.Expressions, cty.Map(cty.String))
		if err != nil {
			return err
		}
		body.SetAttributeValue("expressions", exprs)
	}

	if len(rec.Parameters) > 0 {
		params, err := toCtyValue(rec.Parameters, cty.Map(cty.List(cty.Number)))
		if err != nil {
			return err
		}
		body.SetAttributeValue("parameters", params)
	}

	_, err := f.WriteTo(w)
	return err
}
