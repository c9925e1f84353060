package hcl

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// ParseInput parses an assignment such as `x1 = [1, 2, 4]` or `x2 = 1023.15`
// into a variable name and its values. The right-hand side is an HCL
// expression that must evaluate to a number or a list of numbers.
func ParseInput(ctx context.Context, s string) (string, []float64, error) {
	name, rhs, ok := strings.Cut(s, "=")
	if !ok {
		return "", nil, fmt.Errorf("input %q: expected name=value", s)
	}
	name = strings.TrimSpace(name)
	if !hclsyntax.ValidIdentifier(name) {
		return "", nil, fmt.Errorf("input %q: %q is not a valid name", s, name)
	}

	expr, diags := hclsyntax.ParseExpression([]byte(rhs), "<input "+name+">", hcl.InitialPos)
	if diags.HasErrors() {
		return "", nil, fmt.Errorf("input %q: %w", name, diags)
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", nil, fmt.Errorf("input %q: %w", name, diags)
	}

	vs, err := decodeNumbers(ctx, val)
	if err != nil {
		return "", nil, fmt.Errorf("input %q: %w", name, err)
	}
	return name, vs, nil
}

// decodeNumbers converts a number or a list of numbers into a vector.
func decodeNumbers(ctx context.Context, val cty.Value) ([]float64, error) {
	if val.Type() == cty.Number {
		var v float64
		if err := decodeValue(ctx, val, cty.Number, &v); err != nil {
			return nil, err
		}
		return []float64{v}, nil
	}

	var vs []float64
	if err := decodeValue(ctx, val, cty.List(cty.Number), &vs); err != nil {
		return nil, err
	}
	if vs == nil {
		vs = []float64{}
	}
	return vs, nil
}

// ParseInputs parses several assignments into one input map. A name may
// appear only once.
func ParseInputs(ctx context.Context, assignments []string) (map[string][]float64, error) {
	out := make(map[string][]float64, len(assignments))
	for _, s := range assignments {
		name, vs, err := ParseInput(ctx, s)
		if err != nil {
			return nil, err
		}
		if _, exists := out[name]; exists {
			return nil, fmt.Errorf("input %q given more than once", name)
		}
		out[name] = vs
	}
	return out, nil
}
