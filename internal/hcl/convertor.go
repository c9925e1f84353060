package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/symcreep/internal/ctxlog"
)

// decodeExpr evaluates expr without variables, converts the result to ty
// and stores it in the Go value target points to.
func decodeExpr(ctx context.Context, expr hcl.Expression, ty cty.Type, target any) error {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	return decodeValue(ctx, val, ty, target)
}

// decodeValue converts val to ty and binds it into target.
func decodeValue(ctx context.Context, val cty.Value, ty cty.Type, target any) error {
	logger := ctxlog.FromContext(ctx)
	if val.IsNull() {
		return fmt.Errorf("value must not be null")
	}
	if !val.IsWhollyKnown() {
		return fmt.Errorf("value must be known")
	}

	converted, err := convert.Convert(val, ty)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), ty.FriendlyName(), err)
	}
	if !val.Type().Equals(converted.Type()) {
		logger.Debug("Implicitly converted value type.",
			"from", val.Type().FriendlyName(),
			"to", converted.Type().FriendlyName(),
		)
	}
	return gocty.FromCtyValue(converted, target)
}

// toCtyValue converts a native Go value into a cty.Value of type ty.
func toCtyValue(v any, ty cty.Type) (cty.Value, error) {
	val, err := gocty.ToCtyValue(v, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to convert %T to %s: %w", v, ty.FriendlyName(), err)
	}
	return val, nil
}
