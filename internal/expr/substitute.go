package expr

import "fmt"

// InlineParameters replaces every parameter reference g[k] with the literal
// groups[g][k-1]. References to groups absent from groups are left in place,
// so groups may be inlined one pass at a time; MissingParameters reports any
// that remain.
func InlineParameters(n Node, groups map[string][]float64) (Node, error) {
	return Rewrite(n, func(n Node) (Node, error) {
		ref, ok := n.(*ParamRef)
		if !ok {
			return n, nil
		}
		vals, ok := groups[ref.Group]
		if !ok {
			return n, nil
		}
		if ref.Index < 1 || ref.Index > len(vals) {
			return nil, &MissingParameterError{Group: ref.Group, Index: ref.Index, Size: len(vals)}
		}
		return Num(vals[ref.Index-1]), nil
	})
}

// InlinePlaceholders replaces every #i with a variable named names[i-1].
func InlinePlaceholders(n Node, names []string) (Node, error) {
	return Rewrite(n, func(n Node) (Node, error) {
		ph, ok := n.(*Placeholder)
		if !ok {
			return n, nil
		}
		if ph.Index < 1 || ph.Index > len(names) {
			return nil, &PlaceholderRangeError{Index: ph.Index, Size: len(names)}
		}
		return Var(names[ph.Index-1]), nil
	})
}

// BindPlaceholders replaces every #j with the j-th argument tree.
func BindPlaceholders(n Node, args []Node) (Node, error) {
	return Rewrite(n, func(n Node) (Node, error) {
		ph, ok := n.(*Placeholder)
		if !ok {
			return n, nil
		}
		if ph.Index < 1 || ph.Index > len(args) {
			return nil, &PlaceholderRangeError{Index: ph.Index, Size: len(args)}
		}
		return args[ph.Index-1], nil
	})
}

// InlineSlots replaces each call to a slot in bodies with the slot's body,
// binding #j in the body to the j-th call argument. Bodies may call other
// slots; a slot that reaches itself is an error.
func InlineSlots(n Node, bodies map[string]Node) (Node, error) {
	return inlineSlots(n, bodies, nil)
}

func inlineSlots(n Node, bodies map[string]Node, active []string) (Node, error) {
	return Rewrite(n, func(n Node) (Node, error) {
		c, ok := n.(*Call)
		if !ok {
			return n, nil
		}
		body, ok := bodies[c.Func]
		if !ok {
			return n, nil
		}
		for _, a := range active {
			if a == c.Func {
				return nil, &UnresolvedError{Node: c.Func + "(...)", Reason: fmt.Sprintf("slot body refers to itself through %v", append(active, c.Func))}
			}
		}
		bound, err := BindPlaceholders(body, c.Args)
		if err != nil {
			return nil, fmt.Errorf("call to %s: %w", c.Func, err)
		}
		return inlineSlots(bound, bodies, append(active[:len(active):len(active)], c.Func))
	})
}

// SubstituteText parses text, inlines the template's own parameter vectors
// overlaid with groups, and prints the result back in template syntax.
func SubstituteText(text string, groups map[string][]float64, opts ...ParseOption) (string, error) {
	st, err := Parse(text, opts...)
	if err != nil {
		return "", err
	}
	merged := st.Parameters()
	for k, v := range groups {
		merged[k] = v
	}
	out, err := st.Transform(func(_ string, n Node) (Node, error) {
		return InlineParameters(n, merged)
	})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}
