package expr

// Inspect traverses n in depth-first order, calling fn for each node before
// its children. Children are skipped when fn returns false.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *Unary:
		Inspect(n.X, fn)
	case *Binary:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *Call:
		for _, a := range n.Args {
			Inspect(a, fn)
		}
	}
}

// Rewrite rebuilds n bottom-up: children are rewritten first, then fn sees
// the node with its new children. Unchanged subtrees are shared with the
// input, which is never modified.
func Rewrite(n Node, fn func(Node) (Node, error)) (Node, error) {
	switch n := n.(type) {
	case *Unary:
		x, err := Rewrite(n.X, fn)
		if err != nil {
			return nil, err
		}
		if x != n.X {
			return fn(&Unary{Op: n.Op, X: x})
		}
	case *Binary:
		l, err := Rewrite(n.Left, fn)
		if err != nil {
			return nil, err
		}
		r, err := Rewrite(n.Right, fn)
		if err != nil {
			return nil, err
		}
		if l != n.Left || r != n.Right {
			return fn(&Binary{Op: n.Op, Left: l, Right: r})
		}
	case *Call:
		var args []Node
		for i, a := range n.Args {
			na, err := Rewrite(a, fn)
			if err != nil {
				return nil, err
			}
			if na != a && args == nil {
				args = append(make([]Node, 0, len(n.Args)), n.Args[:i]...)
			}
			if args != nil {
				args = append(args, na)
			}
		}
		if args != nil {
			return fn(&Call{Func: n.Func, Args: args})
		}
	}
	return fn(n)
}

// Variables returns the distinct variable names referenced by n in order of
// first appearance.
func Variables(n Node) []string {
	var names []string
	seen := make(map[string]bool)
	Inspect(n, func(n Node) bool {
		if v, ok := n.(*Variable); ok && !seen[v.Name] {
			seen[v.Name] = true
			names = append(names, v.Name)
		}
		return true
	})
	return names
}

// Placeholders returns the largest placeholder index in n, or 0.
func Placeholders(n Node) int {
	highest := 0
	Inspect(n, func(n Node) bool {
		if ph, ok := n.(*Placeholder); ok && ph.Index > highest {
			highest = ph.Index
		}
		return true
	})
	return highest
}

// Calls returns the distinct function names called in n in order of first
// appearance.
func Calls(n Node) []string {
	var names []string
	seen := make(map[string]bool)
	Inspect(n, func(n Node) bool {
		if c, ok := n.(*Call); ok && !seen[c.Func] {
			seen[c.Func] = true
			names = append(names, c.Func)
		}
		return true
	})
	return names
}

// MissingParameters returns a *MissingParameterError for the first parameter
// reference left in n.
func MissingParameters(n Node) error {
	var err error
	Inspect(n, func(n Node) bool {
		if ref, ok := n.(*ParamRef); ok && err == nil {
			err = &MissingParameterError{Group: ref.Group, Index: ref.Index, Size: -1}
		}
		return err == nil
	})
	return err
}

// Unresolved returns an *UnresolvedError or *MissingParameterError for the
// first node in n that must be substituted before evaluation: a parameter
// reference, a placeholder or a call to a non-builtin function.
func Unresolved(n Node) error {
	var err error
	Inspect(n, func(n Node) bool {
		if err != nil {
			return false
		}
		switch n := n.(type) {
		case *ParamRef:
			err = &MissingParameterError{Group: n.Group, Index: n.Index, Size: -1}
		case *Placeholder:
			err = &UnresolvedError{Node: n.String(), Reason: "placeholder has no binding"}
		case *Call:
			if !IsBuiltin(n.Func) {
				err = &UnresolvedError{Node: n.Func + "(...)", Reason: "sub-expression slot has no fitted body"}
			}
		}
		return err == nil
	})
	return err
}
