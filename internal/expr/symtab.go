package expr

import (
	"fmt"
	"strings"
)

// DefaultOutputName names the bare trailing expression of a template.
const DefaultOutputName = "f"

// SymbolTable maps assigned names to their expression trees and carries the
// parameter vectors declared alongside them. A table is built once by the
// parser or a substitution pass and is not modified afterwards.
type SymbolTable struct {
	order      []string
	symbols    map[string]Node
	paramOrder []string
	params     map[string][]float64
	output     string
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		symbols: make(map[string]Node),
		params:  make(map[string][]float64),
	}
}

// Define assigns n to name. Redefining a symbol or a parameter vector is a
// SyntaxError.
func (st *SymbolTable) Define(name string, n Node) error {
	if st.taken(name) {
		return &SyntaxError{Token: name, Message: fmt.Sprintf("%q is assigned more than once", name)}
	}
	st.order = append(st.order, name)
	st.symbols[name] = n
	return nil
}

// DefineParameters records a parameter vector. The slice is copied.
func (st *SymbolTable) DefineParameters(name string, values []float64) error {
	if st.taken(name) {
		return &SyntaxError{Token: name, Message: fmt.Sprintf("%q is assigned more than once", name)}
	}
	st.paramOrder = append(st.paramOrder, name)
	st.params[name] = append([]float64(nil), values...)
	return nil
}

func (st *SymbolTable) taken(name string) bool {
	_, sym := st.symbols[name]
	_, par := st.params[name]
	return sym || par
}

// Names returns the assigned symbol names in declaration order.
func (st *SymbolTable) Names() []string {
	return append([]string(nil), st.order...)
}

// Len returns the number of assigned symbols.
func (st *SymbolTable) Len() int { return len(st.order) }

// Lookup returns the tree assigned to name.
func (st *SymbolTable) Lookup(name string) (Node, bool) {
	n, ok := st.symbols[name]
	return n, ok
}

// Has reports whether name is an assigned symbol.
func (st *SymbolTable) Has(name string) bool {
	_, ok := st.symbols[name]
	return ok
}

// Output returns the name of the bare output expression, or "" when the
// template has none.
func (st *SymbolTable) Output() string { return st.output }

// Parameters returns a copy of every parameter vector.
func (st *SymbolTable) Parameters() map[string][]float64 {
	out := make(map[string][]float64, len(st.params))
	for k, v := range st.params {
		out[k] = append([]float64(nil), v...)
	}
	return out
}

// Transform returns a new table whose symbols are fn applied to each tree.
// Parameter vectors and the output name carry over unchanged.
func (st *SymbolTable) Transform(fn func(name string, n Node) (Node, error)) (*SymbolTable, error) {
	out := st.clone()
	for _, name := range st.order {
		n, err := fn(name, st.symbols[name])
		if err != nil {
			return nil, fmt.Errorf("symbol %q: %w", name, err)
		}
		out.symbols[name] = n
	}
	return out, nil
}

func (st *SymbolTable) clone() *SymbolTable {
	out := NewSymbolTable()
	out.order = append(out.order, st.order...)
	for k, v := range st.symbols {
		out.symbols[k] = v
	}
	out.paramOrder = append(out.paramOrder, st.paramOrder...)
	for k, v := range st.params {
		out.params[k] = v
	}
	out.output = st.output
	return out
}

// String prints the table back in template syntax. The output expression is
// printed bare and parameter vectors come last.
func (st *SymbolTable) String() string {
	stmts := make([]string, 0, len(st.order)+len(st.paramOrder))
	for _, name := range st.order {
		if name == st.output {
			stmts = append(stmts, st.symbols[name].String())
			continue
		}
		stmts = append(stmts, name+" = "+st.symbols[name].String())
	}
	for _, name := range st.paramOrder {
		vals := make([]string, len(st.params[name]))
		for i, v := range st.params[name] {
			vals[i] = FormatNumber(v)
		}
		stmts = append(stmts, name+" = ["+strings.Join(vals, ", ")+"]")
	}
	return strings.Join(stmts, "; ")
}
