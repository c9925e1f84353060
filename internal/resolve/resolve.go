// Package resolve orders the named symbols of a SymbolTable by their
// dependencies. Names that are referenced but never assigned are leaves,
// supplied from outside at evaluation time.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/symcreep/internal/dag"
	"github.com/vk/symcreep/internal/expr"
)

var (
	ErrCyclicDependency = errors.New("cyclic dependency")
	ErrUndefinedSymbol  = errors.New("undefined symbol")
)

// CyclicDependencyError names the symbols that depend on each other.
type CyclicDependencyError struct {
	Members []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency between %s", strings.Join(e.Members, ", "))
}

func (e *CyclicDependencyError) Is(target error) bool { return target == ErrCyclicDependency }

// UndefinedSymbolError reports a target name that is not assigned.
type UndefinedSymbolError struct {
	Name string
}

func (e *UndefinedSymbolError) Error() string {
	return fmt.Sprintf("undefined symbol %q", e.Name)
}

func (e *UndefinedSymbolError) Is(target error) bool { return target == ErrUndefinedSymbol }

// Graph builds the dependency graph of st: one node per assigned name, with
// an edge from every referenced assigned name to the symbol referring to it.
func Graph(st *expr.SymbolTable) (*dag.Graph, error) {
	g := dag.New()
	names := st.Names()
	for _, name := range names {
		g.AddNode(name)
	}
	for _, name := range names {
		n, _ := st.Lookup(name)
		for _, ref := range expr.Variables(n) {
			if !st.Has(ref) {
				continue
			}
			if err := g.AddEdge(ref, name); err != nil {
				return nil, translate(err)
			}
		}
	}
	if err := g.DetectCycles(); err != nil {
		return nil, translate(err)
	}
	return g, nil
}

// TopoOrder returns every assigned name after all names it references.
func TopoOrder(st *expr.SymbolTable) ([]string, error) {
	g, err := Graph(st)
	if err != nil {
		return nil, err
	}
	return g.TopologicalOrder()
}

// Closure returns target and every assigned name it depends on, in
// evaluation order.
func Closure(st *expr.SymbolTable, target string) ([]string, error) {
	if !st.Has(target) {
		return nil, &UndefinedSymbolError{Name: target}
	}
	g, err := Graph(st)
	if err != nil {
		return nil, err
	}
	return g.Ancestors(target)
}

// Leaves returns the unassigned names reachable from target, in order of
// first appearance along the evaluation order. These are the inputs the
// caller must supply.
func Leaves(st *expr.SymbolTable, target string) ([]string, error) {
	closure, err := Closure(st, target)
	if err != nil {
		return nil, err
	}
	var leaves []string
	seen := make(map[string]bool)
	for _, name := range closure {
		n, _ := st.Lookup(name)
		for _, ref := range expr.Variables(n) {
			if !st.Has(ref) && !seen[ref] {
				seen[ref] = true
				leaves = append(leaves, ref)
			}
		}
	}
	return leaves, nil
}

func translate(err error) error {
	var cycle *dag.CycleError
	if errors.As(err, &cycle) {
		return &CyclicDependencyError{Members: cycle.Members}
	}
	return err
}
