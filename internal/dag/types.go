package dag

import (
	"fmt"
	"strings"
	"sync"
)

// Graph is a collection of nodes and their dependencies, representing a DAG.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order records node IDs in insertion order so traversals are stable.
	order []string
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	id  string
	seq int
	// deps holds the set of nodes that this node depends on (predecessors).
	deps map[string]*node
	// dependents holds the set of nodes that depend on this node (successors).
	dependents map[string]*node
}

// CycleError is returned when the graph contains a cycle. Members lists the
// nodes on the cycle in dependency order, starting from the earliest
// inserted member.
type CycleError struct {
	Members []string
}

func (e *CycleError) Error() string {
	path := append(append([]string(nil), e.Members...), e.Members[0])
	return fmt.Sprintf("cycle detected: %s", strings.Join(path, " -> "))
}
