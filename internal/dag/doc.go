// Package dag provides a small concurrency-safe directed graph keyed by
// string IDs. An edge from A to B records that B depends on A. The graph
// detects cycles, naming their members, and produces a deterministic
// topological order in which ties are broken by insertion order.
package dag
