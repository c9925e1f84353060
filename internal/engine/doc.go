// Package engine turns a model template and a solver's raw output into a
// compiled set of named expressions that can be evaluated over input batches
// and typeset as LaTeX.
//
// Compilation runs in a fixed order: the solver output is parsed for slot
// bodies and parameter groups, the template is parsed with the slot names
// callable, slot calls are inlined with their arguments bound, positional
// placeholders are mapped onto [inputs..., slots...], parameter references are
// replaced by literals, and the result is checked for cycles. The compiled
// Expressions value is immutable; a new fit produces a new one.
package engine
