// Package expr implements the template language used to describe fitted
// equations: a lexer, a recursive-descent parser producing immutable
// expression trees, the SymbolTable that collects named sub-expressions and
// parameter vectors, and the substitution passes that inline parameters,
// placeholders and sub-expression slots.
//
// A template is a list of semicolon-separated statements:
//
//	A = 10^p[1]; n = abs(p[2]);
//	z0 = A*x1^n + f0(x0, x1, x2);
//	p = [1.5, 2.0];
//	(y0 - z0)^2
//
// Statements are either assignments, parameter vectors or a single bare
// expression naming the overall output. The parser never evaluates anything.
package expr
