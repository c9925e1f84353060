// Package config defines the format-agnostic configuration model: model
// definitions that shape an expression template, and fit records that hold
// a solver's output for a named model.
//
// Concrete loaders, such as the HCL one, live in separate packages and
// translate their own syntax into these types.
package config
