// Package registry provides the central "glue" for the model system.
//
// The Registry maps the kind names used in configuration (e.g. "kr_base")
// to the compiled Go constructors that implement them. Each module under
// modules/ registers its constructors at start-up; no code is discovered or
// loaded at runtime.
//
// After the configuration is loaded, the registry is validated against it
// so that a misspelt kind or an orphaned fit is reported before any model
// is fitted.
package registry
