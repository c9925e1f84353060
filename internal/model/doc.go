// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model defines the capability every regression strategy exposes,
// together with the datasets, fit results and predictions that flow through
// it.
//
// # Core Concepts
//
//   - Model: initialised once from a config.ModelDefinition, fitted through a
//     solver.Solver, then used for prediction, evaluation and display.
//
//   - Dataset: one experiment's named columns, e.g. time, stress and strain.
//
//   - Fitted: the compiled expressions of one fit, keyed by problem name. A
//     model replaces its Fitted value wholesale on every fit and never
//     mutates it afterwards.
//
// Concrete strategies live under modules/ and register a constructor with
// the registry package at start-up.
package model
