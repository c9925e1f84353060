// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"context"
	"errors"

	"github.com/vk/symcreep/internal/config"
	"github.com/vk/symcreep/internal/solver"
)

// ErrNotFitted is returned when a model is used before a successful fit.
var ErrNotFitted = errors.New("model has not been fitted")

// Model is the capability implemented by every regression strategy.
type Model interface {
	// Kind returns the registered name of the implementation.
	Kind() string
	// Initialise validates def and prepares the model's templates.
	Initialise(ctx context.Context, def *config.ModelDefinition) error
	// Fit solves the model's regression problems over data and replaces
	// the compiled expressions.
	Fit(ctx context.Context, s solver.Solver, data []*Dataset) (*FitResult, error)
	// Predict samples the fitted model for each dataset.
	Predict(ctx context.Context, data []*Dataset) ([]*Prediction, error)
	// DisplayExpressions typesets the fitted equations as LaTeX.
	DisplayExpressions(ctx context.Context) ([]string, error)
	// Evaluate computes a named symbol of the fitted model.
	Evaluate(ctx context.Context, target string, inputs map[string][]float64) ([]float64, error)
}

// FitResult describes a successful fit.
type FitResult struct {
	// Record holds the raw solver output so the fit can be replayed.
	Record *config.FitRecord
	// Fitted holds the compiled expressions.
	Fitted *Fitted
}

// Prediction holds the sampled curve for one dataset.
type Prediction struct {
	Dataset string
	Fields  map[string][]float64
}
