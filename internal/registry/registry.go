package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vk/symcreep/internal/config"
	"github.com/vk/symcreep/internal/ctxlog"
	"github.com/vk/symcreep/internal/model"
)

// ErrModelNotFound is matched by *ModelNotFoundError.
var ErrModelNotFound = errors.New("model not found")

// ModelNotFoundError reports a kind with no registered constructor.
type ModelNotFoundError struct {
	Kind      string
	Available []string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model %q has not been implemented (available: %s)", e.Kind, strings.Join(e.Available, ", "))
}

func (e *ModelNotFoundError) Is(target error) bool { return target == ErrModelNotFound }

// Module is the interface that all model modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Constructor returns a fresh, uninitialised model.
type Constructor func() model.Model

// Registry holds the registered model constructors for a single
// application instance.
type Registry struct {
	constructors map[string]Constructor
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// RegisterModel registers the constructor for kind. Registering a kind twice
// is a programming error and panics.
func (r *Registry) RegisterModel(kind string, c Constructor) {
	if _, exists := r.constructors[kind]; exists {
		panic(fmt.Sprintf("model with kind '%s' already registered", kind))
	}
	slog.Debug("Registering model.", "kind", kind)
	r.constructors[kind] = c
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.constructors))
	for k := range r.constructors {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// New returns a fresh model of the given kind.
func (r *Registry) New(kind string) (model.Model, error) {
	c, ok := r.constructors[kind]
	if !ok {
		return nil, &ModelNotFoundError{Kind: kind, Available: r.Kinds()}
	}
	return c(), nil
}

// Instantiate creates the model def names and initialises it.
func (r *Registry) Instantiate(ctx context.Context, def *config.ModelDefinition) (model.Model, error) {
	m, err := r.New(def.Kind)
	if err != nil {
		return nil, err
	}
	if err := m.Initialise(ctx, def); err != nil {
		return nil, fmt.Errorf("initialising model %q (%s): %w", def.Name, def.Kind, err)
	}
	ctxlog.FromContext(ctx).Debug("Initialised model.", "name", def.Name, "kind", def.Kind)
	return m, nil
}

// Validate checks that every configured model has a registered kind and
// that every recorded fit belongs to a configured model.
func (r *Registry) Validate(ctx context.Context, cfg *config.Model) error {
	var errs []error
	for _, name := range cfg.ModelNames() {
		def := cfg.Models[name]
		if _, ok := r.constructors[def.Kind]; !ok {
			errs = append(errs, fmt.Errorf("model %q: %w", name, &ModelNotFoundError{Kind: def.Kind, Available: r.Kinds()}))
		}
	}

	fits := make([]string, 0, len(cfg.Fits))
	for name := range cfg.Fits {
		fits = append(fits, name)
	}
	sort.Strings(fits)
	for _, name := range fits {
		if _, ok := cfg.Models[name]; !ok {
			errs = append(errs, fmt.Errorf("fit %q does not match any model", name))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	ctxlog.FromContext(ctx).Debug("Registry validated against configuration.", "models", len(cfg.Models), "fits", len(cfg.Fits))
	return nil
}
