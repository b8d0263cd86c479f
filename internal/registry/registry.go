package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/vk/fitconf/internal/objective"
)

// ErrNotRegistered is returned by Lookup for unknown names.
var ErrNotRegistered = errors.New("objective function not registered")

// Factory builds a fresh objective function.
type Factory func() objective.Objective

// Registry holds the registered objective-function factories for a single
// application instance.
type Registry struct {
	objectives map[string]Factory
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		objectives: make(map[string]Factory),
	}
}

// Default returns a Registry holding every built-in objective.
func Default() *Registry {
	r := New()
	r.Register("chi_sq", objective.NewChiSquare)
	return r
}

// Register adds a factory under name. Registering a name twice is a
// programmer error and panics.
func (r *Registry) Register(name string, f Factory) {
	if _, exists := r.objectives[name]; exists {
		panic(fmt.Sprintf("objective function with name '%s' already registered", name))
	}
	slog.Debug("Registering objective function.", "name", name)
	r.objectives[name] = f
}

// Lookup builds the objective registered under name.
func (r *Registry) Lookup(name string) (objective.Objective, error) {
	f, ok := r.objectives[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrNotRegistered, name, r.Names())
	}
	return f(), nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.objectives))
	for name := range r.objectives {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
