package registry

import (
	"fmt"
	"log/slog"
)

// Module is an opaque instance produced for an extension name. Its behavior
// is discovered by the consumer through interface assertions.
type Module any

// Factory produces a new Module instance.
type Factory func() Module

// Registry holds the extension factories of a single namespace.
type Registry struct {
	namespace string
	factories map[string]Factory
	order     []string
}

// New creates and initializes a new, empty Registry for the given namespace.
func New(namespace string) *Registry {
	return &Registry{
		namespace: namespace,
		factories: make(map[string]Factory),
	}
}

// Namespace returns the namespace prefix this registry serves.
func (r *Registry) Namespace() string {
	return r.namespace
}

// Register adds a factory under name. The first registration of a name wins;
// any later attempt fails with a *DuplicateNameError and leaves the registry
// unchanged.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("namespace '%s': %w", r.namespace, ErrEmptyName)
	}
	if factory == nil {
		return fmt.Errorf("namespace '%s', extension '%s': %w", r.namespace, name, ErrNilFactory)
	}
	if _, exists := r.factories[name]; exists {
		return &DuplicateNameError{Namespace: r.namespace, Name: name}
	}
	slog.Debug("Registering extension.", "namespace", r.namespace, "name", name)
	r.factories[name] = factory
	r.order = append(r.order, name)
	return nil
}

// Resolve invokes the factory registered for name and returns the new
// Module. Unregistered names fail with *UnknownNameError without invoking
// any factory.
func (r *Registry) Resolve(name string) (Module, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, &UnknownNameError{Namespace: r.namespace, Name: name}
	}
	return factory(), nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	return len(r.order)
}
