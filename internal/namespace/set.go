package namespace

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/flowbench/internal/registry"
)

var (
	// ErrDuplicateNamespace is returned when two handlers claim the same prefix.
	ErrDuplicateNamespace = errors.New("namespace already registered")
	// ErrUnknownNamespace is returned when a configuration references a
	// prefix no handler serves.
	ErrUnknownNamespace = errors.New("unknown namespace")
)

// Set holds initialized handlers keyed by namespace prefix.
type Set struct {
	handlers map[string]Namespaced
}

// NewSet creates a Set and adds every handler to it.
func NewSet(handlers ...Namespaced) (*Set, error) {
	s := &Set{handlers: make(map[string]Namespaced)}
	for _, h := range handlers {
		if err := s.Add(h); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add initializes h and makes it available under its namespace. Init runs
// exactly once per successful Add; an Init failure leaves the set unchanged.
func (s *Set) Add(h Namespaced) error {
	ns := h.Namespace()
	if _, exists := s.handlers[ns]; exists {
		return fmt.Errorf("%w: '%s'", ErrDuplicateNamespace, ns)
	}
	if err := h.Init(); err != nil {
		return fmt.Errorf("failed to initialize namespace handler '%s': %w", ns, err)
	}
	slog.Debug("Namespace handler initialized.", "namespace", ns, "extensions", h.Registry().Names())
	s.handlers[ns] = h
	return nil
}

// Lookup returns the handler for namespace.
func (s *Set) Lookup(namespace string) (Namespaced, error) {
	h, ok := s.handlers[namespace]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownNamespace, namespace)
	}
	return h, nil
}

// Resolve produces the module registered as element within namespace.
func (s *Set) Resolve(namespace, element string) (registry.Module, error) {
	h, err := s.Lookup(namespace)
	if err != nil {
		return nil, err
	}
	return h.Registry().Resolve(element)
}

// Namespaces returns the known prefixes, sorted.
func (s *Set) Namespaces() []string {
	names := make([]string, 0, len(s.handlers))
	for ns := range s.handlers {
		names = append(names, ns)
	}
	sort.Strings(names)
	return names
}
