package namespace

import (
	"github.com/vk/flowbench/internal/registry"
)

// Handler is anything with a single no-argument initialization entry point.
// Init is not idempotent: a second call re-registers the same names and
// fails with a *registry.DuplicateNameError.
type Handler interface {
	Init() error
}

// Namespaced is a Handler bound to a configuration namespace prefix.
type Namespaced interface {
	Handler
	Namespace() string
	Registry() *registry.Registry
}

// ConfigElement is the extension name every module registers for its
// configuration block.
const ConfigElement = "config"

// Base owns the registry of one namespace. Concrete handlers embed it and
// implement Init with a fixed sequence of Register* calls.
type Base struct {
	reg *registry.Registry
}

// NewBase creates a Base with a fresh registry for namespace.
func NewBase(namespace string) Base {
	return Base{reg: registry.New(namespace)}
}

// Namespace returns the namespace prefix.
func (b *Base) Namespace() string {
	return b.reg.Namespace()
}

// Registry returns the registry owned by this handler.
func (b *Base) Registry() *registry.Registry {
	return b.reg
}

// RegisterPojo registers the factory of a module's configuration object.
func (b *Base) RegisterPojo(name string, factory registry.Factory) error {
	return b.reg.Register(name, factory)
}

// RegisterElement registers the factory of a processor element.
func (b *Base) RegisterElement(name string, factory registry.Factory) error {
	return b.reg.Register(name, factory)
}

// Registration is a single (name, factory) pair.
type Registration struct {
	Name    string
	Factory registry.Factory
}

// Static is a Namespaced handler whose registrations are plain data. It is
// convenient for tests and for modules without custom init logic.
type Static struct {
	Base
	Registrations []Registration
}

// NewStatic returns a Static handler for namespace.
func NewStatic(namespace string, regs ...Registration) *Static {
	return &Static{Base: NewBase(namespace), Registrations: regs}
}

// Init registers every registration in order, stopping at the first error.
func (s *Static) Init() error {
	for _, reg := range s.Registrations {
		if err := s.reg.Register(reg.Name, reg.Factory); err != nil {
			return err
		}
	}
	return nil
}
