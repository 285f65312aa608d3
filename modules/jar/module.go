// Package jar manages an in-memory archive manifest: a config block carries
// the initial attributes and processors update or read them.
package jar

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/vk/flowbench/internal/flow"
	"github.com/vk/flowbench/internal/namespace"
	"github.com/vk/flowbench/internal/registry"
)

// Namespace is the configuration prefix served by this package.
const Namespace = "jar"

// Handler registers the jar elements.
type Handler struct {
	namespace.Base
}

// NewNamespaceHandler creates an uninitialized jar handler.
func NewNamespaceHandler() *Handler {
	return &Handler{Base: namespace.NewBase(Namespace)}
}

// Init registers the config object and the manifest processors.
func (h *Handler) Init() error {
	if err := h.RegisterPojo(namespace.ConfigElement, func() registry.Module { return new(Module) }); err != nil {
		return err
	}
	if err := h.RegisterElement("set-manifest", func() registry.Module { return new(SetManifest) }); err != nil {
		return err
	}
	return h.RegisterElement("manifest", func() registry.Module { return new(Manifest) })
}

// Module holds the manifest attributes of one config block.
type Module struct {
	Attributes map[string]string `flow:"attributes,optional"`

	mu sync.Mutex
}

// Merge copies attrs into the manifest, overwriting existing keys.
func (m *Module) Merge(attrs map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Attributes == nil {
		m.Attributes = make(map[string]string, len(attrs))
	}
	maps.Copy(m.Attributes, attrs)
}

// Snapshot returns a copy of the manifest attributes.
func (m *Module) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.Attributes)
}

func bind(target **Module, m registry.Module) error {
	mod, ok := m.(*Module)
	if !ok {
		return fmt.Errorf("expected *jar.Module, got %T", m)
	}
	*target = mod
	return nil
}

// SetManifest merges its attributes, and a map payload if there is one, into
// the bound manifest. It produces no payload.
type SetManifest struct {
	Attributes map[string]string `flow:"attributes,optional"`

	module *Module
}

// BindConfig implements flow.ConfigBinder.
func (p *SetManifest) BindConfig(m registry.Module) error {
	return bind(&p.module, m)
}

// Process implements flow.Processor.
func (p *SetManifest) Process(ctx context.Context, msg *flow.Message) (*flow.Message, error) {
	attrs := maps.Clone(p.Attributes)
	if attrs == nil {
		attrs = make(map[string]string)
	}
	switch payload := msg.Payload.(type) {
	case map[string]string:
		maps.Copy(attrs, payload)
	case map[string]any:
		for k, v := range payload {
			attrs[k] = fmt.Sprint(v)
		}
	}

	p.module.Merge(attrs)
	ctxlog.FromContext(ctx).Debug("Manifest updated.", "processor", "jar:set-manifest", "attributes", len(attrs))
	return msg.WithPayload(nil), nil
}

// Manifest emits a copy of the bound manifest.
type Manifest struct {
	module *Module
}

// BindConfig implements flow.ConfigBinder.
func (p *Manifest) BindConfig(m registry.Module) error {
	return bind(&p.module, m)
}

// Process implements flow.Processor.
func (p *Manifest) Process(_ context.Context, msg *flow.Message) (*flow.Message, error) {
	return msg.WithPayload(p.module.Snapshot()), nil
}
