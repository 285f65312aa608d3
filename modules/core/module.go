// Package core provides processors that shape messages without talking to
// any external system.
package core

import (
	"context"

	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/vk/flowbench/internal/flow"
	"github.com/vk/flowbench/internal/namespace"
	"github.com/vk/flowbench/internal/registry"
)

// Namespace is the configuration prefix served by this package.
const Namespace = "core"

// Handler registers the core elements.
type Handler struct {
	namespace.Base
}

// NewNamespaceHandler creates an uninitialized core handler.
func NewNamespaceHandler() *Handler {
	return &Handler{Base: namespace.NewBase(Namespace)}
}

// Init registers every core element.
func (h *Handler) Init() error {
	if err := h.RegisterElement("set-payload", func() registry.Module { return new(SetPayload) }); err != nil {
		return err
	}
	return h.RegisterElement("set-property", func() registry.Module { return new(SetProperty) })
}

// SetPayload replaces the payload with a fixed value.
type SetPayload struct {
	Value any `flow:"value"`
}

// Process implements flow.Processor.
func (p *SetPayload) Process(ctx context.Context, msg *flow.Message) (*flow.Message, error) {
	ctxlog.FromContext(ctx).Debug("Setting payload.", "processor", "core:set-payload")
	return msg.WithPayload(p.Value), nil
}

// SetProperty sets one message property and keeps the payload.
type SetProperty struct {
	Name  string `flow:"name"`
	Value any    `flow:"value"`
}

// Process implements flow.Processor.
func (p *SetProperty) Process(ctx context.Context, msg *flow.Message) (*flow.Message, error) {
	ctxlog.FromContext(ctx).Debug("Setting property.", "processor", "core:set-property", "name", p.Name)
	return msg.WithProperty(p.Name, p.Value), nil
}
