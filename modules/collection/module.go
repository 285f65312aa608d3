// Package collection emits lists declared in configuration.
package collection

import (
	"context"
	"fmt"

	"github.com/vk/flowbench/internal/flow"
	"github.com/vk/flowbench/internal/namespace"
	"github.com/vk/flowbench/internal/registry"
)

// Namespace is the configuration prefix served by this package.
const Namespace = "collection"

// Handler registers the collection elements.
type Handler struct {
	namespace.Base
}

// NewNamespaceHandler creates an uninitialized collection handler.
func NewNamespaceHandler() *Handler {
	return &Handler{Base: namespace.NewBase(Namespace)}
}

// Init registers the list processors.
func (h *Handler) Init() error {
	if err := h.RegisterElement("count-list", func() registry.Module { return new(CountList) }); err != nil {
		return err
	}
	return h.RegisterElement("list", func() registry.Module { return new(List) })
}

// List emits its items. Without items it emits the payload unchanged.
type List struct {
	Items any `flow:"items,optional"`
}

// Process implements flow.Processor.
func (p *List) Process(_ context.Context, msg *flow.Message) (*flow.Message, error) {
	if p.Items == nil {
		return msg, nil
	}
	items, err := asList(p.Items)
	if err != nil {
		return nil, err
	}
	return msg.WithPayload(items), nil
}

// CountList emits the number of its items, or the count of the payload when
// no items are configured.
type CountList struct {
	Items any `flow:"items,optional"`
}

// Process implements flow.Processor.
func (p *CountList) Process(_ context.Context, msg *flow.Message) (*flow.Message, error) {
	if p.Items == nil {
		return msg.WithPayload(flow.Count(msg.Payload)), nil
	}
	items, err := asList(p.Items)
	if err != nil {
		return nil, err
	}
	return msg.WithPayload(len(items)), nil
}

func asList(v any) ([]any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("items must be a list, got %T", v)
	}
	return items, nil
}
