// Package rss fetches and parses RSS 2.0 feeds.
package rss

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/vk/flowbench/internal/flow"
	"github.com/vk/flowbench/internal/namespace"
	"github.com/vk/flowbench/internal/registry"
)

// Namespace is the configuration prefix served by this package.
const Namespace = "rss"

const defaultTimeout = 10 * time.Second

// Handler registers the rss elements.
type Handler struct {
	namespace.Base
}

// NewNamespaceHandler creates an uninitialized rss handler.
func NewNamespaceHandler() *Handler {
	return &Handler{Base: namespace.NewBase(Namespace)}
}

// Init registers the feed config and its processors.
func (h *Handler) Init() error {
	if err := h.RegisterPojo(namespace.ConfigElement, func() registry.Module { return new(Module) }); err != nil {
		return err
	}
	if err := h.RegisterElement("fetch", func() registry.Module { return new(Fetch) }); err != nil {
		return err
	}
	if err := h.RegisterElement("entries", func() registry.Module { return new(Entries) }); err != nil {
		return err
	}
	return h.RegisterElement("count-entries", func() registry.Module { return new(CountEntries) })
}

// Module is a feed location plus the client used to fetch it. A module
// without URL only serves the payload parsers.
type Module struct {
	URL     string `flow:"url,optional"`
	Timeout string `flow:"timeout,optional"`

	client *http.Client
}

// Start creates the HTTP client.
func (m *Module) Start(ctx context.Context) error {
	timeout := defaultTimeout
	if m.Timeout != "" {
		d, err := time.ParseDuration(m.Timeout)
		if err != nil {
			return fmt.Errorf("invalid rss timeout '%s': %w", m.Timeout, err)
		}
		timeout = d
	}
	m.client = &http.Client{Timeout: timeout}
	ctxlog.FromContext(ctx).Debug("RSS feed client ready.", "url", m.URL, "timeout", timeout)
	return nil
}

// Stop closes idle connections.
func (m *Module) Stop(context.Context) error {
	if m.client != nil {
		m.client.CloseIdleConnections()
	}
	return nil
}

// Fetch downloads the bound feed and emits the raw document.
type Fetch struct {
	module *Module
}

// BindConfig implements flow.ConfigBinder.
func (p *Fetch) BindConfig(m registry.Module) error {
	mod, ok := m.(*Module)
	if !ok {
		return fmt.Errorf("expected *rss.Module, got %T", m)
	}
	p.module = mod
	return nil
}

// Process implements flow.Processor.
func (p *Fetch) Process(ctx context.Context, msg *flow.Message) (*flow.Message, error) {
	if p.module.URL == "" {
		return nil, fmt.Errorf("rss config has no url to fetch")
	}
	if p.module.client == nil {
		return nil, fmt.Errorf("rss module for '%s' was not started", p.module.URL)
	}
	logger := ctxlog.FromContext(ctx).With("processor", "rss:fetch", "url", p.module.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.module.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := p.module.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch feed: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}
	logger.Debug("Feed fetched.", "bytes", len(body))
	return msg.WithPayload(body), nil
}

// Entries parses the payload and emits its items.
type Entries struct{}

// Process implements flow.Processor.
func (Entries) Process(ctx context.Context, msg *flow.Message) (*flow.Message, error) {
	items, err := parsePayload(msg.Payload)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Feed parsed.", "processor", "rss:entries", "items", len(items))
	return msg.WithPayload(items), nil
}

// CountEntries parses the payload and emits the number of items.
type CountEntries struct{}

// Process implements flow.Processor.
func (CountEntries) Process(_ context.Context, msg *flow.Message) (*flow.Message, error) {
	items, err := parsePayload(msg.Payload)
	if err != nil {
		return nil, err
	}
	return msg.WithPayload(len(items)), nil
}

func parsePayload(payload any) ([]Item, error) {
	if items, ok := payload.([]Item); ok {
		return items, nil
	}
	data, err := payloadBytes(payload)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
