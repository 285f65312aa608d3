// Package http provides a shareable HTTP client config and a request
// processor.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/vk/flowbench/internal/flow"
	"github.com/vk/flowbench/internal/namespace"
	"github.com/vk/flowbench/internal/registry"
)

// Namespace is the configuration prefix served by this package.
const Namespace = "http"

// StatusProperty is the message property holding the last response status.
const StatusProperty = "http.status"

// Handler registers the http elements.
type Handler struct {
	namespace.Base
}

// NewNamespaceHandler creates an uninitialized http handler.
func NewNamespaceHandler() *Handler {
	return &Handler{Base: namespace.NewBase(Namespace)}
}

// Init registers the client config and the request processor.
func (h *Handler) Init() error {
	if err := h.RegisterPojo(namespace.ConfigElement, func() registry.Module { return &Client{Timeout: "30s"} }); err != nil {
		return err
	}
	return h.RegisterElement("request", func() registry.Module { return &Request{Method: http.MethodGet} })
}

// Client is the shared HTTP client of one config block.
type Client struct {
	BaseURL string `flow:"base_url"`
	Timeout string `flow:"timeout,optional"`

	client *http.Client
}

// Start creates the underlying *http.Client.
func (c *Client) Start(ctx context.Context) error {
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid http timeout '%s': %w", c.Timeout, err)
	}

	c.client = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	ctxlog.FromContext(ctx).Debug("HTTP client created.", "base_url", c.BaseURL, "timeout", timeout)
	return nil
}

// Stop closes idle connections.
func (c *Client) Stop(context.Context) error {
	if c.client != nil {
		c.client.CloseIdleConnections()
	}
	return nil
}

// Request sends one request through the bound client and emits the response
// body as a string. The status code is set as the http.status property.
// A string or []byte payload is sent as the request body when Body is unset.
type Request struct {
	Method string  `flow:"method,optional"`
	Path   string  `flow:"path,optional"`
	Body   *string `flow:"body,optional"`

	client *Client
}

// BindConfig implements flow.ConfigBinder.
func (r *Request) BindConfig(m registry.Module) error {
	c, ok := m.(*Client)
	if !ok {
		return fmt.Errorf("expected *http.Client config, got %T", m)
	}
	r.client = c
	return nil
}

// Process implements flow.Processor.
func (r *Request) Process(ctx context.Context, msg *flow.Message) (*flow.Message, error) {
	if r.client.client == nil {
		return nil, fmt.Errorf("http client for '%s' was not started", r.client.BaseURL)
	}

	url := strings.TrimSuffix(r.client.BaseURL, "/") + "/" + strings.TrimPrefix(r.Path, "/")
	logger := ctxlog.FromContext(ctx).With("processor", "http:request", "method", r.Method, "url", url)
	logger.Info("Making HTTP request")

	req, err := http.NewRequestWithContext(ctx, r.Method, url, r.body(msg.Payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received HTTP response", slog.String("status", resp.Status))

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return msg.WithPayload(string(bodyBytes)).WithProperty(StatusProperty, resp.StatusCode), nil
}

func (r *Request) body(payload any) io.Reader {
	if r.Body != nil {
		return strings.NewReader(*r.Body)
	}
	switch v := payload.(type) {
	case string:
		return strings.NewReader(v)
	case []byte:
		return bytes.NewReader(v)
	}
	return nil
}
