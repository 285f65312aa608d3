// Package socketio connects to a socket.io server from a config block and
// emits message payloads as events.
package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/vk/flowbench/internal/flow"
	"github.com/vk/flowbench/internal/namespace"
	"github.com/vk/flowbench/internal/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Namespace is the configuration prefix served by this package.
const Namespace = "socketio"

// Handler registers the socketio elements.
type Handler struct {
	namespace.Base
}

// NewNamespaceHandler creates an uninitialized socketio handler.
func NewNamespaceHandler() *Handler {
	return &Handler{Base: namespace.NewBase(Namespace)}
}

// Init registers the client config and the emit processor.
func (h *Handler) Init() error {
	if err := h.RegisterPojo(namespace.ConfigElement, func() registry.Module { return &Client{ConnectTimeout: "15s"} }); err != nil {
		return err
	}
	return h.RegisterElement("emit", func() registry.Module { return &Emit{Timeout: "10s"} })
}

// Client is a socket.io connection opened when the configuration starts.
type Client struct {
	URL                string `flow:"url"`
	Namespace          string `flow:"namespace,optional"`
	InsecureSkipVerify bool   `flow:"insecure_skip_verify,optional"`
	ConnectTimeout     string `flow:"connect_timeout,optional"`

	io *socket.Socket
}

// Start connects and waits for the connect or connect_error event.
func (c *Client) Start(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("module", "socketio", "url", c.URL)

	timeout, err := time.ParseDuration(c.ConnectTimeout)
	if err != nil {
		return fmt.Errorf("invalid socketio connect_timeout '%s': %w", c.ConnectTimeout, err)
	}
	parsedURL, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return fmt.Errorf("socketio url '%s' must be absolute", c.URL)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if c.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(c.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		connectChan <- connectError(errs)
	})

	logger.Debug("Initiating connection.")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return fmt.Errorf("socket.io connection failed: %w", err)
		}
		c.io = io
		return nil
	case <-ctx.Done():
		io.Disconnect()
		return fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return fmt.Errorf("timed out after %v waiting for socket.io connection", timeout)
	}
}

// Stop disconnects.
func (c *Client) Stop(ctx context.Context) error {
	if c.io == nil {
		return nil
	}
	ctxlog.FromContext(ctx).Debug("Disconnecting socket.io client.", "sid", c.io.Id())
	c.io.Disconnect()
	c.io = nil
	return nil
}

func connectError(errs []any) error {
	if len(errs) > 0 {
		if err, ok := errs[0].(error); ok {
			return err
		}
		return fmt.Errorf("%v", errs[0])
	}
	return fmt.Errorf("connect_error without details")
}

// Emit sends Data, or the payload when Data is unset, as Event. With a
// ReplyEvent it waits for that event and emits its first argument;
// otherwise it produces no payload.
type Emit struct {
	Event      string `flow:"event"`
	ReplyEvent string `flow:"reply_event,optional"`
	Data       any    `flow:"data,optional"`
	Timeout    string `flow:"timeout,optional"`

	client *Client
}

// BindConfig implements flow.ConfigBinder.
func (e *Emit) BindConfig(m registry.Module) error {
	c, ok := m.(*Client)
	if !ok {
		return fmt.Errorf("expected *socketio.Client, got %T", m)
	}
	e.client = c
	return nil
}

// replyWait receives the first argument of one reply event.
type replyWait struct {
	done chan any
}

func newReplyWait() *replyWait {
	return &replyWait{done: make(chan any, 1)}
}

func (w *replyWait) listener(args ...any) {
	var v any
	if len(args) > 0 {
		v = args[0]
	}
	select {
	case w.done <- v:
	default:
	}
}

// wait blocks for the reply until timeout or ctx ends. release runs when
// no reply arrived so the listener does not outlive the wait.
func (w *replyWait) wait(ctx context.Context, timeout time.Duration, release func()) (any, error) {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	select {
	case v := <-w.done:
		return v, nil
	case <-opCtx.Done():
		release()
		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled while waiting for reply: %w", ctx.Err())
		}
		return nil, fmt.Errorf("timed out after %v waiting for reply", timeout)
	}
}

// Process implements flow.Processor.
func (e *Emit) Process(ctx context.Context, msg *flow.Message) (*flow.Message, error) {
	io := e.client.io
	if io == nil || !io.Connected() {
		return nil, fmt.Errorf("socket.io client for '%s' is not connected", e.client.URL)
	}
	timeout, err := time.ParseDuration(e.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timeout: %w", err)
	}

	logger := ctxlog.FromContext(ctx).With("processor", "socketio:emit", "sid", io.Id())

	data := e.Data
	if data == nil {
		data = msg.Payload
	}

	var w *replyWait
	if e.ReplyEvent != "" {
		w = newReplyWait()
		io.Once(types.EventName(e.ReplyEvent), w.listener)
	}

	if logger.Enabled(ctx, slog.LevelDebug) {
		jsonData, _ := json.Marshal(data)
		logger.Debug("Emitting event", "event", e.Event, "data", string(jsonData))
	}
	io.Emit(e.Event, data)

	if w == nil {
		return msg.WithPayload(nil), nil
	}

	v, err := w.wait(ctx, timeout, func() {
		io.RemoveListener(types.EventName(e.ReplyEvent), w.listener)
	})
	if err != nil {
		return nil, fmt.Errorf("event '%s': %w", e.ReplyEvent, err)
	}
	logger.Info("Successfully received response event", "event", e.ReplyEvent)
	return msg.WithPayload(v), nil
}
