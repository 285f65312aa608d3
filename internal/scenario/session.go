package scenario

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/flowbench/internal/config"
	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/vk/flowbench/internal/engine"
	"github.com/vk/flowbench/internal/flow"
	"github.com/vk/flowbench/internal/hcl"
	"github.com/vk/flowbench/internal/namespace"
	"github.com/vk/flowbench/internal/yamlcfg"
)

// HandlerFactory returns a fresh set of namespace handlers. It is called once
// per configuration load so that no registry is shared between sessions.
type HandlerFactory func() []namespace.Namespaced

// Invocation describes one flow run.
type Invocation struct {
	Flow       string
	Expected   int
	Payload    any
	Properties map[string]any
}

// Option configures a Session.
type Option func(*Session)

// WithLoader sets the configuration loader. The default handles .hcl, .yaml
// and .yml resources found in the working directory.
func WithLoader(l config.Loader) Option {
	return func(s *Session) { s.loader = l }
}

// WithHandlers sets the namespace handler factory.
func WithHandlers(f HandlerFactory) Option {
	return func(s *Session) { s.handlers = f }
}

// DefaultLoader returns a loader dispatching on file extension to the HCL
// and YAML loaders, resolving relative resources against searchDirs.
func DefaultLoader(searchDirs ...string) *config.ExtensionLoader {
	return config.NewExtensionLoader().
		Handle(hcl.NewLoader(searchDirs...), ".hcl").
		Handle(yamlcfg.NewLoader(searchDirs...), ".yaml", ".yml")
}

// Session runs flows against one configuration resource. It is not safe for
// concurrent use; run concurrent scenarios in separate sessions.
type Session struct {
	loader   config.Loader
	handlers HandlerFactory

	resource   string
	loadedFrom string
	state      State
	cause      error
	loaded     *engine.Context
	last       *flow.Result
}

// NewSession creates an Unconfigured session.
func NewSession(opts ...Option) *Session {
	s := &Session{
		loader:   DefaultLoader(),
		handlers: func() []namespace.Namespaced { return nil },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Resource returns the declared configuration resource.
func (s *Session) Resource() string { return s.resource }

// LastResult returns the result of the last flow that ran to completion, or
// nil.
func (s *Session) LastResult() *flow.Result { return s.last }

// Err returns the cause of failure of a Failed session.
func (s *Session) Err() error { return s.cause }

// SetConfigResource declares the resource to load. Nothing is read until a
// flow runs. Declaring a different resource after one was loaded makes the
// next run discard the loaded configuration and load the new one.
func (s *Session) SetConfigResource(name string) {
	s.resource = name
}

// Load reads and builds the declared resource if that has not happened yet.
// Running a flow calls Load implicitly.
func (s *Session) Load(ctx context.Context) error {
	if err := s.checkUsable(); err != nil {
		return err
	}
	if s.loaded != nil {
		if s.loadedFrom == s.resource {
			return nil
		}
		if err := s.Close(ctx); err != nil {
			return s.fail(ctx, err)
		}
		s.state = Unconfigured
	}
	if s.resource == "" {
		return ErrNoConfigResource
	}

	logger := ctxlog.FromContext(ctx).With("resource", s.resource)
	logger.Debug("Loading configuration.")

	loaded, err := s.build(ctx)
	if err != nil {
		return s.fail(ctx, &ConfigLoadError{Resource: s.resource, Err: err})
	}
	s.loaded = loaded
	s.loadedFrom = s.resource
	s.state = ConfigLoaded
	logger.Debug("Configuration loaded.", "flows", loaded.Flows())
	return nil
}

func (s *Session) build(ctx context.Context) (*engine.Context, error) {
	model, err := s.loader.Load(ctx, s.resource)
	if err != nil {
		return nil, err
	}
	set, err := namespace.NewSet(s.handlers()...)
	if err != nil {
		return nil, err
	}
	loaded, err := engine.Build(ctx, model, set)
	if err != nil {
		return nil, err
	}
	if err := loaded.Start(ctx); err != nil {
		return nil, err
	}
	return loaded, nil
}

// RunFlow runs flowName and expects it to produce nothing.
func (s *Session) RunFlow(ctx context.Context, flowName string) error {
	return s.RunFlowExpect(ctx, flowName, 0)
}

// RunFlowExpect runs flowName and expects exactly expected results.
func (s *Session) RunFlowExpect(ctx context.Context, flowName string, expected int) error {
	return s.Run(ctx, Invocation{Flow: flowName, Expected: expected})
}

// RunFlowWithPayload runs flowName with an initial payload.
func (s *Session) RunFlowWithPayload(ctx context.Context, flowName string, payload any, expected int) error {
	return s.Run(ctx, Invocation{Flow: flowName, Expected: expected, Payload: payload})
}

// Run executes one invocation. Any failure moves the session to Failed.
// After a pass, further flows may run against the same loaded configuration.
func (s *Session) Run(ctx context.Context, inv Invocation) error {
	if err := s.Load(ctx); err != nil {
		return err
	}

	logger := ctxlog.FromContext(ctx).With("resource", s.resource, "flow", inv.Flow)
	s.state = FlowRan
	res, err := s.loaded.Execute(ctx, inv.Flow, inv.Payload, inv.Properties)
	if err != nil {
		return s.fail(ctx, err)
	}
	s.last = res
	if res.Count != inv.Expected {
		return s.fail(ctx, &UnexpectedResultCountError{Flow: inv.Flow, Expected: inv.Expected, Actual: res.Count})
	}

	s.state = Passed
	logger.Debug("Flow passed.", "count", res.Count)
	return nil
}

// Close stops the modules of the loaded configuration. It is safe to call on
// any session, more than once.
func (s *Session) Close(ctx context.Context) error {
	if s.loaded == nil {
		return nil
	}
	err := s.loaded.Stop(ctx)
	s.loaded = nil
	return err
}

func (s *Session) checkUsable() error {
	if s.state == Failed {
		return fmt.Errorf("%w: %w", ErrSessionFailed, s.cause)
	}
	return nil
}

func (s *Session) fail(ctx context.Context, err error) error {
	s.state = Failed
	s.cause = err
	ctxlog.FromContext(ctx).Debug("Scenario failed.", "resource", s.resource, "error", err)
	if closeErr := s.Close(ctx); closeErr != nil {
		s.cause = errors.Join(err, closeErr)
	}
	return s.cause
}
