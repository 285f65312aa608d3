package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/vk/flowbench/internal/flow"
	"github.com/vk/flowbench/internal/registry"
)

type moduleKey struct {
	namespace string
	name      string
}

type step struct {
	element string
	proc    flow.Processor
}

type compiledFlow struct {
	name  string
	steps []step
}

// Context is a loaded configuration: configured module instances and
// compiled flows. It is not safe for concurrent use.
type Context struct {
	resource    string
	configs     map[moduleKey]registry.Module
	configOrder []moduleKey
	flows       map[string]*compiledFlow
	flowOrder   []string
	components  []registry.Module
	started     []registry.Module
}

func newContext(resource string) *Context {
	return &Context{
		resource: resource,
		configs:  make(map[moduleKey]registry.Module),
		flows:    make(map[string]*compiledFlow),
	}
}

// Resource returns the name of the configuration resource this context was
// built from.
func (c *Context) Resource() string {
	return c.resource
}

// Flows returns the flow names in declaration order.
func (c *Context) Flows() []string {
	names := make([]string, len(c.flowOrder))
	copy(names, c.flowOrder)
	return names
}

// Module returns the instance created for config block name in namespace.
func (c *Context) Module(namespace, name string) (registry.Module, bool) {
	m, ok := c.configs[moduleKey{namespace: namespace, name: name}]
	return m, ok
}

func (c *Context) configFor(namespace, ref string) (registry.Module, error) {
	if ref != "" {
		m, ok := c.configs[moduleKey{namespace: namespace, name: ref}]
		if !ok {
			return nil, fmt.Errorf("config_ref '%s' does not match any '%s' config block", ref, namespace)
		}
		return m, nil
	}

	var candidates []string
	var found registry.Module
	for _, key := range c.configOrder {
		if key.namespace == namespace {
			candidates = append(candidates, key.name)
			found = c.configs[key]
		}
	}
	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("processor requires a '%s' config block, none declared", namespace)
	case 1:
		return found, nil
	default:
		sort.Strings(candidates)
		return nil, fmt.Errorf("ambiguous '%s' config (candidates: %v); set config_ref", namespace, candidates)
	}
}

// Start runs the Start hook of every component that has one, in build
// order. If a hook fails, the components already started are stopped again.
// Only components reached by Start are stopped by Stop.
func (c *Context) Start(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for _, comp := range c.components {
		if starter, ok := comp.(flow.Starter); ok {
			logger.Debug("Starting component.", "type", fmt.Sprintf("%T", comp))
			if err := starter.Start(ctx); err != nil {
				stopErr := c.Stop(ctx)
				return errors.Join(fmt.Errorf("failed to start %T: %w", comp, err), stopErr)
			}
		}
		c.started = append(c.started, comp)
	}
	return nil
}

// Stop runs the Stop hook of every started component, in reverse order.
// All hooks run; their errors are joined.
func (c *Context) Stop(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []error
	for i := len(c.started) - 1; i >= 0; i-- {
		stopper, ok := c.started[i].(flow.Stopper)
		if !ok {
			continue
		}
		logger.Debug("Stopping component.", "type", fmt.Sprintf("%T", c.started[i]))
		if err := stopper.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %T: %w", c.started[i], err))
		}
	}
	c.started = nil
	return errors.Join(errs...)
}
