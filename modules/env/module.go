// Package env exposes process environment variables to flows.
package env

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vk/flowbench/internal/flow"
	"github.com/vk/flowbench/internal/namespace"
	"github.com/vk/flowbench/internal/registry"
)

// Namespace is the configuration prefix served by this package.
const Namespace = "env"

// Handler registers the env elements.
type Handler struct {
	namespace.Base
	environ func() []string
}

// NewNamespaceHandler creates an uninitialized env handler reading the
// process environment.
func NewNamespaceHandler() *Handler {
	return &Handler{Base: namespace.NewBase(Namespace), environ: os.Environ}
}

// Init registers the lookup processors.
func (h *Handler) Init() error {
	if err := h.RegisterElement("lookup", func() registry.Module { return &Lookup{environ: h.environ} }); err != nil {
		return err
	}
	return h.RegisterElement("all", func() registry.Module { return &All{environ: h.environ} })
}

// Lookup emits the value of one variable. An unset variable without a
// default fails the flow.
type Lookup struct {
	Name    string  `flow:"name"`
	Default *string `flow:"default,optional"`

	environ func() []string
}

// Process implements flow.Processor.
func (p *Lookup) Process(_ context.Context, msg *flow.Message) (*flow.Message, error) {
	if v, ok := parse(p.environ())[p.Name]; ok {
		return msg.WithPayload(v), nil
	}
	if p.Default != nil {
		return msg.WithPayload(*p.Default), nil
	}
	return nil, fmt.Errorf("environment variable '%s' is not set", p.Name)
}

// All emits every variable as a map.
type All struct {
	environ func() []string
}

// Process implements flow.Processor.
func (p *All) Process(_ context.Context, msg *flow.Message) (*flow.Message, error) {
	return msg.WithPayload(parse(p.environ())), nil
}

func parse(environ []string) map[string]string {
	envMap := make(map[string]string, len(environ))
	for _, e := range environ {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			envMap[pair[0]] = pair[1]
		}
	}
	return envMap
}
