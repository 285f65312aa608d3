package engine

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/flowbench/internal/config"
	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/vk/flowbench/internal/flow"
	"github.com/vk/flowbench/internal/namespace"
	"github.com/vk/flowbench/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Build instantiates every module and processor referenced by model and
// returns a Context ready to Start.
func Build(ctx context.Context, model *config.Model, namespaces *namespace.Set) (*Context, error) {
	logger := ctxlog.FromContext(ctx).With("resource", model.Resource)
	logger.Debug("Building flow context.")

	b := &builder{
		ctx:        ctx,
		namespaces: namespaces,
		converter:  config.NewConverter(),
		out:        newContext(model.Resource),
	}

	for _, cfg := range model.Configs {
		if err := b.addConfig(cfg); err != nil {
			return nil, err
		}
	}
	for _, f := range model.Flows {
		if err := b.addFlow(f); err != nil {
			return nil, err
		}
	}

	logger.Debug("Flow context built.", "modules", len(b.out.configs), "flows", b.out.Flows())
	return b.out, nil
}

type builder struct {
	ctx        context.Context
	namespaces *namespace.Set
	converter  *config.Converter
	out        *Context
}

func (b *builder) addConfig(cfg *config.ModuleConfig) error {
	key := moduleKey{namespace: cfg.Namespace, name: cfg.Name}
	if _, exists := b.out.configs[key]; exists {
		return fmt.Errorf("duplicate config '%s' in namespace '%s'", cfg.Name, cfg.Namespace)
	}

	module, err := b.namespaces.Resolve(cfg.Namespace, namespace.ConfigElement)
	if err != nil {
		return fmt.Errorf("config '%s' '%s': %w", cfg.Namespace, cfg.Name, err)
	}
	if err := b.decode(module, cfg.Arguments); err != nil {
		return fmt.Errorf("config '%s' '%s': %w", cfg.Namespace, cfg.Name, err)
	}

	b.out.configs[key] = module
	b.out.configOrder = append(b.out.configOrder, key)
	b.out.components = append(b.out.components, module)
	ctxlog.FromContext(b.ctx).Debug("Module configured.", "namespace", cfg.Namespace, "name", cfg.Name, "type", fmt.Sprintf("%T", module))
	return nil
}

func (b *builder) addFlow(f *config.Flow) error {
	if _, exists := b.out.flows[f.Name]; exists {
		return fmt.Errorf("duplicate flow '%s'", f.Name)
	}

	compiled := &compiledFlow{name: f.Name}
	for i, def := range f.Processors {
		element := def.Namespace + ":" + def.Element
		proc, err := b.processor(def)
		if err != nil {
			return fmt.Errorf("flow '%s', processor #%d (%s): %w", f.Name, i, element, err)
		}
		compiled.steps = append(compiled.steps, step{element: element, proc: proc})
		b.out.components = append(b.out.components, proc)
	}

	b.out.flows[f.Name] = compiled
	b.out.flowOrder = append(b.out.flowOrder, f.Name)
	return nil
}

func (b *builder) processor(def *config.ProcessorDef) (flow.Processor, error) {
	module, err := b.namespaces.Resolve(def.Namespace, def.Element)
	if err != nil {
		return nil, err
	}
	proc, ok := module.(flow.Processor)
	if !ok {
		return nil, fmt.Errorf("element does not implement a processor (got %T)", module)
	}
	if err := b.decode(module, def.Arguments); err != nil {
		return nil, err
	}

	binder, wantsConfig := module.(flow.ConfigBinder)
	if !wantsConfig {
		if def.ConfigRef != "" {
			return nil, fmt.Errorf("config_ref '%s' given but the processor takes no config", def.ConfigRef)
		}
		return proc, nil
	}

	cfg, err := b.out.configFor(def.Namespace, def.ConfigRef)
	if err != nil {
		return nil, err
	}
	if err := binder.BindConfig(cfg); err != nil {
		return nil, fmt.Errorf("failed to bind config: %w", err)
	}
	return proc, nil
}

// decode binds args onto module. Modules that are not struct pointers may
// only be used without arguments.
func (b *builder) decode(module registry.Module, args map[string]cty.Value) error {
	if module == nil {
		return fmt.Errorf("extension factory returned nil")
	}
	rv := reflect.ValueOf(module)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		if len(args) > 0 {
			return fmt.Errorf("%T does not accept arguments", module)
		}
		return nil
	}
	return b.converter.DecodeArguments(b.ctx, module, args)
}
