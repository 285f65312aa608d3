package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/flowbench/internal/config"
	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/vk/flowbench/internal/fsutil"
	"github.com/vk/flowbench/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	searchDirs []string
	evalCtx    *hcl.EvalContext
}

// NewLoader creates a loader resolving relative resource names against
// searchDirs, in order. With no directories the working directory is used.
func NewLoader(searchDirs ...string) *Loader {
	return &Loader{
		searchDirs: searchDirs,
		evalCtx:    defaultEvalContext(),
	}
}

// WithEnviron replaces the environment exposed as `env.*` to expressions.
func (l *Loader) WithEnviron(environ []string) *Loader {
	l.evalCtx = newEvalContext(environ)
	return l
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, resource string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	path, err := fsutil.Resolve(resource, l.searchDirs)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loading HCL configuration resource.", "resource", resource, "path", path)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var parsed schema.File
	if diags := gohcl.DecodeBody(hclFile.Body, l.evalCtx, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	model, err := l.translate(resource, path, &parsed)
	if err != nil {
		return nil, fmt.Errorf("in %s: %w", path, err)
	}

	logger.Debug("Configuration resource loaded.",
		"resource", resource,
		"configs", len(model.Configs),
		"flows", len(model.Flows),
		"scenarios", len(model.Scenarios),
	)
	return model, nil
}

func (l *Loader) translate(resource, path string, parsed *schema.File) (*config.Model, error) {
	model := config.NewModel(resource)

	for _, c := range parsed.Configs {
		args, err := l.attributes(c.Body)
		if err != nil {
			return nil, fmt.Errorf("config '%s' '%s': %w", c.Namespace, c.Name, err)
		}
		model.Configs = append(model.Configs, &config.ModuleConfig{
			Namespace: c.Namespace,
			Name:      c.Name,
			Arguments: args,
			Source:    path,
		})
	}

	for _, f := range parsed.Flows {
		flow := &config.Flow{Name: f.Name, Source: path}
		for i, p := range f.Processors {
			args, err := l.attributes(p.Body)
			if err != nil {
				return nil, fmt.Errorf("flow '%s', processor #%d (%s:%s): %w", f.Name, i, p.Namespace, p.Element, err)
			}
			def := &config.ProcessorDef{
				Namespace: p.Namespace,
				Element:   p.Element,
				Arguments: args,
			}
			if p.ConfigRef != nil {
				def.ConfigRef = *p.ConfigRef
			}
			flow.Processors = append(flow.Processors, def)
		}
		model.Flows = append(model.Flows, flow)
	}

	for _, s := range parsed.Scenarios {
		sc := &config.Scenario{
			Name:    s.Name,
			Flow:    s.Flow,
			Payload: cty.NullVal(cty.DynamicPseudoType),
			Source:  path,
		}
		if s.Expect != nil {
			sc.Expect = *s.Expect
		}
		if s.Payload != nil {
			if err := checkExpression(s.Payload, l.evalCtx); err != nil {
				return nil, fmt.Errorf("scenario '%s': invalid payload: %w", s.Name, err)
			}
			val, diags := s.Payload.Value(l.evalCtx)
			if diags.HasErrors() {
				return nil, fmt.Errorf("scenario '%s': invalid payload: %w", s.Name, diags)
			}
			sc.Payload = val
		}
		model.Scenarios = append(model.Scenarios, sc)
	}

	return model, nil
}

// attributes evaluates every attribute of body.
func (l *Loader) attributes(body hcl.Body) (map[string]cty.Value, error) {
	args := make(map[string]cty.Value)
	if body == nil {
		return args, nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	for name, attr := range attrs {
		if err := checkExpression(attr.Expr, l.evalCtx); err != nil {
			return nil, fmt.Errorf("argument '%s': %w", name, err)
		}
		val, diags := attr.Expr.Value(l.evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("argument '%s': %w", name, diags)
		}
		args[name] = val
	}
	return args, nil
}
