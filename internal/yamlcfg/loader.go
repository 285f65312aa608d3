// Package yamlcfg provides a YAML implementation of config.Loader producing
// the same model as the HCL loader. Values are taken literally; there is no
// expression evaluation.
package yamlcfg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vk/flowbench/internal/config"
	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/vk/flowbench/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

type document struct {
	Configs   []configDoc   `yaml:"configs"`
	Flows     []flowDoc     `yaml:"flows"`
	Scenarios []scenarioDoc `yaml:"scenarios"`
}

type configDoc struct {
	Namespace string         `yaml:"namespace"`
	Name      string         `yaml:"name"`
	Arguments map[string]any `yaml:"arguments"`
}

type processorDoc struct {
	// Element is either "<namespace>:<element>" or a bare element name
	// combined with Namespace.
	Element   string         `yaml:"element"`
	Namespace string         `yaml:"namespace"`
	ConfigRef string         `yaml:"config_ref"`
	Arguments map[string]any `yaml:"arguments"`
}

type flowDoc struct {
	Name       string         `yaml:"name"`
	Processors []processorDoc `yaml:"processors"`
}

type scenarioDoc struct {
	Name    string `yaml:"name"`
	Flow    string `yaml:"flow"`
	Expect  int    `yaml:"expect"`
	Payload any    `yaml:"payload"`
}

// Loader reads configuration resources written in YAML.
type Loader struct {
	searchDirs []string
}

// NewLoader creates a loader resolving relative resource names against
// searchDirs, in order.
func NewLoader(searchDirs ...string) *Loader {
	return &Loader{searchDirs: searchDirs}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, resource string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	path, err := fsutil.Resolve(resource, l.searchDirs)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loading YAML configuration resource.", "resource", resource, "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}

	model, err := translate(resource, path, &doc)
	if err != nil {
		return nil, fmt.Errorf("in %s: %w", path, err)
	}
	return model, nil
}

func translate(resource, path string, doc *document) (*config.Model, error) {
	model := config.NewModel(resource)

	for i, c := range doc.Configs {
		if c.Namespace == "" || c.Name == "" {
			return nil, fmt.Errorf("configs[%d]: namespace and name are required", i)
		}
		args, err := arguments(c.Arguments)
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

	for i, f := range doc.Flows {
		if f.Name == "" {
			return nil, fmt.Errorf("flows[%d]: name is required", i)
		}
		flow := &config.Flow{Name: f.Name, Source: path}
		for j, p := range f.Processors {
			ns, element := p.Namespace, p.Element
			if before, after, found := strings.Cut(p.Element, ":"); found && ns == "" {
				ns, element = before, after
			}
			if ns == "" || element == "" {
				return nil, fmt.Errorf("flow '%s', processor #%d: namespace and element are required", f.Name, j)
			}
			args, err := arguments(p.Arguments)
			if err != nil {
				return nil, fmt.Errorf("flow '%s', processor #%d (%s:%s): %w", f.Name, j, ns, element, err)
			}
			flow.Processors = append(flow.Processors, &config.ProcessorDef{
				Namespace: ns,
				Element:   element,
				ConfigRef: p.ConfigRef,
				Arguments: args,
			})
		}
		model.Flows = append(model.Flows, flow)
	}

	for i, s := range doc.Scenarios {
		if s.Name == "" || s.Flow == "" {
			return nil, fmt.Errorf("scenarios[%d]: name and flow are required", i)
		}
		payload, err := config.FromNative(s.Payload)
		if err != nil {
			return nil, fmt.Errorf("scenario '%s': invalid payload: %w", s.Name, err)
		}
		model.Scenarios = append(model.Scenarios, &config.Scenario{
			Name:    s.Name,
			Flow:    s.Flow,
			Expect:  s.Expect,
			Payload: payload,
			Source:  path,
		})
	}

	return model, nil
}

func arguments(raw map[string]any) (map[string]cty.Value, error) {
	args := make(map[string]cty.Value, len(raw))
	for name, v := range raw {
		val, err := config.FromNative(v)
		if err != nil {
			return nil, fmt.Errorf("argument '%s': %w", name, err)
		}
		args[name] = val
	}
	return args, nil
}
