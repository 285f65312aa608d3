package config

import (
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of one configuration
// resource: module configurations, flows, and declared scenarios.
type Model struct {
	Resource  string
	Configs   []*ModuleConfig
	Flows     []*Flow
	Scenarios []*Scenario
}

// NewModel creates an empty Model for resource.
func NewModel(resource string) *Model {
	return &Model{Resource: resource}
}

// Flow returns the flow declared as name, or nil.
func (m *Model) Flow(name string) *Flow {
	for _, f := range m.Flows {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Merge appends the declarations of other to m.
func (m *Model) Merge(other *Model) {
	m.Configs = append(m.Configs, other.Configs...)
	m.Flows = append(m.Flows, other.Flows...)
	m.Scenarios = append(m.Scenarios, other.Scenarios...)
}

// ModuleConfig is a `config` block: a named, configured module instance.
type ModuleConfig struct {
	Namespace string
	Name      string
	Arguments map[string]cty.Value
	Source    string
}

// Flow is a named, ordered pipeline of processors.
type Flow struct {
	Name       string
	Processors []*ProcessorDef
	Source     string
}

// ProcessorDef is one processor element inside a flow.
type ProcessorDef struct {
	Namespace string
	Element   string
	// ConfigRef names the config block of the same namespace the processor
	// operates on. Empty means "the only one".
	ConfigRef string
	Arguments map[string]cty.Value
}

// Scenario is a declared flow invocation with its expected result count.
type Scenario struct {
	Name    string
	Flow    string
	Expect  int
	Payload cty.Value
	Source  string
}
