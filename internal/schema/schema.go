// Package schema holds the gohcl decoding targets for configuration
// resources written in HCL.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// ConfigBlock represents a `config "<namespace>" "<name>"` block. Every
// attribute in its body is a module argument.
type ConfigBlock struct {
	Namespace string   `hcl:"namespace,label"`
	Name      string   `hcl:"name,label"`
	Body      hcl.Body `hcl:",remain"`
}

// ProcessorBlock represents a `processor "<namespace>" "<element>"` block
// inside a flow. Attributes other than config_ref are processor arguments.
type ProcessorBlock struct {
	Namespace string   `hcl:"namespace,label"`
	Element   string   `hcl:"element,label"`
	ConfigRef *string  `hcl:"config_ref,optional"`
	Body      hcl.Body `hcl:",remain"`
}

// FlowBlock represents a `flow "<name>"` block.
type FlowBlock struct {
	Name       string            `hcl:"name,label"`
	Processors []*ProcessorBlock `hcl:"processor,block"`
}

// ScenarioBlock represents a `scenario "<name>"` block: a flow invocation
// and the number of results it must produce.
type ScenarioBlock struct {
	Name    string         `hcl:"name,label"`
	Flow    string         `hcl:"flow"`
	Expect  *int           `hcl:"expect,optional"`
	Payload hcl.Expression `hcl:"payload,optional"`
}

// File represents the top-level structure of a configuration resource.
type File struct {
	Configs   []*ConfigBlock   `hcl:"config,block"`
	Flows     []*FlowBlock     `hcl:"flow,block"`
	Scenarios []*ScenarioBlock `hcl:"scenario,block"`
}
