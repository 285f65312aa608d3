package flow

import (
	"context"

	"github.com/vk/flowbench/internal/registry"
)

// Processor is implemented by every module produced for a processor element.
type Processor interface {
	Process(ctx context.Context, msg *Message) (*Message, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, msg *Message) (*Message, error)

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, msg *Message) (*Message, error) {
	return f(ctx, msg)
}

// ConfigBinder is implemented by processors that operate on the module
// instance created from a `config` block.
type ConfigBinder interface {
	BindConfig(module registry.Module) error
}

// Starter is implemented by modules that need to acquire resources before
// any flow runs.
type Starter interface {
	Start(ctx context.Context) error
}

// Stopper is implemented by modules that hold resources to release when the
// loaded configuration is discarded.
type Stopper interface {
	Stop(ctx context.Context) error
}

// Counter lets a payload report its own item count.
type Counter interface {
	Count() int
}
