package engine

import (
	"context"
	"fmt"

	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/vk/flowbench/internal/flow"
)

// Execute runs the named flow with an initial message built from payload
// and properties. Each processor receives the message returned by the
// previous one; a nil message from a processor means it produced no payload.
// The first processor error aborts the flow.
func (c *Context) Execute(ctx context.Context, flowName string, payload any, properties map[string]any) (*flow.Result, error) {
	compiled, ok := c.flows[flowName]
	if !ok {
		return nil, &FlowNotFoundError{Flow: flowName, Resource: c.resource, Available: c.Flows()}
	}

	msg := flow.NewMessage(payload, properties)
	logger := ctxlog.FromContext(ctx).With("flow", flowName, "message_id", msg.ID)
	logger.Debug("Flow started.", "processors", len(compiled.steps))

	for i, st := range compiled.steps {
		if err := ctx.Err(); err != nil {
			return nil, &ProcessorError{Flow: flowName, Index: i, Element: st.element, Err: err}
		}
		out, err := st.proc.Process(ctx, msg)
		if err != nil {
			logger.Debug("Processor failed.", "index", i, "element", st.element, "error", err)
			return nil, &ProcessorError{Flow: flowName, Index: i, Element: st.element, Err: err}
		}
		if out == nil {
			out = msg.WithPayload(nil)
		}
		msg = out
		logger.Debug("Processor finished.", "index", i, "element", st.element, "payload_type", typeName(msg.Payload))
	}

	result := &flow.Result{Count: flow.Count(msg.Payload), Message: msg}
	logger.Debug("Flow finished.", "count", result.Count)
	return result, nil
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
