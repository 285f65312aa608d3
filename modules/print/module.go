// Package print writes message payloads to an output stream and passes them
// through unchanged.
package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/vk/flowbench/internal/flow"
	"github.com/vk/flowbench/internal/namespace"
	"github.com/vk/flowbench/internal/registry"
)

// Namespace is the configuration prefix served by this package.
const Namespace = "print"

// Handler registers the print elements.
type Handler struct {
	namespace.Base
	out *syncWriter
}

// NewNamespaceHandler creates an uninitialized print handler writing to out,
// or to standard output when out is nil.
func NewNamespaceHandler(out io.Writer) *Handler {
	if out == nil {
		out = os.Stdout
	}
	return &Handler{Base: namespace.NewBase(Namespace), out: &syncWriter{w: out}}
}

// Init registers the payload processor.
func (h *Handler) Init() error {
	return h.RegisterElement("payload", func() registry.Module { return &Payload{out: h.out} })
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// Payload prints the payload. Maps are printed one key per line in key order.
type Payload struct {
	Label string `flow:"label,optional"`

	out *syncWriter
}

// Process implements flow.Processor.
func (p *Payload) Process(ctx context.Context, msg *flow.Message) (*flow.Message, error) {
	ctxlog.FromContext(ctx).Info("Printing payload", "label", p.Label, "message_id", msg.ID)

	p.out.mu.Lock()
	defer p.out.mu.Unlock()

	if p.Label != "" {
		if _, err := fmt.Fprintf(p.out.w, "%s:\n", p.Label); err != nil {
			return nil, fmt.Errorf("failed to print label: %w", err)
		}
	}
	if err := write(p.out.w, msg.Payload); err != nil {
		return nil, fmt.Errorf("failed to print payload: %w", err)
	}
	return msg, nil
}

func write(w io.Writer, payload any) error {
	var err error
	switch v := payload.(type) {
	case nil:
		_, err = fmt.Fprintln(w, "      (null)")
	case map[string]any:
		err = writeSorted(w, v)
	case map[string]string:
		err = writeSorted(w, v)
	case []byte:
		_, err = fmt.Fprintf(w, "      %q\n", string(v))
	default:
		_, err = fmt.Fprintf(w, "      %v\n", v)
	}
	return err
}

func writeSorted[V any](w io.Writer, m map[string]V) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "      %s = %q\n", k, fmt.Sprint(m[k])); err != nil {
			return err
		}
	}
	return nil
}
