package print

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowbench/internal/flow"
	"github.com/vk/flowbench/internal/flowtest"
	"github.com/vk/flowbench/internal/namespace"
	"github.com/vk/flowbench/internal/scenario"
)

func TestPrintPayload(t *testing.T) {
	cases := []struct {
		name    string
		payload any
		want    string
	}{
		{name: "map in key order", payload: map[string]any{"b": 2, "a": "x"}, want: "report:\n      a = \"x\"\n      b = \"2\"\n"},
		{name: "nil", payload: nil, want: "report:\n      (null)\n"},
		{name: "scalar", payload: 42, want: "report:\n      42\n"},
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "print.hcl"), []byte(`
		flow "show" {
			processor "print" "payload" { label = "report" }
		}
	`), 0o644))

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			var out bytes.Buffer
			h := flowtest.New(t,
				scenario.WithLoader(scenario.DefaultLoader(dir)),
				scenario.WithHandlers(func() []namespace.Namespaced {
					return []namespace.Namespaced{NewNamespaceHandler(&out)}
				}),
			).SetConfigResource("print.hcl")

			// --- Act ---
			res := h.Run(scenario.Invocation{Flow: "show", Payload: tc.payload, Expected: countOf(tc.payload)})

			// --- Assert ---
			assert.Equal(t, tc.want, out.String())
			assert.Equal(t, tc.payload, res.Message.Payload, "payload passes through")
			assert.Contains(t, h.Logs(), "Printing payload")
		})
	}
}

func countOf(payload any) int {
	switch v := payload.(type) {
	case nil:
		return 0
	case map[string]any:
		return len(v)
	case int:
		return v
	}
	return 1
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrintPayload_WriteErrors(t *testing.T) {
	cases := []struct {
		name    string
		label   string
		wantErr string
	}{
		{name: "label", label: "report", wantErr: "failed to print label"},
		{name: "payload", wantErr: "failed to print payload"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Payload{Label: tc.label, out: &syncWriter{w: failingWriter{}}}

			_, err := p.Process(t.Context(), flow.NewMessage("x", nil))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.Contains(t, err.Error(), "disk full")
		})
	}
}
