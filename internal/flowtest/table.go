package flowtest

import (
	"errors"
	"testing"

	"github.com/vk/flowbench/internal/scenario"
)

// Scenario is one row of a scenario table.
type Scenario struct {
	Name       string
	Resource   string
	Flow       string
	Expected   int
	Payload    any
	Properties map[string]any
	// WantErr, when set, makes the row pass only if the run fails with an
	// error matching it.
	WantErr error
}

// RunScenarios runs each scenario as a subtest in its own session built from
// opts.
func RunScenarios(t *testing.T, scenarios []Scenario, opts ...scenario.Option) {
	t.Helper()

	for _, sc := range scenarios {
		name := sc.Name
		if name == "" {
			name = sc.Resource + "#" + sc.Flow
		}
		t.Run(name, func(t *testing.T) {
			h := New(t, opts...).SetConfigResource(sc.Resource)
			inv := scenario.Invocation{Flow: sc.Flow, Expected: sc.Expected, Payload: sc.Payload, Properties: sc.Properties}

			if sc.WantErr == nil {
				h.Run(inv)
				return
			}
			err := h.session.Run(h.ctx, inv)
			if err == nil {
				t.Fatalf("expected an error matching %v, got none", sc.WantErr)
			}
			if !errors.Is(err, sc.WantErr) {
				t.Fatalf("expected an error matching %v, got %v", sc.WantErr, err)
			}
		})
	}
}
