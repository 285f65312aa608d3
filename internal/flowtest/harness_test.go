package flowtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowbench/internal/engine"
	"github.com/vk/flowbench/internal/flow"
	"github.com/vk/flowbench/internal/namespace"
	"github.com/vk/flowbench/internal/registry"
	"github.com/vk/flowbench/internal/scenario"
)

type repeat struct {
	Times int `flow:"times"`
}

func (p *repeat) Process(_ context.Context, msg *flow.Message) (*flow.Message, error) {
	items := make([]any, p.Times)
	for i := range items {
		items[i] = msg.Payload
	}
	return msg.WithPayload(items), nil
}

func handlers() []namespace.Namespaced {
	return []namespace.Namespaced{
		namespace.NewStatic("test",
			namespace.Registration{Name: "repeat", Factory: func() registry.Module { return &repeat{} }},
			namespace.Registration{Name: "drop", Factory: func() registry.Module {
				return flow.ProcessorFunc(func(context.Context, *flow.Message) (*flow.Message, error) { return nil, nil })
			}},
		),
	}
}

func resourceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := `
		flow "repeatThree" {
			processor "test" "repeat" { times = 3 }
		}

		flow "dropAll" {
			processor "test" "repeat" { times = 2 }
			processor "test" "drop" {}
		}
	`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "repeat.hcl"), []byte(content), 0o644))
	return dir
}

func options(t *testing.T) []scenario.Option {
	return []scenario.Option{
		scenario.WithLoader(scenario.DefaultLoader(resourceDir(t))),
		scenario.WithHandlers(handlers),
	}
}

func TestHarness_RunsFlowsFromHCL(t *testing.T) {
	// --- Arrange ---
	h := New(t, options(t)...).SetConfigResource("repeat.hcl")

	// --- Act ---
	res := h.RunFlowWithPayload("repeatThree", "x", 3)
	h.RunFlow("dropAll")

	// --- Assert ---
	require.NotNil(t, res)
	assert.Equal(t, []any{"x", "x", "x"}, res.Message.Payload)
	assert.Equal(t, scenario.Passed, h.Session().State())
	assert.Contains(t, h.Logs(), "Flow finished.")
}

// recordingTB captures the first fatal failure instead of failing the test.
type recordingTB struct {
	testing.TB
	fatal    string
	cleanups []func()
}

func (r *recordingTB) Helper()               {}
func (r *recordingTB) Name() string          { return "recording" }
func (r *recordingTB) Logf(string, ...any)   {}
func (r *recordingTB) Errorf(string, ...any) {}
func (r *recordingTB) Cleanup(fn func())     { r.cleanups = append(r.cleanups, fn) }

func (r *recordingTB) Fatalf(format string, args ...any) {
	r.fatal = fmt.Sprintf(format, args...)
	runtime.Goexit()
}

func runRecorded(fn func(tb *recordingTB)) *recordingTB {
	tb := &recordingTB{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(tb)
	}()
	<-done
	for i := len(tb.cleanups) - 1; i >= 0; i-- {
		tb.cleanups[i]()
	}
	return tb
}

func TestHarness_FailsTestOnUnexpectedCount(t *testing.T) {
	dir := resourceDir(t)

	tb := runRecorded(func(tb *recordingTB) {
		h := New(tb, scenario.WithLoader(scenario.DefaultLoader(dir)), scenario.WithHandlers(handlers))
		h.SetConfigResource("repeat.hcl").RunFlowExpect("repeatThree", 1)
	})

	assert.Contains(t, tb.fatal, "flow 'repeatThree' of repeat.hcl failed")
	assert.Contains(t, tb.fatal, "expected 1 result(s), got 3")
}

func TestHarness_FailsTestOnMissingFlow(t *testing.T) {
	dir := resourceDir(t)

	tb := runRecorded(func(tb *recordingTB) {
		New(tb, scenario.WithLoader(scenario.DefaultLoader(dir)), scenario.WithHandlers(handlers)).
			SetConfigResource("repeat.hcl").
			RunFlow("missingFlow")
	})

	assert.Contains(t, tb.fatal, "flow 'missingFlow' is not defined")
}

func TestRunScenarios(t *testing.T) {
	RunScenarios(t, []Scenario{
		{Resource: "repeat.hcl", Flow: "repeatThree", Expected: 3},
		{Name: "drop produces nothing", Resource: "repeat.hcl", Flow: "dropAll"},
		{Name: "payload is repeated", Resource: "repeat.hcl", Flow: "repeatThree", Payload: map[string]any{"a": 1}, Expected: 3},
		{Name: "missing flow", Resource: "repeat.hcl", Flow: "missingFlow", WantErr: engine.ErrFlowNotFound},
		{Name: "count mismatch", Resource: "repeat.hcl", Flow: "repeatThree", Expected: 2, WantErr: scenario.ErrUnexpectedResultCount},
		{Name: "missing resource", Resource: "absent.hcl", Flow: "any", WantErr: scenario.ErrConfigLoad},
	}, options(t)...)
}
