package flowtest

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/vk/flowbench/internal/flow"
	"github.com/vk/flowbench/internal/scenario"
)

// LogsEnv enables dumping captured logs into the test output.
const LogsEnv = "FLOWBENCH_TEST_LOGS"

// Harness runs flows for one test. Every failure is fatal to the test.
type Harness struct {
	t       testing.TB
	ctx     context.Context
	logs    *SafeBuffer
	session *scenario.Session
}

// New creates a Harness whose session is closed when the test ends. Logs are
// captured at debug level and available through Logs.
func New(t testing.TB, opts ...scenario.Option) *Harness {
	t.Helper()

	logs := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := &Harness{
		t:       t,
		ctx:     ctxlog.WithLogger(context.Background(), logger),
		logs:    logs,
		session: scenario.NewSession(opts...),
	}

	t.Cleanup(func() {
		if err := h.session.Close(h.ctx); err != nil {
			t.Errorf("failed to close scenario session: %v", err)
		}
		if os.Getenv(LogsEnv) == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return h
}

// Context returns the context flows run with.
func (h *Harness) Context() context.Context { return h.ctx }

// Session returns the underlying session.
func (h *Harness) Session() *scenario.Session { return h.session }

// Logs returns everything logged so far.
func (h *Harness) Logs() string { return h.logs.String() }

// SetConfigResource declares the configuration resource to load.
func (h *Harness) SetConfigResource(name string) *Harness {
	h.session.SetConfigResource(name)
	return h
}

// RunFlow runs flowName and expects no results.
func (h *Harness) RunFlow(flowName string) *flow.Result {
	h.t.Helper()
	return h.Run(scenario.Invocation{Flow: flowName})
}

// RunFlowExpect runs flowName and expects exactly expected results.
func (h *Harness) RunFlowExpect(flowName string, expected int) *flow.Result {
	h.t.Helper()
	return h.Run(scenario.Invocation{Flow: flowName, Expected: expected})
}

// RunFlowWithPayload runs flowName with an initial payload.
func (h *Harness) RunFlowWithPayload(flowName string, payload any, expected int) *flow.Result {
	h.t.Helper()
	return h.Run(scenario.Invocation{Flow: flowName, Expected: expected, Payload: payload})
}

// Run executes inv and returns its result.
func (h *Harness) Run(inv scenario.Invocation) *flow.Result {
	h.t.Helper()
	if err := h.session.Run(h.ctx, inv); err != nil {
		h.t.Fatalf("flow '%s' of %s failed: %v", inv.Flow, h.session.Resource(), err)
		return nil
	}
	return h.session.LastResult()
}
