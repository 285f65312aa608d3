package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowbench/internal/flowtest"
	"github.com/vk/flowbench/internal/namespace"
	"github.com/vk/flowbench/internal/registry"
	"github.com/vk/flowbench/internal/scenario"
)

func TestHandler_Init(t *testing.T) {
	h := NewNamespaceHandler()

	require.NoError(t, h.Init())

	assert.Equal(t, "core", h.Namespace())
	assert.Equal(t, []string{"set-payload", "set-property"}, h.Registry().Names())
	require.ErrorIs(t, h.Init(), registry.ErrDuplicateName, "init is not idempotent")
}

func TestCoreFlows(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.hcl"), []byte(`
		flow "fixedList" {
			processor "core" "set-payload" { value = ["a", "b", "c"] }
			processor "core" "set-property" {
				name  = "source"
				value = "fixture"
			}
		}

		flow "clear" {
			processor "core" "set-payload" { value = null }
		}
	`), 0o644))

	h := flowtest.New(t,
		scenario.WithLoader(scenario.DefaultLoader(dir)),
		scenario.WithHandlers(func() []namespace.Namespaced {
			return []namespace.Namespaced{NewNamespaceHandler()}
		}),
	).SetConfigResource("core.hcl")

	// --- Act ---
	res := h.RunFlowWithPayload("fixedList", "ignored", 3)
	h.RunFlowWithPayload("clear", "something", 0)

	// --- Assert ---
	assert.Equal(t, []any{"a", "b", "c"}, res.Message.Payload)
	source, ok := res.Message.Property("source")
	require.True(t, ok)
	assert.Equal(t, "fixture", source)
}
