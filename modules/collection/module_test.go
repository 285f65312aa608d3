package collection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/flowbench/internal/engine"
	"github.com/vk/flowbench/internal/flowtest"
	"github.com/vk/flowbench/internal/namespace"
	"github.com/vk/flowbench/internal/scenario"
)

func TestCollectionScenarios(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "collection.yaml"), []byte(`
flows:
  - name: countFixed
    processors:
      - element: collection:count-list
        arguments:
          items: [a, b, c, d]
  - name: listFixed
    processors:
      - element: collection:list
        arguments:
          items: [x, y]
  - name: countPayload
    processors:
      - element: collection:count-list
  - name: passThrough
    processors:
      - element: collection:list
  - name: notAList
    processors:
      - element: collection:list
        arguments:
          items: just-one
`), 0o644))

	flowtest.RunScenarios(t, []flowtest.Scenario{
		{Resource: "collection.yaml", Flow: "countFixed", Expected: 4},
		{Resource: "collection.yaml", Flow: "listFixed", Expected: 2},
		{Name: "count of the payload", Resource: "collection.yaml", Flow: "countPayload", Payload: []string{"a", "b"}, Expected: 2},
		{Name: "list passes payload through", Resource: "collection.yaml", Flow: "passThrough", Payload: map[string]int{"a": 1}, Expected: 1},
		{Name: "scalar items rejected", Resource: "collection.yaml", Flow: "notAList", WantErr: engine.ErrProcessorFailed},
	},
		scenario.WithLoader(scenario.DefaultLoader(dir)),
		scenario.WithHandlers(func() []namespace.Namespaced { return []namespace.Namespaced{NewNamespaceHandler()} }),
	)
}
