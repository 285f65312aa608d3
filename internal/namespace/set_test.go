package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowbench/internal/registry"
)

type jarModule struct{}

func newJarHandler() *Static {
	return NewStatic("jar", Registration{
		Name:    ConfigElement,
		Factory: func() registry.Module { return &jarModule{} },
	})
}

func TestStatic_InitTwiceFails(t *testing.T) {
	h := newJarHandler()

	require.NoError(t, h.Init())
	err := h.Init()

	require.ErrorIs(t, err, registry.ErrDuplicateName)
	assert.Equal(t, []string{ConfigElement}, h.Registry().Names())
}

func TestSet_AddInitializesOnce(t *testing.T) {
	// --- Arrange ---
	h := newJarHandler()

	// --- Act ---
	set, err := NewSet(h)

	// --- Assert ---
	require.NoError(t, err)
	require.True(t, h.Registry().Has(ConfigElement))

	mod, err := set.Resolve("jar", ConfigElement)
	require.NoError(t, err)
	assert.IsType(t, &jarModule{}, mod)
	assert.Equal(t, []string{"jar"}, set.Namespaces())
}

func TestSet_RejectsDuplicateNamespace(t *testing.T) {
	set, err := NewSet(newJarHandler())
	require.NoError(t, err)

	second := newJarHandler()
	err = set.Add(second)

	require.ErrorIs(t, err, ErrDuplicateNamespace)
	assert.Zero(t, second.Registry().Len(), "a rejected handler must not be initialized")
}

func TestSet_ResolveFailures(t *testing.T) {
	set, err := NewSet(newJarHandler())
	require.NoError(t, err)

	_, err = set.Resolve("rss", ConfigElement)
	require.ErrorIs(t, err, ErrUnknownNamespace)

	_, err = set.Resolve("jar", "set-manifest")
	require.ErrorIs(t, err, registry.ErrUnknownName)
}

func TestSet_InitFailureIsSurfaced(t *testing.T) {
	h := NewStatic("dup",
		Registration{Name: "x", Factory: func() registry.Module { return nil }},
		Registration{Name: "x", Factory: func() registry.Module { return nil }},
	)

	_, err := NewSet(h)

	require.ErrorIs(t, err, registry.ErrDuplicateName)
	assert.Contains(t, err.Error(), "failed to initialize namespace handler 'dup'")
}
