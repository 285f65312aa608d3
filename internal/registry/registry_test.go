package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testModule struct{ id int }

func TestRegister_DuplicateNameFails(t *testing.T) {
	// --- Arrange ---
	r := New("jar")
	require.NoError(t, r.Register("config", func() Module { return &testModule{id: 1} }))

	// --- Act ---
	err := r.Register("config", func() Module { return &testModule{id: 2} })

	// --- Assert ---
	require.Error(t, err)
	require.ErrorIs(t, err, ErrDuplicateName)

	var dupErr *DuplicateNameError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "jar", dupErr.Namespace)
	assert.Equal(t, "config", dupErr.Name)

	// The original registration must still be the one in place.
	mod, err := r.Resolve("config")
	require.NoError(t, err)
	assert.Equal(t, 1, mod.(*testModule).id)
	assert.Equal(t, []string{"config"}, r.Names())
}

func TestResolve_UnknownNameDoesNotInstantiate(t *testing.T) {
	r := New("rss")
	calls := 0
	require.NoError(t, r.Register("config", func() Module { calls++; return &testModule{} }))

	mod, err := r.Resolve("feed")

	require.Nil(t, mod)
	require.ErrorIs(t, err, ErrUnknownName)
	assert.Contains(t, err.Error(), "'feed'")
	assert.Zero(t, calls, "no factory should run for an unknown name")
}

func TestResolve_ReturnsFreshInstances(t *testing.T) {
	r := New("jar")
	calls := 0
	require.NoError(t, r.Register("config", func() Module { calls++; return &testModule{id: calls} }))

	first, err := r.Resolve("config")
	require.NoError(t, err)
	second, err := r.Resolve("config")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"config"}, r.Names(), "resolving must not change the registered names")
	assert.Equal(t, 1, r.Len())
}

func TestRegister_InvalidArguments(t *testing.T) {
	r := New("jar")

	require.ErrorIs(t, r.Register("", func() Module { return nil }), ErrEmptyName)
	require.ErrorIs(t, r.Register("config", nil), ErrNilFactory)
	assert.Zero(t, r.Len())
	assert.False(t, r.Has("config"))
}

func TestRegister_NamesAreCaseSensitive(t *testing.T) {
	r := New("jar")
	require.NoError(t, r.Register("config", func() Module { return nil }))
	require.NoError(t, r.Register("Config", func() Module { return nil }))

	assert.Equal(t, []string{"config", "Config"}, r.Names())
	assert.Equal(t, "jar", r.Namespace())
}
