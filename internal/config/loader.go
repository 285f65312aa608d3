package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Loader reads a named configuration resource into the format-agnostic model.
type Loader interface {
	Load(ctx context.Context, resource string) (*Model, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, resource string) (*Model, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, resource string) (*Model, error) {
	return f(ctx, resource)
}

// ExtensionLoader dispatches to a format-specific loader by file extension.
type ExtensionLoader struct {
	loaders map[string]Loader
}

// NewExtensionLoader creates an empty ExtensionLoader.
func NewExtensionLoader() *ExtensionLoader {
	return &ExtensionLoader{loaders: make(map[string]Loader)}
}

// Handle registers loader for each extension (with or without leading dot).
func (l *ExtensionLoader) Handle(loader Loader, extensions ...string) *ExtensionLoader {
	for _, ext := range extensions {
		l.loaders[normalizeExt(ext)] = loader
	}
	return l
}

// Extensions returns the handled extensions, sorted.
func (l *ExtensionLoader) Extensions() []string {
	exts := make([]string, 0, len(l.loaders))
	for ext := range l.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Load implements Loader.
func (l *ExtensionLoader) Load(ctx context.Context, resource string) (*Model, error) {
	ext := normalizeExt(filepath.Ext(resource))
	loader, ok := l.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("no loader for configuration resource '%s' (supported: %s)", resource, strings.Join(l.Extensions(), ", "))
	}
	return loader.Load(ctx, resource)
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
