// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when a resource cannot be resolved to a file.
var ErrNotFound = errors.New("configuration resource not found")

// FindFilesByExtension recursively searches the given root path for all files
// ending with any of the specified extensions. It returns their full paths,
// sorted. A root that is itself a matching file is returned as is.
func FindFilesByExtension(rootPath string, extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		panic("at least one extension is required")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, ext := range extensions {
			if strings.HasSuffix(d.Name(), ext) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Resolve finds the file backing a resource name. Absolute names, and any
// name when no search directories are given, are used as is; otherwise each
// directory is tried in order.
func Resolve(resource string, searchDirs []string) (string, error) {
	if filepath.IsAbs(resource) || len(searchDirs) == 0 {
		if _, err := os.Stat(resource); err != nil {
			return "", fmt.Errorf("%w: '%s': %w", ErrNotFound, resource, err)
		}
		return resource, nil
	}
	for _, dir := range searchDirs {
		candidate := filepath.Join(dir, resource)
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", candidate, err)
		}
	}
	return "", fmt.Errorf("%w: '%s' (searched %v)", ErrNotFound, resource, searchDirs)
}
