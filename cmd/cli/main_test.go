package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/flowbench/internal/cli"
)

func writeResource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_AllScenariosPass(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writeResource(t, `
		flow "fixed" {
			processor "core" "set-payload" { value = ["x"] }
		}
		scenario "one item" {
			flow   = "fixed"
			expect = 1
		}
	`)
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, []string{"-log-level", "error", path})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "1 scenario(s), 1 passed, 0 failed")
}

func TestRun_FailedScenarioExitsWithOne(t *testing.T) {
	t.Parallel()

	path := writeResource(t, `
		flow "fixed" {
			processor "core" "set-payload" { value = ["x", "y"] }
		}
	`)
	out := &bytes.Buffer{}

	err := run(context.Background(), out, []string{"-log-level", "error", "-flow", "fixed", "-expect", "1", path})

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 1, exitErr.Code)
	require.Contains(t, out.String(), "expected 1 result(s), got 2")
}

func TestRun_InvalidResource(t *testing.T) {
	t.Parallel()

	path := writeResource(t, `
		flow "broken" {
			processor "core" "set-payload" {
	`)

	err := run(context.Background(), &bytes.Buffer{}, []string{"-log-level", "error", path})

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read scenarios")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_NoPathIsUsageError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	err := run(context.Background(), out, nil)

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	args := []string{"--this-is-not-a-valid-flag"}

	err := run(context.Background(), &bytes.Buffer{}, args)

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
