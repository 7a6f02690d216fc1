package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/spigot/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestRun_Help(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error for help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}

	// --- Act ---
	err := run(&bytes.Buffer{}, &bytes.Buffer{}, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
	require.Equal(t, 2, cli.ExitCode(err))
}

func TestRun_ModifyThenPeek(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	state := filepath.Join(t.TempDir(), "state.hcl")
	for _, args := range [][]string{
		{"--state", state, "modify", "add-bucket", "."},
		{"--state", state, "modify", "fill-bucket", ".0", "a", "b"},
	} {
		require.NoError(t, run(&bytes.Buffer{}, &bytes.Buffer{}, args))
	}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, &bytes.Buffer{}, []string{"--state", state, "peek", "-n", "3"})

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "peek 3 => [a b a]\n", out.String())
}
