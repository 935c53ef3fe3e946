// File: cmd/cmd_test.go
package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with the given args and captures its
// output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func setTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ONBOARDKIT_STORE_PATH", filepath.Join(t.TempDir(), "state.db"))
	t.Setenv("ONBOARDKIT_LOGGER_LEVEL", "error")
}

func TestVersionFlag(t *testing.T) {
	setTestEnv(t)
	out, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestResetCommand(t *testing.T) {
	setTestEnv(t)
	out, err := executeCommand(t, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "onboarding state cleared")

	// Idempotent: clearing an already clear store succeeds.
	out, err = executeCommand(t, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "onboarding state cleared")
}

func TestStatusCommand(t *testing.T) {
	setTestEnv(t)
	out, err := executeCommand(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "completed: false")
}

func TestStatusCommandJSON(t *testing.T) {
	setTestEnv(t)
	out, err := executeCommand(t, "status", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"completed": false`)
}

func TestStatusRejectsArgs(t *testing.T) {
	setTestEnv(t)
	_, err := executeCommand(t, "status", "extra")
	require.Error(t, err)
}
