package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args and captures output.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	cmd := NewRootCommand()
	var out, errBuf bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errBuf.String(), err
}

func TestRootHelpListsCommands(t *testing.T) {
	stdout, _, err := executeCommand(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "verify")
	assert.Contains(t, stdout, "validate")
	assert.Contains(t, stdout, "history")
}

func TestRootRejectsInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	_, _, err := executeCommand(t, "--format", "xml", "validate", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "failed")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "broken")))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "broken", assert.AnError)))
}

func TestExitErrorMessage(t *testing.T) {
	plain := NewExitError(ExitFailure, "2 scenario(s) failed")
	assert.Equal(t, "2 scenario(s) failed", plain.Error())

	wrapped := WrapExitError(ExitCommandError, "invalid fixtures", assert.AnError)
	assert.Contains(t, wrapped.Error(), "invalid fixtures")
	assert.ErrorIs(t, wrapped, assert.AnError)
}
