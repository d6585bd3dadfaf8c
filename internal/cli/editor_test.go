package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script in a temp dir.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "editor.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestGetEditor(t *testing.T) {
	t.Setenv("VISUAL", "code --wait")
	t.Setenv("EDITOR", "vim")
	assert.Equal(t, "code --wait", getEditor())

	t.Setenv("VISUAL", "")
	assert.Equal(t, "vim", getEditor())

	t.Setenv("EDITOR", "")
	assert.Equal(t, "", getEditor())
}

func TestNewEditorUsesEnvironment(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", NewEditor().Command)
}

func TestEditNoEditor(t *testing.T) {
	_, err := (&Editor{}).Edit([]byte("x"), ".yaml")
	assert.ErrorIs(t, err, ErrNoEditor)
}

func TestEditUnchanged(t *testing.T) {
	content := []byte("store: file\n")
	result, err := (&Editor{Command: "true"}).Edit(content, ".yaml")
	require.NoError(t, err)
	assert.Equal(t, content, result)
}

func TestEditNonZeroExit(t *testing.T) {
	_, err := (&Editor{Command: "false"}).Edit([]byte("x"), ".yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "editor exited with status 1")
}

func TestEditContentModified(t *testing.T) {
	script := writeScript(t, "echo 'store: sqlite' > \"$1\"\n")

	result, err := (&Editor{Command: script}).Edit([]byte("store: file\n"), ".yaml")
	require.NoError(t, err)
	assert.Equal(t, "store: sqlite\n", string(result))
}

func TestEditValid(t *testing.T) {
	script := writeScript(t, "echo \"x$(cat \"$1\")\" > \"$1\"\n")
	e := &Editor{Command: script}

	t.Run("reopens until valid", func(t *testing.T) {
		attempts := 0
		out, err := e.EditValid([]byte("a"), ".txt", func(b []byte) error {
			if string(b) != "xxxa\n" {
				return errors.New("not yet")
			}
			return nil
		}, func(error) bool {
			attempts++
			return true
		})
		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
		assert.Equal(t, "xxxa\n", string(out))
	})

	t.Run("gives up when retry declines", func(t *testing.T) {
		invalid := errors.New("invalid")
		out, err := e.EditValid([]byte("a"), ".txt", func([]byte) error { return invalid }, func(error) bool { return false })
		assert.ErrorIs(t, err, invalid)
		assert.Equal(t, "xa\n", string(out))
	})
}

func TestRunEditorErrors(t *testing.T) {
	err := (&Editor{Command: "   "}).run("/tmp/x.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty editor command")

	err = (&Editor{Command: "nonexistent-editor-command-12345"}).run("/tmp/x.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run editor")
}
