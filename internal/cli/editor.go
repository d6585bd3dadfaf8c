package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrNoEditor is returned when neither VISUAL nor EDITOR is set.
var ErrNoEditor = errors.New("EDITOR not set; set it or edit the file directly")

// Editor runs the user's $VISUAL or $EDITOR on a temporary file.
type Editor struct {
	Command string // e.g. "vim" or "code --wait"; empty means look it up
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewEditor returns an Editor bound to the process's terminal.
func NewEditor() *Editor {
	return &Editor{Command: getEditor(), Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Edit writes content to a temp file with the given suffix, opens it in the
// editor and returns what the user saved.
func (e *Editor) Edit(content []byte, suffix string) ([]byte, error) {
	if e.Command == "" {
		return nil, ErrNoEditor
	}

	tmp, err := os.CreateTemp("", "mkt-*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := e.run(path); err != nil {
		return nil, err
	}

	out, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}
	return out, nil
}

// EditValid keeps reopening the editor while validate rejects the result and
// retry (given the validation error) returns true. It returns the last
// content together with its validation error.
func (e *Editor) EditValid(content []byte, suffix string, validate func([]byte) error, retry func(error) bool) ([]byte, error) {
	for {
		edited, err := e.Edit(content, suffix)
		if err != nil {
			return nil, err
		}
		verr := validate(edited)
		if verr == nil || retry == nil || !retry(verr) {
			return edited, verr
		}
		content = edited
	}
}

// getEditor prefers VISUAL, then EDITOR.
func getEditor() string {
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	return os.Getenv("EDITOR")
}

// run executes the editor command (which may carry arguments) on path.
func (e *Editor) run(path string) error {
	parts := strings.Fields(e.Command)
	if len(parts) == 0 {
		return fmt.Errorf("empty editor command")
	}

	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}
