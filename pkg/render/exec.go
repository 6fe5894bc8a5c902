package render

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultCommand is the external renderer command line used when none is
// configured. The flags keep diff2html reading from stdin and writing to
// stdout instead of opening a browser.
const DefaultCommand = "diff2html -i stdin -o stdout"

// ExecRenderer renders patches through an external command, writing the
// patch to its stdin and reading HTML from its stdout.
type ExecRenderer struct {
	command string
	args    []string
}

// NewExecRenderer creates a renderer around an external command line. The
// string is split on whitespace, so it may carry arguments.
func NewExecRenderer(command string) *ExecRenderer {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		parts = strings.Fields(DefaultCommand)
	}

	return &ExecRenderer{command: parts[0], args: parts[1:]}
}

// Name returns the base command name.
func (r *ExecRenderer) Name() string {
	return r.command
}

// Available reports whether the command resolves on PATH.
func (r *ExecRenderer) Available() bool {
	_, err := exec.LookPath(r.command)

	return err == nil
}

// Render pipes the patch through the external command. A missing command
// reports ErrUnavailable so the caller can degrade instead of failing.
func (r *ExecRenderer) Render(patch string) (string, error) {
	if patch == "" {
		return "", nil
	}

	_, err := exec.LookPath(r.command)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, r.command)
	}

	cmd := exec.Command(r.command, r.args...)
	cmd.Stdin = strings.NewReader(patch)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("render with %s: %w: %s", r.command, err, strings.TrimSpace(stderr.String()))
		}

		return "", fmt.Errorf("render with %s: %w", r.command, err)
	}

	return stdout.String(), nil
}
