// Package probe runs external toolchain executables and captures their
// output. Discovery code depends on the Runner interface rather than os/exec
// directly, so it can be unit-tested without real toolchains installed.
package probe

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrExecution reports that an external tool could not be run or crashed.
var ErrExecution = errors.New("probe execution failed")

// Runner runs an external command and returns its trimmed standard output.
// Calls block until the process exits; there is no timeout or cancellation,
// a hung tool hangs the caller.
type Runner interface {
	Run(name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec, capturing stdout and folding stderr
// into the returned error.
type ExecRunner struct{}

func (ExecRunner) Run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %s", name, msg)
		}
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}
