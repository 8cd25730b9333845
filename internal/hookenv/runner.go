// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv

import (
	"fmt"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/utils/v4/exec"
	"github.com/kballard/go-shellquote"
)

// Runner runs an external command and returns its standard output.
type Runner interface {
	Run(name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands through a shell in the current environment.
type ExecRunner struct {
	// Dir is the working directory; empty means the current one.
	Dir string
}

// Run is part of the Runner interface.
func (r ExecRunner) Run(name string, args ...string) ([]byte, error) {
	command := shellquote.Join(append([]string{name}, args...)...)
	resp, err := exec.RunCommands(exec.RunParams{
		Commands:    command,
		WorkingDir:  r.Dir,
		Environment: os.Environ(),
	})
	if err != nil {
		return nil, errors.Annotatef(err, "running %s", name)
	}
	if resp.Code != 0 {
		stderr := strings.TrimSpace(string(resp.Stderr))
		return resp.Stdout, &CommandError{Name: name, Code: resp.Code, Stderr: stderr}
	}
	return resp.Stdout, nil
}

// CommandError is returned when a command exits with a non-zero code.
type CommandError struct {
	Name   string
	Code   int
	Stderr string
}

// Error is part of the error interface.
func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Name, e.Code, e.Stderr)
}
