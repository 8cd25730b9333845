// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"bytes"

	gc "gopkg.in/check.v1"

	"github.com/storpool/charm-cinder-storpool/cmd"
)

// Context returns a command context with buffered streams, working in
// a fresh temporary directory.
func Context(c *gc.C) *cmd.Context {
	return &cmd.Context{
		Dir:    c.MkDir(),
		Stdin:  &bytes.Buffer{},
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	}
}

// Stdout returns what was written to the context's buffered stdout.
func Stdout(ctx *cmd.Context) string {
	return ctx.Stdout.(*bytes.Buffer).String()
}

// Stderr returns what was written to the context's buffered stderr.
func Stderr(ctx *cmd.Context) string {
	return ctx.Stderr.(*bytes.Buffer).String()
}

// InitCommand parses args on com, as Main would.
func InitCommand(com cmd.Command, args []string) error {
	return cmd.Parse(com, args)
}

// RunCommand initializes com with args and runs it in a test context.
func RunCommand(c *gc.C, com cmd.Command, args ...string) (*cmd.Context, error) {
	if err := InitCommand(com, args); err != nil {
		return nil, err
	}
	ctx := Context(c)
	return ctx, com.Run(ctx)
}
