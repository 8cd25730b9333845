// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package cmd is a small command framework for the charm binary.
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo/v2"
)

var logger = loggo.GetLogger("cinderstorpool.cmd")

// Info holds everything necessary to describe a Command's intent and usage.
type Info struct {
	// Name is the Command's name.
	Name string

	// Args describes the command's expected arguments.
	Args string

	// Purpose is a short explanation of the Command's purpose.
	Purpose string

	// Doc is the long documentation for the Command.
	Doc string

	// Intersperse controls whether the Command will accept interspersed
	// options and positional args.
	Intersperse bool
}

// Usage combines Name and Args to describe the Command's intended usage.
func (i *Info) Usage() string {
	if i.Args == "" {
		return i.Name
	}
	return fmt.Sprintf("%s %s", i.Name, i.Args)
}

// Context represents the run context of a Command.
type Context struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultContext returns a Context using the process' working directory
// and standard streams.
func DefaultContext() (*Context, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Context{
		Dir:    dir,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}, nil
}

// AbsPath returns an absolute representation of path, relative to the
// context's working directory.
func (ctx *Context) AbsPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(ctx.Dir, path)
}

// Command is implemented by types that interpret command-line arguments.
type Command interface {
	// Info returns information about the command.
	Info() *Info

	// SetFlags adds command specific flags to the flag set.
	SetFlags(f *gnuflag.FlagSet)

	// Init initializes the command from the positional arguments left
	// after parsing the flags.
	Init(args []string) error

	// Run will execute the command according to the options and positional
	// arguments interpreted by a call to Parse.
	Run(ctx *Context) error
}

// CommandBase provides the default implementation for SetFlags and Init.
type CommandBase struct{}

// SetFlags does nothing in the simplest case.
func (c *CommandBase) SetFlags(f *gnuflag.FlagSet) {}

// Init in the simplest case makes sure there are no args.
func (c *CommandBase) Init(args []string) error {
	return CheckEmpty(args)
}

// RcPassthroughError indicates that the process should exit with the
// given code without the error being treated as a usage problem.
type RcPassthroughError struct {
	Code int
	Err  error
}

// Error is part of the error interface.
func (e *RcPassthroughError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *RcPassthroughError) Unwrap() error {
	return e.Err
}

// NewFlagSet returns a FlagSet initialized for use with c.
func NewFlagSet(c Command) *gnuflag.FlagSet {
	f := gnuflag.NewFlagSetWithFlagKnownAs(c.Info().Name, gnuflag.ContinueOnError, "option")
	f.SetOutput(io.Discard)
	c.SetFlags(f)
	return f
}

// Usage returns the usage information for c.
func Usage(c Command) string {
	var buf bytes.Buffer
	i := c.Info()
	fmt.Fprintf(&buf, "Usage: %s\n", i.Usage())
	if i.Purpose != "" {
		fmt.Fprintf(&buf, "\nSummary:\n%s\n", i.Purpose)
	}
	f := NewFlagSet(c)
	f.SetOutput(&buf)
	fmt.Fprintf(&buf, "\nOptions:\n")
	f.PrintDefaults()
	if i.Doc != "" {
		fmt.Fprintf(&buf, "\nDetails:\n%s\n", strings.TrimSpace(i.Doc))
	}
	return buf.String()
}

// Parse parses args on c. This must be called before c is Run.
func Parse(c Command, args []string) error {
	if _, ok := c.(*SuperCommand); ok {
		// A SuperCommand parses the options of the subcommand it selects.
		return errors.Trace(c.Init(args))
	}
	f := NewFlagSet(c)
	if err := f.Parse(c.Info().Intersperse, args); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(c.Init(f.Args()))
}

// CheckEmpty is a utility function that returns an error if args is not empty.
func CheckEmpty(args []string) error {
	if len(args) != 0 {
		return errors.Errorf("unrecognized args: %q", args)
	}
	return nil
}

// Main parses and runs a Command, and returns the process exit code:
// 0 on success, 2 for usage errors, the code of an RcPassthroughError,
// and 1 for any other error.
func Main(c Command, ctx *Context, args []string) int {
	if err := Parse(c, args); err != nil {
		if errors.Is(err, gnuflag.ErrHelp) {
			fmt.Fprint(ctx.Stdout, Usage(c))
			return 0
		}
		fmt.Fprintf(ctx.Stderr, "ERROR %v\n", err)
		fmt.Fprint(ctx.Stderr, Usage(c))
		return 2
	}
	err := c.Run(ctx)
	if err == nil {
		return 0
	}
	logger.Debugf("%s command failed: %s", c.Info().Name, errors.ErrorStack(err))
	fmt.Fprintf(ctx.Stderr, "ERROR %v\n", err)
	var rc *RcPassthroughError
	if errors.As(err, &rc) {
		return rc.Code
	}
	return 1
}
