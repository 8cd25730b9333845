// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"
)

// SuperCommandParams provides a way to have default parameter to the
// NewSuperCommand call.
type SuperCommandParams struct {
	Name    string
	Purpose string
	Doc     string

	// Default is the subcommand run when no subcommand is named.
	Default string
}

// SuperCommand is a Command that selects a subcommand and assumes its
// properties.
type SuperCommand struct {
	CommandBase
	params      SuperCommandParams
	subcmds     map[string]Command
	subcmd      Command
	subcmdFlags *gnuflag.FlagSet
	subcmdArgs  []string
}

// NewSuperCommand creates and initializes a new SuperCommand.
func NewSuperCommand(params SuperCommandParams) *SuperCommand {
	return &SuperCommand{
		params:  params,
		subcmds: make(map[string]Command),
	}
}

// Register makes a subcommand available for use on the command line.
func (c *SuperCommand) Register(subcmd Command) {
	name := subcmd.Info().Name
	if _, found := c.subcmds[name]; found {
		panic(fmt.Sprintf("command already registered: %q", name))
	}
	c.subcmds[name] = subcmd
}

// Info returns a description of the currently selected subcommand, or of
// the SuperCommand itself if no subcommand has been selected.
func (c *SuperCommand) Info() *Info {
	if c.subcmd != nil {
		info := *c.subcmd.Info()
		info.Name = fmt.Sprintf("%s %s", c.params.Name, info.Name)
		return &info
	}
	return &Info{
		Name:    c.params.Name,
		Args:    "<command> ...",
		Purpose: c.params.Purpose,
		Doc:     c.describeCommands(),
	}
}

func (c *SuperCommand) describeCommands() string {
	names := make([]string, 0, len(c.subcmds))
	for name := range c.subcmds {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := []string{strings.TrimSpace(c.params.Doc), "", "Commands:"}
	for _, name := range names {
		purpose := c.subcmds[name].Info().Purpose
		if name == c.params.Default {
			purpose += " (default)"
		}
		lines = append(lines, fmt.Sprintf("    %-10s - %s", name, purpose))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// SetFlags adds the options that apply to the selected subcommand.
func (c *SuperCommand) SetFlags(f *gnuflag.FlagSet) {
	if c.subcmd != nil {
		c.subcmd.SetFlags(f)
	}
}

// Init selects the subcommand named by the first argument, or the
// default one, and initializes it from the remaining arguments.
func (c *SuperCommand) Init(args []string) error {
	name := c.params.Default
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		name, args = args[0], args[1:]
	}
	if name == "" {
		return errors.New("no command specified")
	}
	subcmd, found := c.subcmds[name]
	if !found {
		return errors.Errorf("unrecognized command: %s %s", c.params.Name, name)
	}
	c.subcmd = subcmd
	c.subcmdFlags = NewFlagSet(subcmd)
	if err := c.subcmdFlags.Parse(subcmd.Info().Intersperse, args); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(subcmd.Init(c.subcmdFlags.Args()))
}

// Run executes the subcommand that was selected in Init.
func (c *SuperCommand) Run(ctx *Context) error {
	if c.subcmd == nil {
		return errors.New("no command selected")
	}
	return c.subcmd.Run(ctx)
}
