// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"runtime"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/version/v2"

	"github.com/storpool/charm-cinder-storpool/cmd"
)

// Version is the version of the charm binary. It is overridden at link
// time for released builds.
var Version = "2.1.0"

type versionCommand struct {
	cmd.CommandBase
	out    cmd.Output
	binary version.Binary
}

// Info is part of the cmd.Command interface.
func (c *versionCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:        "version",
		Purpose:     "print the charm binary version",
		Intersperse: true,
	}
}

// SetFlags is part of the cmd.Command interface.
func (c *versionCommand) SetFlags(f *gnuflag.FlagSet) {
	c.out.AddFlags(f, "smart", map[string]cmd.Formatter{
		"smart": cmd.FormatSmart,
		"yaml":  cmd.FormatYaml,
		"json":  cmd.FormatJson,
	})
}

// Init is part of the cmd.Command interface.
func (c *versionCommand) Init(args []string) error {
	number, err := version.Parse(Version)
	if err != nil {
		return errors.Annotatef(err, "invalid binary version %q", Version)
	}
	c.binary = version.Binary{
		Number:  number,
		Release: "ubuntu",
		Arch:    runtime.GOARCH,
	}
	return cmd.CheckEmpty(args)
}

// Run is part of the cmd.Command interface.
func (c *versionCommand) Run(ctx *cmd.Context) error {
	return c.out.Write(ctx, c.binary.String())
}
