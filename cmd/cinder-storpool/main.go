// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Command cinder-storpool is the dispatch binary of the cinder-storpool
// subordinate charm.
package main

import (
	"fmt"
	"os"

	"github.com/juju/loggo/v2"

	"github.com/storpool/charm-cinder-storpool/cmd"
	"github.com/storpool/charm-cinder-storpool/internal/hookenv"
	"github.com/storpool/charm-cinder-storpool/internal/integration"
	"github.com/storpool/charm-cinder-storpool/internal/nodeid"
)

var logger = loggo.GetLogger("cinderstorpool.cmd.cinder-storpool")

const doc = `
cinder-storpool is run by the Juju unit agent for every hook and action
of the cinder-storpool charm. Run without a command, it handles the
event named by JUJU_DISPATCH_PATH.
`

// NewCommand returns the top level command of the charm binary.
func NewCommand() *cmd.SuperCommand {
	sc := cmd.NewSuperCommand(cmd.SuperCommandParams{
		Name:    "cinder-storpool",
		Purpose: "run the cinder-storpool charm",
		Doc:     doc,
		Default: "dispatch",
	})
	sc.Register(&dispatchCommand{
		getenv:   os.Getenv,
		hostname: os.Hostname,
		runner:   hookenv.ExecRunner{},
		procRoot: integration.DefaultProcRoot,
	})
	sc.Register(&gatesCommand{
		getenv:       os.Getenv,
		hostname:     os.Hostname,
		identityPath: nodeid.NewWriter().Path(),
	})
	sc.Register(&versionCommand{})
	return sc
}

func main() {
	os.Exit(Main(os.Args))
}

// Main runs the charm binary and returns its exit code.
func Main(args []string) int {
	ctx, err := cmd.DefaultContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	return cmd.Main(NewCommand(), ctx, args[1:])
}
