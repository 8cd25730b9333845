// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"io"
	"os"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo/v2"
	"github.com/juju/loggo/v2/loggocolor"
	"github.com/mattn/go-isatty"

	"github.com/storpool/charm-cinder-storpool/cmd"
	"github.com/storpool/charm-cinder-storpool/core/gate"
	"github.com/storpool/charm-cinder-storpool/internal/charm"
	"github.com/storpool/charm-cinder-storpool/internal/hook"
	"github.com/storpool/charm-cinder-storpool/internal/hookenv"
	"github.com/storpool/charm-cinder-storpool/internal/integration"
	"github.com/storpool/charm-cinder-storpool/internal/nodeid"
	"github.com/storpool/charm-cinder-storpool/internal/presence"
	"github.com/storpool/charm-cinder-storpool/internal/unitdata"
)

// FailureExitCode is returned when a hook fails because the StorPool
// integration could not be set up.
const FailureExitCode = 42

const dispatchDoc = `
dispatch handles the hook or action named by JUJU_DISPATCH_PATH: it
loads the unit's gates, runs the charm rules, reports the unit status
and saves the gates again.
`

type dispatchCommand struct {
	cmd.CommandBase

	getenv   func(string) string
	hostname func() (string, error)
	runner   hookenv.Runner
	procRoot string

	logLevel string
	identity presence.IdentityWriter
	install  func(hostname string) (charm.Integration, error)
}

// Info is part of the cmd.Command interface.
func (c *dispatchCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "dispatch",
		Purpose: "handle a hook or action",
		Doc:     dispatchDoc,
	}
}

// SetFlags is part of the cmd.Command interface.
func (c *dispatchCommand) SetFlags(f *gnuflag.FlagSet) {
	f.StringVar(&c.logLevel, "log-level", "DEBUG", "minimum level of the messages sent to juju-log")
}

// Init is part of the cmd.Command interface.
func (c *dispatchCommand) Init(args []string) error {
	if _, ok := loggo.ParseLevel(c.logLevel); !ok {
		return errors.NotValidf("log level %q", c.logLevel)
	}
	return cmd.CheckEmpty(args)
}

// Run is part of the cmd.Command interface.
func (c *dispatchCommand) Run(ctx *cmd.Context) error {
	env := hookenv.NewEnvironment(c.getenv)
	if err := env.Validate(); err != nil {
		return errors.Annotate(err, "not running in a hook context")
	}
	info, err := hook.ParseDispatchPath(env.DispatchPath)
	if err != nil {
		return errors.Trace(err)
	}
	appName, err := env.ApplicationName()
	if err != nil {
		return errors.Trace(err)
	}
	hostname, err := c.hostname()
	if err != nil {
		return errors.Annotate(err, "getting the hostname")
	}

	tools := hookenv.NewTools(c.runner)
	if err := c.setupLogging(env, tools, ctx); err != nil {
		return errors.Trace(err)
	}

	store, err := unitdata.Open(env.UnitStatePath())
	if err != nil {
		return errors.Trace(err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Errorf("closing the unit state: %v", err)
		}
	}()
	gates, err := store.LoadGates()
	if err != nil {
		return errors.Trace(err)
	}

	coordinator, err := c.newCoordinator(env, appName, hostname, tools, store, gates)
	if err != nil {
		return errors.Trace(err)
	}
	dispatchErr := coordinator.Dispatch(info)
	if err := store.SaveGates(coordinator.Gates()); err != nil {
		logger.Errorf("saving the gates: %v", err)
		if dispatchErr == nil {
			return errors.Trace(err)
		}
	}
	if dispatchErr == nil {
		return nil
	}
	if failure, ok := charm.AsFailure(dispatchErr); ok {
		logger.Errorf("%s failed: %v", info, failure)
		return &cmd.RcPassthroughError{Code: FailureExitCode, Err: dispatchErr}
	}
	return errors.Annotatef(dispatchErr, "handling %s", info)
}

// setupLogging sends the log to juju-log inside a hook context, and to
// a colored stderr when run by hand from a terminal.
func (c *dispatchCommand) setupLogging(env hookenv.Environment, tools *hookenv.Tools, ctx *cmd.Context) error {
	var writer loggo.Writer
	switch {
	case env.InHookContext():
		writer = hookenv.NewLogWriter(tools, ctx.Stderr)
	case isTerminal(ctx.Stderr):
		writer = loggocolor.NewWriter(ctx.Stderr)
	default:
		return nil
	}
	if _, err := loggo.ReplaceDefaultWriter(writer); err != nil {
		return errors.Annotate(err, "replacing the log writer")
	}
	return errors.Trace(loggo.ConfigureLoggers("<root>=" + c.logLevel))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (c *dispatchCommand) newCoordinator(
	env hookenv.Environment,
	appName, hostname string,
	tools *hookenv.Tools,
	store *unitdata.Store,
	gates *gate.Set,
) (*charm.Coordinator, error) {
	channel := presence.RelationChannel{
		Relations: charm.PresenceRelations,
		Data:      tools,
	}
	identity := c.identity
	if identity == nil {
		identity = nodeid.NewWriter()
	}
	reconciler, err := presence.NewReconciler(presence.ReconcilerConfig{
		Gates:          gates,
		Cache:          store,
		Channel:        channel,
		Identity:       identity,
		ConfiguredGate: charm.PresenceConfigured,
		RerunGate:      charm.Run,
		JoinedGates:    charm.JoinedGates,
		ParentNode:     env.ParentMachine(),
		MachineID:      env.MachineID,
		Hostname:       hostname,
		Logger:         loggo.GetLogger("cinderstorpool.presence"),
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	install := c.install
	if install == nil {
		install = c.newInstaller
	}
	installer, err := install(hostname)
	if err != nil {
		return nil, errors.Trace(err)
	}
	processes, err := integration.NewProcessChecker(c.procRoot)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return charm.NewCoordinator(charm.Config{
		Tools:           tools,
		Presence:        reconciler,
		Channel:         channel,
		Integration:     installer,
		Processes:       processes,
		Clock:           clock.WallClock,
		ApplicationName: appName,
		MachineID:       env.MachineID,
		ParentNode:      env.ParentMachine(),
		SpoolDir:        charm.DefaultSpoolDir,
		Logger:          loggo.GetLogger("cinderstorpool.charm"),
	}, gates)
}

func (c *dispatchCommand) newInstaller(hostname string) (charm.Integration, error) {
	installer, err := integration.NewInstaller(integration.DefaultInstallerConfig(c.runner, hostname))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return installer, nil
}
