// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/juju/ansiterm"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/storpool/charm-cinder-storpool/cmd"
	"github.com/storpool/charm-cinder-storpool/core/gate"
	"github.com/storpool/charm-cinder-storpool/internal/charm"
	"github.com/storpool/charm-cinder-storpool/internal/hookenv"
	"github.com/storpool/charm-cinder-storpool/internal/nodeid"
	"github.com/storpool/charm-cinder-storpool/internal/presence"
	"github.com/storpool/charm-cinder-storpool/internal/unitdata"
)

const gatesDoc = `
gates shows the gates currently asserted for the unit and the cached
StorPool presence state. By default the unit state of the charm in
CHARM_DIR is read.
`

type gatesCommand struct {
	cmd.CommandBase
	out    cmd.Output
	getenv func(string) string
	dbPath cmd.FileVar
	color  bool

	hostname     func() (string, error)
	identityPath string

	// open is overridden in tests.
	open func(path string) (unitState, error)
}

// unitState is the part of the unit state the gates command reads.
type unitState interface {
	LoadGates() (*gate.Set, error)
	LoadPresence() (presence.State, error)
	Close() error
}

func openUnitState(path string) (unitState, error) {
	return unitdata.Open(path)
}

// GatesInfo is the output of the gates command.
type GatesInfo struct {
	Gates    []string       `json:"gates" yaml:"gates"`
	Presence presence.State `json:"presence" yaml:"presence"`

	// NodeID is the StorPool id in the node identity file, if any.
	NodeID string `json:"node-id,omitempty" yaml:"node-id,omitempty"`
}

// Info is part of the cmd.Command interface.
func (c *gatesCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:        "gates",
		Purpose:     "show the unit's gates",
		Doc:         gatesDoc,
		Intersperse: true,
	}
}

// SetFlags is part of the cmd.Command interface.
func (c *gatesCommand) SetFlags(f *gnuflag.FlagSet) {
	c.out.AddFlags(f, "yaml", map[string]cmd.Formatter{
		"yaml":    cmd.FormatYaml,
		"json":    cmd.FormatJson,
		"tabular": c.formatTabular,
	})
	f.Var(&c.dbPath, "db", "path to the unit state database")
	f.BoolVar(&c.color, "color", false, "use ANSI color codes in tabular output")
}

// Init is part of the cmd.Command interface.
func (c *gatesCommand) Init(args []string) error {
	if c.dbPath.Path == "" {
		env := hookenv.NewEnvironment(c.getenv)
		if env.CharmDir == "" {
			return errors.New("no --db given and CHARM_DIR not set")
		}
		c.dbPath.Path = env.UnitStatePath()
	}
	return cmd.CheckEmpty(args)
}

// Run is part of the cmd.Command interface.
func (c *gatesCommand) Run(ctx *cmd.Context) (err error) {
	path, err := c.dbPath.Resolve(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	open := c.open
	if open == nil {
		open = openUnitState
	}
	store, err := open(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil && err == nil {
			err = errors.Annotate(closeErr, "closing the unit state")
		}
	}()

	gates, err := store.LoadGates()
	if err != nil {
		return errors.Trace(err)
	}
	state, err := store.LoadPresence()
	if err != nil {
		return errors.Trace(err)
	}
	nodeID, err := c.nodeID()
	if err != nil {
		return errors.Trace(err)
	}
	return c.out.Write(ctx, GatesInfo{
		Gates:    gates.Strings(),
		Presence: state,
		NodeID:   nodeID,
	})
}

func (c *gatesCommand) nodeID() (string, error) {
	hostname, err := c.hostname()
	if err != nil {
		return "", errors.Annotate(err, "getting the hostname")
	}
	id, err := nodeid.Read(c.identityPath, hostname)
	if errors.Is(err, errors.NotFound) {
		return "", nil
	}
	return id, errors.Trace(err)
}

var gateColors = map[gate.Name]*ansiterm.Context{
	charm.Ready:   ansiterm.Foreground(ansiterm.Green),
	charm.Stopped: ansiterm.Foreground(ansiterm.BrightRed),
}

func (c *gatesCommand) formatTabular(writer io.Writer, value interface{}) error {
	info, ok := value.(GatesInfo)
	if !ok {
		return errors.Errorf("expected value of type %T, got %T", info, value)
	}
	tw := ansiterm.NewTabWriter(writer, 0, 1, 1, ' ', 0)
	if c.color {
		tw.SetColorCapable(true)
	}
	fmt.Fprintln(tw, "Gate")
	for _, name := range info.Gates {
		color, ok := gateColors[gate.Name(name)]
		if !ok {
			color = ansiterm.Foreground(ansiterm.Default)
		}
		color.Fprintf(tw, "%s", name)
		fmt.Fprintln(tw)
	}
	generation := "-"
	if info.Presence.MetaGeneration != nil {
		generation = strconv.FormatInt(*info.Presence.MetaGeneration, 10)
	}
	ourID := info.Presence.OurID
	if ourID == "" {
		ourID = "-"
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Meta generation\t%s\n", generation)
	fmt.Fprintf(tw, "Our id\t%s\n", ourID)
	nodeID := info.NodeID
	if nodeID == "" {
		nodeID = "-"
	}
	fmt.Fprintf(tw, "Node id\t%s\n", nodeID)
	return errors.Trace(tw.Flush())
}
