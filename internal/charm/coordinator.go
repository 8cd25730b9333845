// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package charm implements the cinder-storpool charm: it tracks the
// readiness of the Cinder and StorPool sides in a gate set and runs the
// rules that install the StorPool integration and hand the volume
// backend configuration to Cinder.
package charm

import (
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/storpool/charm-cinder-storpool/core/gate"
	"github.com/storpool/charm-cinder-storpool/internal/hook"
)

// Config holds the collaborators of a Coordinator.
type Config struct {
	Tools       HookTools
	Presence    PresenceReconciler
	Channel     PresenceFetcher
	Integration Integration
	Processes   ProcessChecker
	Clock       clock.Clock

	// ApplicationName is the name the volume backend is published as.
	ApplicationName string

	// MachineID is the machine the unit runs on.
	MachineID string

	// ParentNode is the machine whose storpool-block unit is expected
	// to configure this one.
	ParentNode string

	// SpoolDir is the directory the integration queues requests in.
	SpoolDir string

	Logger loggo.Logger
}

// Validate returns an error if the config cannot be used to build a
// Coordinator.
func (config Config) Validate() error {
	if config.Tools == nil {
		return errors.NotValidf("nil Tools")
	}
	if config.Presence == nil {
		return errors.NotValidf("nil Presence")
	}
	if config.Channel == nil {
		return errors.NotValidf("nil Channel")
	}
	if config.Integration == nil {
		return errors.NotValidf("nil Integration")
	}
	if config.Processes == nil {
		return errors.NotValidf("nil Processes")
	}
	if config.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if config.ApplicationName == "" {
		return errors.NotValidf("empty ApplicationName")
	}
	if config.MachineID == "" {
		return errors.NotValidf("empty MachineID")
	}
	if config.ParentNode == "" {
		return errors.NotValidf("empty ParentNode")
	}
	if config.SpoolDir == "" {
		return errors.NotValidf("empty SpoolDir")
	}
	return nil
}

// Coordinator reacts to hooks and actions by updating the gate set and
// settling the charm's rules.
type Coordinator struct {
	config Config
	logger loggo.Logger
	gates  *gate.Set
	engine *gate.Engine
}

// NewCoordinator returns a Coordinator working on gates. The gate set
// is updated in place; the caller persists it.
func NewCoordinator(config Config, gates *gate.Set) (*Coordinator, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if gates == nil {
		return nil, errors.NotValidf("nil gate set")
	}
	c := &Coordinator{
		config: config,
		logger: config.Logger,
		gates:  gates,
	}
	engine, err := gate.NewEngine(gate.EngineConfig{
		Rules:    c.rules(),
		Terminal: Stopped,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	c.engine = engine
	return c, nil
}

// Gates returns the gate set the coordinator works on.
func (c *Coordinator) Gates() *gate.Set {
	return c.gates
}

// Dispatch handles a hook or action: it updates the gates for the
// event, settles the rules, and reports the unit status. A *Failure in
// the returned error's chain means the hook must fail.
func (c *Coordinator) Dispatch(info hook.Info) error {
	if err := info.Validate(); err != nil {
		return errors.Trace(err)
	}
	c.logger.Debugf("handling %s with gates %v", info, c.gates.Strings())
	before := c.gates.Clone()

	switch {
	case info.Kind == hook.Action:
		if err := c.action(info.ActionName); err != nil {
			return errors.Trace(err)
		}
	case info.Kind.IsRelation():
		c.relation(info)
	default:
		c.unit(info.Kind)
	}

	fired, err := c.engine.Settle(c.gates)
	if len(fired) > 0 {
		c.logger.Debugf("ran %v", fired)
	}
	if !c.gates.Equal(before) {
		c.logger.Debugf("gates now %v", c.gates.Strings())
	}
	c.updateStatus()
	return errors.Trace(err)
}

func (c *Coordinator) unit(kind hook.Kind) {
	switch kind {
	case hook.Install, hook.ConfigChanged, hook.PostSeriesUpgrade:
		c.gates.Assert(Run)
	case hook.UpgradeCharm, hook.Start:
		if !c.gates.Has(Stopped) {
			c.gates.Assert(Run)
		}
	case hook.Stop:
		c.stop()
	case hook.UpdateStatus:
	default:
		c.logger.Debugf("nothing to do for %s", kind)
	}
}

func (c *Coordinator) relation(info hook.Info) {
	switch info.RelationName {
	case BackendRelation:
		switch info.Kind {
		case hook.RelationJoined, hook.RelationChanged:
			c.gates.Assert(BackendConfigure)
		case hook.RelationBroken:
			c.gates.Retract(BackendConfigure)
			c.gates.Retract(Ready)
		}
	case CinderPeerRelation, PresenceRelation:
		notify, joined := CinderNotify, CinderNotifyJoined
		if info.RelationName == PresenceRelation {
			notify, joined = PresenceNotify, PresenceNotifyJoined
		}
		switch info.Kind {
		case hook.RelationJoined:
			c.gates.Assert(notify)
			c.gates.Assert(joined)
		case hook.RelationChanged, hook.RelationDeparted:
			c.gates.Assert(notify)
		}
	default:
		c.logger.Debugf("ignoring %s", info)
	}
}

func (c *Coordinator) action(name string) error {
	switch name {
	case SPRunAction:
		if c.gates.Has(Stopped) {
			return errors.Trace(c.config.Tools.ActionFail("The unit has been stopped"))
		}
		c.gates.Assert(SPRun)
	case SPStatusAction:
		c.gates.Assert(SPStatus)
	default:
		return errors.NotSupportedf("action %q", name)
	}
	return nil
}

// stop removes the integration and asserts the terminal gate. Failing
// to remove the integration does not keep the unit from stopping.
func (c *Coordinator) stop() {
	c.logger.Debugf("a stop event was received")
	if err := c.config.Integration.Stop(); err != nil {
		c.logger.Errorf("stopping the StorPool integration: %v", err)
	}
	c.gates.Assert(Stopped)
}
