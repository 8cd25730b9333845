// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package hook provides types that define the hooks and actions the
// charm is dispatched for.
package hook

import (
	"fmt"
	"path"
	"strings"

	"github.com/juju/errors"
)

// Kind enumerates the hooks the charm knows about.
type Kind string

const (
	Install           Kind = "install"
	Start             Kind = "start"
	Stop              Kind = "stop"
	ConfigChanged     Kind = "config-changed"
	UpgradeCharm      Kind = "upgrade-charm"
	UpdateStatus      Kind = "update-status"
	PostSeriesUpgrade Kind = "post-series-upgrade"
	Remove            Kind = "remove"
	LeaderElected     Kind = "leader-elected"
	LeaderSettings    Kind = "leader-settings-changed"

	RelationCreated  Kind = "relation-created"
	RelationJoined   Kind = "relation-joined"
	RelationChanged  Kind = "relation-changed"
	RelationDeparted Kind = "relation-departed"
	RelationBroken   Kind = "relation-broken"

	// Action is not a hook in its own right; it marks an action
	// invocation dispatched through the same entry point.
	Action Kind = "action"
)

var unitKinds = []Kind{
	Install, Start, Stop, ConfigChanged, UpgradeCharm, UpdateStatus,
	PostSeriesUpgrade, Remove, LeaderElected, LeaderSettings,
}

var relationKinds = []Kind{
	RelationCreated, RelationJoined, RelationChanged, RelationDeparted, RelationBroken,
}

// IsRelation returns whether the Kind represents a relation hook.
func (kind Kind) IsRelation() bool {
	for _, k := range relationKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Info holds details of the hook or action being run.
type Info struct {
	Kind Kind `yaml:"kind"`

	// RelationName identifies the relation associated with the hook.
	// It is only set when Kind indicates a relation hook.
	RelationName string `yaml:"relation-name,omitempty"`

	// ActionName is only set when Kind is Action.
	ActionName string `yaml:"action-name,omitempty"`
}

// Validate returns an error if the info is not valid.
func (hi Info) Validate() error {
	switch {
	case hi.Kind == Action:
		if hi.ActionName == "" {
			return errors.NotValidf("action without a name")
		}
		return nil
	case hi.Kind.IsRelation():
		if hi.RelationName == "" {
			return errors.NotValidf("%q hook without a relation name", hi.Kind)
		}
		return nil
	}
	for _, k := range unitKinds {
		if hi.Kind == k {
			return nil
		}
	}
	return errors.NotValidf("hook kind %q", hi.Kind)
}

// String returns the name the hook or action is known by.
func (hi Info) String() string {
	switch {
	case hi.Kind == Action:
		return hi.ActionName
	case hi.Kind.IsRelation():
		return fmt.Sprintf("%s-%s", hi.RelationName, hi.Kind)
	}
	return string(hi.Kind)
}

// ParseDispatchPath interprets the JUJU_DISPATCH_PATH value Juju sets
// for a charm, e.g. "hooks/storage-backend-relation-joined" or
// "actions/sp-run".
func ParseDispatchPath(dispatchPath string) (Info, error) {
	dir, name := path.Split(path.Clean(dispatchPath))
	switch strings.TrimSuffix(dir, "/") {
	case "actions":
		info := Info{Kind: Action, ActionName: name}
		return info, errors.Trace(info.Validate())
	case "hooks":
		info := ParseHookName(name)
		return info, errors.Trace(info.Validate())
	}
	return Info{}, errors.NotValidf("dispatch path %q", dispatchPath)
}

// ParseHookName interprets a hook name. The result is not validated.
func ParseHookName(name string) Info {
	for _, k := range relationKinds {
		suffix := "-" + string(k)
		if strings.HasSuffix(name, suffix) {
			return Info{
				Kind:         k,
				RelationName: strings.TrimSuffix(name, suffix),
			}
		}
	}
	return Info{Kind: Kind(name)}
}
