// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package hookenv calls the Juju hook tools on behalf of the charm.
package hookenv

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/storpool/charm-cinder-storpool/core/status"
)

var logger = loggo.GetLogger("cinderstorpool.hookenv")

// Tools wraps the hook tools available in a hook context.
type Tools struct {
	runner Runner
}

// NewTools returns Tools running hook tools through runner.
func NewTools(runner Runner) *Tools {
	return &Tools{runner: runner}
}

func (t *Tools) runJSON(result interface{}, name string, args ...string) error {
	out, err := t.runner.Run(name, append([]string{"--format=json"}, args...)...)
	if err != nil {
		return errors.Trace(err)
	}
	if err := json.Unmarshal(out, result); err != nil {
		return errors.Annotatef(err, "cannot parse %s output", name)
	}
	return nil
}

// ConfigGet returns the charm configuration settings that have values.
func (t *Tools) ConfigGet() (map[string]interface{}, error) {
	settings := make(map[string]interface{})
	if err := t.runJSON(&settings, "config-get"); err != nil {
		return nil, errors.Trace(err)
	}
	return settings, nil
}

// RelationIds lists the ids of the relations with the given name.
func (t *Tools) RelationIds(name string) ([]string, error) {
	var ids []string
	if err := t.runJSON(&ids, "relation-ids", name); err != nil {
		return nil, errors.Trace(err)
	}
	return ids, nil
}

// RelationList lists the remote units of a relation.
func (t *Tools) RelationList(relationID string) ([]string, error) {
	var units []string
	if err := t.runJSON(&units, "relation-list", "-r", relationID); err != nil {
		return nil, errors.Trace(err)
	}
	return units, nil
}

// RelationGet returns a single setting of a remote unit. A setting that
// is not present is returned as an empty string.
func (t *Tools) RelationGet(relationID, unit, key string) (string, error) {
	var value *string
	if err := t.runJSON(&value, "relation-get", "-r", relationID, key, unit); err != nil {
		return "", errors.Trace(err)
	}
	if value == nil {
		return "", nil
	}
	return *value, nil
}

// RelationSet writes the local unit's settings on a relation.
func (t *Tools) RelationSet(relationID string, settings map[string]string) error {
	args := append([]string{"-r", relationID}, keyValues(settings)...)
	_, err := t.runner.Run("relation-set", args...)
	return errors.Trace(err)
}

// SetStatus sets the workload status of the unit.
func (t *Tools) SetStatus(info status.StatusInfo) error {
	if !status.ValidWorkloadStatus(info.Status) {
		return errors.NotValidf("workload status %q", info.Status)
	}
	_, err := t.runner.Run("status-set", info.Status.String(), info.Message)
	return errors.Trace(err)
}

// ActionSet records results of the running action.
func (t *Tools) ActionSet(results map[string]string) error {
	_, err := t.runner.Run("action-set", keyValues(results)...)
	return errors.Trace(err)
}

// ActionFail marks the running action as failed.
func (t *Tools) ActionFail(message string) error {
	_, err := t.runner.Run("action-fail", message)
	return errors.Trace(err)
}

// JujuLog writes a message to the unit's log at the given level.
func (t *Tools) JujuLog(level loggo.Level, message string) error {
	_, err := t.runner.Run("juju-log", "-l", level.String(), message)
	return errors.Trace(err)
}

func keyValues(settings map[string]string) []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, len(keys))
	for i, k := range keys {
		args[i] = fmt.Sprintf("%s=%s", k, settings[k])
	}
	return args
}
