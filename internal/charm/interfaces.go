// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"github.com/storpool/charm-cinder-storpool/core/status"
	"github.com/storpool/charm-cinder-storpool/internal/presence"
)

// HookTools is the subset of the hook tools used by the coordinator.
type HookTools interface {
	status.StatusSetter

	ConfigGet() (map[string]interface{}, error)
	RelationIds(name string) ([]string, error)
	RelationSet(relationID string, settings map[string]string) error
	ActionSet(results map[string]string) error
	ActionFail(message string) error
}

// PresenceReconciler brings the presence state up to date.
type PresenceReconciler interface {
	Reconcile(force bool) (presence.Result, error)
}

// PresenceFetcher returns the presence data sent by related units.
type PresenceFetcher interface {
	Fetch() (presence.Record, error)
}

// Integration installs and removes the StorPool OpenStack integration.
type Integration interface {
	Run() error
	Stop() error
}

// ProcessChecker reports, per pid, whether the processes running a
// command are members of the spopenstack group.
type ProcessChecker interface {
	Check(command string) (map[int]bool, error)
}
