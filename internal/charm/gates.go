// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"github.com/storpool/charm-cinder-storpool/core/gate"
)

// Gates used by the charm. The names match those of the reactive charm
// so that persisted state carries over an upgrade.
const (
	BackendConfigure     gate.Name = "storage-backend.configure"
	CinderNotify         gate.Name = "cinder-p.notify"
	CinderNotifyJoined   gate.Name = "cinder-p.notify-joined"
	PresenceNotify       gate.Name = "storpool-presence.notify"
	PresenceNotifyJoined gate.Name = "storpool-presence.notify-joined"
	PresenceConfigured   gate.Name = "storpool-presence.configured"
	Configure            gate.Name = "cinder-storpool.configure"
	Configured           gate.Name = "cinder-storpool.configured"
	Ready                gate.Name = "cinder-storpool.ready"
	Run                  gate.Name = "cinder-storpool.run"
	SPRun                gate.Name = "cinder-storpool.sp-run"
	SPStatus             gate.Name = "cinder-storpool.sp-status"
	Stopped              gate.Name = "cinder-storpool-charm.stopped"
)

// Relations the charm takes part in.
const (
	BackendRelation    = "storage-backend"
	CinderPeerRelation = "cinder-p"
	PresenceRelation   = "storpool-presence"
)

// PresenceRelations carry presence data.
var PresenceRelations = []string{CinderPeerRelation, PresenceRelation}

// JoinedGates force a presence announcement.
var JoinedGates = []gate.Name{CinderNotifyJoined, PresenceNotifyJoined}

var notifyGates = []gate.Name{CinderNotify, CinderNotifyJoined, PresenceNotify, PresenceNotifyJoined}

// Actions the charm provides.
const (
	SPRunAction    = "sp-run"
	SPStatusAction = "sp-status"
)
