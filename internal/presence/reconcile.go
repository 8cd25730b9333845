// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package presence

import (
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/storpool/charm-cinder-storpool/core/gate"
)

// Channel exchanges presence records with related units.
type Channel interface {
	// Fetch returns the merged presence data sent by related units.
	Fetch() (Record, error)

	// Send announces a presence record to related units.
	Send(Record) error
}

// IdentityWriter persists the StorPool id of the local node.
type IdentityWriter interface {
	Write(hostname, ourID string) error
}

// State is the presence data cached between hook invocations.
type State struct {
	// MetaGeneration is the generation of the last configuration
	// that triggered a run of the integration.
	MetaGeneration *int64 `json:"meta-generation,omitempty" yaml:"meta-generation,omitempty"`

	// Config is the last accepted configuration candidate.
	Config interface{} `json:"config,omitempty" yaml:"config,omitempty"`

	// OurID is the last StorPool id seen for the parent node.
	OurID string `json:"our-id,omitempty" yaml:"our-id,omitempty"`
}

func (s State) empty() bool {
	return s.MetaGeneration == nil && s.Config == nil && s.OurID == ""
}

// Cache loads and stores the cached presence State.
type Cache interface {
	LoadPresence() (State, error)
	SavePresence(State) error
}

// ReconcilerConfig holds the collaborators and gate names a Reconciler
// works with.
type ReconcilerConfig struct {
	Gates    *gate.Set
	Cache    Cache
	Channel  Channel
	Identity IdentityWriter

	// ConfiguredGate is asserted while a usable configuration is known.
	ConfiguredGate gate.Name

	// RerunGate is asserted when a newer configuration generation
	// requires the integration to run again.
	RerunGate gate.Name

	// JoinedGates force an announcement when any of them is asserted.
	JoinedGates []gate.Name

	// ParentNode is the machine the parent block unit runs on.
	ParentNode string

	// MachineID identifies this unit's machine in its announcement.
	MachineID string

	// Hostname is written into the node identity file.
	Hostname string

	Logger loggo.Logger
}

// Validate returns an error if the config cannot be used to build a
// Reconciler.
func (config ReconcilerConfig) Validate() error {
	if config.Gates == nil {
		return errors.NotValidf("nil Gates")
	}
	if config.Cache == nil {
		return errors.NotValidf("nil Cache")
	}
	if config.Channel == nil {
		return errors.NotValidf("nil Channel")
	}
	if config.Identity == nil {
		return errors.NotValidf("nil Identity")
	}
	if config.ConfiguredGate == "" {
		return errors.NotValidf("empty ConfiguredGate")
	}
	if config.RerunGate == "" {
		return errors.NotValidf("empty RerunGate")
	}
	if config.ParentNode == "" {
		return errors.NotValidf("empty ParentNode")
	}
	if config.MachineID == "" {
		return errors.NotValidf("empty MachineID")
	}
	if config.Hostname == "" {
		return errors.NotValidf("empty Hostname")
	}
	return nil
}

// Reconciler brings the local view of the StorPool presence data up to
// date and announces this unit when needed.
type Reconciler struct {
	config ReconcilerConfig
	logger loggo.Logger
}

// NewReconciler returns a Reconciler.
func NewReconciler(config ReconcilerConfig) (*Reconciler, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Reconciler{config: config, logger: config.Logger}, nil
}

// Result describes what a reconciliation did.
type Result struct {
	Candidate         *Candidate
	OurID             string
	GenerationUpdated bool
	Announced         bool
}

// Reconcile fetches presence data, refreshes the node identity and the
// cached configuration, and announces this unit if force is set, if a
// peer has just joined, or if a newer configuration generation has been
// accepted.
func (r *Reconciler) Reconcile(force bool) (Result, error) {
	var result Result
	data, err := r.config.Channel.Fetch()
	if err != nil {
		return result, errors.Annotate(err, "fetching presence data")
	}
	r.logger.Debugf("processing presence data at generation %d, nodes %v", data.Generation, data.NodeNames())

	announce := force
	for _, g := range r.config.JoinedGates {
		if r.config.Gates.Has(g) {
			announce = true
		}
	}

	result.Candidate = FindCandidate(data)

	state, err := r.config.Cache.LoadPresence()
	if err != nil {
		return result, errors.Trace(err)
	}
	cached := !state.empty()

	parent, ok := data.Nodes[BlockPrefix+r.config.ParentNode]
	if !ok || parent.ID == "" {
		r.logger.Debugf("no id for %s%s in the presence data yet", BlockPrefix, r.config.ParentNode)
		if err := r.deconfigure(cached); err != nil {
			return result, errors.Trace(err)
		}
	} else {
		result.OurID = parent.ID
		r.logger.Debugf("got our id %s", parent.ID)
		if err := r.config.Identity.Write(r.config.Hostname, parent.ID); err != nil {
			return result, errors.Annotate(err, "writing the node identity")
		}
		state.OurID = parent.ID
		if result.Candidate == nil {
			if err := r.deconfigure(cached); err != nil {
				return result, errors.Trace(err)
			}
		} else {
			state.Config = result.Candidate.Config
			r.config.Gates.Assert(r.config.ConfiguredGate)
			gen := result.Candidate.Generation
			if state.MetaGeneration != nil && gen < *state.MetaGeneration {
				r.logger.Infof("configuration generation went back from %d to %d", *state.MetaGeneration, gen)
				state.MetaGeneration = nil
			}
			if state.MetaGeneration == nil || gen > *state.MetaGeneration {
				r.logger.Infof("configuration generation %d accepted, rerunning the integration", gen)
				state.MetaGeneration = &gen
				result.GenerationUpdated = true
				announce = true
				r.config.Gates.Assert(r.config.RerunGate)
			}
			if err := r.config.Cache.SavePresence(state); err != nil {
				return result, errors.Trace(err)
			}
		}
	}

	if !announce {
		return result, nil
	}
	generation := data.Generation
	if generation < 0 {
		generation = 0
	}
	own := Record{
		Generation: generation,
		Nodes: map[string]Node{
			CinderPrefix + r.config.MachineID: {
				Generation: &generation,
				Hostname:   r.config.MachineID,
			},
		},
	}
	r.logger.Debugf("announcing %s%s at generation %d", CinderPrefix, r.config.MachineID, generation)
	if err := r.config.Channel.Send(own); err != nil {
		return result, errors.Annotate(err, "announcing presence")
	}
	result.Announced = true
	return result, nil
}

// deconfigure forgets any cached configuration and identity. The cache
// is only written when there is something to forget.
func (r *Reconciler) deconfigure(cached bool) error {
	if !r.config.Gates.Retract(r.config.ConfiguredGate) && !cached {
		return nil
	}
	r.logger.Debugf("clearing the cached configuration state")
	return errors.Trace(r.config.Cache.SavePresence(State{}))
}
