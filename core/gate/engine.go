// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package gate

import (
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
)

// EngineConfig holds the rules an Engine evaluates.
type EngineConfig struct {
	// Rules are evaluated in order.
	Rules []Rule

	// Terminal, if set, is a gate that once asserted stops every
	// rule not marked as Teardown from running.
	Terminal Name
}

// Validate returns an error if the config cannot be used to build
// an Engine.
func (config EngineConfig) Validate() error {
	if len(config.Rules) == 0 {
		return errors.NotValidf("empty Rules")
	}
	seen := set.NewStrings()
	for _, r := range config.Rules {
		if err := r.Validate(); err != nil {
			return errors.Trace(err)
		}
		if seen.Contains(r.Name) {
			return errors.NotValidf("duplicate rule %q", r.Name)
		}
		seen.Add(r.Name)
	}
	return nil
}

var logger = loggo.GetLogger("cinderstorpool.gate")

// Engine evaluates an ordered rule table against a gate set.
type Engine struct {
	config EngineConfig
}

// NewEngine returns an Engine for the given rules.
func NewEngine(config EngineConfig) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Engine{config: config}, nil
}

// Permitted reports whether the rule may fire against the set, taking
// the terminal gate into account.
func (e *Engine) Permitted(r Rule, s *Set) bool {
	if !r.Teardown && e.config.Terminal != "" && s.Has(e.config.Terminal) {
		return false
	}
	return r.Holds(s)
}

// Evaluate runs a single pass over the rules. Each rule is tested
// against the set as left by the rules before it, so several
// independent rules may fire in one pass. The names of the rules that
// fired are returned in order. The first failing action stops the pass
// and its error is returned.
func (e *Engine) Evaluate(s *Set) ([]string, error) {
	return e.pass(s, nil)
}

// maxPasses bounds Settle when rules keep undoing each other.
const maxPasses = 100

// Settle evaluates passes until the set reaches a fixed point. A rule
// fires again only when one of the gates it tests has changed since it
// last fired, so rules that leave their own gates alone run once.
func (e *Engine) Settle(s *Set) ([]string, error) {
	fired := make(map[string]snapshot)
	var all []string
	for i := 0; i < maxPasses; i++ {
		before := s.Version()
		names, err := e.pass(s, fired)
		all = append(all, names...)
		if err != nil {
			return all, errors.Trace(err)
		}
		if len(names) == 0 || s.Version() == before {
			return all, nil
		}
	}
	return all, errors.Errorf("rules did not settle after %d passes, gates %v", maxPasses, s.Strings())
}

// snapshot records the gates a rule tests as they were after it fired.
type snapshot map[Name]bool

func takeSnapshot(r Rule, s *Set) snapshot {
	snap := make(snapshot, len(r.When)+len(r.WhenNot))
	for _, n := range r.When {
		snap[n] = s.Has(n)
	}
	for _, n := range r.WhenNot {
		snap[n] = s.Has(n)
	}
	return snap
}

func (snap snapshot) current(s *Set) bool {
	for n, has := range snap {
		if s.Has(n) != has {
			return false
		}
	}
	return true
}

func (e *Engine) pass(s *Set, fired map[string]snapshot) ([]string, error) {
	var names []string
	for _, r := range e.config.Rules {
		if snap, ok := fired[r.Name]; ok && snap.current(s) {
			continue
		}
		if !e.Permitted(r, s) {
			continue
		}
		logger.Tracef("firing rule %q with gates %v", r.Name, s.Strings())
		names = append(names, r.Name)
		err := r.Action()
		if fired != nil {
			fired[r.Name] = takeSnapshot(r, s)
		}
		if err != nil {
			return names, errors.Annotatef(err, "rule %q", r.Name)
		}
	}
	return names, nil
}
