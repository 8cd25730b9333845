// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package gate

import (
	"github.com/juju/errors"
)

// Action is run when a rule's predicate holds.
type Action func() error

// Rule pairs a predicate over the gate set with an action.
type Rule struct {
	// Name identifies the rule in logs and errors.
	Name string

	// When lists the gates that must all be present.
	When []Name

	// WhenNot lists the gates that must all be absent.
	WhenNot []Name

	// Teardown marks a rule that may still run once the engine's
	// terminal gate has been asserted.
	Teardown bool

	// Action is invoked when the predicate holds.
	Action Action
}

// Holds reports whether the rule's own predicate is satisfied by the set.
// It does not take the engine's terminal gate into account.
func (r Rule) Holds(s *Set) bool {
	for _, n := range r.When {
		if !s.Has(n) {
			return false
		}
	}
	for _, n := range r.WhenNot {
		if s.Has(n) {
			return false
		}
	}
	return true
}

// Validate returns an error if the rule cannot be evaluated.
func (r Rule) Validate() error {
	if r.Name == "" {
		return errors.NotValidf("empty rule name")
	}
	if r.Action == nil {
		return errors.NotValidf("rule %q with nil Action", r.Name)
	}
	for _, w := range r.When {
		for _, wn := range r.WhenNot {
			if w == wn {
				return errors.NotValidf("rule %q requiring %q both present and absent", r.Name, w)
			}
		}
	}
	return nil
}
