// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package gate holds the readiness gates a charm coordinates on, and the
// rule engine that decides which actions the current gates permit.
//
// A gate is a named boolean condition: it is either present in a Set or
// it is not. Rules pair a conjunction of presence/absence tests with an
// action, and the Engine evaluates them in a fixed order so that the
// mutations made by one rule are seen by the rules after it.
package gate

import (
	"github.com/juju/collections/set"
)

// Name identifies a gate.
type Name string

// String returns the gate name.
func (n Name) String() string {
	return string(n)
}

// Set is the set of currently asserted gates. The zero value is not
// usable; create one with NewSet.
type Set struct {
	names set.Strings

	// version is bumped on every mutation that actually changes
	// the set, so callers can detect a fixed point.
	version uint64
}

// NewSet returns a Set holding the given gates.
func NewSet(names ...Name) *Set {
	s := &Set{names: set.NewStrings()}
	for _, n := range names {
		s.names.Add(string(n))
	}
	return s
}

// Assert adds the gate to the set. It reports whether the set changed;
// asserting a gate that is already present is a no-op.
func (s *Set) Assert(name Name) bool {
	if s.names.Contains(string(name)) {
		return false
	}
	s.names.Add(string(name))
	s.version++
	return true
}

// Retract removes the gate from the set. It reports whether the set
// changed; retracting an absent gate is a no-op.
func (s *Set) Retract(name Name) bool {
	if !s.names.Contains(string(name)) {
		return false
	}
	s.names.Remove(string(name))
	s.version++
	return true
}

// Has reports whether the gate is asserted.
func (s *Set) Has(name Name) bool {
	return s.names.Contains(string(name))
}

// Len returns the number of asserted gates.
func (s *Set) Len() int {
	return s.names.Size()
}

// Names returns the asserted gates in lexical order.
func (s *Set) Names() []Name {
	values := s.names.SortedValues()
	result := make([]Name, len(values))
	for i, v := range values {
		result[i] = Name(v)
	}
	return result
}

// Strings returns the asserted gates as sorted strings.
func (s *Set) Strings() []string {
	return s.names.SortedValues()
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	return &Set{
		names:   set.NewStrings(s.names.Values()...),
		version: s.version,
	}
}

// Equal reports whether both sets hold the same gates.
func (s *Set) Equal(other *Set) bool {
	if s.names.Size() != other.names.Size() {
		return false
	}
	return s.names.Difference(other.names).IsEmpty()
}

// Version returns a counter that changes whenever the set is mutated.
func (s *Set) Version() uint64 {
	return s.version
}
