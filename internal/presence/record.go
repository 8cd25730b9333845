// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package presence handles the presence data StorPool charms exchange
// over relations: which nodes are known, under which StorPool id, and
// which block unit hands out the StorPool configuration.
package presence

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/naturalsort"
	"github.com/mitchellh/mapstructure"
	"github.com/mohae/deepcopy"
)

const (
	// BlockPrefix namespaces the nodes announced by storpool-block units.
	BlockPrefix = "block:"

	// CinderPrefix namespaces the nodes announced by this charm.
	CinderPrefix = "cinder:"
)

// Node describes one peer in a presence record.
type Node struct {
	// ID is the StorPool id (SP_OURID) assigned to the node.
	ID string `json:"id,omitempty" mapstructure:"id"`

	// Generation is the node's own generation, if it sent one.
	Generation *int64 `json:"generation,omitempty" mapstructure:"generation"`

	Hostname string `json:"hostname,omitempty" mapstructure:"hostname"`

	// Config is an opaque configuration blob published by a block unit.
	Config interface{} `json:"config,omitempty" mapstructure:"config"`
}

// Record is a presence record, keyed by namespaced node name.
type Record struct {
	Generation int64           `json:"generation" mapstructure:"generation"`
	Nodes      map[string]Node `json:"nodes" mapstructure:"nodes"`
}

// NodeGeneration returns the node's generation, falling back to the
// record's when the node did not send one.
func (r Record) NodeGeneration(name string) int64 {
	if n, ok := r.Nodes[name]; ok && n.Generation != nil {
		return *n.Generation
	}
	return r.Generation
}

// NodeNames returns the node names in natural order, so that
// "block:9" sorts before "block:10".
func (r Record) NodeNames() []string {
	names := make([]string, 0, len(r.Nodes))
	for name := range r.Nodes {
		names = append(names, name)
	}
	naturalsort.Sort(names)
	return names
}

// Decode parses a presence record as sent over relation data. Numbers
// and strings are accepted interchangeably for ids and generations.
func Decode(data string) (Record, error) {
	dec := json.NewDecoder(bytes.NewBufferString(data))
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return Record{}, errors.Annotate(err, "cannot parse presence data")
	}
	var record Record
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &record,
	})
	if err != nil {
		return Record{}, errors.Trace(err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Record{}, errors.Annotate(err, "cannot decode presence data")
	}
	if record.Nodes == nil {
		record.Nodes = make(map[string]Node)
	}
	return record, nil
}

// Encode renders a presence record for relation data.
func Encode(record Record) (string, error) {
	if record.Nodes == nil {
		record.Nodes = make(map[string]Node)
	}
	data, err := json.Marshal(record)
	if err != nil {
		return "", errors.Trace(err)
	}
	return string(data), nil
}

// Merge combines presence records received from several units. The
// result carries the highest generation seen; for a node present in
// more than one record the entry with the higher generation wins. The
// result does not share node configs with the inputs.
func Merge(records ...Record) Record {
	result := Record{Generation: -1, Nodes: make(map[string]Node)}
	generations := make(map[string]int64)
	for _, r := range records {
		if r.Generation > result.Generation {
			result.Generation = r.Generation
		}
		for name, node := range r.Nodes {
			gen := r.NodeGeneration(name)
			if prev, ok := generations[name]; ok && prev >= gen {
				continue
			}
			generations[name] = gen
			node.Config = deepcopy.Copy(node.Config)
			result.Nodes[name] = node
		}
	}
	return result
}

// Candidate is the configuration offered by a single block node.
type Candidate struct {
	Node       string
	Config     interface{}
	Generation int64
}

// FindCandidate returns the configuration blob of the one block node that
// carries one. When no block node, or more than one, carries a config the
// configuration is indeterminate and nil is returned.
func FindCandidate(record Record) *Candidate {
	var found *Candidate
	for _, name := range record.NodeNames() {
		if !strings.HasPrefix(name, BlockPrefix) {
			continue
		}
		node := record.Nodes[name]
		if node.Config == nil {
			continue
		}
		if found != nil {
			return nil
		}
		found = &Candidate{
			Node:       name,
			Config:     node.Config,
			Generation: record.NodeGeneration(name),
		}
	}
	return found
}
