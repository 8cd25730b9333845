// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package presence

import (
	"github.com/juju/errors"
)

// RelationKey is the relation setting holding a unit's presence record.
const RelationKey = "storpool_presence"

// RelationData is the subset of hook tools used to exchange presence
// records.
type RelationData interface {
	RelationIds(name string) ([]string, error)
	RelationList(relationID string) ([]string, error)
	RelationGet(relationID, unit, key string) (string, error)
	RelationSet(relationID string, settings map[string]string) error
}

// RelationChannel is a Channel carried over the settings of one or
// more relations.
type RelationChannel struct {
	// Relations are the names of the relations presence is
	// exchanged over.
	Relations []string

	Data RelationData
}

// Fetch is part of the Channel interface.
func (ch RelationChannel) Fetch() (Record, error) {
	var records []Record
	err := ch.forEachRelation(func(id string) error {
		units, err := ch.Data.RelationList(id)
		if err != nil {
			return errors.Trace(err)
		}
		for _, unit := range units {
			raw, err := ch.Data.RelationGet(id, unit, RelationKey)
			if err != nil {
				return errors.Trace(err)
			}
			if raw == "" {
				continue
			}
			record, err := Decode(raw)
			if err != nil {
				return errors.Annotatef(err, "from %s on %s", unit, id)
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return Record{}, errors.Trace(err)
	}
	return Merge(records...), nil
}

// Send is part of the Channel interface.
func (ch RelationChannel) Send(record Record) error {
	data, err := Encode(record)
	if err != nil {
		return errors.Trace(err)
	}
	return ch.forEachRelation(func(id string) error {
		return errors.Trace(ch.Data.RelationSet(id, map[string]string{RelationKey: data}))
	})
}

func (ch RelationChannel) forEachRelation(fn func(id string) error) error {
	for _, name := range ch.Relations {
		ids, err := ch.Data.RelationIds(name)
		if err != nil {
			return errors.Trace(err)
		}
		for _, id := range ids {
			if err := fn(id); err != nil {
				return errors.Trace(err)
			}
		}
	}
	return nil
}
