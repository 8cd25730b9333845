// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package unitdata persists unit state between hook invocations in the
// sqlite key/value layout used by charmhelpers, so the gates survive an
// upgrade from the reactive charm.
package unitdata

import (
	"database/sql"
	"encoding/json"
	"sort"

	"github.com/juju/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/storpool/charm-cinder-storpool/core/gate"
	"github.com/storpool/charm-cinder-storpool/internal/presence"
)

const (
	// GatePrefix prefixes the keys of asserted gates.
	GatePrefix = "reactive.states."

	// PresenceKey holds the cached presence state.
	PresenceKey = "cinder-storpool.presence"
)

const schema = `create table if not exists kv (
	key text,
	data text,
	primary key (key)
)`

// Store is a key/value store holding JSON encoded values.
type Store struct {
	db *sql.DB
}

// Open opens, creating it if needed, the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Annotatef(err, "opening %s", path)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Annotatef(err, "initialising %s", path)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return errors.Trace(s.db.Close())
}

// Get decodes the value stored at key into out. It returns a NotFound
// error if there is no such key.
func (s *Store) Get(key string, out interface{}) error {
	var data string
	err := s.db.QueryRow("select data from kv where key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.NotFoundf("key %q", key)
	} else if err != nil {
		return errors.Annotatef(err, "reading %q", key)
	}
	return errors.Annotatef(json.Unmarshal([]byte(data), out), "decoding %q", key)
}

// Set stores value at key.
func (s *Store) Set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Annotatef(err, "encoding %q", key)
	}
	_, err = s.db.Exec("insert or replace into kv (key, data) values (?, ?)", key, string(data))
	return errors.Annotatef(err, "writing %q", key)
}

// Unset removes key. Removing a missing key is not an error.
func (s *Store) Unset(key string) error {
	_, err := s.db.Exec("delete from kv where key = ?", key)
	return errors.Annotatef(err, "removing %q", key)
}

// Keys returns the stored keys starting with prefix, in lexical order.
func (s *Store) Keys(prefix string) ([]string, error) {
	rows, err := s.db.Query("select key from kv where substr(key, 1, ?) = ?", len(prefix), prefix)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.Trace(err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	sort.Strings(keys)
	return keys, nil
}

// LoadGates returns the persisted gate set.
func (s *Store) LoadGates() (*gate.Set, error) {
	keys, err := s.Keys(GatePrefix)
	if err != nil {
		return nil, errors.Annotate(err, "loading gates")
	}
	gates := gate.NewSet()
	for _, key := range keys {
		gates.Assert(gate.Name(key[len(GatePrefix):]))
	}
	return gates, nil
}

// SaveGates replaces the persisted gates with the given set.
func (s *Store) SaveGates(gates *gate.Set) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Trace(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.Exec("delete from kv where substr(key, 1, ?) = ?", len(GatePrefix), GatePrefix); err != nil {
		return errors.Annotate(err, "clearing gates")
	}
	for _, name := range gates.Strings() {
		if _, err := tx.Exec("insert into kv (key, data) values (?, ?)", GatePrefix+name, "null"); err != nil {
			return errors.Annotatef(err, "saving gate %q", name)
		}
	}
	return errors.Trace(tx.Commit())
}

// LoadPresence is part of the presence.Cache interface.
func (s *Store) LoadPresence() (presence.State, error) {
	var state presence.State
	err := s.Get(PresenceKey, &state)
	if errors.Is(err, errors.NotFound) {
		return presence.State{}, nil
	}
	return state, errors.Trace(err)
}

// SavePresence is part of the presence.Cache interface.
func (s *Store) SavePresence(state presence.State) error {
	return errors.Trace(s.Set(PresenceKey, state))
}
