// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package nodeid maintains the StorPool configuration snippet naming the
// StorPool id (SP_OURID) of the local node.
package nodeid

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/juju/utils/v4"
	"gopkg.in/ini.v1"
)

const (
	// DefaultDir is the StorPool configuration snippet directory.
	DefaultDir = "/etc/storpool.conf.d"

	// DefaultFile is the name of the snippet written by this charm.
	DefaultFile = "cinder-sub-ourid.conf"

	// OurIDKey is the StorPool setting holding the node id.
	OurIDKey = "SP_OURID"
)

func init() {
	// StorPool tools expect "KEY=value" lines with no blank line
	// after the section.
	ini.PrettyFormat = false
	ini.PrettyEqual = false
	ini.PrettySection = false
}

// Writer writes the node identity snippet.
type Writer struct {
	Dir  string
	File string
}

// NewWriter returns a Writer for the default snippet location.
func NewWriter() Writer {
	return Writer{Dir: DefaultDir, File: DefaultFile}
}

// Path returns the full path of the snippet.
func (w Writer) Path() string {
	return filepath.Join(w.Dir, w.File)
}

// Write replaces the snippet with one assigning ourID to hostname. The
// directory is created if it does not exist yet.
func (w Writer) Write(hostname, ourID string) error {
	if hostname == "" {
		return errors.NotValidf("empty hostname")
	}
	if ourID == "" {
		return errors.NotValidf("empty StorPool id")
	}
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return errors.Annotatef(err, "creating %s", w.Dir)
	}
	data, err := Render(hostname, ourID)
	if err != nil {
		return errors.Trace(err)
	}
	if err := utils.AtomicWriteFile(w.Path(), data, 0644); err != nil {
		return errors.Annotatef(err, "writing %s", w.Path())
	}
	return nil
}

// Render returns the snippet contents.
func Render(hostname, ourID string) ([]byte, error) {
	cfg := ini.Empty()
	section, err := cfg.NewSection(hostname)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if _, err := section.NewKey(OurIDKey, ourID); err != nil {
		return nil, errors.Trace(err)
	}
	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, errors.Trace(err)
	}
	return buf.Bytes(), nil
}

// Read returns the StorPool id recorded for hostname in the snippet at
// path.
func Read(path, hostname string) (string, error) {
	cfg, err := ini.Load(path)
	if os.IsNotExist(errors.Cause(err)) {
		return "", errors.NotFoundf("node identity file %s", path)
	} else if err != nil {
		return "", errors.Annotatef(err, "reading %s", path)
	}
	section, err := cfg.GetSection(hostname)
	if err != nil {
		return "", errors.NotFoundf("section %q in %s", hostname, path)
	}
	if !section.HasKey(OurIDKey) {
		return "", errors.NotFoundf("%s for %q in %s", OurIDKey, hostname, path)
	}
	return section.Key(OurIDKey).String(), nil
}
