// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package cmd

import (
	"github.com/juju/errors"
)

// FileVar represents a path to a file.
type FileVar struct {
	// Path is the path to the file.
	Path string
}

// Set stores the path name (implements gnuflag.Value).
func (f *FileVar) Set(v string) error {
	f.Path = v
	return nil
}

// Resolve returns the path relative to the context, or a NotFound error
// if no path was given.
func (f *FileVar) Resolve(ctx *Context) (string, error) {
	if f.Path == "" {
		return "", errors.NotFoundf("file path")
	}
	return ctx.AbsPath(f.Path), nil
}

// String returns the path to the file.
func (f *FileVar) String() string {
	return f.Path
}
