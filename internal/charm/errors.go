// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"github.com/juju/errors"
)

// FailureKind classifies the failures that fail a hook.
type FailureKind string

const (
	PackageInstallFailure FailureKind = "package-install"
	NoCGroupsFailure      FailureKind = "no-cgroups"
	IntegrationFailure    FailureKind = "integration"
	PresenceFailure       FailureKind = "presence"
)

// Failure is returned by Dispatch when the hook must be reported to
// Juju as failed.
type Failure struct {
	Kind FailureKind
	Err  error
}

// Error is part of the error interface.
func (f *Failure) Error() string {
	return f.Err.Error()
}

// Unwrap returns the error that caused the failure.
func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure returns the Failure in err's chain, if any.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
