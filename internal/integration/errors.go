// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package integration

import (
	"fmt"
	"strings"
)

// NoConfigError is returned when the StorPool configuration lacks
// settings the integration needs. The StorPool client may simply not
// have been set up yet.
type NoConfigError struct {
	Missing []string
}

// Error is part of the error interface.
func (e *NoConfigError) Error() string {
	return fmt.Sprintf("missing StorPool configuration settings: %s", strings.Join(e.Missing, ", "))
}

// PackageInstallError is returned when the integration packages could
// not be installed.
type PackageInstallError struct {
	Names []string
	Cause error
}

// Error is part of the error interface.
func (e *PackageInstallError) Error() string {
	return fmt.Sprintf("could not install the %s packages: %v", strings.Join(e.Names, " "), e.Cause)
}

// Unwrap returns the underlying installer error.
func (e *PackageInstallError) Unwrap() error {
	return e.Cause
}

// NoCGroupsError is returned when the StorPool cgroups have not been
// set up on the node.
type NoCGroupsError struct {
	Paths []string
}

// Error is part of the error interface.
func (e *NoCGroupsError) Error() string {
	return fmt.Sprintf("no StorPool cgroup found at %s", strings.Join(e.Paths, " or "))
}
