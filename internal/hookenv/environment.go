// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/names/v5"
)

const (
	envUnitName     = "JUJU_UNIT_NAME"
	envMachineID    = "JUJU_MACHINE_ID"
	envCharmDir     = "CHARM_DIR"
	envContextID    = "JUJU_CONTEXT_ID"
	envDispatchPath = "JUJU_DISPATCH_PATH"
)

// Environment holds the values the unit agent passes to a hook.
type Environment struct {
	UnitName     string
	MachineID    string
	CharmDir     string
	ContextID    string
	DispatchPath string
}

// NewEnvironment reads the hook environment through getenv.
func NewEnvironment(getenv func(string) string) Environment {
	return Environment{
		UnitName:     getenv(envUnitName),
		MachineID:    getenv(envMachineID),
		CharmDir:     getenv(envCharmDir),
		ContextID:    getenv(envContextID),
		DispatchPath: getenv(envDispatchPath),
	}
}

// OSEnvironment reads the hook environment of the current process.
func OSEnvironment() Environment {
	return NewEnvironment(os.Getenv)
}

// Validate returns an error if the environment does not describe a
// hook context.
func (e Environment) Validate() error {
	if !names.IsValidUnit(e.UnitName) {
		return errors.NotValidf("%s %q", envUnitName, e.UnitName)
	}
	if !names.IsValidMachine(e.MachineID) {
		return errors.NotValidf("%s %q", envMachineID, e.MachineID)
	}
	if e.CharmDir == "" {
		return errors.NotValidf("empty %s", envCharmDir)
	}
	return nil
}

// InHookContext reports whether hook tools may be called.
func (e Environment) InHookContext() bool {
	return e.ContextID != ""
}

// ApplicationName returns the name of the application the unit belongs to.
func (e Environment) ApplicationName() (string, error) {
	app, err := names.UnitApplication(e.UnitName)
	return app, errors.Trace(err)
}

// ParentMachine returns the id of the host machine; for a container
// that is the top-level machine it runs on.
func (e Environment) ParentMachine() string {
	if !names.IsContainerMachine(e.MachineID) {
		return e.MachineID
	}
	return strings.SplitN(e.MachineID, "/", 2)[0]
}

// UnitStatePath returns the path of the unit's local key/value database.
func (e Environment) UnitStatePath() string {
	return filepath.Join(e.CharmDir, ".unit-state.db")
}
