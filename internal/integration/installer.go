// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package integration installs and removes the StorPool OpenStack
// integration for the Cinder volume service on the local node.
package integration

import (
	"path/filepath"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/moby/sys/mountinfo"
)

// Runner runs an external command and returns its standard output.
type Runner interface {
	Run(name string, args ...string) ([]byte, error)
}

var (
	// DefaultPackages are installed before the integration is set up.
	DefaultPackages = []string{"python3-storpool-spopenstack", "storpool-openstack-integration"}

	// DefaultComponents are the OpenStack components the integration
	// is installed into.
	DefaultComponents = []string{"cinder", "os_brick"}
)

const (
	// DefaultCGroupRoot is where the cgroup hierarchies are mounted.
	DefaultCGroupRoot = "/sys/fs/cgroup"

	storpoolSlice = "storpool.slice"
)

// InstallerConfig holds the parameters of an Installer.
type InstallerConfig struct {
	Runner     Runner
	Hostname   string
	ConfigFile string
	ConfigDir  string
	Packages   []string
	Components []string
	CGroupRoot string

	// Mounted reports whether a filesystem is mounted at a path.
	Mounted func(path string) (bool, error)

	Logger loggo.Logger
}

// Validate returns an error if the config cannot be used to build an
// Installer.
func (config InstallerConfig) Validate() error {
	if config.Runner == nil {
		return errors.NotValidf("nil Runner")
	}
	if config.Hostname == "" {
		return errors.NotValidf("empty Hostname")
	}
	if config.ConfigFile == "" {
		return errors.NotValidf("empty ConfigFile")
	}
	if len(config.Components) == 0 {
		return errors.NotValidf("empty Components")
	}
	if config.CGroupRoot == "" {
		return errors.NotValidf("empty CGroupRoot")
	}
	if config.Mounted == nil {
		return errors.NotValidf("nil Mounted")
	}
	return nil
}

// DefaultInstallerConfig returns the production settings for hostname.
func DefaultInstallerConfig(runner Runner, hostname string) InstallerConfig {
	return InstallerConfig{
		Runner:     runner,
		Hostname:   hostname,
		ConfigFile: DefaultConfigFile,
		ConfigDir:  DefaultConfigDir,
		Packages:   DefaultPackages,
		Components: DefaultComponents,
		CGroupRoot: DefaultCGroupRoot,
		Mounted:    mountinfo.Mounted,
		Logger:     loggo.GetLogger("cinderstorpool.integration"),
	}
}

// Installer sets up the StorPool OpenStack integration.
type Installer struct {
	config InstallerConfig
	logger loggo.Logger
}

// NewInstaller returns an Installer.
func NewInstaller(config InstallerConfig) (*Installer, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Installer{config: config, logger: config.Logger}, nil
}

// Run installs the integration. It fails with a *NoConfigError if the
// StorPool client is not configured on this node yet, a
// *PackageInstallError if the packages could not be installed, and a
// *NoCGroupsError if the StorPool cgroups are missing.
func (i *Installer) Run() error {
	config, err := LoadConfig(i.config.ConfigFile, i.config.ConfigDir, i.config.Hostname)
	if err != nil {
		return errors.Trace(err)
	}
	if missing := Missing(config); len(missing) > 0 {
		return &NoConfigError{Missing: missing}
	}
	i.logger.Debugf("StorPool id %s, API at %s", config["SP_OURID"], config["SP_API_HTTP_HOST"])

	if len(i.config.Packages) > 0 {
		i.logger.Infof("installing %v", i.config.Packages)
		args := append([]string{"install", "-y", "--no-install-recommends"}, i.config.Packages...)
		if _, err := i.config.Runner.Run("apt-get", args...); err != nil {
			return &PackageInstallError{Names: i.config.Packages, Cause: err}
		}
	}

	mounted, err := i.config.Mounted(i.config.CGroupRoot)
	if err != nil {
		return errors.Annotatef(err, "checking for cgroups at %s", i.config.CGroupRoot)
	}
	candidates := []string{
		filepath.Join(i.config.CGroupRoot, storpoolSlice),
		filepath.Join(i.config.CGroupRoot, "memory", storpoolSlice),
	}
	found := false
	if !mounted {
		i.logger.Debugf("no cgroup filesystem mounted at %s", i.config.CGroupRoot)
	}
	for _, path := range candidates {
		if mounted && exists(path) {
			found = true
			break
		}
	}
	if !found {
		return &NoCGroupsError{Paths: candidates}
	}

	args := append([]string{"install"}, i.config.Components...)
	if _, err := i.config.Runner.Run("sp-openstack", args...); err != nil {
		return errors.Annotate(err, "installing the StorPool OpenStack integration")
	}
	i.logger.Infof("StorPool OpenStack integration installed for %v", i.config.Components)
	return nil
}

// Stop removes the integration from the OpenStack components.
func (i *Installer) Stop() error {
	args := append([]string{"uninstall"}, i.config.Components...)
	if _, err := i.config.Runner.Run("sp-openstack", args...); err != nil {
		return errors.Annotate(err, "removing the StorPool OpenStack integration")
	}
	return nil
}
