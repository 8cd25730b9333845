// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"encoding/json"
	"strings"

	"github.com/juju/errors"

	"github.com/storpool/charm-cinder-storpool/core/gate"
	"github.com/storpool/charm-cinder-storpool/internal/integration"
)

// VolumeDriver is the Cinder driver for StorPool volumes.
const VolumeDriver = "cinder.volume.drivers.storpool.StorPoolDriver"

// CinderConfigFile is the file the subordinate configuration targets.
const CinderConfigFile = "/etc/cinder/cinder.conf"

func (c *Coordinator) rules() []gate.Rule {
	return []gate.Rule{{
		Name:    "configure",
		When:    []gate.Name{Configure},
		WhenNot: []gate.Name{Configured},
		Action:  c.configure,
	}, {
		Name:   "block-changed",
		When:   []gate.Name{BackendConfigure, PresenceNotify},
		Action: c.announce,
	}, {
		Name:   "cinder-changed",
		When:   []gate.Name{BackendConfigure, CinderNotify},
		Action: c.announce,
	}, {
		Name:   "run",
		When:   []gate.Name{Run, PresenceConfigured},
		Action: c.run,
	}, {
		Name:    "storage-backend-configure",
		When:    []gate.Name{BackendConfigure, PresenceConfigured, Configured},
		WhenNot: []gate.Name{Ready},
		Action:  c.publish,
	}, {
		Name:    "sp-run-no-config",
		When:    []gate.Name{SPRun},
		WhenNot: []gate.Name{PresenceConfigured},
		Action:  c.spRunNoConfig,
	}, {
		Name:   "sp-run",
		When:   []gate.Name{SPRun, PresenceConfigured},
		Action: c.spRun,
	}, {
		Name:     "sp-status",
		When:     []gate.Name{SPStatus},
		Teardown: true,
		Action:   c.spStatus,
	}}
}

// configure notes whether the storpool_template setting has a value.
func (c *Coordinator) configure() error {
	c.gates.Retract(Configure)
	config, err := c.charmConfig()
	if err != nil {
		return errors.Trace(err)
	}
	if config.Template == "" {
		c.logger.Debugf("no %s in the configuration yet", TemplateKey)
		return nil
	}
	c.logger.Debugf("we have the %s template now", config.Template)
	c.gates.Assert(Configured)
	return nil
}

func (c *Coordinator) charmConfig() (CharmConfig, error) {
	raw, err := c.config.Tools.ConfigGet()
	if err != nil {
		return CharmConfig{}, errors.Annotate(err, "reading the charm config")
	}
	return ParseConfig(raw)
}

// announce reconciles the presence data and clears the notifications
// once that has succeeded.
func (c *Coordinator) announce() error {
	if _, err := c.config.Presence.Reconcile(false); err != nil {
		c.logger.Errorf("could not process the presence data: %v", err)
		return &Failure{Kind: PresenceFailure, Err: err}
	}
	for _, g := range notifyGates {
		c.gates.Retract(g)
	}
	return nil
}

// BackendSettings returns the storage-backend relation settings that
// configure Cinder to use StorPool volumes from the given template.
func BackendSettings(service, template string) (map[string]string, error) {
	sections := map[string]interface{}{
		service: [][2]string{
			{"volume_backend_name", service},
			{"volume_driver", VolumeDriver},
			{"storpool_template", template},
		},
	}
	data, err := json.Marshal(map[string]interface{}{
		"cinder": map[string]interface{}{
			CinderConfigFile: map[string]interface{}{
				"sections": sections,
			},
		},
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return map[string]string{
		"backend_name":              service,
		"subordinate_configuration": string(data),
		"stateless":                 "true",
	}, nil
}

// publish hands the volume backend configuration to every related
// Cinder unit.
func (c *Coordinator) publish() error {
	config, err := c.charmConfig()
	if err != nil {
		return errors.Trace(err)
	}
	settings, err := BackendSettings(c.config.ApplicationName, config.Template)
	if err != nil {
		return errors.Trace(err)
	}
	ids, err := c.config.Tools.RelationIds(BackendRelation)
	if err != nil {
		return errors.Trace(err)
	}
	for _, id := range ids {
		if err := c.config.Tools.RelationSet(id, settings); err != nil {
			return errors.Annotatef(err, "configuring Cinder on %s", id)
		}
		c.logger.Debugf("sent the backend configuration along %s", id)
	}
	c.gates.Assert(Ready)
	return nil
}

// run reinstalls the integration. The gates are cleared first so that
// a failure is only retried on the next hook that asks for it.
func (c *Coordinator) run() error {
	c.gates.Retract(Run)
	c.gates.Retract(Configured)
	c.gates.Retract(Ready)

	c.logger.Debugf("running the StorPool OpenStack integration")
	err := c.config.Integration.Run()
	if err == nil {
		c.logger.Debugf("the StorPool OpenStack integration has been set up")
		c.gates.Assert(Configure)
		return nil
	}

	var (
		noConfig *integration.NoConfigError
		packages *integration.PackageInstallError
		cgroups  *integration.NoCGroupsError
	)
	switch {
	case errors.As(err, &noConfig):
		c.logger.Infof("StorPool: missing configuration: %s", strings.Join(noConfig.Missing, ", "))
		return nil
	case errors.As(err, &packages):
		c.logger.Errorf("StorPool: could not install the %s packages: %v", strings.Join(packages.Names, " "), packages.Cause)
		return &Failure{Kind: PackageInstallFailure, Err: err}
	case errors.As(err, &cgroups):
		c.logger.Errorf("StorPool: %v", err)
		return &Failure{Kind: NoCGroupsFailure, Err: err}
	}
	c.logger.Errorf("StorPool installation problem: %v", err)
	return &Failure{Kind: IntegrationFailure, Err: err}
}

func (c *Coordinator) spRunNoConfig() error {
	c.gates.Retract(SPRun)
	msg := "No storpool-block unit active on our node yet"
	c.logger.Errorf("%s", msg)
	return errors.Trace(c.config.Tools.ActionFail(msg))
}

// spRun reruns the integration on request. Failures fail the action,
// not the hook.
func (c *Coordinator) spRun() error {
	c.gates.Retract(SPRun)
	if err := c.run(); err != nil {
		msg := "Could not rerun the StorPool configuration: " + err.Error()
		c.logger.Errorf("%s", msg)
		return errors.Trace(c.config.Tools.ActionFail(msg))
	}
	return nil
}

func (c *Coordinator) spStatus() error {
	c.gates.Retract(SPStatus)
	report, err := c.Report()
	var data []byte
	if err == nil {
		data, err = json.Marshal(report)
	}
	if err != nil {
		msg := "Could not fetch the StorPool Cinder charm status: " + err.Error()
		c.logger.Errorf("%s", msg)
		return errors.Trace(c.config.Tools.ActionFail(msg))
	}
	c.logger.Infof("reporting status ready: %v, msg: %q", report.Ready, report.Message)
	return errors.Trace(c.config.Tools.ActionSet(map[string]string{"status": string(data)}))
}
