// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package charm

import (
	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/storpool/charm-cinder-storpool/core/gate"
	"github.com/storpool/charm-cinder-storpool/internal/integration"
	"github.com/storpool/charm-cinder-storpool/internal/presence"
)

type rulesSuite struct {
	baseSuite
}

var _ = gc.Suite(&rulesSuite{})

const expectedSubordinateConfiguration = `{"cinder":{"/etc/cinder/cinder.conf":{"sections":{"cinder-storpool":[` +
	`["volume_backend_name","cinder-storpool"],` +
	`["volume_driver","cinder.volume.drivers.storpool.StorPoolDriver"],` +
	`["storpool_template","hybrid-r3"]]}}}}`

func (s *rulesSuite) expectedSettings() map[string]string {
	return map[string]string{
		"backend_name":              testApplication,
		"subordinate_configuration": expectedSubordinateConfiguration,
		"stateless":                 "true",
	}
}

func (s *rulesSuite) TestBackendSettings(c *gc.C) {
	settings, err := BackendSettings(testApplication, testTemplate)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(settings, jc.DeepEquals, s.expectedSettings())
}

func (s *rulesSuite) TestConfigureWithoutTemplate(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.tools.EXPECT().ConfigGet().Return(map[string]interface{}{TemplateKey: ""}, nil)

	err := s.newCoordinator(c).configure()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.gates.Len(), gc.Equals, 0)
}

func (s *rulesSuite) TestConfigureUnsetTemplate(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.tools.EXPECT().ConfigGet().Return(map[string]interface{}{TemplateKey: nil, "other": 1}, nil)

	err := s.newCoordinator(c).configure()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.gates.Len(), gc.Equals, 0)
}

func (s *rulesSuite) TestConfigureWithTemplate(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.expectConfig(testTemplate)

	err := s.newCoordinator(c).configure()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.gates.Strings(), jc.DeepEquals, s.gateStrings(Configured))
}

func (s *rulesSuite) TestConfigureInvalidTemplate(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.tools.EXPECT().ConfigGet().Return(map[string]interface{}{TemplateKey: 42}, nil)

	err := s.newCoordinator(c).configure()
	c.Assert(err, gc.ErrorMatches, "invalid charm config: .*storpool_template.*")
	c.Check(s.gates.Len(), gc.Equals, 0)
}

func (s *rulesSuite) TestPublish(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.gates.Assert(Configured)
	s.expectConfig(testTemplate)
	s.tools.EXPECT().RelationIds(BackendRelation).Return([]string{"storage-backend:3", "storage-backend:8"}, nil).Times(1)
	s.tools.EXPECT().RelationSet("storage-backend:3", s.expectedSettings()).Return(nil).Times(1)
	s.tools.EXPECT().RelationSet("storage-backend:8", s.expectedSettings()).Return(nil).Times(1)

	err := s.newCoordinator(c).publish()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.gates.Strings(), jc.DeepEquals, s.gateStrings(Configured, Ready))
}

func (s *rulesSuite) TestPublishFailureLeavesNotReady(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.gates.Assert(Configured)
	s.expectConfig(testTemplate)
	s.tools.EXPECT().RelationIds(BackendRelation).Return([]string{"storage-backend:3"}, nil)
	s.tools.EXPECT().RelationSet("storage-backend:3", s.expectedSettings()).Return(errors.New("gone"))

	err := s.newCoordinator(c).publish()
	c.Assert(err, gc.ErrorMatches, "configuring Cinder on storage-backend:3: gone")
	c.Check(s.gates.Strings(), jc.DeepEquals, s.gateStrings(Configured))
}

func (s *rulesSuite) TestLifecycle(c *gc.C) {
	defer s.setupMocks(c).Finish()
	coord := s.newCoordinator(c)

	s.tools.EXPECT().ConfigGet().Return(map[string]interface{}{}, nil)
	c.Assert(coord.configure(), jc.ErrorIsNil)
	c.Check(s.gates.Len(), gc.Equals, 0)

	s.expectConfig(testTemplate)
	c.Assert(coord.configure(), jc.ErrorIsNil)
	c.Check(s.gates.Strings(), jc.DeepEquals, s.gateStrings(Configured))

	s.tools.EXPECT().RelationIds(BackendRelation).Return([]string{"storage-backend:3"}, nil).Times(1)
	s.tools.EXPECT().RelationSet("storage-backend:3", s.expectedSettings()).Return(nil).Times(1)
	c.Assert(coord.publish(), jc.ErrorIsNil)
	c.Check(s.gates.Strings(), jc.DeepEquals, s.gateStrings(Configured, Ready))
}

func (s *rulesSuite) TestAnnounceClearsNotifications(c *gc.C) {
	defer s.setupMocks(c).Finish()
	for _, g := range notifyGates {
		s.gates.Assert(g)
	}
	s.gates.Assert(BackendConfigure)
	s.reconciler.EXPECT().Reconcile(false).Return(presence.Result{Announced: true}, nil)

	err := s.newCoordinator(c).announce()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.gates.Strings(), jc.DeepEquals, s.gateStrings(BackendConfigure))
}

func (s *rulesSuite) TestAnnounceFailure(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.gates.Assert(PresenceNotify)
	s.reconciler.EXPECT().Reconcile(false).Return(presence.Result{}, errors.New("cannot parse presence data: bad"))

	err := s.newCoordinator(c).announce()
	failure, ok := AsFailure(err)
	c.Assert(ok, jc.IsTrue)
	c.Check(failure.Kind, gc.Equals, PresenceFailure)
	c.Check(s.gates.Has(PresenceNotify), jc.IsTrue)
}

func (s *rulesSuite) TestRunRetractsBeforeIntegration(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.gates.Assert(Run)
	s.gates.Assert(Configured)
	s.gates.Assert(Ready)
	s.gates.Assert(PresenceConfigured)
	s.integration.EXPECT().Run().DoAndReturn(func() error {
		c.Check(s.gates.Strings(), jc.DeepEquals, s.gateStrings(PresenceConfigured))
		return nil
	})

	err := s.newCoordinator(c).run()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.gates.Strings(), jc.DeepEquals, s.gateStrings(PresenceConfigured, Configure))
}

func (s *rulesSuite) TestRunFailures(c *gc.C) {
	for i, t := range []struct {
		err  error
		kind FailureKind
	}{{
		err: &integration.NoConfigError{Missing: []string{"SP_OURID"}},
	}, {
		err:  &integration.PackageInstallError{Names: []string{"storpool-openstack-integration"}, Cause: errors.New("apt")},
		kind: PackageInstallFailure,
	}, {
		err:  errors.Annotate(&integration.NoCGroupsError{Paths: []string{"/sys/fs/cgroup/storpool.slice"}}, "checking"),
		kind: NoCGroupsFailure,
	}, {
		err:  errors.New("sp-openstack exited with code 1"),
		kind: IntegrationFailure,
	}} {
		c.Logf("test %d: %v", i, t.err)
		ctrl := s.setupMocks(c)
		s.gates = gate.NewSet(Run, PresenceConfigured, Configured, Ready)
		s.integration.EXPECT().Run().Return(t.err)

		err := s.newCoordinator(c).run()
		if t.kind == "" {
			c.Check(err, jc.ErrorIsNil)
		} else {
			failure, ok := AsFailure(err)
			c.Check(ok, jc.IsTrue)
			if ok {
				c.Check(failure.Kind, gc.Equals, t.kind)
			}
		}
		c.Check(s.gates.Strings(), jc.DeepEquals, s.gateStrings(PresenceConfigured))
		ctrl.Finish()
	}
}
