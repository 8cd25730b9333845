// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package presence

import (
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/storpool/charm-cinder-storpool/core/gate"
)

const (
	configuredGate gate.Name = "presence.configured"
	rerunGate      gate.Name = "integration.run"
	joinedGate     gate.Name = "presence.notify-joined"
)

type reconcileSuite struct {
	testing.IsolationSuite

	channel  *MockChannel
	cache    *MockCache
	identity *MockIdentityWriter
	gates    *gate.Set
}

var _ = gc.Suite(&reconcileSuite{})

func (s *reconcileSuite) setupMocks(c *gc.C) *gomock.Controller {
	ctrl := gomock.NewController(c)
	s.channel = NewMockChannel(ctrl)
	s.cache = NewMockCache(ctrl)
	s.identity = NewMockIdentityWriter(ctrl)
	return ctrl
}

func (s *reconcileSuite) newReconciler(c *gc.C) *Reconciler {
	r, err := NewReconciler(ReconcilerConfig{
		Gates:          s.gates,
		Cache:          s.cache,
		Channel:        s.channel,
		Identity:       s.identity,
		ConfiguredGate: configuredGate,
		RerunGate:      rerunGate,
		JoinedGates:    []gate.Name{joinedGate},
		ParentNode:     "3",
		MachineID:      "3/lxd/0",
		Hostname:       "juju-cinder",
		Logger:         loggo.GetLogger("test"),
	})
	c.Assert(err, jc.ErrorIsNil)
	return r
}

func (s *reconcileSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.gates = gate.NewSet()
}

func announcement(generation int64) Record {
	return Record{
		Generation: generation,
		Nodes: map[string]Node{
			"cinder:3/lxd/0": {Generation: gen(generation), Hostname: "3/lxd/0"},
		},
	}
}

func parentRecord(generation int64, config interface{}) Record {
	return Record{
		Generation: generation,
		Nodes: map[string]Node{
			"block:3": {ID: "7", Hostname: "node-3", Config: config},
		},
	}
}

func (s *reconcileSuite) TestValidate(c *gc.C) {
	_, err := NewReconciler(ReconcilerConfig{})
	c.Assert(err, jc.ErrorIs, errors.NotValid)
	c.Assert(err, gc.ErrorMatches, "nil Gates not valid")
}

func (s *reconcileSuite) TestMissingParentDeconfigures(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.gates.Assert(configuredGate)

	s.channel.EXPECT().Fetch().Return(Record{Generation: 2, Nodes: map[string]Node{
		"block:9": {ID: "9", Config: "elsewhere"},
	}}, nil)
	s.cache.EXPECT().LoadPresence().Return(State{OurID: "7", MetaGeneration: gen(1)}, nil)
	s.cache.EXPECT().SavePresence(State{}).Return(nil)

	result, err := s.newReconciler(c).Reconcile(false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(result.OurID, gc.Equals, "")
	c.Check(result.Announced, jc.IsFalse)
	c.Check(s.gates.Has(configuredGate), jc.IsFalse)
}

func (s *reconcileSuite) TestSameGenerationDoesNotRerun(c *gc.C) {
	defer s.setupMocks(c).Finish()
	config := map[string]interface{}{"SP_CLUSTER_ID": "a.b"}

	s.channel.EXPECT().Fetch().Return(parentRecord(5, config), nil)
	s.cache.EXPECT().LoadPresence().Return(State{MetaGeneration: gen(5)}, nil)
	s.identity.EXPECT().Write("juju-cinder", "7").Return(nil)
	s.cache.EXPECT().SavePresence(State{
		MetaGeneration: gen(5),
		Config:         config,
		OurID:          "7",
	}).Return(nil)

	result, err := s.newReconciler(c).Reconcile(false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(result.OurID, gc.Equals, "7")
	c.Check(result.GenerationUpdated, jc.IsFalse)
	c.Check(result.Announced, jc.IsFalse)
	c.Check(s.gates.Strings(), jc.DeepEquals, []string{string(configuredGate)})
}

func (s *reconcileSuite) TestNewerGenerationReruns(c *gc.C) {
	defer s.setupMocks(c).Finish()
	config := map[string]interface{}{"SP_CLUSTER_ID": "a.b"}

	s.channel.EXPECT().Fetch().Return(parentRecord(6, config), nil)
	s.cache.EXPECT().LoadPresence().Return(State{MetaGeneration: gen(5), OurID: "7"}, nil)
	s.identity.EXPECT().Write("juju-cinder", "7").Return(nil)
	s.cache.EXPECT().SavePresence(State{
		MetaGeneration: gen(6),
		Config:         config,
		OurID:          "7",
	}).Return(nil)
	s.channel.EXPECT().Send(announcement(6)).Return(nil)

	result, err := s.newReconciler(c).Reconcile(false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(result.GenerationUpdated, jc.IsTrue)
	c.Check(result.Announced, jc.IsTrue)
	c.Check(result.Candidate, gc.NotNil)
	c.Check(s.gates.Has(configuredGate), jc.IsTrue)
	c.Check(s.gates.Has(rerunGate), jc.IsTrue)
}

func (s *reconcileSuite) TestOlderGenerationReruns(c *gc.C) {
	defer s.setupMocks(c).Finish()
	config := map[string]interface{}{"SP_CLUSTER_ID": "a.b"}

	s.channel.EXPECT().Fetch().Return(parentRecord(2, config), nil)
	s.cache.EXPECT().LoadPresence().Return(State{MetaGeneration: gen(5), OurID: "7"}, nil)
	s.identity.EXPECT().Write("juju-cinder", "7").Return(nil)
	s.cache.EXPECT().SavePresence(State{
		MetaGeneration: gen(2),
		Config:         config,
		OurID:          "7",
	}).Return(nil)
	s.channel.EXPECT().Send(announcement(2)).Return(nil)

	result, err := s.newReconciler(c).Reconcile(false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(result.GenerationUpdated, jc.IsTrue)
	c.Check(result.Announced, jc.IsTrue)
	c.Check(s.gates.Has(rerunGate), jc.IsTrue)
}

func (s *reconcileSuite) TestFirstConfigurationReruns(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.channel.EXPECT().Fetch().Return(parentRecord(0, "conf"), nil)
	s.cache.EXPECT().LoadPresence().Return(State{}, nil)
	s.identity.EXPECT().Write("juju-cinder", "7").Return(nil)
	s.cache.EXPECT().SavePresence(State{MetaGeneration: gen(0), Config: "conf", OurID: "7"}).Return(nil)
	s.channel.EXPECT().Send(announcement(0)).Return(nil)

	result, err := s.newReconciler(c).Reconcile(false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(result.GenerationUpdated, jc.IsTrue)
	c.Check(s.gates.Has(rerunGate), jc.IsTrue)
}

func (s *reconcileSuite) TestAmbiguousConfigDeconfigures(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.gates.Assert(configuredGate)

	record := parentRecord(3, map[string]interface{}{"a": "1"})
	record.Nodes["block:4"] = Node{ID: "8", Config: map[string]interface{}{"a": "2"}}
	s.channel.EXPECT().Fetch().Return(record, nil)
	s.cache.EXPECT().LoadPresence().Return(State{}, nil)
	s.identity.EXPECT().Write("juju-cinder", "7").Return(nil)
	s.cache.EXPECT().SavePresence(State{}).Return(nil)

	result, err := s.newReconciler(c).Reconcile(false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(result.Candidate, gc.IsNil)
	c.Check(result.OurID, gc.Equals, "7")
	c.Check(s.gates.Len(), gc.Equals, 0)
}

func (s *reconcileSuite) TestUnconfiguredLeavesEmptyCache(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.channel.EXPECT().Fetch().Return(Record{Generation: 1, Nodes: map[string]Node{}}, nil)
	s.cache.EXPECT().LoadPresence().Return(State{}, nil)

	result, err := s.newReconciler(c).Reconcile(false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(result.Announced, jc.IsFalse)
	c.Check(s.gates.Len(), gc.Equals, 0)
}

func (s *reconcileSuite) TestStaleCacheClearedWithoutGate(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.channel.EXPECT().Fetch().Return(Record{Generation: 1, Nodes: map[string]Node{}}, nil)
	s.cache.EXPECT().LoadPresence().Return(State{MetaGeneration: gen(3)}, nil)
	s.cache.EXPECT().SavePresence(State{}).Return(nil)

	_, err := s.newReconciler(c).Reconcile(false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(s.gates.Has(configuredGate), jc.IsFalse)
}

func (s *reconcileSuite) TestForcedAnnounceFloorsGeneration(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.channel.EXPECT().Fetch().Return(Merge(), nil)
	s.cache.EXPECT().LoadPresence().Return(State{}, nil)
	s.channel.EXPECT().Send(announcement(0)).Return(nil)

	result, err := s.newReconciler(c).Reconcile(true)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(result.Announced, jc.IsTrue)
}

func (s *reconcileSuite) TestJoinedGateAnnounces(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.gates.Assert(joinedGate)

	s.channel.EXPECT().Fetch().Return(Record{Generation: 4, Nodes: map[string]Node{}}, nil)
	s.cache.EXPECT().LoadPresence().Return(State{}, nil)
	s.channel.EXPECT().Send(announcement(4)).Return(nil)

	result, err := s.newReconciler(c).Reconcile(false)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(result.Announced, jc.IsTrue)
	c.Check(s.gates.Has(joinedGate), jc.IsTrue)
}

func (s *reconcileSuite) TestFetchError(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.channel.EXPECT().Fetch().Return(Record{}, errors.New("boom"))

	_, err := s.newReconciler(c).Reconcile(true)
	c.Assert(err, gc.ErrorMatches, "fetching presence data: boom")
}

func (s *reconcileSuite) TestIdentityError(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.channel.EXPECT().Fetch().Return(parentRecord(1, nil), nil)
	s.cache.EXPECT().LoadPresence().Return(State{}, nil)
	s.identity.EXPECT().Write("juju-cinder", "7").Return(errors.New("read-only"))

	_, err := s.newReconciler(c).Reconcile(false)
	c.Assert(err, gc.ErrorMatches, "writing the node identity: read-only")
}

func (s *reconcileSuite) TestSendError(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.channel.EXPECT().Fetch().Return(Merge(), nil)
	s.cache.EXPECT().LoadPresence().Return(State{}, nil)
	s.channel.EXPECT().Send(gomock.Any()).Return(errors.New("no relation"))

	result, err := s.newReconciler(c).Reconcile(true)
	c.Assert(err, gc.ErrorMatches, "announcing presence: no relation")
	c.Check(result.Announced, jc.IsFalse)
}
